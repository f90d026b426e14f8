package grading

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/repositories"
	"github.com/campuskit/grader-backend/usecases/executor_factory"
	"github.com/campuskit/grader-backend/utils"
)

const MAX_CONCURRENT_PERSONA_EVALUATIONS = 4

type gradingRepository interface {
	CreateSubmission(ctx context.Context, exec repositories.Executor, submission models.Submission) error
	GetSubmissionById(ctx context.Context, exec repositories.Executor, submissionId uuid.UUID) (models.Submission, error)
	CreateRubric(ctx context.Context, exec repositories.Executor, rubric models.Rubric) error
	GetRubricById(ctx context.Context, exec repositories.Executor, rubricId uuid.UUID) (models.Rubric, error)
	ListPersonaConfigs(ctx context.Context, exec repositories.Executor) ([]models.PersonaConfig, error)
	CreateConsensusResult(ctx context.Context, exec repositories.Executor, result models.ConsensusResult) error
	GetConsensusResultById(ctx context.Context, exec repositories.Executor, resultId uuid.UUID) (models.ConsensusResult, error)
}

type memoryReader interface {
	Query(ctx context.Context, content string, k int) ([]models.RetrievedCorrection, error)
}

type submissionSandbox interface {
	Run(ctx context.Context, submission models.Submission) models.SandboxResult
}

type personaEvaluator interface {
	Evaluate(ctx context.Context, persona models.PersonaConfig,
		gradingContext GradingContext) (models.PersonaOpinion, error)
}

type gradingTaskEnqueuer interface {
	EnqueueGradingPassTask(ctx context.Context, tx repositories.Transaction, args models.GradingPassArgs) error
	EnqueueLmsSyncTask(ctx context.Context, tx repositories.Transaction, args models.LmsSyncArgs) error
}

// ConsensusPolicy holds the aggregation thresholds of a grading pass.
type ConsensusPolicy struct {
	// ExemplarCount is how many verified corrections are retrieved as
	// grading context.
	ExemplarCount int
	// DisagreementThreshold is the population standard deviation of overall
	// scores above which a pass is flagged for review.
	DisagreementThreshold float64
	// MinimumSurvivors is the smallest number of surviving personas for an
	// unflagged consensus.
	MinimumSurvivors int
	// ConfidenceFloor flags the pass when any surviving persona reports a
	// confidence below it.
	ConfidenceFloor float64
}

func DefaultConsensusPolicy() ConsensusPolicy {
	return ConsensusPolicy{
		ExemplarCount:         3,
		DisagreementThreshold: 1.5,
		MinimumSurvivors:      2,
		ConfidenceFloor:       0.25,
	}
}

// ConsensusUsecase orchestrates one grading pass: retrieval context, optional
// sandbox run, persona fan-out, aggregation and persistence.
type ConsensusUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         gradingRepository
	memory             memoryReader
	sandbox            submissionSandbox
	evaluator          personaEvaluator
	taskQueue          gradingTaskEnqueuer
	policy             ConsensusPolicy
}

func NewConsensusUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository gradingRepository,
	memory memoryReader,
	sandbox submissionSandbox,
	evaluator personaEvaluator,
	taskQueue gradingTaskEnqueuer,
	policy ConsensusPolicy,
) ConsensusUsecase {
	return ConsensusUsecase{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
		memory:             memory,
		sandbox:            sandbox,
		evaluator:          evaluator,
		taskQueue:          taskQueue,
		policy:             policy,
	}
}

// CreateGradingPass validates and persists the submission and rubric, then
// either runs the pass synchronously or enqueues it. The returned id
// identifies the pass and its eventual ConsensusResult.
func (uc ConsensusUsecase) CreateGradingPass(
	ctx context.Context,
	submission models.Submission,
	rubric models.Rubric,
	personaKeys []string,
	language string,
	async bool,
) (uuid.UUID, *models.ConsensusResult, error) {
	if err := rubric.Validate(); err != nil {
		return uuid.Nil, nil, err
	}
	if submission.Content == "" {
		return uuid.Nil, nil, errors.Wrap(models.BadParameterError, "submission content is required")
	}
	if async && uc.taskQueue == nil {
		return uuid.Nil, nil, errors.Wrap(models.BadParameterError, "asynchronous grading is not available")
	}

	if submission.Id == uuid.Nil {
		submission.Id = uuid.New()
	}
	if rubric.Id == uuid.Nil {
		rubric.Id = uuid.New()
	}
	passId := uuid.New()

	err := uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := uc.repository.CreateSubmission(ctx, tx, submission); err != nil {
			return err
		}
		if err := uc.repository.CreateRubric(ctx, tx, rubric); err != nil {
			return err
		}
		if async {
			return uc.taskQueue.EnqueueGradingPassTask(ctx, tx, models.GradingPassArgs{
				PassId:       passId,
				SubmissionId: submission.Id,
				RubricId:     rubric.Id,
				PersonaKeys:  personaKeys,
				Language:     language,
			})
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, nil, err
	}

	if async {
		return passId, nil, nil
	}

	result, err := uc.ExecuteGradingPass(ctx, models.GradingPassArgs{
		PassId:       passId,
		SubmissionId: submission.Id,
		RubricId:     rubric.Id,
		PersonaKeys:  personaKeys,
		Language:     language,
	})
	if err != nil {
		return uuid.Nil, nil, err
	}
	return passId, &result, nil
}

// ExecuteGradingPass runs the full pipeline for an already persisted
// submission and rubric. A cancelled context aborts before anything is
// written; no partial result is ever stored.
func (uc ConsensusUsecase) ExecuteGradingPass(ctx context.Context, args models.GradingPassArgs) (models.ConsensusResult, error) {
	logger := utils.LoggerFromContext(ctx)
	exec := uc.executorFactory.NewExecutor()

	submission, err := uc.repository.GetSubmissionById(ctx, exec, args.SubmissionId)
	if err != nil {
		return models.ConsensusResult{}, err
	}
	rubric, err := uc.repository.GetRubricById(ctx, exec, args.RubricId)
	if err != nil {
		return models.ConsensusResult{}, err
	}

	personas, err := uc.selectPersonas(ctx, exec, args.PersonaKeys)
	if err != nil {
		return models.ConsensusResult{}, err
	}

	// Retrieval context is best effort: an embedding outage degrades the
	// pass to ungrounded grading instead of failing it.
	exemplars, err := uc.memory.Query(ctx, submission.Content, uc.policy.ExemplarCount)
	if err != nil {
		if !errors.Is(err, models.ErrEmbeddingFailure) {
			return models.ConsensusResult{}, err
		}
		logger.WarnContext(ctx, "Memory retrieval unavailable, grading without exemplars",
			"submission_id", submission.Id, "error", err.Error())
		exemplars = nil
	}

	// The sandbox runs once, ahead of the fan-out, so every persona sees the
	// same execution evidence.
	var sandboxResult *models.SandboxResult
	if submission.Kind == models.SubmissionKindCode {
		sandboxResult = utils.Ptr(uc.sandbox.Run(ctx, submission))
	}

	language := args.Language
	if language == "" {
		language = "English"
	}

	gradingContext := GradingContext{
		Submission: submission,
		Rubric:     rubric,
		Exemplars:  exemplars,
		Sandbox:    sandboxResult,
		Language:   language,
	}

	opinions := make([]*models.PersonaOpinion, len(personas))
	exclusions := make([]*models.PersonaExclusion, len(personas))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(MAX_CONCURRENT_PERSONA_EVALUATIONS)

	for i, persona := range personas {
		group.Go(func() error {
			// return early if ctx is done
			select {
			case <-groupCtx.Done():
				return errors.Wrapf(groupCtx.Err(),
					"context cancelled before evaluating persona %s", persona.Key)
			default:
			}

			opinion, err := uc.evaluator.Evaluate(groupCtx, persona, gradingContext)
			if err != nil {
				// A failed persona is excluded, never silently dropped, and
				// never takes the other personas down with it.
				logger.WarnContext(groupCtx, "Persona evaluation failed",
					"persona", persona.Key, "error", err.Error())
				exclusions[i] = &models.PersonaExclusion{PersonaKey: persona.Key, Reason: err.Error()}
				return nil
			}
			opinions[i] = &opinion
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return models.ConsensusResult{}, err
	}

	survivors := make([]models.PersonaOpinion, 0, len(personas))
	for _, opinion := range opinions {
		if opinion != nil {
			survivors = append(survivors, *opinion)
		}
	}
	excluded := make([]models.PersonaExclusion, 0, len(personas))
	for _, exclusion := range exclusions {
		if exclusion != nil {
			excluded = append(excluded, *exclusion)
		}
	}

	if len(survivors) == 0 {
		return models.ConsensusResult{}, errors.Wrapf(models.ErrConsensusUnavailable,
			"all %d personas failed for submission %s", len(personas), submission.Id)
	}

	result := models.NewConsensusResult(args.PassId, submission.Id, rubric.Id)
	result.MaxTotal = rubric.MaxTotal
	result.Opinions = survivors
	result.Exclusions = excluded
	result.Sandbox = sandboxResult
	result.OverallScore, result.CriterionScores, result.Disagreement = aggregateOpinions(rubric, survivors)
	result.ReviewReasons = uc.reviewReasons(survivors, result.Disagreement)
	result.RequiresReview = len(result.ReviewReasons) > 0
	result.Feedback = buildFeedback(rubric, result, personaDisplayNames(personas))

	err = uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := uc.repository.CreateConsensusResult(ctx, tx, result); err != nil {
			return err
		}
		if uc.taskQueue != nil {
			return uc.taskQueue.EnqueueLmsSyncTask(ctx, tx, models.LmsSyncArgs{ConsensusResultId: result.Id})
		}
		return nil
	})
	if err != nil {
		return models.ConsensusResult{}, err
	}

	logger.InfoContext(ctx, "Grading pass completed",
		"pass_id", result.Id,
		"submission_id", submission.Id,
		"overall_score", result.OverallScore,
		"disagreement", result.Disagreement,
		"requires_review", result.RequiresReview,
		"survivors", len(survivors),
		"exclusions", len(excluded))
	return result, nil
}

func (uc ConsensusUsecase) GetConsensusResult(ctx context.Context, resultId uuid.UUID) (models.ConsensusResult, error) {
	return uc.repository.GetConsensusResultById(ctx, uc.executorFactory.NewExecutor(), resultId)
}

func (uc ConsensusUsecase) selectPersonas(
	ctx context.Context,
	exec repositories.Executor,
	personaKeys []string,
) ([]models.PersonaConfig, error) {
	personas, err := uc.repository.ListPersonaConfigs(ctx, exec)
	if err != nil {
		return nil, err
	}
	if len(personas) == 0 {
		personas = models.DefaultPersonaConfigs()
	}
	if len(personaKeys) == 0 {
		return personas, nil
	}

	selected := make([]models.PersonaConfig, 0, len(personaKeys))
	for _, key := range personaKeys {
		idx := slices.IndexFunc(personas, func(p models.PersonaConfig) bool { return p.Key == key })
		if idx < 0 {
			return nil, errors.Wrap(models.BadParameterError,
				fmt.Sprintf("unknown persona key '%s'", key))
		}
		selected = append(selected, personas[idx])
	}
	return selected, nil
}

func (uc ConsensusUsecase) reviewReasons(survivors []models.PersonaOpinion, disagreement float64) []models.ReviewReason {
	var reasons []models.ReviewReason
	if disagreement > uc.policy.DisagreementThreshold {
		reasons = append(reasons, models.ReviewReasonHighDisagreement)
	}
	if len(survivors) < uc.policy.MinimumSurvivors {
		reasons = append(reasons, models.ReviewReasonInsufficientPersonas)
	}
	for _, opinion := range survivors {
		if opinion.Confidence < uc.policy.ConfidenceFloor {
			reasons = append(reasons, models.ReviewReasonLowConfidence)
			break
		}
	}
	return reasons
}

// aggregateOpinions computes the mean overall and per-criterion scores and
// the population standard deviation of the overall scores. A single survivor
// yields a disagreement of zero.
func aggregateOpinions(rubric models.Rubric, opinions []models.PersonaOpinion) (
	overall float64, criteria []models.CriterionConsensus, disagreement float64,
) {
	n := float64(len(opinions))

	for _, opinion := range opinions {
		overall += float64(opinion.OverallScore)
	}
	overall /= n

	var variance float64
	for _, opinion := range opinions {
		deviation := float64(opinion.OverallScore) - overall
		variance += deviation * deviation
	}
	disagreement = math.Sqrt(variance / n)

	criteria = make([]models.CriterionConsensus, 0, len(rubric.Criteria))
	for _, criterion := range rubric.Criteria {
		var sum float64
		for _, opinion := range opinions {
			idx := slices.IndexFunc(opinion.Scores, func(s models.CriterionScore) bool {
				return s.CriterionId == criterion.Id
			})
			if idx >= 0 {
				sum += float64(opinion.Scores[idx].Score)
			}
		}
		criteria = append(criteria, models.CriterionConsensus{
			CriterionId: criterion.Id,
			Score:       sum / n,
			MaxPoints:   criterion.MaxPoints,
		})
	}
	return overall, criteria, disagreement
}

func personaDisplayNames(personas []models.PersonaConfig) map[string]string {
	names := make(map[string]string, len(personas))
	for _, persona := range personas {
		names[persona.Key] = persona.Name
	}
	return names
}
