package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/pure_utils"
	"github.com/campuskit/grader-backend/repositories/dbmodels"
)

// CreateConsensusResult persists the result and its persona opinion audit
// trail. The row is immutable afterwards, only lms_synced_at is ever set.
func (r *GraderDbRepository) CreateConsensusResult(ctx context.Context, exec Executor, result models.ConsensusResult) error {
	criterionScores, err := dbmodels.SerializeCriterionScores(result.CriterionScores)
	if err != nil {
		return errors.Wrap(err, "can't serialize criterion scores")
	}
	exclusions, err := dbmodels.SerializeExclusions(result.Exclusions)
	if err != nil {
		return errors.Wrap(err, "can't serialize persona exclusions")
	}
	var sandbox []byte
	if result.Sandbox != nil {
		sandbox, err = dbmodels.SerializeSandboxResult(*result.Sandbox)
		if err != nil {
			return errors.Wrap(err, "can't serialize sandbox result")
		}
	}

	err = ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_CONSENSUS_RESULTS).
			Columns(
				"id",
				"submission_id",
				"rubric_id",
				"overall_score",
				"max_total",
				"criterion_scores",
				"disagreement",
				"requires_review",
				"review_reasons",
				"feedback",
				"exclusions",
				"sandbox",
			).
			Values(
				result.Id,
				result.SubmissionId,
				result.RubricId,
				result.OverallScore,
				result.MaxTotal,
				criterionScores,
				result.Disagreement,
				result.RequiresReview,
				pure_utils.Map(result.ReviewReasons, func(r models.ReviewReason) string { return string(r) }),
				result.Feedback,
				exclusions,
				sandbox,
			),
	)
	if err != nil {
		return err
	}

	for _, opinion := range result.Opinions {
		if err := r.createPersonaOpinion(ctx, exec, result.Id, opinion); err != nil {
			return err
		}
	}
	return nil
}

func (r *GraderDbRepository) createPersonaOpinion(
	ctx context.Context,
	exec Executor,
	consensusResultId uuid.UUID,
	opinion models.PersonaOpinion,
) error {
	scores, err := dbmodels.SerializeCriterionScoreList(opinion.Scores)
	if err != nil {
		return errors.Wrap(err, "can't serialize persona criterion scores")
	}

	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_PERSONA_OPINIONS).
			Columns(
				"id",
				"consensus_result_id",
				"persona_key",
				"overall_score",
				"scores",
				"justification",
				"confidence",
				"sanity_flags",
			).
			Values(
				opinion.Id,
				consensusResultId,
				opinion.PersonaKey,
				opinion.OverallScore,
				scores,
				opinion.Justification,
				opinion.Confidence,
				opinion.SanityFlags,
			),
	)
}

func (r *GraderDbRepository) GetConsensusResultById(ctx context.Context, exec Executor, resultId uuid.UUID) (models.ConsensusResult, error) {
	result, err := SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.ConsensusResultFields...).
			From(dbmodels.TABLE_CONSENSUS_RESULTS).
			Where(squirrel.Eq{"id": resultId}),
		dbmodels.AdaptConsensusResult,
	)
	if err != nil {
		return models.ConsensusResult{}, err
	}

	result.Opinions, err = SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.PersonaOpinionFields...).
			From(dbmodels.TABLE_PERSONA_OPINIONS).
			Where(squirrel.Eq{"consensus_result_id": resultId}).
			OrderBy("persona_key"),
		dbmodels.AdaptPersonaOpinion,
	)
	return result, err
}

func (r *GraderDbRepository) MarkConsensusResultLmsSynced(ctx context.Context, exec Executor, resultId uuid.UUID) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(dbmodels.TABLE_CONSENSUS_RESULTS).
			Set("lms_synced_at", time.Now()).
			Where(squirrel.Eq{"id": resultId}),
	)
}
