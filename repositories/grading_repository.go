package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/repositories/dbmodels"
)

// GraderDbRepository groups all queries against the grader application database.
type GraderDbRepository struct{}

func (r *GraderDbRepository) CreateSubmission(ctx context.Context, exec Executor, submission models.Submission) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_SUBMISSIONS).
			Columns(
				"id",
				"student_id",
				"kind",
				"content",
				"question",
				"ideal_answer",
				"harness_id",
			).
			Values(
				submission.Id,
				submission.StudentId,
				string(submission.Kind),
				submission.Content,
				submission.Question,
				submission.IdealAnswer,
				submission.HarnessId,
			),
	)
}

func (r *GraderDbRepository) GetSubmissionById(ctx context.Context, exec Executor, submissionId uuid.UUID) (models.Submission, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SubmissionFields...).
			From(dbmodels.TABLE_SUBMISSIONS).
			Where(squirrel.Eq{"id": submissionId}),
		dbmodels.AdaptSubmission,
	)
}

func (r *GraderDbRepository) CreateRubric(ctx context.Context, exec Executor, rubric models.Rubric) error {
	criteria, err := dbmodels.SerializeRubricCriteria(rubric.Criteria)
	if err != nil {
		return errors.Wrap(err, "can't serialize rubric criteria")
	}

	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_RUBRICS).
			Columns(
				"id",
				"name",
				"scoring_scale",
				"max_total",
				"criteria",
			).
			Values(
				rubric.Id,
				rubric.Name,
				rubric.ScoringScale,
				rubric.MaxTotal,
				criteria,
			),
	)
}

func (r *GraderDbRepository) GetRubricById(ctx context.Context, exec Executor, rubricId uuid.UUID) (models.Rubric, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.RubricFields...).
			From(dbmodels.TABLE_RUBRICS).
			Where(squirrel.Eq{"id": rubricId}),
		dbmodels.AdaptRubric,
	)
}

// CreatePersonaConfig inserts a persona configuration, leaving any existing
// row with the same key untouched. Used to seed the default personas.
func (r *GraderDbRepository) CreatePersonaConfig(ctx context.Context, exec Executor, config models.PersonaConfig) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_PERSONA_CONFIGS).
			Columns(
				"key",
				"name",
				"model",
				"strictness",
				"tone",
				"consumes_sandbox",
				"max_attempts",
			).
			Values(
				config.Key,
				config.Name,
				config.Model,
				config.Strictness,
				config.Tone,
				config.ConsumesSandbox,
				config.MaxAttempts,
			).
			Suffix("ON CONFLICT (key) DO NOTHING"),
	)
}

func (r *GraderDbRepository) ListPersonaConfigs(ctx context.Context, exec Executor) ([]models.PersonaConfig, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.PersonaConfigFields...).
			From(dbmodels.TABLE_PERSONA_CONFIGS).
			OrderBy("key"),
		dbmodels.AdaptPersonaConfig,
	)
}
