package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/repositories/dbmodels"
)

func (r *GraderDbRepository) CreateCorrectionRecord(ctx context.Context, exec Executor, record models.CorrectionRecord) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_CORRECTION_RECORDS).
			Columns(
				"id",
				"consensus_result_id",
				"rubric_id",
				"submission_content",
				"corrected_score",
				"corrected_feedback",
				"content_hash",
				"embedding",
			).
			Values(
				record.Id,
				record.ConsensusResultId,
				record.RubricId,
				record.SubmissionContent,
				record.CorrectedScore,
				record.CorrectedFeedback,
				record.ContentHash,
				record.Embedding,
			),
	)
}

func (r *GraderDbRepository) GetCorrectionRecordByContentHash(
	ctx context.Context,
	exec Executor,
	contentHash string,
) (*models.CorrectionRecord, error) {
	return SqlToOptionalModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.CorrectionRecordFields...).
			From(dbmodels.TABLE_CORRECTION_RECORDS).
			Where(squirrel.Eq{"content_hash": contentHash}),
		dbmodels.AdaptCorrectionRecord,
	)
}

func (r *GraderDbRepository) GetCorrectionRecordById(
	ctx context.Context,
	exec Executor,
	recordId uuid.UUID,
) (models.CorrectionRecord, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.CorrectionRecordFields...).
			From(dbmodels.TABLE_CORRECTION_RECORDS).
			Where(squirrel.Eq{"id": recordId}),
		dbmodels.AdaptCorrectionRecord,
	)
}

// ListCorrectionRecords returns the whole institutional memory, oldest first,
// so that the in-memory index can be rebuilt in insertion order.
func (r *GraderDbRepository) ListCorrectionRecords(ctx context.Context, exec Executor) ([]models.CorrectionRecord, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.CorrectionRecordFields...).
			From(dbmodels.TABLE_CORRECTION_RECORDS).
			OrderBy("created_at ASC"),
		dbmodels.AdaptCorrectionRecord,
	)
}

func (r *GraderDbRepository) DeleteCorrectionRecord(ctx context.Context, exec Executor, recordId uuid.UUID) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Delete(dbmodels.TABLE_CORRECTION_RECORDS).
			Where(squirrel.Eq{"id": recordId}),
	)
}
