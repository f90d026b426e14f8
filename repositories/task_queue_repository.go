package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/utils"
)

type TaskQueueRepository interface {
	EnqueueGradingPassTask(ctx context.Context, tx Transaction, args models.GradingPassArgs) error
	EnqueueLmsSyncTask(ctx context.Context, tx Transaction, args models.LmsSyncArgs) error
}

type riverRepository struct {
	client *river.Client[pgx.Tx]
}

func NewTaskQueueRepository(client *river.Client[pgx.Tx]) TaskQueueRepository {
	return riverRepository{client: client}
}

func (r riverRepository) EnqueueGradingPassTask(ctx context.Context, tx Transaction, args models.GradingPassArgs) error {
	res, err := r.client.InsertTx(ctx, tx.RawTx(), args, nil)
	if err != nil {
		return err
	}

	logger := utils.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Enqueued grading pass task", "job_id", res.Job.ID, "pass_id", args.PassId)
	return nil
}

func (r riverRepository) EnqueueLmsSyncTask(ctx context.Context, tx Transaction, args models.LmsSyncArgs) error {
	res, err := r.client.InsertTx(ctx, tx.RawTx(), args, nil)
	if err != nil {
		return err
	}

	logger := utils.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Enqueued LMS sync task", "job_id", res.Job.ID, "consensus_result_id", args.ConsensusResultId)
	return nil
}
