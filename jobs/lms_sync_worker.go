package jobs

import (
	"context"

	"github.com/riverqueue/river"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/usecases"
	"github.com/campuskit/grader-backend/utils"
)

// LmsSyncWorker pushes a finalized grade to the LMS. The push itself retries
// with backoff; if it still fails the job errors out and river schedules the
// next attempt, so a finished grade is never discarded.
type LmsSyncWorker struct {
	river.WorkerDefaults[models.LmsSyncArgs]

	usecases *usecases.Usecases
}

func NewLmsSyncWorker(uc *usecases.Usecases) *LmsSyncWorker {
	return &LmsSyncWorker{usecases: uc}
}

func (w *LmsSyncWorker) Work(ctx context.Context, job *river.Job[models.LmsSyncArgs]) error {
	logger := utils.LoggerFromContext(ctx)
	exec := w.usecases.NewExecutorFactory().NewExecutor()
	repository := w.usecases.Repositories.GraderDbRepository

	result, err := repository.GetConsensusResultById(ctx, exec, job.Args.ConsensusResultId)
	if err != nil {
		return err
	}
	if result.LmsSyncedAt != nil {
		logger.InfoContext(ctx, "Grade already synced to LMS", "consensus_result_id", result.Id)
		return nil
	}

	submission, err := repository.GetSubmissionById(ctx, exec, result.SubmissionId)
	if err != nil {
		return err
	}

	if err := w.usecases.Repositories.LmsRepository.PushGrade(ctx, submission, result); err != nil {
		return err
	}
	return repository.MarkConsensusResultLmsSynced(ctx, exec, result.Id)
}
