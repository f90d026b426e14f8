package jobs

import (
	"context"

	"github.com/riverqueue/river"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/usecases"
	"github.com/campuskit/grader-backend/utils"
)

type GradingPassWorker struct {
	river.WorkerDefaults[models.GradingPassArgs]

	usecases *usecases.Usecases
}

func NewGradingPassWorker(uc *usecases.Usecases) *GradingPassWorker {
	return &GradingPassWorker{usecases: uc}
}

func (w *GradingPassWorker) Work(ctx context.Context, job *river.Job[models.GradingPassArgs]) error {
	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Running grading pass job",
		"pass_id", job.Args.PassId, "submission_id", job.Args.SubmissionId)

	usecase := w.usecases.NewConsensusUsecase()
	_, err := usecase.ExecuteGradingPass(ctx, job.Args)
	return err
}
