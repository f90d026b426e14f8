package sandboxexec

import (
	"context"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/utils"
)

type sandboxRunner interface {
	Execute(ctx context.Context, request models.SandboxRequest) (models.SandboxResult, error)
}

// SandboxUsecase runs a code submission against its assignment harness on the
// isolation host. Every failure mode, including an unreachable host, is folded
// into the returned result; a sandbox run never aborts a grading pass.
type SandboxUsecase struct {
	runner sandboxRunner
	config infra.SandboxConfiguration
}

func NewSandboxUsecase(runner sandboxRunner, config infra.SandboxConfiguration) SandboxUsecase {
	return SandboxUsecase{
		runner: runner,
		config: config,
	}
}

func (uc SandboxUsecase) Run(ctx context.Context, submission models.Submission) models.SandboxResult {
	result, err := uc.runner.Execute(ctx, models.SandboxRequest{
		Code:           submission.Content,
		HarnessId:      submission.HarnessId,
		TimeoutSeconds: uc.config.TimeoutSeconds,
		MemoryLimitMb:  uc.config.MemoryLimitMb,
		CpuLimit:       uc.config.CpuLimit,
	})
	if err != nil {
		logger := utils.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "Sandbox execution unavailable",
			"submission_id", submission.Id, "error", err.Error())
		return models.AllTestsFailed(models.SandboxStatusUnavailable, err.Error(), nil)
	}
	return result
}
