package sandboxexec

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
)

type runnerStub struct {
	request models.SandboxRequest
	result  models.SandboxResult
	err     error
}

func (s *runnerStub) Execute(ctx context.Context, request models.SandboxRequest) (models.SandboxResult, error) {
	s.request = request
	return s.result, s.err
}

func TestSandboxRun_applies_configured_limits(t *testing.T) {
	runner := &runnerStub{result: models.SandboxResult{Status: models.SandboxStatusOk}}
	uc := NewSandboxUsecase(runner, infra.SandboxConfiguration{
		TimeoutSeconds: 10,
		MemoryLimitMb:  256,
		CpuLimit:       1,
	})

	submission := models.Submission{
		Kind:      models.SubmissionKindCode,
		Content:   "def add(a, b):\n    return a + b\n",
		HarnessId: "harness-7",
	}
	result := uc.Run(context.Background(), submission)

	assert.Equal(t, models.SandboxStatusOk, result.Status)
	assert.Equal(t, submission.Content, runner.request.Code)
	assert.Equal(t, "harness-7", runner.request.HarnessId)
	assert.Equal(t, 10, runner.request.TimeoutSeconds)
	assert.Equal(t, 256, runner.request.MemoryLimitMb)
	assert.Equal(t, 1.0, runner.request.CpuLimit)
}

func TestSandboxRun_host_failure_never_aborts(t *testing.T) {
	runner := &runnerStub{err: errors.New("sandbox host unreachable")}
	uc := NewSandboxUsecase(runner, infra.SandboxConfiguration{})

	result := uc.Run(context.Background(), models.Submission{Kind: models.SubmissionKindCode})

	assert.Equal(t, models.SandboxStatusUnavailable, result.Status)
	assert.Equal(t, "sandbox host unreachable", result.Reason)
	assert.Zero(t, result.PassedCount())
}
