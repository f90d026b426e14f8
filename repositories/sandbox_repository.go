package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/pure_utils"
)

// SandboxRepository calls the external isolation host. The host runs the code
// against the assignment harness with no network, a scoped work directory and
// the requested resource ceilings, from a clean environment on every run.
type SandboxRepository struct {
	config infra.SandboxConfiguration
	client *http.Client
}

func NewSandboxRepository(config infra.SandboxConfiguration, client *http.Client) SandboxRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return SandboxRepository{config: config, client: client}
}

type sandboxHostRequest struct {
	Code           string  `json:"code"`
	HarnessId      string  `json:"harness_id"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	MemoryLimitMb  int     `json:"memory_limit_mb"`
	CpuLimit       float64 `json:"cpu_limit"`
}

type sandboxHostTest struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	DurationMs int64  `json:"duration_ms"`
	Output     string `json:"output"`
}

type sandboxHostResponse struct {
	Status     string            `json:"status"`
	Reason     string            `json:"reason"`
	DurationMs int64             `json:"duration_ms"`
	Stderr     string            `json:"stderr"`
	Tests      []sandboxHostTest `json:"tests"`
}

func (r SandboxRepository) Execute(ctx context.Context, request models.SandboxRequest) (models.SandboxResult, error) {
	body, err := json.Marshal(sandboxHostRequest{
		Code:           request.Code,
		HarnessId:      request.HarnessId,
		TimeoutSeconds: request.TimeoutSeconds,
		MemoryLimitMb:  request.MemoryLimitMb,
		CpuLimit:       request.CpuLimit,
	})
	if err != nil {
		return models.SandboxResult{}, errors.Wrap(err, "can't serialize sandbox request")
	}

	// The host enforces the wall-clock limit itself; the http deadline only
	// guards against an unresponsive host.
	httpTimeout := time.Duration(request.TimeoutSeconds)*time.Second + r.config.HostGracePeriod
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.BaseUrl+"/v1/executions", bytes.NewReader(body))
	if err != nil {
		return models.SandboxResult{}, errors.Wrap(err, "can't build sandbox request")
	}
	req.Header.Set("Content-Type", "application/json")
	if r.config.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.config.ApiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return models.SandboxResult{}, errors.Wrap(err, "sandbox host unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.SandboxResult{}, errors.Newf("sandbox host returned status %d", resp.StatusCode)
	}

	var parsed sandboxHostResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.SandboxResult{}, errors.Wrap(err, "can't decode sandbox response")
	}

	result := models.SandboxResult{
		Status:     models.SandboxStatus(parsed.Status),
		Reason:     parsed.Reason,
		DurationMs: parsed.DurationMs,
		Stderr:     parsed.Stderr,
		Tests: pure_utils.Map(parsed.Tests, func(t sandboxHostTest) models.SandboxTestResult {
			return models.SandboxTestResult{
				Name:       t.Name,
				Passed:     t.Passed,
				DurationMs: t.DurationMs,
				Output:     t.Output,
			}
		}),
	}

	switch result.Status {
	case models.SandboxStatusOk, models.SandboxStatusCompileError, models.SandboxStatusRuntimeError,
		models.SandboxStatusTimeout, models.SandboxStatusResourceLimit:
		return result, nil
	default:
		return models.SandboxResult{}, errors.Newf("sandbox host returned unknown status %q", parsed.Status)
	}
}
