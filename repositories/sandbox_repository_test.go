package repositories

import (
	"net/http"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/models"
)

func testSandboxRepository() SandboxRepository {
	return NewSandboxRepository(infra.SandboxConfiguration{
		BaseUrl:         "https://sandbox.test",
		ApiKey:          "test-key",
		HostGracePeriod: 5 * time.Second,
	}, nil)
}

func testSandboxRequest() models.SandboxRequest {
	return models.SandboxRequest{
		Code:           "def add(a, b):\n    return a + b\n",
		HarnessId:      "harness-7",
		TimeoutSeconds: 10,
		MemoryLimitMb:  256,
		CpuLimit:       1,
	}
}

func TestSandboxExecute_nominal(t *testing.T) {
	defer gock.Off()

	gock.New("https://sandbox.test").
		Post("/v1/executions").
		MatchHeader("Authorization", "Bearer test-key").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"status":      "ok",
			"duration_ms": 120,
			"tests": []map[string]any{
				{"name": "test_add", "passed": true, "duration_ms": 3},
				{"name": "test_add_negative", "passed": false, "duration_ms": 2, "output": "expected -1, got 1"},
			},
		})

	result, err := testSandboxRepository().Execute(t.Context(), testSandboxRequest())

	require.NoError(t, err)
	assert.Equal(t, models.SandboxStatusOk, result.Status)
	assert.Equal(t, int64(120), result.DurationMs)
	require.Len(t, result.Tests, 2)
	assert.Equal(t, 1, result.PassedCount())
	assert.Equal(t, "expected -1, got 1", result.Tests[1].Output)
}

func TestSandboxExecute_timeout_status(t *testing.T) {
	defer gock.Off()

	gock.New("https://sandbox.test").
		Post("/v1/executions").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"status": "timeout",
			"reason": "wall clock limit exceeded",
		})

	result, err := testSandboxRepository().Execute(t.Context(), testSandboxRequest())

	require.NoError(t, err)
	assert.Equal(t, models.SandboxStatusTimeout, result.Status)
	assert.Equal(t, "wall clock limit exceeded", result.Reason)
}

func TestSandboxExecute_unknown_status(t *testing.T) {
	defer gock.Off()

	gock.New("https://sandbox.test").
		Post("/v1/executions").
		Reply(http.StatusOK).
		JSON(map[string]any{"status": "exploded"})

	_, err := testSandboxRepository().Execute(t.Context(), testSandboxRequest())

	assert.ErrorContains(t, err, "unknown status")
}

func TestSandboxExecute_host_error(t *testing.T) {
	defer gock.Off()

	gock.New("https://sandbox.test").
		Post("/v1/executions").
		Reply(http.StatusBadGateway)

	_, err := testSandboxRepository().Execute(t.Context(), testSandboxRequest())

	assert.ErrorContains(t, err, "status 502")
}
