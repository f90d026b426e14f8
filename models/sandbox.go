package models

// SandboxStatus is the outcome class of one isolated execution.
// Every failure mode is captured in the result; none aborts a grading pass.
type SandboxStatus string

const (
	SandboxStatusOk            SandboxStatus = "ok"
	SandboxStatusCompileError  SandboxStatus = "compile_error"
	SandboxStatusRuntimeError  SandboxStatus = "runtime_error"
	SandboxStatusTimeout       SandboxStatus = "timeout"
	SandboxStatusResourceLimit SandboxStatus = "resource_limit"
	SandboxStatusUnavailable   SandboxStatus = "unavailable"
)

// SandboxRequest is sent to the external isolation host. The host guarantees
// a clean, identical environment per run: no network, no filesystem beyond a
// scoped work directory, and the limits below.
type SandboxRequest struct {
	Code           string
	HarnessId      string
	TimeoutSeconds int
	MemoryLimitMb  int
	CpuLimit       float64
}

type SandboxTestResult struct {
	Name       string
	Passed     bool
	DurationMs int64
	Output     string
}

// SandboxResult is owned by the sandbox execution only until it is merged
// into the persona opinions of the grading pass.
type SandboxResult struct {
	Status     SandboxStatus
	Reason     string
	Tests      []SandboxTestResult
	DurationMs int64
	Stderr     string
}

func (r SandboxResult) PassedCount() int {
	count := 0
	for _, test := range r.Tests {
		if test.Passed {
			count++
		}
	}
	return count
}

// AllTestsFailed builds the result for executions that never produced per-test
// outcomes: timeout and resource-limit violations fail every harness test.
func AllTestsFailed(status SandboxStatus, reason string, testNames []string) SandboxResult {
	tests := make([]SandboxTestResult, len(testNames))
	for i, name := range testNames {
		tests[i] = SandboxTestResult{Name: name, Passed: false}
	}
	return SandboxResult{
		Status: status,
		Reason: reason,
		Tests:  tests,
	}
}
