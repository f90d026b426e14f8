package dto

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
}

type ErrorCode string

const (
	// grading pass related
	MalformedRubric      ErrorCode = "malformed_rubric"
	ConsensusUnavailable ErrorCode = "consensus_unavailable"

	// external dependencies
	EmbeddingUnavailable ErrorCode = "embedding_service_unavailable"
	LmsUnavailable       ErrorCode = "lms_unavailable"
)
