package models

import (
	"github.com/google/uuid"
)

// run a full grading pass asynchronously
type GradingPassArgs struct {
	PassId       uuid.UUID `json:"pass_id"`
	SubmissionId uuid.UUID `json:"submission_id"`
	RubricId     uuid.UUID `json:"rubric_id"`
	// PersonaKeys restricts the pass to a subset of configured personas.
	// Empty means all of them.
	PersonaKeys []string `json:"persona_keys,omitempty"`
	// Language the feedback should be written in. Empty means English.
	Language string `json:"language,omitempty"`
}

func (GradingPassArgs) Kind() string { return "grading_pass" }

// push a finished grade to the LMS, retried with backoff
type LmsSyncArgs struct {
	ConsensusResultId uuid.UUID `json:"consensus_result_id"`
}

func (LmsSyncArgs) Kind() string { return "lms_sync" }
