package models

import (
	"github.com/google/uuid"
)

type SubmissionKind string

const (
	SubmissionKindText    SubmissionKind = "text"
	SubmissionKindCode    SubmissionKind = "code"
	SubmissionKindUnknown SubmissionKind = "unknown"
)

func SubmissionKindFromString(s string) SubmissionKind {
	switch s {
	case "text":
		return SubmissionKindText
	case "code":
		return SubmissionKindCode
	}
	return SubmissionKindUnknown
}

// Submission is immutable once it enters a grading pass.
type Submission struct {
	Id        uuid.UUID
	StudentId string
	Kind      SubmissionKind
	Content   string
	// Question and IdealAnswer give the evaluators the assignment context.
	Question    string
	IdealAnswer string
	// HarnessId selects the fixed test harness for code submissions.
	HarnessId string
}
