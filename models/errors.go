package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// DB related errors
var ErrIgnoreRollBackError = errors.New("ignore rollback error")

// Grading pass related errors
var (
	// ErrMalformedRubric rejects a rubric before any grading pass starts.
	ErrMalformedRubric = errors.Wrap(BadParameterError, "malformed rubric")

	// ErrPersonaFailure marks a single evaluator as unusable after retries; it never aborts the pass.
	ErrPersonaFailure = errors.New("persona evaluation failed")

	// ErrEmbeddingFailure degrades retrieval to an empty context; it never aborts the pass.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrConsensusUnavailable is returned when no persona survived: the pass aborts
	// and the submission is routed to manual grading. No score is fabricated.
	ErrConsensusUnavailable = errors.New("consensus unavailable: no usable evaluator opinion")

	// ErrExternalServiceUnavailable covers LMS sync and persistence outages; the grading
	// artifact is kept and the sync is retried, never discarded.
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
)

type FieldValidationError map[string]string

func (e FieldValidationError) Error() string {
	return fmt.Sprintf("%v", map[string]string(e))
}

// RubricValidationError carries the per-field detail of a rubric rejection.
// errors.Is(err, ErrMalformedRubric) and errors.Is(err, BadParameterError) both hold.
type RubricValidationError struct {
	Fields FieldValidationError
}

func (e RubricValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedRubric.Error(), e.Fields.Error())
}

func (e RubricValidationError) Unwrap() error {
	return ErrMalformedRubric
}
