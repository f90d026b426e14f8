package models

import (
	"time"

	"github.com/google/uuid"
)

type ReviewReason string

const (
	ReviewReasonHighDisagreement     ReviewReason = "high_disagreement"
	ReviewReasonInsufficientPersonas ReviewReason = "insufficient_personas"
	ReviewReasonLowConfidence        ReviewReason = "low_confidence"
	ReviewReasonManualGrading        ReviewReason = "manual_grading"
)

type CriterionConsensus struct {
	CriterionId string
	Score       float64
	MaxPoints   int
}

// ConsensusResult is the aggregated outcome of one grading pass. It is
// read-only once produced: a human correction supersedes it for presentation
// but the original stands as an audit artifact.
type ConsensusResult struct {
	Id           uuid.UUID
	SubmissionId uuid.UUID
	RubricId     uuid.UUID

	OverallScore    float64
	MaxTotal        int
	CriterionScores []CriterionConsensus

	// Disagreement is the population standard deviation of the surviving
	// personas' overall scores. Zero when a single persona survived.
	Disagreement   float64
	RequiresReview bool
	ReviewReasons  []ReviewReason

	Feedback   string
	Opinions   []PersonaOpinion
	Exclusions []PersonaExclusion
	Sandbox    *SandboxResult

	LmsSyncedAt *time.Time
	CreatedAt   time.Time
}

func NewConsensusResult(passId uuid.UUID, submissionId uuid.UUID, rubricId uuid.UUID) ConsensusResult {
	id := passId
	if id == uuid.Nil {
		id = uuid.New()
	}
	return ConsensusResult{
		Id:           id,
		SubmissionId: submissionId,
		RubricId:     rubricId,
		CreatedAt:    time.Now(),
	}
}
