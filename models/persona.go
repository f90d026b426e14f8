package models

import (
	"time"

	"github.com/google/uuid"
)

// PersonaConfig is the runtime configuration of one grading evaluator.
// Personas share one evaluator implementation and differ only by configuration,
// so institutions can add or tune personas without new code paths.
type PersonaConfig struct {
	Key             string
	Name            string
	Model           string
	Strictness      float64
	Tone            string
	ConsumesSandbox bool
	MaxAttempts     int
}

func DefaultPersonaConfigs() []PersonaConfig {
	return []PersonaConfig{
		{Key: "strict", Name: "Strict examiner", Strictness: 0.9, Tone: "terse", MaxAttempts: 3, ConsumesSandbox: true},
		{Key: "lenient", Name: "Supportive mentor", Strictness: 0.3, Tone: "encouraging", MaxAttempts: 3, ConsumesSandbox: true},
		{Key: "rubric_literal", Name: "Rubric literalist", Strictness: 0.6, Tone: "neutral", MaxAttempts: 3, ConsumesSandbox: true},
	}
}

type CriterionScore struct {
	CriterionId string
	Score       int
}

// PersonaOpinion is one evaluator's output for one submission.
// Created fresh per evaluator per grading pass, never mutated afterwards.
type PersonaOpinion struct {
	Id           uuid.UUID
	PersonaKey   string
	OverallScore int
	Scores       []CriterionScore
	Justification string
	// Confidence is the evaluator's self-reported consistency indicator, in [0, 1].
	Confidence float64
	// SanityFlags records alignment repairs applied to the raw model output
	// (unknown criteria, clamped scores, recomputed total).
	SanityFlags []string
	CreatedAt   time.Time
}

// PersonaExclusion records a persona removed from aggregation after its
// retries were exhausted. Exclusions are persisted, never silently dropped.
type PersonaExclusion struct {
	PersonaKey string
	Reason     string
}
