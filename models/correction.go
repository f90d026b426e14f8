package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CorrectionRecord is a human-finalized grade: the institutional memory entry
// used to ground future grading passes. Records are append-only; the only
// removal path is an explicit administrative purge.
type CorrectionRecord struct {
	Id                uuid.UUID
	ConsensusResultId *uuid.UUID
	RubricId          uuid.UUID
	SubmissionContent string
	CorrectedScore    float64
	CorrectedFeedback string
	ContentHash       string
	Embedding         []float32
	CreatedAt         time.Time
}

type NewCorrectionRecord struct {
	ConsensusResultId *uuid.UUID
	RubricId          uuid.UUID
	SubmissionContent string
	CorrectedScore    float64
	CorrectedFeedback string
}

// CorrectionContentHash is the idempotence key of the memory store: writing
// the same (submission, grade, feedback) twice does not double-insert.
func CorrectionContentHash(submissionContent string, correctedScore float64, correctedFeedback string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%.4f|%s", submissionContent, correctedScore, correctedFeedback)
	return hex.EncodeToString(h.Sum(nil))
}

// RetrievedCorrection is a memory query hit: a correction plus its similarity
// to the query vector, in [-1, 1] for normalized embeddings.
type RetrievedCorrection struct {
	Record     CorrectionRecord
	Similarity float64
}
