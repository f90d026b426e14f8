package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
)

type CreateCorrectionBody struct {
	ConsensusResultId *uuid.UUID `json:"consensus_result_id"`
	RubricId          uuid.UUID  `json:"rubric_id" binding:"required"`
	SubmissionContent string     `json:"submission_content" binding:"required"`
	CorrectedScore    float64    `json:"corrected_score"`
	CorrectedFeedback string     `json:"corrected_feedback" binding:"required"`
}

func AdaptNewCorrectionRecord(body CreateCorrectionBody) models.NewCorrectionRecord {
	return models.NewCorrectionRecord{
		ConsensusResultId: body.ConsensusResultId,
		RubricId:          body.RubricId,
		SubmissionContent: body.SubmissionContent,
		CorrectedScore:    body.CorrectedScore,
		CorrectedFeedback: body.CorrectedFeedback,
	}
}

type CorrectionRecordDto struct {
	Id                uuid.UUID  `json:"id"`
	ConsensusResultId *uuid.UUID `json:"consensus_result_id,omitempty"`
	RubricId          uuid.UUID  `json:"rubric_id"`
	SubmissionContent string     `json:"submission_content"`
	CorrectedScore    float64    `json:"corrected_score"`
	CorrectedFeedback string     `json:"corrected_feedback"`
	ContentHash       string     `json:"content_hash"`
	CreatedAt         time.Time  `json:"created_at"`
}

func AdaptCorrectionRecordDto(record models.CorrectionRecord) CorrectionRecordDto {
	return CorrectionRecordDto{
		Id:                record.Id,
		ConsensusResultId: record.ConsensusResultId,
		RubricId:          record.RubricId,
		SubmissionContent: record.SubmissionContent,
		CorrectedScore:    record.CorrectedScore,
		CorrectedFeedback: record.CorrectedFeedback,
		ContentHash:       record.ContentHash,
		CreatedAt:         record.CreatedAt,
	}
}

type RetrievedCorrectionDto struct {
	Record     CorrectionRecordDto `json:"record"`
	Similarity float64             `json:"similarity"`
}

func AdaptRetrievedCorrectionDto(hit models.RetrievedCorrection) RetrievedCorrectionDto {
	return RetrievedCorrectionDto{
		Record:     AdaptCorrectionRecordDto(hit.Record),
		Similarity: hit.Similarity,
	}
}
