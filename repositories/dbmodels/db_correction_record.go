package dbmodels

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/utils"
)

type DbCorrectionRecord struct {
	Id                uuid.UUID  `db:"id"`
	ConsensusResultId *uuid.UUID `db:"consensus_result_id"`
	RubricId          uuid.UUID  `db:"rubric_id"`
	SubmissionContent string     `db:"submission_content"`
	CorrectedScore    float64    `db:"corrected_score"`
	CorrectedFeedback string     `db:"corrected_feedback"`
	ContentHash       string     `db:"content_hash"`
	Embedding         []float32  `db:"embedding"`
	CreatedAt         time.Time  `db:"created_at"`
}

const TABLE_CORRECTION_RECORDS = "correction_records"

var CorrectionRecordFields = utils.ColumnList[DbCorrectionRecord]()

func AdaptCorrectionRecord(db DbCorrectionRecord) (models.CorrectionRecord, error) {
	return models.CorrectionRecord{
		Id:                db.Id,
		ConsensusResultId: db.ConsensusResultId,
		RubricId:          db.RubricId,
		SubmissionContent: db.SubmissionContent,
		CorrectedScore:    db.CorrectedScore,
		CorrectedFeedback: db.CorrectedFeedback,
		ContentHash:       db.ContentHash,
		Embedding:         db.Embedding,
		CreatedAt:         db.CreatedAt,
	}, nil
}
