package dbmodels

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/utils"
)

type DbSubmission struct {
	Id          uuid.UUID `db:"id"`
	StudentId   string    `db:"student_id"`
	Kind        string    `db:"kind"`
	Content     string    `db:"content"`
	Question    string    `db:"question"`
	IdealAnswer string    `db:"ideal_answer"`
	HarnessId   string    `db:"harness_id"`
	CreatedAt   time.Time `db:"created_at"`
}

const TABLE_SUBMISSIONS = "submissions"

var SubmissionFields = utils.ColumnList[DbSubmission]()

func AdaptSubmission(db DbSubmission) (models.Submission, error) {
	return models.Submission{
		Id:          db.Id,
		StudentId:   db.StudentId,
		Kind:        models.SubmissionKindFromString(db.Kind),
		Content:     db.Content,
		Question:    db.Question,
		IdealAnswer: db.IdealAnswer,
		HarnessId:   db.HarnessId,
	}, nil
}
