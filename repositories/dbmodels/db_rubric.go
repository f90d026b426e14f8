package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/utils"
)

type DbRubric struct {
	Id           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	ScoringScale string    `db:"scoring_scale"`
	MaxTotal     int       `db:"max_total"`
	Criteria     []byte    `db:"criteria"`
	CreatedAt    time.Time `db:"created_at"`
}

const TABLE_RUBRICS = "rubrics"

var RubricFields = utils.ColumnList[DbRubric]()

type dbRubricCriterion struct {
	Id          string `json:"id"`
	Description string `json:"description"`
	MaxPoints   int    `json:"max_points"`
}

func AdaptRubric(db DbRubric) (models.Rubric, error) {
	var criteria []dbRubricCriterion
	if err := json.Unmarshal(db.Criteria, &criteria); err != nil {
		return models.Rubric{}, errors.Wrap(err, "can't decode rubric criteria")
	}

	rubric := models.Rubric{
		Id:           db.Id,
		Name:         db.Name,
		ScoringScale: db.ScoringScale,
		MaxTotal:     db.MaxTotal,
		Criteria:     make([]models.RubricCriterion, len(criteria)),
	}
	for i, criterion := range criteria {
		rubric.Criteria[i] = models.RubricCriterion{
			Id:          criterion.Id,
			Description: criterion.Description,
			MaxPoints:   criterion.MaxPoints,
		}
	}
	return rubric, nil
}

func SerializeRubricCriteria(criteria []models.RubricCriterion) ([]byte, error) {
	out := make([]dbRubricCriterion, len(criteria))
	for i, criterion := range criteria {
		out[i] = dbRubricCriterion{
			Id:          criterion.Id,
			Description: criterion.Description,
			MaxPoints:   criterion.MaxPoints,
		}
	}
	return json.Marshal(out)
}
