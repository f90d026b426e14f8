package models

import (
	"fmt"

	"github.com/google/uuid"
)

type RubricCriterion struct {
	Id          string
	Description string
	MaxPoints   int
}

type Rubric struct {
	Id           uuid.UUID
	Name         string
	ScoringScale string
	MaxTotal     int
	Criteria     []RubricCriterion
}

// Validate structurally checks the rubric before it enters a grading pass.
// It is side-effect free and returns a RubricValidationError naming every
// offending criterion or field, so the caller can reject the whole rubric at once.
func (r Rubric) Validate() error {
	fieldErrors := FieldValidationError{}

	if len(r.Criteria) == 0 {
		fieldErrors["criteria"] = "rubric has no criteria"
	}

	seen := make(map[string]bool, len(r.Criteria))
	pointsSum := 0
	for i, criterion := range r.Criteria {
		key := fmt.Sprintf("criteria[%d]", i)
		if criterion.Id == "" {
			fieldErrors[key+".id"] = "criterion id is required"
		} else if seen[criterion.Id] {
			fieldErrors[key+".id"] = fmt.Sprintf("duplicate criterion id '%s'", criterion.Id)
		}
		seen[criterion.Id] = true

		if criterion.Description == "" {
			fieldErrors[key+".description"] = "criterion description is required"
		}
		if criterion.MaxPoints <= 0 {
			fieldErrors[key+".max_points"] = fmt.Sprintf(
				"criterion max_points must be strictly positive, got %d", criterion.MaxPoints)
		}
		pointsSum += criterion.MaxPoints
	}

	if len(r.Criteria) > 0 && pointsSum != r.MaxTotal {
		fieldErrors["max_total"] = fmt.Sprintf(
			"criteria points sum to %d but the rubric declares a total of %d", pointsSum, r.MaxTotal)
	}

	if len(fieldErrors) > 0 {
		return RubricValidationError{Fields: fieldErrors}
	}
	return nil
}

func (r Rubric) CriterionById(id string) (RubricCriterion, bool) {
	for _, criterion := range r.Criteria {
		if criterion.Id == id {
			return criterion, true
		}
	}
	return RubricCriterion{}, false
}
