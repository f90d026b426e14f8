package models

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestRubricValidate_nominal(t *testing.T) {
	rubric := Rubric{
		Name:     "essay",
		MaxTotal: 10,
		Criteria: []RubricCriterion{
			{Id: "thesis", Description: "Clear thesis statement", MaxPoints: 4},
			{Id: "evidence", Description: "Supporting evidence", MaxPoints: 6},
		},
	}

	assert.NoError(t, rubric.Validate())
}

func TestRubricValidate_empty_criteria(t *testing.T) {
	err := Rubric{MaxTotal: 10}.Validate()

	assert.ErrorIs(t, err, ErrMalformedRubric)
	assert.ErrorIs(t, err, BadParameterError)

	var validationErr RubricValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "criteria")
}

func TestRubricValidate_collects_all_field_errors(t *testing.T) {
	rubric := Rubric{
		MaxTotal: 10,
		Criteria: []RubricCriterion{
			{Id: "", Description: "", MaxPoints: 0},
			{Id: "style", Description: "Writing style", MaxPoints: 3},
			{Id: "style", Description: "Duplicate", MaxPoints: 3},
		},
	}

	err := rubric.Validate()

	var validationErr RubricValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "criteria[0].id")
	assert.Contains(t, validationErr.Fields, "criteria[0].description")
	assert.Contains(t, validationErr.Fields, "criteria[0].max_points")
	assert.Contains(t, validationErr.Fields, "criteria[2].id")
	// 0 + 3 + 3 != 10
	assert.Contains(t, validationErr.Fields, "max_total")
}

func TestRubricValidate_max_total_mismatch(t *testing.T) {
	rubric := Rubric{
		MaxTotal: 5,
		Criteria: []RubricCriterion{
			{Id: "thesis", Description: "Clear thesis statement", MaxPoints: 4},
		},
	}

	err := rubric.Validate()

	var validationErr RubricValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Fields, 1)
	assert.Contains(t, validationErr.Fields, "max_total")
}

func TestRubricCriterionById(t *testing.T) {
	rubric := Rubric{
		Criteria: []RubricCriterion{
			{Id: "thesis", Description: "Clear thesis statement", MaxPoints: 4},
		},
	}

	criterion, ok := rubric.CriterionById("thesis")
	assert.True(t, ok)
	assert.Equal(t, 4, criterion.MaxPoints)

	_, ok = rubric.CriterionById("nope")
	assert.False(t, ok)
}
