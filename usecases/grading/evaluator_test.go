package grading

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/grader-backend/models"
)

func TestSerializeRubricForPrompt(t *testing.T) {
	serialized, err := serializeRubricForPrompt(testRubric())

	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id": "Thesis Clarity", "description": "Clear thesis statement", "max_points": 4},
		{"id": "Evidence", "description": "Supporting evidence", "max_points": 6}
	]`, serialized)
}

func TestPersonaResponseSchema_constrains_criterion_ids(t *testing.T) {
	schema := personaResponseSchema(testRubric())

	scores, ok := schema.Properties.Get("rubric_scores")
	require.True(t, ok)
	criteria, ok := scores.Items.Properties.Get("criteria")
	require.True(t, ok)
	assert.Equal(t, []any{"Thesis Clarity", "Evidence"}, criteria.Enum)
}

func TestFormatExemplarBlock(t *testing.T) {
	exemplars := []models.RetrievedCorrection{
		{
			Record: models.CorrectionRecord{
				SubmissionContent: "The treaty ended the war.",
				CorrectedScore:    7.5,
				CorrectedFeedback: "Good thesis, thin evidence.",
			},
			Similarity: 0.91,
		},
	}

	block := formatExemplarBlock(exemplars)

	assert.Contains(t, block, "Exemplar 1 (verified score 7.5):")
	assert.Contains(t, block, "The treaty ended the war.")
	assert.Contains(t, block, "Verified feedback: Good thesis, thin evidence.")
}

func TestFormatExemplarBlock_empty(t *testing.T) {
	assert.Empty(t, formatExemplarBlock(nil))
}

func TestFormatExemplarBlock_truncates_long_submissions(t *testing.T) {
	exemplars := []models.RetrievedCorrection{
		{Record: models.CorrectionRecord{SubmissionContent: strings.Repeat("a", 2000)}},
	}

	block := formatExemplarBlock(exemplars)

	assert.NotContains(t, block, strings.Repeat("a", maxExemplarChars+1))
	assert.Contains(t, block, strings.Repeat("a", maxExemplarChars))
}

func TestFormatSandboxBlock(t *testing.T) {
	block := formatSandboxBlock(models.SandboxResult{
		Status: models.SandboxStatusRuntimeError,
		Reason: "division by zero",
		Tests: []models.SandboxTestResult{
			{Name: "test_add", Passed: true},
			{Name: "test_div", Passed: false},
		},
		Stderr: "ZeroDivisionError",
	})

	assert.Contains(t, block, "status runtime_error")
	assert.Contains(t, block, "1/2 harness tests passed")
	assert.Contains(t, block, "- test_add: passed")
	assert.Contains(t, block, "- test_div: failed")
	assert.Contains(t, block, "Reason: division by zero")
	assert.Contains(t, block, "ZeroDivisionError")
}
