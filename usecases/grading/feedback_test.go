package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuskit/grader-backend/models"
)

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "4", formatScore(4.0))
	assert.Equal(t, "4.33", formatScore(13.0/3.0))
	assert.Equal(t, "0.47", formatScore(0.4714045207910317))
	assert.Equal(t, "1.5", formatScore(1.5))
}

func TestBuildFeedback_nominal(t *testing.T) {
	rubric := testRubric()
	result := models.ConsensusResult{
		OverallScore: 13.0 / 3.0,
		MaxTotal:     10,
		CriterionScores: []models.CriterionConsensus{
			{CriterionId: "Thesis Clarity", Score: 2, MaxPoints: 4},
			{CriterionId: "Evidence", Score: 7.0 / 3.0, MaxPoints: 6},
		},
		Opinions: []models.PersonaOpinion{
			{PersonaKey: "strict", OverallScore: 4, Justification: "Thesis is vague."},
			{PersonaKey: "lenient", OverallScore: 5},
		},
	}

	feedback := buildFeedback(rubric, result, map[string]string{"strict": "Strict examiner"})

	assert.Contains(t, feedback, "**Total: 4.33/10**")
	assert.Contains(t, feedback, "Rubric Breakdown:")
	assert.Contains(t, feedback, "- Clear thesis statement: 2/4")
	assert.Contains(t, feedback, "- Supporting evidence: 2.33/6")
	assert.Contains(t, feedback, "- Strict examiner (4/10): Thesis is vague.")
	assert.Contains(t, feedback, "- lenient (5/10): (no comment)")
	assert.NotContains(t, feedback, "flagged for instructor review")
}

func TestBuildFeedback_states_divergence_when_flagged(t *testing.T) {
	result := models.ConsensusResult{
		OverallScore:   11.0 / 3.0,
		MaxTotal:       10,
		Disagreement:   1.8856180831641267,
		RequiresReview: true,
		ReviewReasons:  []models.ReviewReason{models.ReviewReasonHighDisagreement},
	}

	feedback := buildFeedback(testRubric(), result, nil)

	assert.Contains(t, feedback, "flagged for instructor review (high_disagreement)")
	assert.Contains(t, feedback, "spread of 1.89")
}

func TestBuildFeedback_includes_sandbox_and_exclusions(t *testing.T) {
	result := models.ConsensusResult{
		OverallScore: 6,
		MaxTotal:     10,
		Sandbox: &models.SandboxResult{
			Status: models.SandboxStatusOk,
			Tests: []models.SandboxTestResult{
				{Name: "test_add", Passed: true},
				{Name: "test_sub", Passed: false},
			},
		},
		Exclusions: []models.PersonaExclusion{
			{PersonaKey: "strict", Reason: "persona evaluation failed: timeout"},
		},
	}

	feedback := buildFeedback(testRubric(), result, nil)

	assert.Contains(t, feedback, "Code execution: 1/2 harness tests passed (ok).")
	assert.Contains(t, feedback, "- strict: evaluation unavailable (persona evaluation failed: timeout)")
}

func TestBuildFeedback_is_deterministic(t *testing.T) {
	result := models.ConsensusResult{
		OverallScore: 13.0 / 3.0,
		MaxTotal:     10,
		CriterionScores: []models.CriterionConsensus{
			{CriterionId: "Thesis Clarity", Score: 2, MaxPoints: 4},
		},
		Opinions: []models.PersonaOpinion{
			{PersonaKey: "strict", OverallScore: 4, Justification: "Thesis is vague."},
		},
	}

	first := buildFeedback(testRubric(), result, nil)
	for range 5 {
		assert.Equal(t, first, buildFeedback(testRubric(), result, nil))
	}
}
