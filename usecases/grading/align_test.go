package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuskit/grader-backend/models"
)

func testRubric() models.Rubric {
	return models.Rubric{
		MaxTotal: 10,
		Criteria: []models.RubricCriterion{
			{Id: "Thesis Clarity", Description: "Clear thesis statement", MaxPoints: 4},
			{Id: "Evidence", Description: "Supporting evidence", MaxPoints: 6},
		},
	}
}

func TestAlignAndClamp_exact_match(t *testing.T) {
	scores, total, flags := alignAndClamp(testRubric(), []personaCriterionScore{
		{Criteria: "Thesis Clarity", Score: 3},
		{Criteria: "Evidence", Score: 5},
	}, 8)

	assert.Equal(t, []models.CriterionScore{
		{CriterionId: "Thesis Clarity", Score: 3},
		{CriterionId: "Evidence", Score: 5},
	}, scores)
	assert.Equal(t, 8, total)
	assert.Empty(t, flags)
}

func TestAlignAndClamp_matching_is_case_and_whitespace_insensitive(t *testing.T) {
	scores, total, flags := alignAndClamp(testRubric(), []personaCriterionScore{
		{Criteria: "  thesis   CLARITY ", Score: 4},
		{Criteria: "evidence", Score: 2},
	}, 6)

	assert.Equal(t, 4, scores[0].Score)
	assert.Equal(t, 6, total)
	assert.Empty(t, flags)
}

func TestAlignAndClamp_fuzzy_match(t *testing.T) {
	// A close misspelling still lands on the right criterion.
	scores, total, flags := alignAndClamp(testRubric(), []personaCriterionScore{
		{Criteria: "thesis clarty", Score: 3},
		{Criteria: "evidance", Score: 4},
	}, 7)

	assert.Equal(t, 3, scores[0].Score)
	assert.Equal(t, 4, scores[1].Score)
	assert.Equal(t, 7, total)
	assert.Empty(t, flags)
}

func TestAlignAndClamp_unknown_criterion_scores_zero(t *testing.T) {
	scores, total, flags := alignAndClamp(testRubric(), []personaCriterionScore{
		{Criteria: "grammar", Score: 3},
		{Criteria: "evidence", Score: 5},
	}, 8)

	assert.Equal(t, 0, scores[0].Score)
	assert.Equal(t, 5, total)
	assert.Contains(t, flags, "unknown_criterion:Thesis Clarity")
	assert.Contains(t, flags, "recomputed_total:8->5")
}

func TestAlignAndClamp_clamps_out_of_range_scores(t *testing.T) {
	scores, total, flags := alignAndClamp(testRubric(), []personaCriterionScore{
		{Criteria: "thesis clarity", Score: 9},
		{Criteria: "evidence", Score: -2},
	}, 7)

	assert.Equal(t, 4, scores[0].Score)
	assert.Equal(t, 0, scores[1].Score)
	assert.Equal(t, 4, total)
	assert.Contains(t, flags, "clamped:Thesis Clarity")
	assert.Contains(t, flags, "clamped:Evidence")
	assert.Contains(t, flags, "recomputed_total:7->4")
}

func TestAlignAndClamp_recomputes_inconsistent_total(t *testing.T) {
	_, total, flags := alignAndClamp(testRubric(), []personaCriterionScore{
		{Criteria: "thesis clarity", Score: 3},
		{Criteria: "evidence", Score: 5},
	}, 10)

	assert.Equal(t, 8, total)
	assert.Equal(t, []string{"recomputed_total:10->8"}, flags)
}

func TestSimilarityRatio(t *testing.T) {
	assert.Equal(t, 1.0, similarityRatio("thesis", "thesis"))
	assert.Equal(t, 1.0, similarityRatio("", ""))
	assert.Equal(t, 0.0, similarityRatio("thesis", ""))
	assert.Greater(t, similarityRatio("evidence", "evidance"), fuzzyMatchCutoff)
	assert.Less(t, similarityRatio("thesis clarity", "grammar"), fuzzyMatchCutoff)
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"thesis clarity", "evidence"}

	match, ok := closestMatch("evidense", candidates, fuzzyMatchCutoff)
	assert.True(t, ok)
	assert.Equal(t, "evidence", match)

	_, ok = closestMatch("zzzz", candidates, fuzzyMatchCutoff)
	assert.False(t, ok)
}
