package grading

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/campuskit/grader-backend/models"
)

// formatScore renders a score with up to two decimals and no trailing zeros,
// so integer consensus values read as plain integers.
func formatScore(value float64) string {
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
}

// buildFeedback deterministically synthesizes the student-facing feedback from
// the aggregated result: a total and per-criterion breakdown first, then the
// persona justifications. When the pass is flagged for review the divergence
// is stated explicitly instead of being averaged away.
func buildFeedback(
	rubric models.Rubric,
	result models.ConsensusResult,
	personaNames map[string]string,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Total: %s/%d**\n", formatScore(result.OverallScore), result.MaxTotal)
	b.WriteString("Rubric Breakdown:\n")
	for _, score := range result.CriterionScores {
		label := score.CriterionId
		if criterion, ok := rubric.CriterionById(score.CriterionId); ok && criterion.Description != "" {
			label = criterion.Description
		}
		fmt.Fprintf(&b, "- %s: %s/%d\n", label, formatScore(score.Score), score.MaxPoints)
	}

	if result.Sandbox != nil {
		fmt.Fprintf(&b, "\nCode execution: %d/%d harness tests passed (%s).\n",
			result.Sandbox.PassedCount(), len(result.Sandbox.Tests), result.Sandbox.Status)
	}

	if result.RequiresReview {
		reasons := make([]string, len(result.ReviewReasons))
		for i, reason := range result.ReviewReasons {
			reasons[i] = string(reason)
		}
		fmt.Fprintf(&b, "\nThis grade is provisional and has been flagged for instructor review (%s). "+
			"Evaluator scores diverged with a spread of %s.\n",
			strings.Join(reasons, ", "), formatScore(result.Disagreement))
	}

	if len(result.Opinions) > 0 {
		b.WriteString("\nEvaluator notes:\n")
		for _, opinion := range result.Opinions {
			name := opinion.PersonaKey
			if display, ok := personaNames[opinion.PersonaKey]; ok && display != "" {
				name = display
			}
			justification := opinion.Justification
			if justification == "" {
				justification = "(no comment)"
			}
			fmt.Fprintf(&b, "- %s (%d/%d): %s\n", name, opinion.OverallScore, result.MaxTotal, justification)
		}
	}

	for _, exclusion := range result.Exclusions {
		fmt.Fprintf(&b, "- %s: evaluation unavailable (%s)\n", exclusion.PersonaKey, exclusion.Reason)
	}

	return strings.TrimRight(b.String(), "\n")
}
