package grading

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/campuskit/grader-backend/models"
)

const fuzzyMatchCutoff = 0.6

var whitespaceRe = regexp.MustCompile(`\s+`)

func normalizeCriterion(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
}

// alignAndClamp repairs the raw model breakdown against the rubric: criteria
// are matched by normalized id with a fuzzy fallback, scores are clamped to
// [0, MaxPoints], and the total is recomputed from the aligned scores. Every
// repair is recorded as a sanity flag so reviewers can see what was coerced.
func alignAndClamp(rubric models.Rubric, raw []personaCriterionScore, claimedTotal int) (
	scores []models.CriterionScore, total int, flags []string,
) {
	byKey := make(map[string]int, len(raw))
	keys := make([]string, 0, len(raw))
	for _, item := range raw {
		key := normalizeCriterion(item.Criteria)
		if key == "" {
			continue
		}
		byKey[key] = item.Score
		keys = append(keys, key)
	}

	scores = make([]models.CriterionScore, 0, len(rubric.Criteria))
	for _, criterion := range rubric.Criteria {
		norm := normalizeCriterion(criterion.Id)

		score, found := byKey[norm]
		if !found {
			if match, ok := closestMatch(norm, keys, fuzzyMatchCutoff); ok {
				score = byKey[match]
			} else {
				flags = append(flags, fmt.Sprintf("unknown_criterion:%s", criterion.Id))
			}
		}

		if score > criterion.MaxPoints {
			flags = append(flags, fmt.Sprintf("clamped:%s", criterion.Id))
			score = criterion.MaxPoints
		}
		if score < 0 {
			flags = append(flags, fmt.Sprintf("clamped:%s", criterion.Id))
			score = 0
		}

		scores = append(scores, models.CriterionScore{CriterionId: criterion.Id, Score: score})
		total += score
	}

	if claimedTotal != total {
		flags = append(flags, fmt.Sprintf("recomputed_total:%d->%d", claimedTotal, total))
	}
	return scores, total, flags
}

// closestMatch returns the candidate most similar to target, if its
// similarity ratio reaches the cutoff.
func closestMatch(target string, candidates []string, cutoff float64) (string, bool) {
	best, bestRatio := "", 0.0
	for _, candidate := range candidates {
		if ratio := similarityRatio(target, candidate); ratio > bestRatio {
			best, bestRatio = candidate, ratio
		}
	}
	if bestRatio >= cutoff {
		return best, true
	}
	return "", false
}

// similarityRatio is 2*LCS/(len(a)+len(b)) over runes, in [0, 1].
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
