package networking

import (
	"math"
	"strings"

	"github.com/gdugdh24/confhub-backend/internal/domain"
)

const (
	interestWeight = 40.0
	keywordWeight  = 30.0
	maxRawScore    = 100.0
)

// Score rates how well two profiles fit, in [0, 1].
//
// Shared interests are worth up to 40 raw points, proportional to the larger
// interest set. Each direction in which one side's looking_for shares a
// keyword with the other's offering adds 30. The raw sum is capped at 100.
func Score(a, b domain.Profile) float64 {
	score := interestScore(a.Interests, b.Interests)
	if keywordsMatch(a.LookingFor, b.Offering) {
		score += keywordWeight
	}
	if keywordsMatch(b.LookingFor, a.Offering) {
		score += keywordWeight
	}
	return math.Min(score, maxRawScore) / maxRawScore
}

func interestScore(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, i := range b {
		set[i] = struct{}{}
	}
	common := 0
	for _, i := range a {
		if _, ok := set[i]; ok {
			common++
		}
	}
	return float64(common) / float64(max(len(a), len(b))) * interestWeight
}

// keywordsMatch reports whether any whitespace token of wanted contains, or
// is contained in, any token of offered. Comparison is case-insensitive.
func keywordsMatch(wanted, offered string) bool {
	w := strings.Fields(strings.ToLower(wanted))
	o := strings.Fields(strings.ToLower(offered))
	for _, x := range w {
		for _, y := range o {
			if strings.Contains(x, y) || strings.Contains(y, x) {
				return true
			}
		}
	}
	return false
}
