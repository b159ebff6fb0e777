package agenda

import (
	"sort"
	"strings"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

const (
	MaxRecommendations = 5

	interestHitPoints = 10
	trackBonusPoints  = 20
)

type Recommendation struct {
	Session *domain.Session `json:"session"`
	Score   int             `json:"score"`
}

// Recommend ranks sessions against the attendee's interests. Sessions in
// exclude are skipped and zero scores dropped. sessions must already be in
// time order; ties keep that order.
func Recommend(interests []string, sessions []*domain.Session, exclude map[uuid.UUID]struct{}) []Recommendation {
	if len(interests) == 0 {
		return nil
	}
	lowered := make([]string, 0, len(interests))
	for _, i := range interests {
		if i = strings.ToLower(strings.TrimSpace(i)); i != "" {
			lowered = append(lowered, i)
		}
	}

	var out []Recommendation
	for _, s := range sessions {
		if _, skip := exclude[s.ID]; skip {
			continue
		}
		if score := sessionScore(lowered, s); score > 0 {
			out = append(out, Recommendation{Session: s, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}

func sessionScore(interests []string, s *domain.Session) int {
	var description, track string
	if s.Description != nil {
		description = *s.Description
	}
	if s.Track != nil {
		track = *s.Track
	}
	haystack := strings.ToLower(s.Title + " " + description + " " + track)

	score := 0
	for _, interest := range interests {
		if strings.Contains(haystack, interest) {
			score += interestHitPoints
		}
	}
	if track != "" {
		for _, interest := range interests {
			if strings.EqualFold(interest, track) {
				score += trackBonusPoints
				break
			}
		}
	}
	return score
}
