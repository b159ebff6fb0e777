package agenda

import (
	"fmt"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
)

// Overlaps reports whether [s1, e1) and [s2, e2) intersect. Back-to-back
// intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// FindConflict checks candidate against the personal sessions in order and
// returns the first overlap, or nil. Times in the message use loc.
func FindConflict(candidate *domain.Session, personal []*domain.Session, loc *time.Location) *domain.ConflictError {
	if loc == nil {
		loc = time.UTC
	}
	for _, s := range personal {
		if s.ID == candidate.ID {
			continue
		}
		if Overlaps(candidate.StartTime, candidate.EndTime, s.StartTime, s.EndTime) {
			return &domain.ConflictError{
				With: s,
				Message: fmt.Sprintf(`Conflicto con "%s" (%s - %s)`,
					s.Title, s.StartTime.In(loc).Format("15:04"), s.EndTime.In(loc).Format("15:04")),
			}
		}
	}
	return nil
}
