package agenda

import (
	"testing"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func session(title string, start, end time.Time) *domain.Session {
	return &domain.Session{ID: uuid.New(), Title: title, StartTime: start, EndTime: end}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"back to back", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"back to back reversed", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(9, 0), at(9, 30), at(10, 0), at(11, 0), false},
	}
	for _, tt := range tests {
		if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFindConflictFirstWins(t *testing.T) {
	t.Parallel()

	keynote := session("Keynote", at(10, 0), at(11, 0))
	panel := session("Panel", at(10, 30), at(11, 30))
	candidate := session("Taller", at(10, 15), at(10, 45))

	c := FindConflict(candidate, []*domain.Session{keynote, panel}, time.UTC)
	if c == nil || c.With != keynote {
		t.Fatalf("conflict = %+v, want keynote", c)
	}
	if want := `Conflicto con "Keynote" (10:00 - 11:00)`; c.Message != want {
		t.Fatalf("message = %q, want %q", c.Message, want)
	}
}

func TestFindConflictUsesLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CST", -6*60*60)
	keynote := session("Keynote", at(16, 0), at(17, 0))
	c := FindConflict(session("x", at(16, 30), at(16, 45)), []*domain.Session{keynote}, loc)
	if c == nil || c.Message != `Conflicto con "Keynote" (10:00 - 11:00)` {
		t.Fatalf("conflict = %+v", c)
	}
}

func TestFindConflictNone(t *testing.T) {
	t.Parallel()

	existing := []*domain.Session{session("A", at(9, 0), at(10, 0)), session("B", at(11, 0), at(12, 0))}
	if c := FindConflict(session("C", at(10, 0), at(11, 0)), existing, nil); c != nil {
		t.Fatalf("unexpected conflict %+v", c)
	}
}
