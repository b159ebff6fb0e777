package agenda

import (
	"testing"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestRecommendScoringExamples(t *testing.T) {
	t.Parallel()

	interests := []string{"IA", "Fintech"}
	noTrack := &domain.Session{ID: uuid.New(), Title: "Taller de IA para abogados"}
	withTrack := &domain.Session{ID: uuid.New(), Title: "Taller de IA para abogados", Track: strPtr("IA")}

	if got := sessionScore([]string{"ia", "fintech"}, noTrack); got != 10 {
		t.Fatalf("score without track = %d, want 10", got)
	}
	if got := sessionScore([]string{"ia", "fintech"}, withTrack); got != 30 {
		t.Fatalf("score with track = %d, want 30", got)
	}

	got := Recommend(interests, []*domain.Session{noTrack, withTrack}, nil)
	if len(got) != 2 || got[0].Session != withTrack || got[1].Session != noTrack {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestRecommendExcludesAndCaps(t *testing.T) {
	t.Parallel()

	var sessions []*domain.Session
	for i := 0; i < 8; i++ {
		sessions = append(sessions, &domain.Session{ID: uuid.New(), Title: "Fintech hoy"})
	}
	sessions = append(sessions, &domain.Session{ID: uuid.New(), Title: "Cocina"})
	exclude := map[uuid.UUID]struct{}{sessions[0].ID: {}}

	got := Recommend([]string{"fintech"}, sessions, exclude)
	if len(got) != MaxRecommendations {
		t.Fatalf("len = %d, want %d", len(got), MaxRecommendations)
	}
	for i, r := range got {
		if r.Session.ID == sessions[0].ID {
			t.Fatal("excluded session returned")
		}
		// Equal scores keep time order.
		if r.Session != sessions[i+1] {
			t.Fatalf("position %d holds the wrong session", i)
		}
	}
}

func TestRecommendWithoutInterests(t *testing.T) {
	t.Parallel()

	s := []*domain.Session{{ID: uuid.New(), Title: "IA"}}
	if got := Recommend(nil, s, nil); len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}
