package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdugdh24/confhub-backend/internal/domain"
)

// Fallback produces icebreakers from the two profiles without calling a model.
// It is used when no API key is configured or the model call fails.
type Fallback struct{}

func (Fallback) GenerateIcebreakers(_ context.Context, a, b *domain.Attendee) ([]string, error) {
	pa, pb := a.Profile(), b.Profile()
	var out []string

	if shared := sharedInterests(pa.Interests, pb.Interests); len(shared) > 0 {
		out = append(out, fmt.Sprintf("¡Hola %s! Vi que también te interesa %s, ¿qué charla te ha gustado más?", b.Name, shared[0]))
	}
	if pb.Offering != "" && pa.LookingFor != "" {
		out = append(out, fmt.Sprintf("Estoy buscando %s y vi que ofreces %s, ¿platicamos un café?", pa.LookingFor, pb.Offering))
	}
	if b.Company != nil && *b.Company != "" {
		out = append(out, fmt.Sprintf("¿Cómo es trabajar en %s?", *b.Company))
	}
	out = append(out, "¿Qué te trajo a este evento?")
	if len(out) > 3 {
		out = out[:3]
	}
	return out, nil
}

func sharedInterests(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		seen[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	var shared []string
	for _, s := range a {
		if _, ok := seen[strings.ToLower(strings.TrimSpace(s))]; ok {
			shared = append(shared, s)
		}
	}
	return shared
}
