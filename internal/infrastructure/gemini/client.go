package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// GenerateIcebreakers asks the model for three conversation openers between
// two conference attendees.
func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, a, b *domain.Attendee) ([]string, error) {
	prompt := fmt.Sprintf(`
		Two attendees of a professional conference just matched in the networking app.
		Attendee 1: %s
		Attendee 2: %s

		Task: Write 3 short, friendly conversation openers Attendee 1 could use with Attendee 2.
		Prefer shared interests, then what one is looking for and the other offers.
		Language: Spanish.
		Output: JSON array of strings. Example: ["Hola...", "Oye..."]
	`, describe(a), describe(b))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate icebreakers: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return parseIcebreakers(sb.String())
}

func describe(a *domain.Attendee) string {
	p := a.Profile()
	parts := []string{"name: " + a.Name}
	if a.Title != nil && *a.Title != "" {
		parts = append(parts, "title: "+*a.Title)
	}
	if a.Company != nil && *a.Company != "" {
		parts = append(parts, "company: "+*a.Company)
	}
	if len(p.Interests) > 0 {
		parts = append(parts, "interests: "+strings.Join(p.Interests, ", "))
	}
	if p.LookingFor != "" {
		parts = append(parts, "looking for: "+p.LookingFor)
	}
	if p.Offering != "" {
		parts = append(parts, "offering: "+p.Offering)
	}
	return strings.Join(parts, "; ")
}

// parseIcebreakers accepts a JSON array, optionally fenced as markdown, or
// one opener per line.
func parseIcebreakers(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var icebreakers []string
	err := json.Unmarshal([]byte(text), &icebreakers)
	if err == nil && len(icebreakers) > 0 {
		return icebreakers, nil
	}

	icebreakers = icebreakers[:0]
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
			icebreakers = append(icebreakers, line)
		}
	}
	if len(icebreakers) == 0 {
		return nil, fmt.Errorf("failed to parse icebreakers: %q", text)
	}
	return icebreakers, nil
}
