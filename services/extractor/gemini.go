package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient calls the Gemini API to extract a structured field value from
// a free-text utterance.
type GeminiClient struct {
	model *genai.GenerativeModel
}

// NewGeminiClient builds the NLU client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("models/gemini-1.5-flash")
	return &GeminiClient{model: model}, nil
}

type extractionReply struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ExtractField sends the utterance plus a schema description and parses the
// JSON reply. Markdown-fenced JSON is tolerated and stripped before parsing.
func (g *GeminiClient) ExtractField(ctx context.Context, utterance string, spec FieldSpec) (string, float64, error) {
	prompt := fmt.Sprintf(
		`Extract the following field from a phone caller's utterance.
Field: %s
Expected content: %s
Utterance: %q
Respond with JSON only: {"value": "<extracted value>", "confidence": <0.0-1.0>}.
If the utterance does not contain the field, respond {"value": "", "confidence": 0}.`,
		spec.Name, spec.Description, utterance,
	)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", 0, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", 0, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	var reply extractionReply
	if err := json.Unmarshal([]byte(StripMarkdownFence(sb.String())), &reply); err != nil {
		return "", 0, fmt.Errorf("gemini reply not parseable: %w", err)
	}
	if reply.Value == "" {
		return "", 0, fmt.Errorf("gemini could not extract %s", spec.Name)
	}
	return reply.Value, reply.Confidence, nil
}

// StripMarkdownFence removes a surrounding ```json ... ``` fence if present.
func StripMarkdownFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.HasPrefix(s, "{") {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
