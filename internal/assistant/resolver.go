package assistant

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ModelCaller is the slice of the Gemini client the resolver needs. The real
// client's Models service satisfies it; tests inject a fake.
type ModelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Image is one photo attachment forwarded to the model alongside the text.
type Image struct {
	MIMEType string
	Data     []byte
}

// Request carries one inbound event plus the user context the prompt needs.
type Request struct {
	UserID   string
	Text     string
	Images   []Image
	Timezone string
	Currency string
}

type Resolver struct {
	model ModelCaller
	name  string
	log   zerolog.Logger
}

func NewResolver(model ModelCaller, modelName string, log zerolog.Logger) *Resolver {
	return &Resolver{model: model, name: modelName, log: log}
}

// Resolve asks the model for a plan. It never fails past this boundary: any
// model error or malformed output degrades to an empty plan echoing the
// user's text as the reply, which sends the caller down the rule-based path.
func (r *Resolver) Resolve(ctx context.Context, req Request) Plan {
	fallback := Plan{Reply: req.Text}

	parts := []*genai.Part{
		{Text: buildPlanPrompt(req.Timezone, req.Currency) + "\nUser message:\n" + req.Text},
	}
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
		})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	resp, err := r.model.GenerateContent(ctx, r.name, contents, nil)
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", req.UserID).Msg("plan generation failed")
		return fallback
	}

	raw := resp.Text()
	if raw == "" {
		r.log.Warn().Str("user_id", req.UserID).Msg("empty plan response")
		return fallback
	}

	plan, err := DecodePlan([]byte(cleanModelJSON(raw)))
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", req.UserID).Msg("malformed plan response")
		return fallback
	}
	return plan
}

// Transcribe converts a voice message to text through the same model.
func (r *Resolver) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcribePrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			},
		},
	}

	resp, err := r.model.GenerateContent(ctx, r.name, contents, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}

// cleanModelJSON strips Markdown fences and surrounding junk the model may
// emit despite the raw-JSON instruction, keeping the first top-level object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
