// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"promptquest/internal/domain/ports/adapter"
)

var _ adapter.ModelProvider = (*GeminiProvider)(nil)

type GeminiProvider struct {
	name   string
	model  string
	client *genai.Client
	maxOut int
}

// NewGeminiProvider creates a Gemini provider using the official SDK.
func NewGeminiProvider(ctx context.Context, name, apiKey, baseURL, model string, maxOut int) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{name: name, model: model, client: c, maxOut: maxOut}, nil
}

func (g *GeminiProvider) Name() string { return g.name }

func (g *GeminiProvider) GetModelInfo() adapter.ModelInfo {
	m, err := g.client.Models.Get(context.Background(), g.model, nil)
	if err != nil {
		// Return minimal info on error so callers aren't blocked.
		return adapter.ModelInfo{Name: g.model}
	}
	return adapter.ModelInfo{
		Name:        m.Name,
		Description: m.Description,
		MaxTokens:   int(m.InputTokenLimit),
	}
}

func (g *GeminiProvider) CountTokens(ctx context.Context, messages []adapter.Message) (int, error) {
	contents, _ := toGenAIContents(messages)
	// Per docs, CountTokens takes []*genai.Content. (NOT []genai.Part)
	// https://ai.google.dev/gemini-api/docs/tokens?hl=en#go
	resp, err := g.client.Models.CountTokens(ctx, g.model, contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

func (g *GeminiProvider) Generate(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams) (string, error) {
	contents, cfg := g.prepare(messages, params)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	text := extractGenAIText(resp)
	if text == "" {
		return "", errors.New("gemini: empty candidate")
	}
	return text, nil
}

func (g *GeminiProvider) GenerateStream(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams, onChunk func(string)) (string, error) {
	contents, cfg := g.prepare(messages, params)

	var sb strings.Builder
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, cfg) {
		if err != nil {
			return "", err
		}
		if t := extractGenAIText(resp); t != "" {
			sb.WriteString(t)
			if onChunk != nil {
				onChunk(t)
			}
		}
	}
	return sb.String(), nil
}

// --- internal ---

func (g *GeminiProvider) prepare(messages []adapter.Message, params adapter.SamplingParams) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents, system := toGenAIContents(messages)
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxOut),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if params.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(params.Temperature))
	}
	if params.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(params.TopP))
	}
	if params.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(params.TopK))
	}
	// RepeatPenalty has no Gemini equivalent; dropped.
	return contents, cfg
}

// toGenAIContents splits out system text (Gemini takes it as a separate
// instruction, not a history role) and maps the rest to Content entries.
func toGenAIContents(msgs []adapter.Message) ([]*genai.Content, string) {
	out := make([]*genai.Content, 0, len(msgs))
	system := ""
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "assistant", "model":
			role = genai.RoleModel
		case "system":
			if system != "" {
				system += "\n"
			}
			system += m.Content
			continue
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out, system
}

func extractGenAIText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil || len(c.Content.Parts) == 0 {
		return ""
	}
	return c.Content.Parts[0].Text
}
