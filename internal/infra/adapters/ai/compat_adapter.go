package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"promptquest/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ModelProvider = (*CompatProvider)(nil)

// CompatProvider implements adapter.ModelProvider against any
// OpenAI-compatible gateway (Ollama, vLLM, Metis, OpenRouter, ...).
// Chat completions path is the same as OpenAI: /chat/completions
// Authorization: Bearer <API_KEY> (omitted when the key is empty, for
// local backends that don't check it).
type CompatProvider struct {
	name   string
	apiKey string
	base   string // e.g., http://localhost:11434/v1
	model  string
	maxOut int
	client *http.Client
}

func NewCompatProvider(name, apiKey, base, model string, maxOut int) (*CompatProvider, error) {
	if base == "" {
		return nil, errors.New("compat: base url empty")
	}
	if model == "" {
		return nil, errors.New("compat: model empty")
	}
	return &CompatProvider{
		name:   name,
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		model:  model,
		maxOut: maxOut,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (c *CompatProvider) Name() string { return c.name }

func (c *CompatProvider) GetModelInfo() adapter.ModelInfo {
	return adapter.ModelInfo{
		Name:        c.model,
		Description: "OpenAI-compatible model",
		MaxTokens:   c.maxOut,
	}
}

// CountTokens approximates with cl100k_base; compatible gateways expose no
// uniform tokenizer endpoint.
func (c *CompatProvider) CountTokens(ctx context.Context, messages []adapter.Message) (int, error) {
	return countWithEncoding("cl100k_base", messages)
}

type compatRequest struct {
	Model         string            `json:"model"`
	Messages      []adapter.Message `json:"messages"`
	Stream        bool              `json:"stream,omitempty"`
	MaxTokens     int               `json:"max_tokens,omitempty"`
	Temperature   float64           `json:"temperature,omitempty"`
	TopP          float64           `json:"top_p,omitempty"`
	TopK          int               `json:"top_k,omitempty"`
	RepeatPenalty float64           `json:"repeat_penalty,omitempty"`
}

func (c *CompatProvider) Generate(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams) (string, error) {
	resp, err := c.post(ctx, c.buildRequest(messages, params, false))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Choices []struct {
			Message adapter.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	for _, ch := range payload.Choices {
		if ch.Message.Content != "" {
			return ch.Message.Content, nil
		}
	}
	return "", errors.New("compat: no choice content")
}

func (c *CompatProvider) GenerateStream(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams, onChunk func(string)) (string, error) {
	resp, err := c.post(ctx, c.buildRequest(messages, params, true))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue // tolerate keepalive noise between events
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		sb.WriteString(chunk.Choices[0].Delta.Content)
		if onChunk != nil {
			onChunk(chunk.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (c *CompatProvider) buildRequest(messages []adapter.Message, params adapter.SamplingParams, stream bool) compatRequest {
	return compatRequest{
		Model:         c.model,
		Messages:      messages,
		Stream:        stream,
		MaxTokens:     c.maxOut,
		Temperature:   params.Temperature,
		TopP:          params.TopP,
		TopK:          params.TopK,
		RepeatPenalty: params.RepeatPenalty,
	}
}

func (c *CompatProvider) post(ctx context.Context, body compatRequest) (*http.Response, error) {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("compat(%s) http %d", c.name, resp.StatusCode)
	}
	return resp, nil
}
