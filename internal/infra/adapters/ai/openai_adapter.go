package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"promptquest/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ModelProvider = (*OpenAIProvider)(nil)

// OpenAIProvider implements adapter.ModelProvider using the official SDK
// against the Chat Completions API.
type OpenAIProvider struct {
	name   string
	model  string
	client openai.Client
	maxOut int
}

func NewOpenAIProvider(name, apiKey, baseURL, model string, maxOut int) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	return &OpenAIProvider{
		name:   name,
		model:  model,
		client: openai.NewClient(opts...),
		maxOut: maxOut,
	}, nil
}

func (o *OpenAIProvider) Name() string { return o.name }

func (o *OpenAIProvider) GetModelInfo() adapter.ModelInfo {
	return adapter.ModelInfo{
		Name:        o.model,
		Description: "OpenAI Chat Completions model",
		MaxTokens:   o.maxOut,
	}
}

// CountTokens tokenizes locally with tiktoken. Falls back to cl100k_base for
// models the library doesn't know yet.
func (o *OpenAIProvider) CountTokens(ctx context.Context, messages []adapter.Message) (int, error) {
	enc, err := tiktoken.EncodingForModel(o.model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, err
		}
	}
	total := 0
	for _, m := range messages {
		total += len(enc.Encode(m.Content, nil, nil))
	}
	return total, nil
}

func (o *OpenAIProvider) Generate(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, o.buildParams(messages, params))
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("openai: no choice content")
}

func (o *OpenAIProvider) GenerateStream(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams, onChunk func(string)) (string, error) {
	stream := o.client.Chat.Completions.NewStreaming(ctx, o.buildParams(messages, params))
	defer stream.Close()

	var sb strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		sb.WriteString(delta)
		if onChunk != nil {
			onChunk(delta)
		}
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (o *OpenAIProvider) buildParams(messages []adapter.Message, params adapter.SamplingParams) openai.ChatCompletionNewParams {
	out := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: toOpenAIMessages(messages),
	}
	if o.maxOut > 0 {
		out.MaxTokens = openai.Int(int64(o.maxOut))
	}
	if params.Temperature > 0 {
		out.Temperature = openai.Float(params.Temperature)
	}
	if params.TopP > 0 {
		out.TopP = openai.Float(params.TopP)
	}
	// TopK and RepeatPenalty have no Chat Completions equivalent; dropped.
	return out
}

func toOpenAIMessages(messages []adapter.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch strings.ToLower(m.Role) {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
