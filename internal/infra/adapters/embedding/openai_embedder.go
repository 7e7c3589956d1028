package embedding

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"promptquest/internal/domain/ports/adapter"
	"promptquest/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.Embedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder implements adapter.Embedder using the Embeddings API.
type OpenAIEmbedder struct {
	model  string
	client openai.Client
}

func NewOpenAIEmbedder(apiKey, baseURL, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("embedder: api key empty")
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	return &OpenAIEmbedder{
		model:  model,
		client: openai.NewClient(opts...),
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	metrics.IncEmbeddingCall(e.model, err == nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedder: empty response")
	}
	return resp.Data[0].Embedding, nil
}
