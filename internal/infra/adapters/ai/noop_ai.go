package ai

import (
	"context"
	"time"

	"promptquest/internal/domain/ports/adapter"
)

var _ adapter.ModelProvider = (*NoopProvider)(nil)

// NoopProvider implements adapter.ModelProvider for local/dev testing.
// It echoes a canned reply instead of calling a real backend.
type NoopProvider struct {
	name  string
	Reply string
}

// NewNoopProvider constructs the noop provider.
func NewNoopProvider(name string) *NoopProvider {
	return &NoopProvider{name: name, Reply: "This is a noop model response."}
}

func (a *NoopProvider) Name() string { return a.name }

func (a *NoopProvider) GetModelInfo() adapter.ModelInfo {
	return adapter.ModelInfo{
		Name:        "noop-model",
		Description: "Noop model for testing",
		MaxTokens:   1024,
	}
}

func (a *NoopProvider) CountTokens(ctx context.Context, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(m.Content) / 4
	}
	return n, nil
}

func (a *NoopProvider) Generate(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams) (string, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return a.Reply, nil
}

func (a *NoopProvider) GenerateStream(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams, onChunk func(string)) (string, error) {
	out, err := a.Generate(ctx, messages, params)
	if err != nil {
		return "", err
	}
	if onChunk != nil {
		onChunk(out)
	}
	return out, nil
}
