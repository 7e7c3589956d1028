package ai

import (
	"context"

	"promptquest/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.ModelProvider = (*limitedProvider)(nil)

type limitedProvider struct {
	inner adapter.ModelProvider
	sem   chan struct{}
}

// NewLimitedProvider caps in-flight calls to the inner provider.
func NewLimitedProvider(inner adapter.ModelProvider, maxConcurrent int) adapter.ModelProvider {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedProvider{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedProvider) Name() string { return l.inner.Name() }

func (l *limitedProvider) GetModelInfo() adapter.ModelInfo {
	return l.inner.GetModelInfo()
}

func (l *limitedProvider) CountTokens(ctx context.Context, messages []adapter.Message) (int, error) {
	if err := l.acquire(ctx); err != nil {
		return 0, err
	}
	defer l.release()
	return l.inner.CountTokens(ctx, messages)
}

func (l *limitedProvider) Generate(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams) (string, error) {
	if err := l.acquire(ctx); err != nil {
		return "", err
	}
	defer l.release()
	return l.inner.Generate(ctx, messages, params)
}

func (l *limitedProvider) GenerateStream(ctx context.Context, messages []adapter.Message, params adapter.SamplingParams, onChunk func(string)) (string, error) {
	if err := l.acquire(ctx); err != nil {
		return "", err
	}
	defer l.release()
	return l.inner.GenerateStream(ctx, messages, params, onChunk)
}

func (l *limitedProvider) acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *limitedProvider) release() { <-l.sem }
