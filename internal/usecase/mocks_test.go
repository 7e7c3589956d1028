package usecase

import (
	"context"
	"sync"

	"promptquest/internal/domain"
	"promptquest/internal/domain/model"
	"promptquest/internal/domain/ports/adapter"
)

// ---- Fakes ----

type fakeProvider struct {
	name     string
	reply    string
	err      error
	mu       sync.Mutex
	requests [][]adapter.Message
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GetModelInfo() adapter.ModelInfo {
	return adapter.ModelInfo{Name: f.name + "-model"}
}

func (f *fakeProvider) CountTokens(ctx context.Context, msgs []adapter.Message) (int, error) {
	n := 0
	for _, m := range msgs {
		n += len(m.Content)
	}
	return n, nil
}

func (f *fakeProvider) Generate(ctx context.Context, msgs []adapter.Message, p adapter.SamplingParams) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, msgs)
	f.mu.Unlock()
	return f.reply, f.err
}

func (f *fakeProvider) GenerateStream(ctx context.Context, msgs []adapter.Message, p adapter.SamplingParams, onChunk func(string)) (string, error) {
	out, err := f.Generate(ctx, msgs, p)
	if err == nil && onChunk != nil {
		onChunk(out)
	}
	return out, err
}

type fakeRouter struct {
	provider  *fakeProvider
	err       error
	preferred []string
	releases  int
}

func (f *fakeRouter) Acquire(ctx context.Context, preferred string) (adapter.ModelProvider, func(), error) {
	f.preferred = append(f.preferred, preferred)
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.provider, func() { f.releases++ }, nil
}

func (f *fakeRouter) Counts(ctx context.Context) (map[string]int, error) {
	return map[string]int{f.provider.name: 1}, nil
}

type memStore struct {
	mu   sync.Mutex
	data map[string]*model.UserProgress
	sets int
}

func newMemStore() *memStore {
	return &memStore{data: map[string]*model.UserProgress{}}
}

func (m *memStore) Get(ctx context.Context, sessionID string) (*model.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memStore) Set(ctx context.Context, sessionID string, p *model.UserProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = p
	m.sets++
	return nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *memStore) All(ctx context.Context) (map[string]*model.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*model.UserProgress, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string]*model.UserProgress{}
	return nil
}

// constEmbedder maps every text to the same vector, so similarity is 1.
type constEmbedder struct{}

func (constEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return []float64{1, 0, 0}, nil
}

// scriptedChat is a ChatUseCase whose replies are scripted per call.
type scriptedChat struct {
	replies []string
	err     error
	calls   int
}

func (s *scriptedChat) Ask(ctx context.Context, session *model.ChatSession, prompt string, params adapter.SamplingParams) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	session.AddMessage(model.RoleUser, prompt)
	session.AddMessage(model.RoleAssistant, reply)
	return reply, nil
}

func (s *scriptedChat) AskStream(ctx context.Context, session *model.ChatSession, prompt string, params adapter.SamplingParams, onChunk func(string)) (string, error) {
	return s.Ask(ctx, session, prompt, params)
}
