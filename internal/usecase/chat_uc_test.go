package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"promptquest/internal/domain"
	"promptquest/internal/domain/model"
	"promptquest/internal/domain/ports/adapter"
)

func newChatFixture(reply string, err error) (*chatUC, *fakeRouter, *fakeProvider) {
	provider := &fakeProvider{name: "OpenAI", reply: reply, err: err}
	rt := &fakeRouter{provider: provider}
	log := zerolog.Nop()
	return NewChatUseCase(rt, &log), rt, provider
}

func TestAskSendsOnlySystemAndCurrentPrompt(t *testing.T) {
	t.Parallel()
	uc, _, provider := newChatFixture("hello there", nil)

	session := model.NewChatSession("you are terse")
	// History from earlier attempts must never reach the backend.
	session.AddMessage(model.RoleUser, "old question")
	session.AddMessage(model.RoleAssistant, "old answer")

	reply, err := uc.Ask(context.Background(), session, "new question", adapter.SamplingParams{})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply != "hello there" {
		t.Fatalf("reply = %q", reply)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("provider calls = %d", len(provider.requests))
	}
	sent := provider.requests[0]
	if len(sent) != 2 {
		t.Fatalf("outbound messages = %d, want 2 (system + user): %+v", len(sent), sent)
	}
	if sent[0].Role != model.RoleSystem || sent[0].Content != "you are terse" {
		t.Fatalf("first outbound = %+v", sent[0])
	}
	if sent[1].Role != model.RoleUser || sent[1].Content != "new question" {
		t.Fatalf("second outbound = %+v", sent[1])
	}
}

func TestAskWithoutSystemPromptSendsSingleMessage(t *testing.T) {
	t.Parallel()
	uc, _, provider := newChatFixture("ok", nil)

	session := model.NewChatSession("")
	if _, err := uc.Ask(context.Background(), session, "just this", adapter.SamplingParams{}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if sent := provider.requests[0]; len(sent) != 1 || sent[0].Role != model.RoleUser {
		t.Fatalf("outbound = %+v", sent)
	}
}

func TestAskAppendsExchangeAndPinsProvider(t *testing.T) {
	t.Parallel()
	uc, rt, _ := newChatFixture("answer", nil)

	session := model.NewChatSession("")
	if _, err := uc.Ask(context.Background(), session, "question", adapter.SamplingParams{}); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if session.Provider != "OpenAI" {
		t.Fatalf("session provider = %q", session.Provider)
	}
	if len(session.Messages) != 2 ||
		session.Messages[0].Content != "question" ||
		session.Messages[1].Content != "answer" {
		t.Fatalf("session messages = %+v", session.Messages)
	}
	if rt.releases != 1 {
		t.Fatalf("releases = %d, want 1", rt.releases)
	}
}

func TestAskUsesStickyProvider(t *testing.T) {
	t.Parallel()
	uc, rt, _ := newChatFixture("ok", nil)

	session := model.NewChatSession("")
	session.Provider = "Mistral"
	if _, err := uc.Ask(context.Background(), session, "q", adapter.SamplingParams{}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(rt.preferred) != 1 || rt.preferred[0] != "Mistral" {
		t.Fatalf("preferred = %v", rt.preferred)
	}
}

func TestAskRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()
	uc, rt, _ := newChatFixture("ok", nil)

	session := model.NewChatSession("")
	if _, err := uc.Ask(context.Background(), session, "   ", adapter.SamplingParams{}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if len(rt.preferred) != 0 {
		t.Fatal("router touched for empty prompt")
	}
}

func TestAskWrapsProviderErrorAndStillReleases(t *testing.T) {
	t.Parallel()
	uc, rt, _ := newChatFixture("", errors.New("upstream 503"))

	session := model.NewChatSession("")
	_, err := uc.Ask(context.Background(), session, "q", adapter.SamplingParams{})
	if !errors.Is(err, domain.ErrRoutedRequest) {
		t.Fatalf("err = %v, want ErrRoutedRequest", err)
	}
	if rt.releases != 1 {
		t.Fatalf("releases = %d, want 1", rt.releases)
	}
	// No failover: one provider attempt per turn.
	if len(rt.preferred) != 1 {
		t.Fatalf("router attempts = %d, want 1", len(rt.preferred))
	}
	// The failed exchange keeps the user message but gains no reply.
	if len(session.Messages) != 1 || session.Messages[0].Role != model.RoleUser {
		t.Fatalf("session messages = %+v", session.Messages)
	}
}

func TestAskStreamDeliversChunks(t *testing.T) {
	t.Parallel()
	uc, _, _ := newChatFixture("streamed", nil)

	session := model.NewChatSession("")
	var chunks []string
	reply, err := uc.AskStream(context.Background(), session, "q", adapter.SamplingParams{}, func(c string) {
		chunks = append(chunks, c)
	})
	if err != nil {
		t.Fatalf("AskStream: %v", err)
	}
	if reply != "streamed" || len(chunks) == 0 {
		t.Fatalf("reply %q, chunks %v", reply, chunks)
	}
}
