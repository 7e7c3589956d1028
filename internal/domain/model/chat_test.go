package model

import (
	"encoding/json"
	"errors"
	"testing"

	"promptquest/internal/domain"
)

func TestSetSystemPromptKeepsSingleSystemMessageFirst(t *testing.T) {
	t.Parallel()
	s := NewChatSession("first rules")
	s.AddMessage(RoleUser, "hi")
	s.AddMessage(RoleAssistant, "hello")

	s.SetSystemPrompt("second rules")

	if s.SystemPrompt != "second rules" {
		t.Fatalf("SystemPrompt = %q", s.SystemPrompt)
	}
	if len(s.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(s.Messages))
	}
	if s.Messages[0].Role != RoleSystem || s.Messages[0].Content != "second rules" {
		t.Fatalf("first message = %+v", s.Messages[0])
	}
	for _, m := range s.Messages[1:] {
		if m.Role == RoleSystem {
			t.Fatalf("duplicate system message: %+v", m)
		}
	}
}

func TestSetSystemPromptEmptyRemovesSystemMessage(t *testing.T) {
	t.Parallel()
	s := NewChatSession("rules")
	s.AddMessage(RoleUser, "hi")

	s.SetSystemPrompt("")

	if len(s.Messages) != 1 || s.Messages[0].Role != RoleUser {
		t.Fatalf("messages = %+v", s.Messages)
	}
}

func TestScoreLastExchange(t *testing.T) {
	t.Parallel()
	s := NewChatSession("")

	if err := s.ScoreLastExchange(50); !errors.Is(err, domain.ErrTooFewMessages) {
		t.Fatalf("empty session err = %v", err)
	}

	s.AddMessage(RoleUser, "question")
	s.AddMessage(RoleAssistant, "answer")
	if err := s.ScoreLastExchange(87.5); err != nil {
		t.Fatalf("ScoreLastExchange: %v", err)
	}
	if s.Messages[0].Score == nil || *s.Messages[0].Score != 87.5 {
		t.Fatalf("user message score = %v", s.Messages[0].Score)
	}
	if s.Messages[1].Score != nil {
		t.Fatalf("assistant message unexpectedly scored")
	}
}

func TestExchangesSkipSystemMessage(t *testing.T) {
	t.Parallel()
	s := NewChatSession("rules")
	s.AddMessage(RoleUser, "q")
	s.AddMessage(RoleAssistant, "a")

	ex := s.Exchanges()
	if len(ex) != 2 || ex[0].Role != RoleUser || ex[1].Role != RoleAssistant {
		t.Fatalf("exchanges = %+v", ex)
	}
}

func TestUserProgressJSONRoundTrip(t *testing.T) {
	t.Parallel()
	p := NewUserProgress()
	p.Level = 4
	p.Chat.SetSystemPrompt("rules")
	p.Chat.AddMessage(RoleUser, "q")
	p.Chat.AddMessage(RoleAssistant, "a")
	if err := p.Chat.ScoreLastExchange(91.25); err != nil {
		t.Fatalf("score: %v", err)
	}
	p.Chat.Provider = "OpenAI"

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back UserProgress
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.Level != 4 || back.GameCompleted {
		t.Fatalf("round trip progress = %+v", back)
	}
	if back.Chat.Provider != "OpenAI" || back.Chat.SystemPrompt != "rules" {
		t.Fatalf("round trip chat = %+v", back.Chat)
	}
	idx := len(back.Chat.Messages) - 2
	if back.Chat.Messages[idx].Score == nil || *back.Chat.Messages[idx].Score != 91.25 {
		t.Fatalf("score lost in round trip: %+v", back.Chat.Messages[idx])
	}
}
