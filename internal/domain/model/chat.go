package model

import (
	"promptquest/internal/domain"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat message. Score is attached retroactively to the most
// recent user message once evaluation completes; it stays nil for every
// other message.
type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Score   *float64 `json:"score,omitempty"`
}

// ChatSession owns the message history of one conversation. Invariant: at
// most one system message is present, and it is always first.
type ChatSession struct {
	Messages     []Message `json:"messages"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Provider     string    `json:"provider,omitempty"`
}

func NewChatSession(systemPrompt string) *ChatSession {
	s := &ChatSession{Messages: make([]Message, 0, 8)}
	if systemPrompt != "" {
		s.SetSystemPrompt(systemPrompt)
	}
	return s
}

func (s *ChatSession) AddMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// SetSystemPrompt strips any existing system message and re-adds the new one
// at the front. An empty prompt leaves the session without a system message.
func (s *ChatSession) SetSystemPrompt(prompt string) {
	kept := s.Messages[:0]
	for _, m := range s.Messages {
		if m.Role != RoleSystem {
			kept = append(kept, m)
		}
	}
	s.Messages = kept
	s.SystemPrompt = prompt
	if prompt != "" {
		s.Messages = append([]Message{{Role: RoleSystem, Content: prompt}}, s.Messages...)
	}
}

// ScoreLastExchange attaches score to the user message of the most recent
// user/assistant exchange.
func (s *ChatSession) ScoreLastExchange(score float64) error {
	if len(s.Messages) < 2 {
		return domain.ErrTooFewMessages
	}
	idx := len(s.Messages) - 2
	if s.Messages[idx].Role != RoleUser {
		return domain.ErrTooFewMessages
	}
	s.Messages[idx].Score = &score
	return nil
}

// Exchanges returns the user/assistant pairs of the session, skipping the
// system message. Used by the history view.
func (s *ChatSession) Exchanges() []Message {
	out := make([]Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}
