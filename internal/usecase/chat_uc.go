// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"promptquest/internal/domain"
	"promptquest/internal/domain/model"
	"promptquest/internal/domain/ports/adapter"
	"promptquest/internal/infra/logging"
	"promptquest/internal/infra/metrics"
)

// ProviderRouter claims a provider slot for one model call. Satisfied by
// *router.Router.
type ProviderRouter interface {
	Acquire(ctx context.Context, preferred string) (adapter.ModelProvider, func(), error)
	Counts(ctx context.Context) (map[string]int, error)
}

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// Ask sends the session's current prompt to a provider and appends both
	// sides of the exchange to the session history.
	Ask(ctx context.Context, session *model.ChatSession, prompt string, params adapter.SamplingParams) (string, error)

	// AskStream is Ask with incremental chunks delivered through onChunk.
	AskStream(ctx context.Context, session *model.ChatSession, prompt string, params adapter.SamplingParams, onChunk func(string)) (string, error)
}

type chatUC struct {
	router ProviderRouter
	log    *zerolog.Logger
}

func NewChatUseCase(router ProviderRouter, logger *zerolog.Logger) *chatUC {
	return &chatUC{router: router, log: logger}
}

func (c *chatUC) Ask(ctx context.Context, session *model.ChatSession, prompt string, params adapter.SamplingParams) (string, error) {
	return c.ask(ctx, session, prompt, params, nil)
}

func (c *chatUC) AskStream(ctx context.Context, session *model.ChatSession, prompt string, params adapter.SamplingParams, onChunk func(string)) (string, error) {
	return c.ask(ctx, session, prompt, params, onChunk)
}

func (c *chatUC) ask(ctx context.Context, session *model.ChatSession, prompt string, params adapter.SamplingParams, onChunk func(string)) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.ErrInvalidArgument
	}

	session.AddMessage(model.RoleUser, prompt)

	// The backend sees only the system prompt plus the current user message.
	// Earlier exchanges stay out of the window so every attempt at a level
	// is judged on the prompt alone.
	outbound := make([]adapter.Message, 0, 2)
	if session.SystemPrompt != "" {
		outbound = append(outbound, adapter.Message{Role: model.RoleSystem, Content: session.SystemPrompt})
	}
	outbound = append(outbound, adapter.Message{Role: model.RoleUser, Content: prompt})

	provider, release, err := c.router.Acquire(ctx, session.Provider)
	if err != nil {
		return "", err
	}
	defer release()

	start := time.Now()
	var reply string
	if onChunk != nil {
		reply, err = provider.GenerateStream(ctx, outbound, params, onChunk)
	} else {
		reply, err = provider.Generate(ctx, outbound, params)
	}
	latency := time.Since(start)

	tokensIn, cerr := provider.CountTokens(ctx, outbound)
	if cerr != nil {
		tokensIn = 0 // best-effort
	}
	tokensOut := 0
	if reply != "" {
		if n, cerr := provider.CountTokens(ctx, []adapter.Message{{Role: model.RoleAssistant, Content: reply}}); cerr == nil {
			tokensOut = n
		}
	}
	info := provider.GetModelInfo()
	metrics.ObserveModelCall(provider.Name(), info.Name, tokensIn, tokensOut, latency.Milliseconds(), err == nil)

	log := logging.With(ctx, c.log)
	if err != nil {
		log.Error().Err(err).
			Str("provider", provider.Name()).
			Dur("latency", latency).
			Msg("model call failed")
		return "", domain.WrapRouted(provider.Name(), err)
	}

	session.Provider = provider.Name()
	session.AddMessage(model.RoleAssistant, reply)

	log.Debug().
		Str("provider", provider.Name()).
		Int("tokens_in", tokensIn).
		Int("tokens_out", tokensOut).
		Dur("latency", latency).
		Msg("model call ok")
	return reply, nil
}
