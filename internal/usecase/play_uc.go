// File: internal/usecase/play_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"promptquest/internal/domain"
	"promptquest/internal/domain/model"
	"promptquest/internal/domain/ports/adapter"
	"promptquest/internal/domain/ports/repository"
	"promptquest/internal/game"
	"promptquest/internal/infra/logging"
	"promptquest/internal/infra/metrics"
)

const completedReply = "Congratulations on completing the game! You've mastered every level. Start a new session to play again."

// TurnResult is everything the UI needs to render one finished turn.
type TurnResult struct {
	Answer           string             `json:"answer"`
	Level            int                `json:"level"`
	Instructions     string             `json:"instructions"`
	GameCompleted    bool               `json:"game_completed"`
	LevelUp          bool               `json:"level_up"`
	TotalScore       float64            `json:"total_score"`
	IndividualScores map[string]float64 `json:"individual_scores"`
	Messages         []game.Feedback    `json:"messages"`
}

// SessionView is the read model of one session for the history endpoint.
type SessionView struct {
	Level         int             `json:"level"`
	Instructions  string          `json:"instructions"`
	GameCompleted bool            `json:"game_completed"`
	Provider      string          `json:"provider,omitempty"`
	Exchanges     []model.Message `json:"exchanges"`
}

// Stats is the admin aggregate over all sessions plus ledger counts.
type Stats struct {
	Sessions       int            `json:"sessions"`
	Completed      int            `json:"completed"`
	ByLevel        map[int]int    `json:"by_level"`
	ProviderCounts map[string]int `json:"provider_counts"`
}

// Compile-time check
var _ PlayUseCase = (*playUC)(nil)

type PlayUseCase interface {
	// ProcessTurn runs one full game turn for a session: forward the prompt
	// to a model, evaluate the exchange, advance or retain the level, and
	// persist the updated state.
	ProcessTurn(ctx context.Context, sessionID, prompt string, params adapter.SamplingParams) (*TurnResult, error)

	Session(ctx context.Context, sessionID string) (*SessionView, error)
	ResetSession(ctx context.Context, sessionID string) error

	Stats(ctx context.Context) (*Stats, error)
	ResetAll(ctx context.Context) error
}

type playUC struct {
	store     repository.ProgressStore
	chat      ChatUseCase
	evaluator *game.Evaluator
	catalog   *game.Catalog
	router    ProviderRouter
	log       *zerolog.Logger
}

func NewPlayUseCase(store repository.ProgressStore, chat ChatUseCase, evaluator *game.Evaluator, catalog *game.Catalog, rt ProviderRouter, logger *zerolog.Logger) *playUC {
	return &playUC{store: store, chat: chat, evaluator: evaluator, catalog: catalog, router: rt, log: logger}
}

func (u *playUC) ProcessTurn(ctx context.Context, sessionID, prompt string, params adapter.SamplingParams) (*TurnResult, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	ctx = logging.WithSessID(ctx, sessionID)
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "PlayUC.ProcessTurn")()

	progress, err := u.store.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		progress = model.NewUserProgress()
	} else if err != nil {
		return nil, err
	}

	// Finished sessions never reach a model again.
	if progress.GameCompleted {
		return &TurnResult{
			Answer:        completedReply,
			Level:         progress.Level,
			GameCompleted: true,
			Messages: []game.Feedback{{
				Content: "You already finished the game.",
				Kind:    game.FeedbackInfo,
			}},
			IndividualScores: map[string]float64{},
		}, nil
	}

	level := u.catalog.Get(progress.Level)
	ctx = logging.WithLevel(ctx, level.Number())
	log = logging.With(ctx, u.log)

	// Keep the session's system message in sync with the current level; a
	// stale prompt survives restarts and catalog edits otherwise.
	if progress.Chat.SystemPrompt != level.SystemPrompt() {
		progress.Chat.SetSystemPrompt(level.SystemPrompt())
	}

	answer, err := u.chat.Ask(ctx, progress.Chat, prompt, params)
	if err != nil {
		log.Error().Err(err).Msg("turn aborted before evaluation")
		if perr := u.store.Set(ctx, sessionID, progress); perr != nil {
			log.Error().Err(perr).Msg("persist after model failure")
		}
		return &TurnResult{
			Answer:       "The model could not be reached. Please try again.",
			Level:        level.Number(),
			Instructions: level.Instructions(),
			Messages: []game.Feedback{{
				Content: "Model request failed; this attempt was not scored.",
				Kind:    game.FeedbackError,
			}},
			IndividualScores: map[string]float64{},
		}, nil
	}

	result := u.evaluator.Evaluate(ctx, level, prompt, answer)
	if serr := progress.Chat.ScoreLastExchange(result.TotalScore); serr != nil {
		log.Warn().Err(serr).Msg("could not attach score to exchange")
	}

	out := &TurnResult{
		Answer:           answer,
		Level:            level.Number(),
		Instructions:     level.Instructions(),
		TotalScore:       result.TotalScore,
		IndividualScores: result.IndividualScores,
		Messages:         result.Messages,
	}

	if result.Passed {
		out.Messages = append(out.Messages, game.Feedback{
			Content: level.OnSuccess(result.TotalScore),
			Kind:    game.FeedbackSuccess,
		})
		metrics.IncLevelUp(level.Number())

		if level.Number() >= u.catalog.Max() {
			progress.GameCompleted = true
			out.GameCompleted = true
			metrics.IncGameCompletion()
			log.Info().Float64("score", result.TotalScore).Msg("game completed")
		} else {
			next := u.catalog.Get(level.Number() + 1)
			progress.Level = next.Number()
			// Each level starts from a clean conversation.
			progress.Chat = model.NewChatSession(next.SystemPrompt())
			out.Level = next.Number()
			out.Instructions = next.Instructions()
			out.LevelUp = true
			log.Info().
				Float64("score", result.TotalScore).
				Int("next_level", next.Number()).
				Msg("level passed")
		}
	} else {
		out.Messages = append(out.Messages, game.Feedback{
			Content: level.OnFailure(result.TotalScore),
			Kind:    game.FeedbackInfo,
		})
		log.Info().Float64("score", result.TotalScore).Msg("level retry")
	}

	if err := u.store.Set(ctx, sessionID, progress); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *playUC) Session(ctx context.Context, sessionID string) (*SessionView, error) {
	progress, err := u.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	level := u.catalog.Get(progress.Level)
	return &SessionView{
		Level:         progress.Level,
		Instructions:  level.Instructions(),
		GameCompleted: progress.GameCompleted,
		Provider:      progress.Chat.Provider,
		Exchanges:     progress.Chat.Exchanges(),
	}, nil
}

// ResetSession clears the conversation but keeps the player's level, so a
// stuck attempt can start from a blank chat without losing progress.
func (u *playUC) ResetSession(ctx context.Context, sessionID string) error {
	progress, err := u.store.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	level := u.catalog.Get(progress.Level)
	progress.Chat = model.NewChatSession(level.SystemPrompt())
	return u.store.Set(ctx, sessionID, progress)
}

func (u *playUC) Stats(ctx context.Context) (*Stats, error) {
	all, err := u.store.All(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{ByLevel: make(map[int]int)}
	for _, p := range all {
		stats.Sessions++
		if p.GameCompleted {
			stats.Completed++
		}
		stats.ByLevel[p.Level]++
	}
	counts, err := u.router.Counts(ctx)
	if err != nil {
		u.log.Warn().Err(err).Msg("ledger counts unavailable for stats")
	} else {
		stats.ProviderCounts = counts
	}
	return stats, nil
}

func (u *playUC) ResetAll(ctx context.Context) error {
	return u.store.Reset(ctx)
}
