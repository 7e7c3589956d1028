package repository

import (
	"context"

	"promptquest/internal/domain/model"
)

// ProgressStore is the key-value collaborator persisting per-session game
// state between turns. Get returns domain.ErrNotFound for unknown sessions.
type ProgressStore interface {
	Get(ctx context.Context, sessionID string) (*model.UserProgress, error)
	Set(ctx context.Context, sessionID string, p *model.UserProgress) error
	Delete(ctx context.Context, sessionID string) error

	// All returns every persisted session's progress, for admin stats.
	All(ctx context.Context) (map[string]*model.UserProgress, error)

	// Reset wipes all progress.
	Reset(ctx context.Context) error
}
