package router

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"promptquest/internal/domain"
	"promptquest/internal/domain/ports/adapter"
	"promptquest/internal/infra/metrics"
)

// Router picks which provider services the next model request, claiming and
// releasing ledger slots around the downstream call.
type Router struct {
	ledger    *Ledger
	providers map[string]adapter.ModelProvider
	limit     int
	log       *zerolog.Logger
}

// New builds a router over providers, which must be listed in the same
// priority order the ledger was configured with.
func New(ledger *Ledger, providers []adapter.ModelProvider, limit int, logger *zerolog.Logger) *Router {
	byName := make(map[string]adapter.ModelProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Router{ledger: ledger, providers: byName, limit: limit, log: logger}
}

// Acquire claims a ledger slot and returns the provider that should service
// the request plus a release func. When preferred is non-empty (a session's
// sticky provider) selection is skipped and that provider's slot is claimed
// directly. The release func is idempotent and must be called exactly when
// the downstream call finishes, success or failure.
func (r *Router) Acquire(ctx context.Context, preferred string) (adapter.ModelProvider, func(), error) {
	start := time.Now()

	var name string
	var err error
	if preferred != "" {
		if _, known := r.providers[preferred]; !known {
			return nil, nil, domain.ErrUnknownProvider
		}
		name = preferred
		err = r.ledger.Acquire(ctx, name)
	} else {
		name, err = r.ledger.SelectAndAcquire(ctx, r.limit)
	}
	metrics.ObserveLedgerLockWait(time.Since(start))
	if err != nil {
		return nil, nil, err
	}

	provider, ok := r.providers[name]
	if !ok {
		r.ledger.Release(name)
		return nil, nil, domain.ErrUnknownProvider
	}

	metrics.RouterSelected(name, preferred != "")
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		r.ledger.Release(name)
	}
	return provider, release, nil
}

// Counts exposes the ledger snapshot for admin stats.
func (r *Router) Counts(ctx context.Context) (map[string]int, error) {
	return r.ledger.Counts(ctx)
}
