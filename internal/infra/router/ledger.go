// Package router distributes model requests across the configured providers
// under a shared, file-persisted in-flight ledger.
package router

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"promptquest/internal/domain"
)

// Ledger is the cross-process record of in-flight request counts per
// provider, one line per provider ("<Name>: <count>"), guarded by a
// companion lock file at <path>.lock. All read-modify-write sequences happen
// inside that lock; the critical section is read, mutate in memory, write
// back.
type Ledger struct {
	path        string
	lockPath    string
	providers   []string // fixed priority order
	lockTimeout time.Duration
	log         *zerolog.Logger
}

const (
	lockRetryInterval = 25 * time.Millisecond
	lockStaleAfter    = 30 * time.Second
)

func NewLedger(path string, providers []string, lockTimeout time.Duration, logger *zerolog.Logger) *Ledger {
	return &Ledger{
		path:        path,
		lockPath:    path + ".lock",
		providers:   append([]string(nil), providers...),
		lockTimeout: lockTimeout,
		log:         logger,
	}
}

// lock acquires the advisory lock file, retrying until the bounded timeout.
// A lock file left behind by a crashed worker is broken once it is older
// than lockStaleAfter.
func (l *Ledger) lock(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.lockTimeout)
	for {
		f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, _ = f.WriteString(token + "\n")
			_ = f.Close()
			return func() { _ = os.Remove(l.lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create ledger lock: %w", err)
		}
		if st, serr := os.Stat(l.lockPath); serr == nil && time.Since(st.ModTime()) > lockStaleAfter {
			l.log.Warn().Str("lock", l.lockPath).Msg("breaking stale ledger lock")
			_ = os.Remove(l.lockPath)
			continue
		}
		if time.Now().After(deadline) {
			return nil, domain.ErrLedgerLockBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

// read parses the ledger file. A missing or malformed file reinitializes all
// providers to zero; corruption is never fatal.
func (l *Ledger) read() map[string]int {
	counts := make(map[string]int, len(l.providers))
	for _, p := range l.providers {
		counts[p] = 0
	}

	b, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn().Err(err).Str("path", l.path).Msg("ledger unreadable; reinitializing")
		}
		return counts
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			l.log.Warn().Str("line", line).Msg("malformed ledger line; reinitializing")
			return zeroCounts(l.providers)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			l.log.Warn().Str("line", line).Msg("malformed ledger count; reinitializing")
			return zeroCounts(l.providers)
		}
		name = strings.TrimSpace(name)
		if _, known := counts[name]; known {
			counts[name] = n
		}
	}
	return counts
}

func zeroCounts(providers []string) map[string]int {
	counts := make(map[string]int, len(providers))
	for _, p := range providers {
		counts[p] = 0
	}
	return counts
}

// write persists counts atomically (temp file + rename) in priority order so
// the file stays human-inspectable and crash-safe.
func (l *Ledger) write(counts map[string]int) error {
	var sb strings.Builder
	for _, p := range l.providers {
		fmt.Fprintf(&sb, "%s: %d\n", p, counts[p])
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Acquire increments name's in-flight count.
func (l *Ledger) Acquire(ctx context.Context, name string) error {
	unlock, err := l.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	counts := l.read()
	if _, known := counts[name]; !known {
		return domain.ErrUnknownProvider
	}
	counts[name]++
	return l.write(counts)
}

// Release decrements name's in-flight count, never below zero. It must run
// regardless of request outcome, so failures are logged rather than
// returned.
func (l *Ledger) Release(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), l.lockTimeout)
	defer cancel()

	unlock, err := l.lock(ctx)
	if err != nil {
		l.log.Error().Err(err).Str("provider", name).Msg("ledger release: lock failed; slot leaked until reinit")
		return
	}
	defer unlock()

	counts := l.read()
	if counts[name] > 0 {
		counts[name]--
	}
	if err := l.write(counts); err != nil {
		l.log.Error().Err(err).Str("provider", name).Msg("ledger release: write failed")
	}
}

// SelectAndAcquire picks the first provider (in priority order) whose
// in-flight count is under the cap; if all are at or above it, the provider
// with the globally minimum count wins, ties broken by priority order. The
// chosen provider's count is incremented in the same critical section.
func (l *Ledger) SelectAndAcquire(ctx context.Context, limit int) (string, error) {
	unlock, err := l.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	if len(l.providers) == 0 {
		return "", domain.ErrNoProvider
	}

	counts := l.read()
	chosen := ""
	for _, p := range l.providers {
		if counts[p] < limit {
			chosen = p
			break
		}
	}
	if chosen == "" {
		chosen = l.providers[0]
		for _, p := range l.providers[1:] {
			if counts[p] < counts[chosen] {
				chosen = p
			}
		}
	}

	counts[chosen]++
	if err := l.write(counts); err != nil {
		return "", err
	}
	return chosen, nil
}

// Counts returns a snapshot of the ledger, for metrics and admin stats.
func (l *Ledger) Counts(ctx context.Context) (map[string]int, error) {
	unlock, err := l.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return l.read(), nil
}
