package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrGameCompleted   = errors.New("game already completed")
	ErrUnknownProvider = errors.New("unknown model provider")
	ErrNoProvider      = errors.New("no model provider configured")
	ErrLedgerLockBusy  = errors.New("provider ledger lock acquisition timed out")
	ErrRoutedRequest   = errors.New("routed model request failed")
	ErrTooFewMessages  = errors.New("chat has no exchange to score")
	ErrEmptyText       = errors.New("text is empty")
	ErrNoEmbedder      = errors.New("no embedder configured")
)

// WrapRouted tags a downstream provider failure so callers can match it
// with errors.Is(err, ErrRoutedRequest) while keeping the cause visible.
func WrapRouted(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRoutedRequest, provider, err)
}
