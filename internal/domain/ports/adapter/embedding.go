package adapter

import "context"

// Embedder is the port for the sentence-embedding capability. Implementations
// must be safe for concurrent use; they add no locking of their own.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
