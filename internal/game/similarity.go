package game

import (
	"context"
	"fmt"
	"math"

	"promptquest/internal/domain"
	"promptquest/internal/domain/ports/adapter"
)

// SimilarityService computes embedding cosine similarity between two texts.
// The embedder is loaded once and shared read-only; this service adds no
// locking of its own.
type SimilarityService struct {
	embedder adapter.Embedder
}

func NewSimilarityService(embedder adapter.Embedder) *SimilarityService {
	return &SimilarityService{embedder: embedder}
}

// Similarity returns 1 - cosine_distance(embed(a), embed(b)), in [-1,1].
// Empty inputs are rejected; callers skip the check instead.
func (s *SimilarityService) Similarity(ctx context.Context, a, b string) (float64, error) {
	if a == "" || b == "" {
		return 0, domain.ErrEmptyText
	}
	if s.embedder == nil {
		return 0, domain.ErrNoEmbedder
	}
	va, err := s.embedder.Embed(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("embed first text: %w", err)
	}
	vb, err := s.embedder.Embed(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("embed second text: %w", err)
	}
	return cosineSimilarity(va, vb)
}

func cosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
