package adapter

import "context"

// Message represents a chat message on the provider wire.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ModelInfo describes a model.
type ModelInfo struct {
	Name        string
	Description string
	MaxTokens   int
}

// SamplingParams are passed through verbatim to the active backend.
// Providers that don't support a given parameter silently ignore it.
type SamplingParams struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	TopK          int     `json:"top_k"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

// ModelProvider is the port for one LLM backend.
type ModelProvider interface {
	// Name is the stable identifier used by the router ledger.
	Name() string

	GetModelInfo() ModelInfo

	// CountTokens must return prompt tokens for the provided messages
	// (provider-specific counting; best-effort when exact isn't available).
	CountTokens(ctx context.Context, messages []Message) (int, error)

	// Generate returns only the assistant text.
	Generate(ctx context.Context, messages []Message, params SamplingParams) (string, error)

	// GenerateStream yields incremental chunks through onChunk and returns
	// the concatenated text.
	GenerateStream(ctx context.Context, messages []Message, params SamplingParams, onChunk func(string)) (string, error)
}
