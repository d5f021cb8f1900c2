package internal

import "context"

// Embedder turns text into a fixed-length vector. Implementations must be
// deterministic for identical input; the persisted index relies on it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Close() error
}

// Provider generates text from a prompt. One call per analysis, no streaming,
// no retries.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
