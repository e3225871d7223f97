package ai

import "context"

// Embedder turns text into unit-length vectors for similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText embeds a single query string.
	// The returned vector has Euclidean norm 1 (or is all zeros).
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch of strings, preserving input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
