package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/modelscout/ai"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/vector"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Backend != ai.BackendOpenAI {
		return nil, fmt.Errorf("openai: unsupported backend %q", config.Backend)
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.Token
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a unit vector for a single query.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates unit vectors for multiple texts in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	inputs := make([]string, len(texts))
	copy(inputs, texts)

	raw, err := e.embedder.EmbedDocuments(ctx, inputs)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	if len(raw) != len(texts) {
		e.logger.Warn("embedder returned unexpected result count", "want", len(texts), "got", len(raw))
		return nil, &core.EmbeddingError{Reason: fmt.Sprintf("expected %d vectors, received %d", len(texts), len(raw))}
	}

	out := make([][]float32, len(raw))
	for i, v := range raw {
		if len(v) == 0 {
			return nil, &core.EmbeddingError{Reason: fmt.Sprintf("vector %d is empty", i)}
		}
		out[i] = vector.Normalize(v)
	}
	return out, nil
}
