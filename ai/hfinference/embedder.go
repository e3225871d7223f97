package hfinference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/modelscout/ai"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/vector"
	"github.com/tmc/langchaingo/embeddings"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 20

// Embedder implements ai.Embedder against a hosted feature-extraction pipeline.
type Embedder struct {
	url        string
	token      string
	httpClient *http.Client
	embedder   embeddings.Embedder
	logger     *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// Option configures an Embedder.
type Option func(*Embedder)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Embedder) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) {
		if logger != nil {
			e.logger = logger.With("component", "hf-inference-embedder")
		}
	}
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config, opts ...Option) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Backend != ai.BackendHFInference {
		return nil, fmt.Errorf("hfinference: unsupported backend %q", config.Backend)
	}

	e := &Embedder{
		url:        config.EmbeddingURL,
		token:      config.Token,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     slog.Default().With("component", "hf-inference-embedder"),
	}
	for _, opt := range opts {
		opt(e)
	}

	// Wrap in langchaingo embedder for batching and newline handling
	embedder, err := embeddings.NewEmbedder(
		embeddings.EmbedderClientFunc(e.createEmbedding),
		embeddings.WithStripNewLines(true),
	)
	if err != nil {
		return nil, err
	}
	e.embedder = embedder

	return e, nil
}

// NewEmbedder creates an embedder for the configured endpoint.
// It fails with core.ErrConfiguration when no token is configured.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config, opts ...Option) (ai.Embedder, error) {
	return newEmbedder(config, opts...)
}

// EmbedText embeds a single query and returns a unit vector.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts embeds a batch and returns one unit vector per input.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	// langchaingo rewrites newlines in place
	inputs := make([]string, len(texts))
	copy(inputs, texts)

	raw, err := e.embedder.EmbedDocuments(ctx, inputs)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	if len(raw) != len(texts) {
		return nil, &core.EmbeddingError{Reason: fmt.Sprintf("expected %d vectors, received %d", len(texts), len(raw))}
	}

	out := make([][]float32, len(raw))
	for i, v := range raw {
		out[i] = vector.Normalize(v)
	}
	return out, nil
}

type embeddingRequest struct {
	Inputs []string `json:"inputs"`
}

// createEmbedding performs one POST and validates the response shape.
func (e *Embedder) createEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("encoding embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &core.TransportError{Op: "embedding request", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &core.TransportError{Op: "embedding request", StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.TransportError{
			Op:         "embedding request",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
	}

	return decodeEmbeddings(data, len(texts))
}

// decodeEmbeddings requires a non-empty array of equally sized, non-empty
// float arrays with one row per input.
func decodeEmbeddings(data []byte, want int) ([][]float32, error) {
	var rows [][]float32
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &core.EmbeddingError{Reason: "expected an array of float arrays: " + err.Error()}
	}
	if len(rows) == 0 {
		return nil, &core.EmbeddingError{Reason: "empty response"}
	}
	if len(rows) != want {
		return nil, &core.EmbeddingError{Reason: fmt.Sprintf("expected %d rows, received %d", want, len(rows))}
	}
	dim := len(rows[0])
	for i, row := range rows {
		if len(row) == 0 {
			return nil, &core.EmbeddingError{Reason: fmt.Sprintf("row %d is empty", i)}
		}
		if len(row) != dim {
			return nil, &core.EmbeddingError{Reason: fmt.Sprintf("row %d has %d dimensions, expected %d", i, len(row), dim)}
		}
	}
	return rows, nil
}
