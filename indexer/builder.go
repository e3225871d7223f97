package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/modelscout/ai"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/vector"
)

const (
	// DefaultBatchSize is how many queries go into one embedding request.
	DefaultBatchSize = 16
	// DefaultMaxAttempts bounds retries per batch.
	DefaultMaxAttempts = 3
	// DefaultRetryBaseDelay is the first backoff delay.
	DefaultRetryBaseDelay = time.Second
)

// Builder embeds catalog queries into an embedding table.
type Builder struct {
	embedder       ai.Embedder
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
	withMetadata   bool
	progress       io.Writer
	logger         *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithBatchSize sets how many queries are embedded per request.
func WithBatchSize(n int) Option {
	return func(b *Builder) error {
		if n <= 0 {
			return ErrInvalidBatchSize
		}
		b.batchSize = n
		return nil
	}
}

// WithRetry sets the per-batch retry budget.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *Builder) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		b.maxAttempts = maxAttempts
		b.retryBaseDelay = baseDelay
		return nil
	}
}

// WithMetadataContext appends " | name tasks params license framework" to
// each embedded query. The stored query text is unchanged.
func WithMetadataContext(enabled bool) Option {
	return func(b *Builder) error {
		b.withMetadata = enabled
		return nil
	}
}

// WithProgress writes a progress line to w while building.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) error {
		b.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger != nil {
			b.logger = logger.With("component", "index-builder")
		}
		return nil
	}
}

// NewBuilder creates a Builder around an embedder.
func NewBuilder(embedder ai.Embedder, opts ...Option) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	b := &Builder{
		embedder:       embedder,
		batchSize:      DefaultBatchSize,
		maxAttempts:    DefaultMaxAttempts,
		retryBaseDelay: DefaultRetryBaseDelay,
		logger:         slog.Default().With("component", "index-builder"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build embeds every query in models and returns one record per query, in
// Flatten order. Vectors are unit length.
func (b *Builder) Build(ctx context.Context, models []core.CatalogModel) ([]core.EmbeddingRecord, error) {
	rows := Flatten(models)
	if len(rows) == 0 {
		return nil, ErrNoQueries
	}
	if b.withMetadata {
		rows = withMetadata(rows, models)
	}

	numBatches := (len(rows) + b.batchSize - 1) / b.batchSize
	b.logger.Info("embedding catalog queries", "queries", len(rows), "batches", numBatches, "batchSize", b.batchSize)

	tracker := NewProgressTracker(b.progress, len(rows), b.batchSize)
	tracker.Start()

	records := make([]core.EmbeddingRecord, 0, len(rows))
	for start := 0; start < len(rows); start += b.batchSize {
		end := min(start+b.batchSize, len(rows))
		batch := rows[start:end]

		vectors, err := b.embedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d/%d: %w", start/b.batchSize+1, numBatches, err)
		}
		for i, row := range batch {
			records = append(records, core.EmbeddingRecord{
				ModelID:   row.ModelID,
				Level:     row.Level,
				Query:     row.Query,
				Embedding: vectors[i],
			})
		}
		tracker.Increment(len(batch))
	}
	tracker.Finish()

	b.logger.Info("embedded catalog queries", "records", len(records), "elapsed", tracker.Elapsed())
	return records, nil
}

func (b *Builder) embedBatch(ctx context.Context, batch []Row) ([][]float32, error) {
	texts := make([]string, len(batch))
	for i, row := range batch {
		texts[i] = row.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = b.embedder.EmbedTexts(ctx, texts)
		if err == nil && len(vectors) != len(texts) {
			err = &core.EmbeddingError{Reason: fmt.Sprintf("expected %d vectors, received %d", len(texts), len(vectors))}
		}
		return err
	}, b.maxAttempts, b.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", b.maxAttempts, err)
	}

	for i := range vectors {
		vectors[i] = vector.Normalize(vectors[i])
	}
	return vectors, nil
}

// Run builds the table and writes it to w as the embeddings artifact.
func (b *Builder) Run(ctx context.Context, models []core.CatalogModel, w io.Writer) (int, error) {
	records, err := b.Build(ctx, models)
	if err != nil {
		return 0, err
	}
	if err := WriteEmbeddings(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// WriteEmbeddings encodes records as a compact JSON array.
func WriteEmbeddings(w io.Writer, records []core.EmbeddingRecord) error {
	if records == nil {
		records = []core.EmbeddingRecord{}
	}
	if err := json.NewEncoder(w).Encode(records); err != nil {
		return fmt.Errorf("writing embeddings: %w", err)
	}
	return nil
}
