package indexer

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidBatchSize is returned when the batch size is <= 0
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrNoQueries is returned when the catalog has no queries to embed.
	ErrNoQueries = errors.New("no queries found in catalog")

	// ErrEmbedderRequired is returned when a builder is created without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
