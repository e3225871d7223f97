package semantic

import "errors"

var (
	// ErrLoaderRequired is returned when a catalog loader is not provided.
	ErrLoaderRequired = errors.New("catalog loader required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrClientRequired is returned when a resilient client is not provided.
	ErrClientRequired = errors.New("resilient client required")

	// ErrRankerRequired is returned when a ranker is not provided.
	ErrRankerRequired = errors.New("ranker required")
)
