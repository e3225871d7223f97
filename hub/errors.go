package hub

import "errors"

var (
	// ErrInvalidBaseURL is returned when a base URL is not absolute.
	ErrInvalidBaseURL = errors.New("hub base URL must be absolute")

	// ErrInvalidLimit is returned when a result limit is less than 1.
	ErrInvalidLimit = errors.New("hub result limit must be at least 1")

	// ErrFetcherRequired is returned when an enricher has nothing to fetch metadata with.
	ErrFetcherRequired = errors.New("metadata fetcher required")
)
