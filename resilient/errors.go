package resilient

import "errors"

var (
	// ErrInvalidTimeout is returned when a timeout option is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrProberRequired is returned when WithProber is given nil.
	ErrProberRequired = errors.New("prober required")
)
