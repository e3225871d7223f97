package rank

import "errors"

// ErrInvalidMinSimilarity is returned when a similarity cut-off lies outside [-1, 1].
var ErrInvalidMinSimilarity = errors.New("min similarity must be within [-1, 1]")
