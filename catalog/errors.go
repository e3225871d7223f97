package catalog

import (
	"errors"

	"github.com/poiesic/modelscout/core"
)

var (
	// ErrSourceRequired is returned when a store is created without a source.
	ErrSourceRequired = errors.New("catalog source required")

	// ErrNoEmbeddings is returned when the embedding table has no usable rows.
	ErrNoEmbeddings = errors.New("embedding table is empty")
)

func asDataLoadError(artifact string, err error) error {
	var dle *core.DataLoadError
	if errors.As(err, &dle) {
		return err
	}
	return &core.DataLoadError{Artifact: artifact, Err: err}
}
