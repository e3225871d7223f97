package server

import "errors"

var (
	// ErrRetrieverRequired is returned when a server is created without a retriever.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrLoaderRequired is returned when a server is created without a loader.
	ErrLoaderRequired = errors.New("loader required")
)
