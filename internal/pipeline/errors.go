package pipeline

import "errors"

var (
	errAlreadyInitialized = errors.New("pipeline: already initialized")
	errNotInitialized     = errors.New("pipeline: not initialized")
)
