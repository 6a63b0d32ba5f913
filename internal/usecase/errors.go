package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrOffline               = errors.New("offline mode")
	ErrAssetUnavailable      = errors.New("asset unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
