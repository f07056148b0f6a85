package domain

import "errors"

var (
	// ErrValidation marks a write rejected before it reached storage.
	ErrValidation = errors.New("validation failed")
	// ErrStorage marks a connectivity or query failure in the backend.
	ErrStorage = errors.New("storage failure")
	// ErrStartup marks a condition that must stop the process before it serves.
	ErrStartup = errors.New("startup failure")
)
