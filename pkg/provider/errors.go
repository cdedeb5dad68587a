package provider

import "errors"

// Package-level errors.
var (
	// ErrInvalidConfig is returned when Config validation fails.
	ErrInvalidConfig = errors.New("provider: invalid configuration")

	// ErrAlreadyStarted is returned when Startup is called twice.
	ErrAlreadyStarted = errors.New("provider: already started")

	// ErrNotStarted is returned when an operation requires a running provider.
	ErrNotStarted = errors.New("provider: not started")

	// ErrAlreadyStopped is returned when Startup or Shutdown is called on a
	// stopped provider.
	ErrAlreadyStopped = errors.New("provider: already stopped")

	// ErrDuplicateIntegration is returned when two integrations manage the
	// same cluster.
	ErrDuplicateIntegration = errors.New("provider: duplicate integration")
)
