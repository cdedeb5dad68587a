package registry

import "errors"

// Package errors.
var (
	// ErrInvalidRegistration is returned when a registration has no cluster.
	ErrInvalidRegistration = errors.New("registry: invalid registration")

	// ErrAlreadyRegistered is returned when the path is already taken.
	ErrAlreadyRegistered = errors.New("registry: path already registered")

	// ErrNotRegistered is returned by Unregister for an unknown cluster.
	ErrNotRegistered = errors.New("registry: cluster not registered")
)
