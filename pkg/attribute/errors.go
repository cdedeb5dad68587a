package attribute

import "errors"

// Package errors.
var (
	// ErrInvalidArgument is returned for nil handles or malformed values.
	ErrInvalidArgument = errors.New("attribute: invalid argument")

	// ErrNotFound is returned when an endpoint, cluster or attribute is absent.
	ErrNotFound = errors.New("attribute: not found")

	// ErrTypeMismatch is returned when a value does not have the expected type.
	ErrTypeMismatch = errors.New("attribute: type mismatch")

	// ErrReadOnly is returned by SetVal for attributes created without
	// FlagWritable.
	ErrReadOnly = errors.New("attribute: not writable")

	// ErrOutOfRange is returned when a value does not fit its declared type.
	ErrOutOfRange = errors.New("attribute: value out of range")
)
