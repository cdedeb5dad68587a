package lifecycle

import "errors"

// Package errors.
var (
	// ErrAlreadyConstructed is returned by Create for an endpoint that
	// already holds an instance.
	ErrAlreadyConstructed = errors.New("lifecycle: already constructed")

	// ErrNotConstructed is returned by Destroy and lookups for an empty endpoint.
	ErrNotConstructed = errors.New("lifecycle: not constructed")

	// ErrInvalidDefinition is returned by NewManager for incomplete definitions.
	ErrInvalidDefinition = errors.New("lifecycle: invalid definition")

	// ErrReadArgs wraps construction-argument read failures.
	ErrReadArgs = errors.New("lifecycle: cannot read construction arguments")

	// ErrRegister wraps registry registration failures.
	ErrRegister = errors.New("lifecycle: register failed")

	// ErrUnregister wraps registry unregistration failures.
	ErrUnregister = errors.New("lifecycle: unregister failed")
)
