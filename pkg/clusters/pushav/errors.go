package pushav

import (
	"errors"
	"fmt"

	"github.com/backkem/matter-dm/pkg/datamodel"
)

// Package errors.
var (
	// ErrNoDelegate is returned by Init when no delegate is configured.
	ErrNoDelegate = errors.New("pushav: no delegate configured")

	// ErrNotInitialized is returned by transport operations before Init.
	ErrNotInitialized = fmt.Errorf("pushav: %w", datamodel.ErrClusterNotInitialized)

	// ErrFeatureMap is returned when the FeatureMap attribute is missing
	// or is not a bitmap.
	ErrFeatureMap = errors.New("pushav: cannot read feature map")

	// ErrTransportNotFound is returned when a connection ID doesn't exist
	// for the accessing fabric.
	ErrTransportNotFound = errors.New("pushav: transport not found")

	// ErrResourceExhausted is returned when no more transports can be allocated.
	ErrResourceExhausted = errors.New("pushav: resource exhausted")

	// ErrUnsupportedFeature is returned when transport options use a
	// feature the server was not constructed with.
	ErrUnsupportedFeature = errors.New("pushav: feature not supported")

	// ErrInvalidTransport is returned for malformed transport options.
	ErrInvalidTransport = errors.New("pushav: invalid transport options")
)
