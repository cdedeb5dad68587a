package datamodel

import "errors"

// Errors returned by datamodel operations.
var (
	// ErrClusterNotInitialized indicates the server cluster has not been initialized.
	ErrClusterNotInitialized = errors.New("cluster not initialized")

	// ErrClusterAlreadyInitialized indicates Init was called twice without Deinit.
	ErrClusterAlreadyInitialized = errors.New("cluster already initialized")

	// ErrAttributeNotFound indicates the requested attribute does not exist.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrInvalidEndpoint indicates an endpoint ID that cannot host clusters.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)
