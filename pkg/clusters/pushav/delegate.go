package pushav

import "github.com/backkem/matter-dm/pkg/datamodel"

// Delegate is implemented by the application layer that owns the media
// pipeline. All calls are made with the data-model lock held.
type Delegate interface {
	// Init is called when the server on the endpoint comes up.
	Init(ep datamodel.EndpointID) error

	// Shutdown is called when the server on the endpoint goes down.
	Shutdown(ep datamodel.EndpointID)

	// ValidateTransport checks transport options the server cannot check
	// itself, such as stream IDs and the ingest URL.
	ValidateTransport(opts *TransportOptions) error

	// AllocateTransport prepares a push transport for the connection.
	AllocateTransport(id ConnectionID, opts *TransportOptions) error

	// DeallocateTransport releases the connection's transport.
	DeallocateTransport(id ConnectionID) error

	// SetTransportStatus starts or stops pushing on the connections.
	SetTransportStatus(ids []ConnectionID, status TransportStatus) error
}
