package datamodel

import "fmt"

// Fundamental ID types used throughout the data model.
type (
	// EndpointID is a 16-bit endpoint identifier.
	EndpointID uint16

	// ClusterID is a 32-bit cluster identifier.
	ClusterID uint32

	// AttributeID is a 32-bit attribute identifier.
	AttributeID uint32

	// DataVersion is a 32-bit version number for attribute data.
	DataVersion uint32
)

// InvalidEndpointID is never assigned to a real endpoint.
const InvalidEndpointID EndpointID = 0xFFFF

// RootEndpointID is the endpoint that hosts node-wide clusters.
const RootEndpointID EndpointID = 0

// ConcreteClusterPath identifies a specific cluster instance on an endpoint.
// It is the key the registry uses to address server clusters.
type ConcreteClusterPath struct {
	Endpoint EndpointID
	Cluster  ClusterID
}

// String returns the path formatted as "ep/0xCLUSTER".
func (p ConcreteClusterPath) String() string {
	return fmt.Sprintf("%d/0x%04X", p.Endpoint, uint32(p.Cluster))
}

// ConcreteAttributePath identifies a specific attribute within a cluster.
type ConcreteAttributePath struct {
	Endpoint  EndpointID
	Cluster   ClusterID
	Attribute AttributeID
}

// ClusterPath returns the cluster path portion.
func (p ConcreteAttributePath) ClusterPath() ConcreteClusterPath {
	return ConcreteClusterPath{
		Endpoint: p.Endpoint,
		Cluster:  p.Cluster,
	}
}

// String returns the path formatted as "ep/0xCLUSTER/0xATTR".
func (p ConcreteAttributePath) String() string {
	return fmt.Sprintf("%d/0x%04X/0x%04X", p.Endpoint, uint32(p.Cluster), uint32(p.Attribute))
}
