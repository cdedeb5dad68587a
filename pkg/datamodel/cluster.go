package datamodel

import (
	"crypto/rand"
	"encoding/binary"
	"slices"
	"sync/atomic"
)

// ClusterBase provides common functionality for cluster implementations.
// Embed this struct in your cluster implementation to get standard behavior
// for global attributes, data version management and Init/Deinit tracking.
type ClusterBase struct {
	id          ClusterID
	endpointID  EndpointID
	revision    uint16
	featureMap  uint32
	dataVersion atomic.Uint32
	initialized atomic.Bool
}

// NewClusterBase creates a new cluster base with the given parameters.
// The data version is initialized to a random value per Matter Core 7.10.3.
func NewClusterBase(id ClusterID, endpointID EndpointID, revision uint16) *ClusterBase {
	cb := &ClusterBase{
		id:         id,
		endpointID: endpointID,
		revision:   revision,
	}
	cb.dataVersion.Store(randomDataVersion())
	return cb
}

// ID returns the cluster ID.
func (c *ClusterBase) ID() ClusterID {
	return c.id
}

// EndpointID returns the endpoint this cluster belongs to.
func (c *ClusterBase) EndpointID() EndpointID {
	return c.endpointID
}

// Path returns the concrete cluster path for this cluster.
func (c *ClusterBase) Path() ConcreteClusterPath {
	return ConcreteClusterPath{
		Endpoint: c.endpointID,
		Cluster:  c.id,
	}
}

// AttributePath returns a concrete attribute path for an attribute on this cluster.
func (c *ClusterBase) AttributePath(attrID AttributeID) ConcreteAttributePath {
	return ConcreteAttributePath{
		Endpoint:  c.endpointID,
		Cluster:   c.id,
		Attribute: attrID,
	}
}

// ClusterRevision returns the cluster revision.
func (c *ClusterBase) ClusterRevision() uint16 {
	return c.revision
}

// FeatureMap returns the feature map.
func (c *ClusterBase) FeatureMap() uint32 {
	return c.featureMap
}

// SetFeatureMap sets the feature map bits.
// Only call this before the cluster is registered.
func (c *ClusterBase) SetFeatureMap(features uint32) {
	c.featureMap = features
}

// DataVersion returns the current data version.
func (c *ClusterBase) DataVersion() DataVersion {
	return DataVersion(c.dataVersion.Load())
}

// IncrementDataVersion increments the data version.
// Call this whenever an attribute value changes.
func (c *ClusterBase) IncrementDataVersion() {
	c.dataVersion.Add(1)
}

// SetDataVersion sets the data version to a specific value.
// Use IncrementDataVersion for normal updates; this is for initialization.
func (c *ClusterBase) SetDataVersion(version DataVersion) {
	c.dataVersion.Store(uint32(version))
}

// Initialized reports whether MarkInitialized succeeded without a matching
// MarkDeinitialized.
func (c *ClusterBase) Initialized() bool {
	return c.initialized.Load()
}

// MarkInitialized records a successful Init.
// Returns ErrClusterAlreadyInitialized if the cluster is already up.
func (c *ClusterBase) MarkInitialized() error {
	if !c.initialized.CompareAndSwap(false, true) {
		return ErrClusterAlreadyInitialized
	}
	return nil
}

// MarkDeinitialized records a Deinit. It returns false if the cluster was
// not initialized, letting Deinit implementations skip their teardown.
func (c *ClusterBase) MarkDeinitialized() bool {
	return c.initialized.CompareAndSwap(true, false)
}

// randomDataVersion generates a random initial data version.
func randomDataVersion() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a fixed value if random fails
		return 1
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// MergeAttributeLists combines cluster-specific attribute IDs with the global
// attributes. Use this to build the complete AttributeList for a cluster.
func MergeAttributeLists(clusterAttrs []AttributeID) []AttributeID {
	globals := GlobalAttributeIDs()
	result := make([]AttributeID, 0, len(clusterAttrs)+len(globals))
	result = append(result, clusterAttrs...)
	result = append(result, globals...)
	return result
}

// HasAttribute reports whether id is present in list.
func HasAttribute(list []AttributeID, id AttributeID) bool {
	return slices.Contains(list, id)
}
