package registry

import (
	"fmt"
	"sync"

	"github.com/backkem/matter-dm/pkg/datamodel"
)

// Registration is what a cluster owner submits to the Registry.
// The path is taken from the cluster itself.
type Registration struct {
	Cluster datamodel.ServerCluster
}

// Path returns the path the registration will occupy.
func (r Registration) Path() datamodel.ConcreteClusterPath {
	return r.Cluster.Path()
}

// Registry is the provider-side table of server clusters.
//
// C++ Reference: ServerClusterInterfaceRegistry::Register / Unregister
type Registry interface {
	// Register makes the cluster visible at its path.
	Register(reg Registration) error

	// Unregister removes the cluster. The cluster is matched by identity,
	// not only by path.
	Unregister(cluster datamodel.ServerCluster) error
}

// ServerClusterRegistry is a simple in-memory Registry implementation.
// It provides thread-safe registration and lookup and preserves
// registration order for enumeration.
type ServerClusterRegistry struct {
	mu       sync.RWMutex
	clusters map[datamodel.ConcreteClusterPath]datamodel.ServerCluster
	order    []datamodel.ConcreteClusterPath // Preserve registration order
}

// New creates an empty registry.
func New() *ServerClusterRegistry {
	return &ServerClusterRegistry{
		clusters: make(map[datamodel.ConcreteClusterPath]datamodel.ServerCluster),
	}
}

// Register adds the cluster at its path.
// Returns ErrAlreadyRegistered if another cluster occupies the path.
func (r *ServerClusterRegistry) Register(reg Registration) error {
	if reg.Cluster == nil {
		return ErrInvalidRegistration
	}
	path := reg.Path()
	if path.Endpoint == datamodel.InvalidEndpointID {
		return fmt.Errorf("%w: %w %d", ErrInvalidRegistration, datamodel.ErrInvalidEndpoint, path.Endpoint)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clusters[path]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, path)
	}

	r.clusters[path] = reg.Cluster
	r.order = append(r.order, path)
	return nil
}

// Unregister removes the cluster from the registry.
// Returns ErrNotRegistered if this exact cluster is not registered.
func (r *ServerClusterRegistry) Unregister(cluster datamodel.ServerCluster) error {
	if cluster == nil {
		return ErrInvalidRegistration
	}
	path := cluster.Path()

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.clusters[path]
	if !ok || existing != cluster {
		return fmt.Errorf("%w: %s", ErrNotRegistered, path)
	}

	delete(r.clusters, path)

	// Remove from order slice
	for i, p := range r.order {
		if p == path {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// Get returns the cluster registered at path, or nil if none.
func (r *ServerClusterRegistry) Get(path datamodel.ConcreteClusterPath) datamodel.ServerCluster {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clusters[path]
}

// Clusters returns all registered clusters in registration order.
func (r *ServerClusterRegistry) Clusters() []datamodel.ServerCluster {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]datamodel.ServerCluster, 0, len(r.order))
	for _, p := range r.order {
		if c, ok := r.clusters[p]; ok {
			result = append(result, c)
		}
	}
	return result
}

// EndpointClusters returns the clusters registered on one endpoint,
// in registration order.
func (r *ServerClusterRegistry) EndpointClusters(ep datamodel.EndpointID) []datamodel.ServerCluster {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []datamodel.ServerCluster
	for _, p := range r.order {
		if p.Endpoint == ep {
			result = append(result, r.clusters[p])
		}
	}
	return result
}

// Len returns the number of registered clusters.
func (r *ServerClusterRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clusters)
}

// Verify ServerClusterRegistry implements the interface.
var _ Registry = (*ServerClusterRegistry)(nil)
