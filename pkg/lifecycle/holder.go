package lifecycle

import (
	"fmt"
	"slices"

	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/backkem/matter-dm/pkg/registry"
)

// BuildFunc constructs the server cluster for an endpoint from its
// construction arguments.
type BuildFunc[T datamodel.ServerCluster, A any] func(ep datamodel.EndpointID, args A) T

// entry is one endpoint's slot. Absent from the map means StateEmpty.
type entry[T datamodel.ServerCluster, A any] struct {
	state   State
	cluster T
	args    A
}

// Holder owns at most one live server cluster per endpoint for one cluster
// type. The zero value is not usable; create holders with NewHolder.
//
// Holder is not safe for concurrent use; see the package documentation.
type Holder[T datamodel.ServerCluster, A any] struct {
	entries map[datamodel.EndpointID]*entry[T, A]
}

// NewHolder creates an empty holder.
func NewHolder[T datamodel.ServerCluster, A any]() *Holder[T, A] {
	return &Holder[T, A]{
		entries: make(map[datamodel.EndpointID]*entry[T, A]),
	}
}

// IsConstructed reports whether an instance exists for the endpoint.
func (h *Holder[T, A]) IsConstructed(ep datamodel.EndpointID) bool {
	_, ok := h.entries[ep]
	return ok
}

// State returns the endpoint's entry state.
func (h *Holder[T, A]) State(ep datamodel.EndpointID) State {
	e, ok := h.entries[ep]
	if !ok {
		return StateEmpty
	}
	return e.state
}

// Create builds the instance for an endpoint. The args are kept as the
// entry's construction snapshot.
// Returns ErrAlreadyConstructed, leaving the existing instance untouched,
// if the endpoint is not empty.
func (h *Holder[T, A]) Create(ep datamodel.EndpointID, args A, build BuildFunc[T, A]) (T, error) {
	if e, ok := h.entries[ep]; ok {
		return e.cluster, fmt.Errorf("%w: endpoint %d", ErrAlreadyConstructed, ep)
	}

	e := &entry[T, A]{
		state:   StateConstructed,
		cluster: build(ep, args),
		args:    args,
	}
	h.entries[ep] = e
	return e.cluster, nil
}

// Destroy releases the endpoint's instance and resets the entry to empty.
// The caller is responsible for unregistering and deinitializing first.
// Returns ErrNotConstructed if the endpoint is empty.
func (h *Holder[T, A]) Destroy(ep datamodel.EndpointID) error {
	if _, ok := h.entries[ep]; !ok {
		return fmt.Errorf("%w: endpoint %d", ErrNotConstructed, ep)
	}
	delete(h.entries, ep)
	return nil
}

// Get returns the endpoint's instance.
func (h *Holder[T, A]) Get(ep datamodel.EndpointID) (T, bool) {
	e, ok := h.entries[ep]
	if !ok {
		var zero T
		return zero, false
	}
	return e.cluster, true
}

// Args returns the construction snapshot taken when the instance was built.
func (h *Holder[T, A]) Args(ep datamodel.EndpointID) (A, bool) {
	e, ok := h.entries[ep]
	if !ok {
		var zero A
		return zero, false
	}
	return e.args, true
}

// Registration returns the registration for the endpoint's instance.
// It is only valid while the endpoint is constructed.
func (h *Holder[T, A]) Registration(ep datamodel.EndpointID) (registry.Registration, bool) {
	e, ok := h.entries[ep]
	if !ok {
		return registry.Registration{}, false
	}
	return registry.Registration{Cluster: e.cluster}, true
}

// setState moves a constructed entry between StateConstructed and StateRegistered.
func (h *Holder[T, A]) setState(ep datamodel.EndpointID, s State) {
	if e, ok := h.entries[ep]; ok {
		e.state = s
	}
}

// Endpoints returns the endpoints holding an instance, sorted.
func (h *Holder[T, A]) Endpoints() []datamodel.EndpointID {
	eps := make([]datamodel.EndpointID, 0, len(h.entries))
	for ep := range h.entries {
		eps = append(eps, ep)
	}
	slices.Sort(eps)
	return eps
}

// Len returns the number of constructed entries.
func (h *Holder[T, A]) Len() int {
	return len(h.entries)
}

// Reset drops every entry without unregistering or deinitializing.
// Only call it once all entries have been shut down, or when the registry
// is being discarded together with the holder.
func (h *Holder[T, A]) Reset() {
	clear(h.entries)
}
