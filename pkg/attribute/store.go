package attribute

import (
	"fmt"
	"slices"
	"sync"

	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/pion/logging"
)

// Flags describe how an attribute is stored.
type Flags uint16

const (
	// FlagNonVolatile attributes are loaded from and saved to the Persister.
	FlagNonVolatile Flags = 1 << iota

	// FlagWritable attributes accept SetVal after creation.
	FlagWritable
)

// Attribute is a handle to one stored attribute. A nil handle means the
// attribute does not exist.
type Attribute struct {
	path  datamodel.ConcreteAttributePath
	flags Flags
	value Value
}

// Path returns the attribute's concrete path.
func (a *Attribute) Path() datamodel.ConcreteAttributePath {
	return a.path
}

// Flags returns the storage flags the attribute was created with.
func (a *Attribute) Flags() Flags {
	return a.flags
}

// Store is the read side of the attribute store used by cluster integrations.
type Store interface {
	// Get returns the attribute handle, or nil if the attribute is absent.
	Get(ep datamodel.EndpointID, cluster datamodel.ClusterID, attr datamodel.AttributeID) *Attribute

	// GetVal returns the current value behind a handle.
	GetVal(a *Attribute) (Value, error)

	// HasCluster reports whether the cluster exists on the endpoint.
	HasCluster(ep datamodel.EndpointID, cluster datamodel.ClusterID) bool

	// Endpoints returns all endpoints that carry at least one cluster, sorted.
	Endpoints() []datamodel.EndpointID
}

// Persister stores non-volatile attribute values.
type Persister interface {
	// Load returns the persisted value. found is false when nothing is stored.
	Load(path datamodel.ConcreteAttributePath) (v Value, found bool, err error)

	// Save persists the value.
	Save(path datamodel.ConcreteAttributePath, v Value) error

	// Erase removes the persisted value. Erasing a missing value is not an error.
	Erase(path datamodel.ConcreteAttributePath) error
}

// MemoryStoreConfig configures a MemoryStore.
type MemoryStoreConfig struct {
	// Persister backs non-volatile attributes. Optional.
	Persister Persister

	// LoggerFactory creates the store logger. Optional.
	LoggerFactory logging.LoggerFactory
}

type clusterEntry struct {
	attrs map[datamodel.AttributeID]*Attribute
	order []datamodel.AttributeID
}

// MemoryStore is the in-process attribute store.
// All methods are safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	clusters  map[datamodel.ConcreteClusterPath]*clusterEntry
	persister Persister
	log       logging.LeveledLogger
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &MemoryStore{
		clusters:  make(map[datamodel.ConcreteClusterPath]*clusterEntry),
		persister: cfg.Persister,
		log:       loggerFactory.NewLogger("attribute"),
	}
}

// CreateCluster adds an empty cluster to an endpoint.
// Creating a cluster that already exists is a no-op.
func (s *MemoryStore) CreateCluster(ep datamodel.EndpointID, cluster datamodel.ClusterID) error {
	if ep == datamodel.InvalidEndpointID {
		return fmt.Errorf("%w: %w %d", ErrInvalidArgument, datamodel.ErrInvalidEndpoint, ep)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusterLocked(datamodel.ConcreteClusterPath{Endpoint: ep, Cluster: cluster})
	return nil
}

func (s *MemoryStore) clusterLocked(path datamodel.ConcreteClusterPath) *clusterEntry {
	ce, ok := s.clusters[path]
	if !ok {
		ce = &clusterEntry{attrs: make(map[datamodel.AttributeID]*Attribute)}
		s.clusters[path] = ce
	}
	return ce
}

// Create adds an attribute, creating its cluster if needed.
// If the attribute already exists the existing handle is returned unchanged.
// Non-volatile attributes take their persisted value when one is stored.
func (s *MemoryStore) Create(path datamodel.ConcreteAttributePath, flags Flags, val Value) (*Attribute, error) {
	if path.Endpoint == datamodel.InvalidEndpointID {
		return nil, fmt.Errorf("%w: %w %d", ErrInvalidArgument, datamodel.ErrInvalidEndpoint, path.Endpoint)
	}
	if err := val.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ce := s.clusterLocked(path.ClusterPath())
	if existing, ok := ce.attrs[path.Attribute]; ok {
		s.log.Warnf("Attribute %s already exists. Not creating again.", path)
		return existing, nil
	}

	a := &Attribute{path: path, flags: flags, value: val}
	if flags&FlagNonVolatile != 0 && s.persister != nil {
		stored, found, err := s.persister.Load(path)
		switch {
		case err != nil:
			s.log.Warnf("Failed to load %s from storage: %v", path, err)
		case found && stored.Type == val.Type:
			a.value = stored
		case found:
			s.log.Warnf("Stored value for %s has type %s, want %s; using default", path, stored.Type, val.Type)
		}
	}

	ce.attrs[path.Attribute] = a
	ce.order = append(ce.order, path.Attribute)
	return a, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ep datamodel.EndpointID, cluster datamodel.ClusterID, attr datamodel.AttributeID) *Attribute {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ce, ok := s.clusters[datamodel.ConcreteClusterPath{Endpoint: ep, Cluster: cluster}]
	if !ok {
		return nil
	}
	return ce.attrs[attr]
}

// GetVal implements Store.
func (s *MemoryStore) GetVal(a *Attribute) (Value, error) {
	if a == nil {
		return Value{}, ErrInvalidArgument
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return a.value, nil
}

// GetValAt is a convenience combining Get and GetVal.
func (s *MemoryStore) GetValAt(path datamodel.ConcreteAttributePath) (Value, error) {
	a := s.Get(path.Endpoint, path.Cluster, path.Attribute)
	if a == nil {
		return Value{}, fmt.Errorf("%w: %w: %s", ErrNotFound, datamodel.ErrAttributeNotFound, path)
	}
	return s.GetVal(a)
}

// SetVal replaces the value of a writable attribute. The type must match the
// type the attribute was created with. Non-volatile values are persisted
// before the in-memory value changes.
// Returns ErrReadOnly for attributes created without FlagWritable.
func (s *MemoryStore) SetVal(a *Attribute, val Value) error {
	if a == nil {
		return ErrInvalidArgument
	}
	if err := val.Validate(); err != nil {
		return err
	}

	if a.flags&FlagWritable == 0 {
		return fmt.Errorf("%w: %s", ErrReadOnly, a.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a.value.Type != val.Type {
		return fmt.Errorf("%w: %s holds %s, got %s", ErrTypeMismatch, a.path, a.value.Type, val.Type)
	}
	if a.value.Equal(val) {
		return nil
	}
	if a.flags&FlagNonVolatile != 0 && s.persister != nil {
		if err := s.persister.Save(a.path, val); err != nil {
			return fmt.Errorf("persist %s: %w", a.path, err)
		}
	}
	a.value = val
	return nil
}

// Persist writes the current value of a non-volatile attribute to the
// persister. It is a no-op for volatile attributes or without a persister.
func (s *MemoryStore) Persist(a *Attribute) error {
	if a == nil {
		return ErrInvalidArgument
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if a.flags&FlagNonVolatile == 0 || s.persister == nil {
		return nil
	}
	if err := s.persister.Save(a.path, a.value); err != nil {
		return fmt.Errorf("persist %s: %w", a.path, err)
	}
	return nil
}

// HasCluster implements Store.
func (s *MemoryStore) HasCluster(ep datamodel.EndpointID, cluster datamodel.ClusterID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clusters[datamodel.ConcreteClusterPath{Endpoint: ep, Cluster: cluster}]
	return ok
}

// Endpoints implements Store.
func (s *MemoryStore) Endpoints() []datamodel.EndpointID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var eps []datamodel.EndpointID
	for p := range s.clusters {
		if !slices.Contains(eps, p.Endpoint) {
			eps = append(eps, p.Endpoint)
		}
	}
	slices.Sort(eps)
	return eps
}

// Clusters returns the cluster IDs present on an endpoint, sorted.
func (s *MemoryStore) Clusters(ep datamodel.EndpointID) []datamodel.ClusterID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []datamodel.ClusterID
	for p := range s.clusters {
		if p.Endpoint == ep {
			ids = append(ids, p.Cluster)
		}
	}
	slices.Sort(ids)
	return ids
}

// Attributes returns the attribute IDs of a cluster in creation order.
func (s *MemoryStore) Attributes(ep datamodel.EndpointID, cluster datamodel.ClusterID) []datamodel.AttributeID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ce, ok := s.clusters[datamodel.ConcreteClusterPath{Endpoint: ep, Cluster: cluster}]
	if !ok {
		return nil
	}
	return slices.Clone(ce.order)
}

// DestroyCluster removes a cluster and its attributes. Persisted values of
// non-volatile attributes are erased.
func (s *MemoryStore) DestroyCluster(ep datamodel.EndpointID, cluster datamodel.ClusterID) error {
	path := datamodel.ConcreteClusterPath{Endpoint: ep, Cluster: cluster}

	s.mu.Lock()
	defer s.mu.Unlock()

	ce, ok := s.clusters[path]
	if !ok {
		return fmt.Errorf("%w: cluster %s", ErrNotFound, path)
	}
	delete(s.clusters, path)

	if s.persister == nil {
		return nil
	}
	for _, id := range ce.order {
		a := ce.attrs[id]
		if a.flags&FlagNonVolatile == 0 {
			continue
		}
		if err := s.persister.Erase(a.path); err != nil {
			s.log.Warnf("Failed to erase %s from storage: %v", a.path, err)
		}
	}
	return nil
}

// Verify MemoryStore implements the interface.
var _ Store = (*MemoryStore)(nil)
