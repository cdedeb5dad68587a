package lifecycle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/backkem/matter-dm/pkg/attribute"
	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/backkem/matter-dm/pkg/registry"
	"github.com/hashicorp/go-multierror"
	"github.com/pion/logging"
)

// Integration is the non-generic view of a Manager used by the provider to
// drive every cluster type the same way.
type Integration interface {
	// ClusterID returns the cluster this integration manages.
	ClusterID() datamodel.ClusterID

	// Name returns a short label for logs.
	Name() string

	// ServerInitCallback activates the cluster on an endpoint.
	ServerInitCallback(ep datamodel.EndpointID) error

	// ServerShutdownCallback deactivates the cluster on an endpoint.
	ServerShutdownCallback(ep datamodel.EndpointID) error

	// PluginServerInitCallback is the process-wide bring-up hook.
	PluginServerInitCallback()

	// PluginServerShutdownCallback is the process-wide teardown hook.
	PluginServerShutdownCallback()

	// Shutdown runs the shutdown callback for every constructed endpoint.
	Shutdown() error
}

// Definition describes one cluster type to a Manager.
type Definition[T datamodel.ServerCluster, A any] struct {
	// ClusterID is the managed cluster.
	ClusterID datamodel.ClusterID

	// Name is used in log messages.
	Name string

	// Singleton clusters exist once per node, on the root endpoint only.
	Singleton bool

	// Enabled overrides the default enabled check. Optional.
	// The default is "endpoint is the root endpoint" for singletons and
	// "cluster exists on the endpoint in the store" otherwise.
	Enabled func(store attribute.Store, ep datamodel.EndpointID) bool

	// ReadArgs reads the construction arguments from the store. Optional;
	// the zero A is used when nil.
	ReadArgs func(store attribute.Store, ep datamodel.EndpointID) (A, error)

	// New constructs the server cluster. Required.
	New BuildFunc[T, A]

	// InitOnRegister calls the cluster's Init right after a successful
	// registration. Clusters that wait for a delegate leave it unset and
	// are initialized by their owner instead.
	InitOnRegister bool
}

// Config provides the collaborators of a Manager.
type Config struct {
	// Store is the attribute store. Required.
	Store attribute.Store

	// Registry receives the constructed clusters. Required.
	Registry registry.Registry

	// LoggerFactory creates the manager logger. Optional.
	LoggerFactory logging.LoggerFactory
}

// Manager is the lazy activation manager for one cluster type. It owns the
// Holder for that type and implements the endpoint init/shutdown callbacks.
//
// All methods must be called with the data-model lock held.
type Manager[T datamodel.ServerCluster, A any] struct {
	def      Definition[T, A]
	store    attribute.Store
	registry registry.Registry
	holder   *Holder[T, A]
	log      logging.LeveledLogger
}

// NewManager creates a manager with an empty holder.
func NewManager[T datamodel.ServerCluster, A any](def Definition[T, A], cfg Config) (*Manager[T, A], error) {
	if def.New == nil {
		return nil, fmt.Errorf("%w: New is required", ErrInvalidDefinition)
	}
	if cfg.Store == nil || cfg.Registry == nil {
		return nil, fmt.Errorf("%w: store and registry are required", ErrInvalidDefinition)
	}
	if def.Name == "" {
		def.Name = fmt.Sprintf("cluster 0x%04X", uint32(def.ClusterID))
	}

	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &Manager[T, A]{
		def:      def,
		store:    cfg.Store,
		registry: cfg.Registry,
		holder:   NewHolder[T, A](),
		log:      loggerFactory.NewLogger("lifecycle"),
	}, nil
}

// ClusterID implements Integration.
func (m *Manager[T, A]) ClusterID() datamodel.ClusterID {
	return m.def.ClusterID
}

// Name implements Integration.
func (m *Manager[T, A]) Name() string {
	return m.def.Name
}

// Holder returns the manager's holder.
func (m *Manager[T, A]) Holder() *Holder[T, A] {
	return m.holder
}

// Enabled reports whether the cluster is enabled on the endpoint.
func (m *Manager[T, A]) Enabled(ep datamodel.EndpointID) bool {
	if m.def.Enabled != nil {
		return m.def.Enabled(m.store, ep)
	}
	if m.def.Singleton {
		return ep == datamodel.RootEndpointID
	}
	return m.store.HasCluster(ep, m.def.ClusterID)
}

// ServerInitCallback activates the cluster on ep.
//
// It is a no-op when the cluster is not enabled on ep or is already
// constructed there. Otherwise it reads the construction arguments (aborting
// on failure), constructs the instance and registers it. A registration
// failure is logged and returned, and the instance stays constructed in
// StateConstructed. With InitOnRegister, a registered cluster is then
// initialized; an Init failure is logged only.
func (m *Manager[T, A]) ServerInitCallback(ep datamodel.EndpointID) error {
	if !m.Enabled(ep) || m.holder.IsConstructed(ep) {
		return nil
	}

	var args A
	if m.def.ReadArgs != nil {
		var err error
		args, err = m.def.ReadArgs(m.store, ep)
		if err != nil {
			m.log.Errorf("%s: failed to read construction arguments on endpoint %d: %v", m.def.Name, ep, err)
			return fmt.Errorf("%w: %s endpoint %d: %w", ErrReadArgs, m.def.Name, ep, err)
		}
	}

	if _, err := m.holder.Create(ep, args, m.def.New); err != nil {
		return err
	}

	reg, _ := m.holder.Registration(ep)
	if err := m.registry.Register(reg); err != nil {
		m.log.Errorf("%s: failed to register on endpoint %d: %v", m.def.Name, ep, err)
		return fmt.Errorf("%w: %s endpoint %d: %w", ErrRegister, m.def.Name, ep, err)
	}
	m.holder.setState(ep, StateRegistered)
	m.log.Debugf("%s: registered on endpoint %d", m.def.Name, ep)

	if m.def.InitOnRegister {
		cluster, _ := m.holder.Get(ep)
		if err := cluster.Init(); err != nil {
			m.log.Warnf("%s: init failed on endpoint %d: %v", m.def.Name, ep, err)
		}
	}
	return nil
}

// ServerShutdownCallback deactivates the cluster on ep.
//
// It is a no-op when the cluster is not enabled on ep or was never
// constructed. Otherwise the instance is unregistered first, then
// deinitialized, then destroyed. An unregister failure is logged and
// returned after the teardown completes.
func (m *Manager[T, A]) ServerShutdownCallback(ep datamodel.EndpointID) error {
	if !m.Enabled(ep) || !m.holder.IsConstructed(ep) {
		return nil
	}
	return m.teardown(ep)
}

// teardown runs unregister, Deinit and Destroy for a constructed endpoint.
func (m *Manager[T, A]) teardown(ep datamodel.EndpointID) error {
	cluster, _ := m.holder.Get(ep)

	var unregErr error
	if m.holder.State(ep) == StateRegistered {
		if err := m.registry.Unregister(cluster); err != nil {
			m.log.Errorf("%s: failed to unregister on endpoint %d: %v", m.def.Name, ep, err)
			unregErr = fmt.Errorf("%w: %s endpoint %d: %w", ErrUnregister, m.def.Name, ep, err)
		}
		m.holder.setState(ep, StateConstructed)
	}

	cluster.Deinit()

	if err := m.holder.Destroy(ep); err != nil {
		return errors.Join(unregErr, err)
	}

	m.log.Debugf("%s: destroyed on endpoint %d", m.def.Name, ep)
	return unregErr
}

// PluginServerInitCallback implements Integration. Nothing is set up
// process-wide; it exists as an extension point.
func (m *Manager[T, A]) PluginServerInitCallback() {
	m.log.Debugf("%s: plugin server init", m.def.Name)
}

// PluginServerShutdownCallback implements Integration.
func (m *Manager[T, A]) PluginServerShutdownCallback() {
	m.log.Debugf("%s: plugin server shutdown", m.def.Name)
}

// Shutdown tears down every constructed endpoint, highest endpoint first,
// regardless of whether it is still enabled. The holder is empty afterwards.
func (m *Manager[T, A]) Shutdown() error {
	var result *multierror.Error

	eps := m.holder.Endpoints()
	slices.Reverse(eps)
	for _, ep := range eps {
		if err := m.teardown(ep); err != nil {
			result = multierror.Append(result, err)
		}
	}

	m.holder.Reset()
	return result.ErrorOrNil()
}

// Verify Manager implements the interface.
var _ Integration = (*Manager[datamodel.ServerCluster, struct{}])(nil)
