package provider

import (
	"slices"
	"sync"

	"github.com/backkem/matter-dm/pkg/attribute"
	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/backkem/matter-dm/pkg/lifecycle"
	"github.com/backkem/matter-dm/pkg/registry"
	"github.com/hashicorp/go-multierror"
	"github.com/pion/logging"
)

// Provider drives the lifecycle integrations of a node under one
// data-model lock.
type Provider struct {
	mu     sync.Mutex
	config Config
	log    logging.LeveledLogger

	state   State
	enabled map[datamodel.EndpointID]struct{}

	pluginInit     sync.Once
	pluginShutdown sync.Once
}

// New creates a provider. Nothing is activated until Startup.
func New(config Config) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	return &Provider{
		config:  config,
		log:     config.LoggerFactory.NewLogger("provider"),
		state:   StateUninitialized,
		enabled: make(map[datamodel.EndpointID]struct{}),
	}, nil
}

// Lock acquires the data-model lock.
func (p *Provider) Lock() {
	p.mu.Lock()
}

// Unlock releases the data-model lock.
func (p *Provider) Unlock() {
	p.mu.Unlock()
}

// WithLock runs fn with the data-model lock held.
func (p *Provider) WithLock(fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn()
}

// State returns the current provider state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Store returns the attribute store.
func (p *Provider) Store() attribute.Store {
	return p.config.Store
}

// Registry returns the cluster registry.
func (p *Provider) Registry() registry.Registry {
	return p.config.Registry
}

// Integrations returns the integrations in bring-up order.
func (p *Provider) Integrations() []lifecycle.Integration {
	return slices.Clone(p.config.Integrations)
}

// EnabledEndpoints returns the endpoints currently enabled, sorted.
func (p *Provider) EnabledEndpoints() []datamodel.EndpointID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabledLocked()
}

func (p *Provider) enabledLocked() []datamodel.EndpointID {
	eps := make([]datamodel.EndpointID, 0, len(p.enabled))
	for ep := range p.enabled {
		eps = append(eps, ep)
	}
	slices.Sort(eps)
	return eps
}

// Startup runs the plugin init hooks and enables every endpoint in the
// attribute store. Callback failures are aggregated into the returned
// error; the provider is running regardless.
func (p *Provider) Startup() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrAlreadyStopped
	}

	p.pluginInit.Do(func() {
		for _, integ := range p.config.Integrations {
			integ.PluginServerInitCallback()
		}
	})

	var result *multierror.Error
	for _, ep := range p.config.Store.Endpoints() {
		if err := p.enableLocked(ep); err != nil {
			result = multierror.Append(result, err)
		}
	}

	p.state = StateRunning
	p.log.Infof("provider started, %d endpoints enabled", len(p.enabled))
	return result.ErrorOrNil()
}

// EnableEndpoint runs every integration's init callback for the endpoint.
// Integrations for clusters not present on the endpoint do nothing.
func (p *Provider) EnableEndpoint(ep datamodel.EndpointID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.IsRunning() {
		return ErrNotStarted
	}
	return p.enableLocked(ep)
}

func (p *Provider) enableLocked(ep datamodel.EndpointID) error {
	var result *multierror.Error
	for _, integ := range p.config.Integrations {
		if err := integ.ServerInitCallback(ep); err != nil {
			result = multierror.Append(result, err)
		}
	}
	p.enabled[ep] = struct{}{}

	p.log.Debugf("endpoint %d enabled", ep)
	return result.ErrorOrNil()
}

// DisableEndpoint runs every integration's shutdown callback for the
// endpoint, in reverse registration order.
func (p *Provider) DisableEndpoint(ep datamodel.EndpointID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.IsRunning() {
		return ErrNotStarted
	}
	return p.disableLocked(ep)
}

func (p *Provider) disableLocked(ep datamodel.EndpointID) error {
	var result *multierror.Error
	for i := len(p.config.Integrations) - 1; i >= 0; i-- {
		if err := p.config.Integrations[i].ServerShutdownCallback(ep); err != nil {
			result = multierror.Append(result, err)
		}
	}
	delete(p.enabled, ep)

	p.log.Debugf("endpoint %d disabled", ep)
	return result.ErrorOrNil()
}

// Shutdown disables every enabled endpoint, highest first, empties every
// holder and then runs the plugin shutdown hooks. All failures are
// aggregated.
func (p *Provider) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateUninitialized:
		return ErrNotStarted
	case StateStopped:
		return ErrAlreadyStopped
	}

	var result *multierror.Error

	eps := p.enabledLocked()
	slices.Reverse(eps)
	for _, ep := range eps {
		if err := p.disableLocked(ep); err != nil {
			result = multierror.Append(result, err)
		}
	}

	// Tear down anything still held, e.g. clusters whose store entry was
	// removed while the endpoint was enabled. Plugin hooks run last.
	for i := len(p.config.Integrations) - 1; i >= 0; i-- {
		if err := p.config.Integrations[i].Shutdown(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	p.pluginShutdown.Do(func() {
		for i := len(p.config.Integrations) - 1; i >= 0; i-- {
			p.config.Integrations[i].PluginServerShutdownCallback()
		}
	})

	p.state = StateStopped
	p.log.Info("provider stopped")
	return result.ErrorOrNil()
}
