package provider

import (
	"fmt"

	"github.com/backkem/matter-dm/pkg/attribute"
	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/backkem/matter-dm/pkg/lifecycle"
	"github.com/backkem/matter-dm/pkg/registry"
	"github.com/pion/logging"
)

// Config configures a Provider.
type Config struct {
	// Store is the attribute store describing the device composition. Required.
	Store attribute.Store

	// Registry receives the constructed clusters. Required.
	Registry registry.Registry

	// Integrations are driven in this order on bring-up and in reverse
	// order on teardown. Each must have been created with the same Store
	// and Registry.
	Integrations []lifecycle.Integration

	// LoggerFactory for provider logging. Optional.
	LoggerFactory logging.LoggerFactory
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store == nil {
		return fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if c.Registry == nil {
		return fmt.Errorf("%w: registry is required", ErrInvalidConfig)
	}

	seen := make(map[datamodel.ClusterID]bool, len(c.Integrations))
	for i, integ := range c.Integrations {
		if integ == nil {
			return fmt.Errorf("%w: integration %d is nil", ErrInvalidConfig, i)
		}
		if seen[integ.ClusterID()] {
			return fmt.Errorf("%w: cluster 0x%04X", ErrDuplicateIntegration, uint32(integ.ClusterID()))
		}
		seen[integ.ClusterID()] = true
	}
	return nil
}

// applyDefaults fills in default values for unset fields.
func (c *Config) applyDefaults() {
	if c.LoggerFactory == nil {
		c.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
}

// LifecycleConfig returns the lifecycle.Config integrations should be
// created with to share this provider's store, registry and logging.
func (c *Config) LifecycleConfig() lifecycle.Config {
	return lifecycle.Config{
		Store:         c.Store,
		Registry:      c.Registry,
		LoggerFactory: c.LoggerFactory,
	}
}
