package basic

import (
	"github.com/backkem/matter-dm/pkg/attribute"
	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/backkem/matter-dm/pkg/lifecycle"
	"github.com/pion/logging"
)

// Integration activates the Basic Information server on the root endpoint.
type Integration struct {
	*lifecycle.Manager[*Cluster, OptionalAttributeSet]
}

// NewIntegration creates the Basic Information lifecycle integration.
func NewIntegration(cfg lifecycle.Config) (*Integration, error) {
	loggerFactory := cfg.LoggerFactory

	m, err := lifecycle.NewManager(lifecycle.Definition[*Cluster, OptionalAttributeSet]{
		ClusterID:      ClusterID,
		Name:           "BasicInformation",
		Singleton:      true,
		InitOnRegister: true,
		ReadArgs: func(store attribute.Store, ep datamodel.EndpointID) (OptionalAttributeSet, error) {
			return ComputeOptionalAttributes(store, ep), nil
		},
		New: func(ep datamodel.EndpointID, set OptionalAttributeSet) *Cluster {
			return New(Config{
				EndpointID:         ep,
				OptionalAttributes: set,
				LoggerFactory:      loggerFactory,
			})
		},
	}, cfg)
	if err != nil {
		return nil, err
	}
	return &Integration{Manager: m}, nil
}

// Cluster returns the active server, or nil when the root endpoint is down.
func (i *Integration) Cluster() *Cluster {
	c, _ := i.Holder().Get(datamodel.RootEndpointID)
	return c
}

// Verify Integration implements the interface.
var _ lifecycle.Integration = (*Integration)(nil)

// loggerFactoryOrDefault is shared by the package constructors.
func loggerFactoryOrDefault(f logging.LoggerFactory) logging.LoggerFactory {
	if f == nil {
		return logging.NewDefaultLoggerFactory()
	}
	return f
}
