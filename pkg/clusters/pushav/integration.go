package pushav

import (
	"fmt"

	"github.com/backkem/matter-dm/pkg/attribute"
	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/backkem/matter-dm/pkg/lifecycle"
)

// ReadFeatures decodes the cluster's FeatureMap attribute on the endpoint.
func ReadFeatures(store attribute.Store, ep datamodel.EndpointID) (Features, error) {
	a := store.Get(ep, ClusterID, datamodel.GlobalAttrFeatureMap)
	if a == nil {
		return 0, fmt.Errorf("%w: endpoint %d: %w", ErrFeatureMap, ep, attribute.ErrNotFound)
	}
	v, err := store.GetVal(a)
	if err != nil {
		return 0, fmt.Errorf("%w: endpoint %d: %w", ErrFeatureMap, ep, err)
	}
	raw, err := v.Bitmap32()
	if err != nil {
		return 0, fmt.Errorf("%w: endpoint %d: %w", ErrFeatureMap, ep, err)
	}
	return Features(raw), nil
}

// Integration activates a Push AV Stream Transport server on every endpoint
// whose attribute store carries the cluster.
type Integration struct {
	*lifecycle.Manager[*Server, Features]
}

// NewIntegration creates the Push AV Stream Transport lifecycle integration.
// maxConnections is passed to every constructed server; zero selects
// DefaultMaxConnections.
func NewIntegration(cfg lifecycle.Config, maxConnections int) (*Integration, error) {
	loggerFactory := cfg.LoggerFactory

	m, err := lifecycle.NewManager(lifecycle.Definition[*Server, Features]{
		ClusterID: ClusterID,
		Name:      "PushAvStreamTransport",
		ReadArgs:  ReadFeatures,
		New: func(ep datamodel.EndpointID, features Features) *Server {
			return New(Config{
				EndpointID:     ep,
				Features:       features,
				MaxConnections: maxConnections,
				LoggerFactory:  loggerFactory,
			})
		},
	}, cfg)
	if err != nil {
		return nil, err
	}
	return &Integration{Manager: m}, nil
}

// Server returns the active server on the endpoint, or nil.
func (i *Integration) Server(ep datamodel.EndpointID) *Server {
	s, _ := i.Holder().Get(ep)
	return s
}

// SetDelegate plumbs the delegate into the server on the endpoint and
// initializes it. Returns lifecycle.ErrNotConstructed when no server is
// active on the endpoint. Replacing the delegate of a running server shuts
// the old delegate down first. Must be called with the data-model lock held.
func (i *Integration) SetDelegate(ep datamodel.EndpointID, d Delegate) error {
	s, ok := i.Holder().Get(ep)
	if !ok {
		return fmt.Errorf("%w: %s endpoint %d", lifecycle.ErrNotConstructed, i.Name(), ep)
	}
	if d == nil {
		return ErrNoDelegate
	}

	if s.Initialized() {
		s.Deinit()
	}
	s.SetDelegate(d)
	return s.Init()
}

// Verify Integration implements the interface.
var _ lifecycle.Integration = (*Integration)(nil)
