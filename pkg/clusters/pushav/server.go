package pushav

import (
	"fmt"
	"slices"
	"sync"

	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/pion/logging"
)

// DefaultMaxConnections bounds the transport table when Config leaves it unset.
const DefaultMaxConnections = 16

// Config provides dependencies for the Push AV Stream Transport server.
type Config struct {
	// EndpointID is the endpoint this cluster belongs to.
	EndpointID datamodel.EndpointID

	// Features decoded from the FeatureMap attribute.
	Features Features

	// MaxConnections bounds the number of allocated transports.
	// Defaults to DefaultMaxConnections.
	MaxConnections int

	// LoggerFactory for the server logger. Optional.
	LoggerFactory logging.LoggerFactory
}

func (c *Config) applyDefaults() {
	if c.MaxConnections <= 0 {
		c.MaxConnections = DefaultMaxConnections
	}
	if c.LoggerFactory == nil {
		c.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
}

// Server implements the Push AV Stream Transport cluster (0x0555).
type Server struct {
	*datamodel.ClusterBase
	config Config
	log    logging.LeveledLogger

	mu         sync.Mutex
	delegate   Delegate
	transports map[ConnectionID]*TransportConfiguration
	nextID     ConnectionID

	attrList []datamodel.AttributeID

	// testHookBeforeLock runs between the unlocked checks of a transport
	// command and taking mu. Nil outside tests.
	testHookBeforeLock func()
}

// New creates a new Push AV Stream Transport server. The server does
// nothing until a delegate is set and Init is called.
func New(cfg Config) *Server {
	cfg.applyDefaults()

	s := &Server{
		ClusterBase: datamodel.NewClusterBase(ClusterID, cfg.EndpointID, ClusterRevision),
		config:      cfg,
		log:         cfg.LoggerFactory.NewLogger("pushav"),
		transports:  make(map[ConnectionID]*TransportConfiguration),
	}
	s.SetFeatureMap(uint32(cfg.Features))
	s.attrList = datamodel.MergeAttributeLists([]datamodel.AttributeID{
		AttrSupportedFormats,
		AttrCurrentConnections,
	})
	return s
}

// AttributeList implements datamodel.ServerCluster.
func (s *Server) AttributeList() []datamodel.AttributeID {
	return s.attrList
}

// Features returns the features the server was constructed with.
func (s *Server) Features() Features {
	return s.config.Features
}

// SetDelegate installs the application delegate. It does not call Init.
func (s *Server) SetDelegate(d Delegate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delegate = d
}

// Delegate returns the installed delegate, or nil.
func (s *Server) Delegate() Delegate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delegate
}

// Init implements datamodel.ServerCluster. A delegate must be set.
func (s *Server) Init() error {
	s.mu.Lock()
	d := s.delegate
	s.mu.Unlock()

	if d == nil {
		return ErrNoDelegate
	}
	if err := s.MarkInitialized(); err != nil {
		return err
	}
	if err := d.Init(s.EndpointID()); err != nil {
		s.MarkDeinitialized()
		return fmt.Errorf("pushav: delegate init on endpoint %d: %w", s.EndpointID(), err)
	}

	s.log.Infof("Push AV Stream Transport up on endpoint %d, features %s", s.EndpointID(), s.config.Features)
	return nil
}

// Deinit implements datamodel.ServerCluster. Allocated transports are
// dropped and the delegate is shut down and released.
func (s *Server) Deinit() {
	s.mu.Lock()
	d := s.delegate
	s.delegate = nil
	wasInitialized := s.MarkDeinitialized()
	clear(s.transports)
	s.mu.Unlock()

	if wasInitialized && d != nil {
		d.Shutdown(s.EndpointID())
		s.log.Debugf("Push AV Stream Transport down on endpoint %d", s.EndpointID())
	}
}

// validateOptions checks the options against the server's features.
func (s *Server) validateOptions(opts *TransportOptions) error {
	if opts == nil {
		return ErrInvalidTransport
	}
	if opts.URL == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidTransport)
	}
	if opts.VideoStreamID == nil && opts.AudioStreamID == nil {
		return fmt.Errorf("%w: no video or audio stream", ErrInvalidTransport)
	}
	if opts.MetadataEnabled && !s.config.Features.Has(FeatureMetadata) {
		return fmt.Errorf("%w: Metadata", ErrUnsupportedFeature)
	}

	t := opts.Trigger
	switch t.Type {
	case TriggerCommand, TriggerContinuous:
	case TriggerMotion:
		perZone := s.config.Features.Has(FeaturePerZoneSensitivity)
		for _, z := range t.MotionZones {
			if z.Sensitivity != nil && !perZone {
				return fmt.Errorf("%w: PerZoneSensitivity", ErrUnsupportedFeature)
			}
		}
		if !perZone && t.MotionSensitivity == nil {
			return fmt.Errorf("%w: motion trigger without sensitivity", ErrInvalidTransport)
		}
	default:
		return fmt.Errorf("%w: trigger type %d", ErrInvalidTransport, t.Type)
	}
	return nil
}

// delegateLocked returns the delegate of an initialized server. A command
// that passed the unlocked Initialized check may still find the server torn
// down once it holds mu.
func (s *Server) delegateLocked() (Delegate, error) {
	if s.delegate == nil || !s.Initialized() {
		return nil, ErrNotInitialized
	}
	return s.delegate, nil
}

func (s *Server) beforeLock() {
	if s.testHookBeforeLock != nil {
		s.testHookBeforeLock()
	}
}

// allocateIDLocked returns an unused connection ID.
func (s *Server) allocateIDLocked() (ConnectionID, bool) {
	for range 0xFFFF {
		id := s.nextID
		s.nextID++
		if s.nextID == 0xFFFF {
			s.nextID = 0
		}
		if _, exists := s.transports[id]; !exists {
			return id, true
		}
	}
	return 0, false
}

// AllocateTransport validates the options and allocates a new transport
// for the fabric. The transport starts Inactive.
func (s *Server) AllocateTransport(fabricIndex uint8, opts TransportOptions) (TransportConfiguration, error) {
	if !s.Initialized() {
		return TransportConfiguration{}, ErrNotInitialized
	}
	if err := s.validateOptions(&opts); err != nil {
		return TransportConfiguration{}, err
	}

	s.beforeLock()
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.delegateLocked()
	if err != nil {
		return TransportConfiguration{}, err
	}
	if len(s.transports) >= s.config.MaxConnections {
		return TransportConfiguration{}, ErrResourceExhausted
	}
	if err := d.ValidateTransport(&opts); err != nil {
		return TransportConfiguration{}, fmt.Errorf("%w: %w", ErrInvalidTransport, err)
	}

	id, ok := s.allocateIDLocked()
	if !ok {
		return TransportConfiguration{}, ErrResourceExhausted
	}
	if err := d.AllocateTransport(id, &opts); err != nil {
		return TransportConfiguration{}, err
	}

	cfg := &TransportConfiguration{
		ConnectionID: id,
		Status:       TransportStatusInactive,
		Options:      opts,
		FabricIndex:  fabricIndex,
	}
	s.transports[id] = cfg
	s.IncrementDataVersion()

	s.log.Debugf("Allocated transport %d on endpoint %d for fabric %d", id, s.EndpointID(), fabricIndex)
	return *cfg, nil
}

// DeallocateTransport releases a transport owned by the fabric.
func (s *Server) DeallocateTransport(fabricIndex uint8, id ConnectionID) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}

	s.beforeLock()
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.delegateLocked()
	if err != nil {
		return err
	}
	cfg, ok := s.transports[id]
	if !ok || cfg.FabricIndex != fabricIndex {
		return fmt.Errorf("%w: %d", ErrTransportNotFound, id)
	}
	if err := d.DeallocateTransport(id); err != nil {
		return err
	}
	delete(s.transports, id)
	s.IncrementDataVersion()
	return nil
}

// SetTransportStatus changes the status of one transport, or of every
// transport of the fabric when id is nil.
func (s *Server) SetTransportStatus(fabricIndex uint8, id *ConnectionID, status TransportStatus) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	if status != TransportStatusActive && status != TransportStatusInactive {
		return fmt.Errorf("%w: status %d", ErrInvalidTransport, status)
	}

	s.beforeLock()
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.delegateLocked()
	if err != nil {
		return err
	}
	ids := s.matchLocked(fabricIndex, id)
	if id != nil && len(ids) == 0 {
		return fmt.Errorf("%w: %d", ErrTransportNotFound, *id)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := d.SetTransportStatus(ids, status); err != nil {
		return err
	}
	for _, cid := range ids {
		s.transports[cid].Status = status
	}
	s.IncrementDataVersion()
	return nil
}

// FindTransport returns one transport, or every transport of the fabric
// when id is nil, sorted by connection ID.
func (s *Server) FindTransport(fabricIndex uint8, id *ConnectionID) ([]TransportConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.matchLocked(fabricIndex, id)
	if len(ids) == 0 {
		if id != nil {
			return nil, fmt.Errorf("%w: %d", ErrTransportNotFound, *id)
		}
		return nil, ErrTransportNotFound
	}

	result := make([]TransportConfiguration, 0, len(ids))
	for _, cid := range ids {
		result = append(result, *s.transports[cid])
	}
	return result, nil
}

// CurrentConnections returns every allocated transport sorted by
// connection ID (the CurrentConnections attribute, unfiltered).
func (s *Server) CurrentConnections() []TransportConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]ConnectionID, 0, len(s.transports))
	for cid := range s.transports {
		ids = append(ids, cid)
	}
	slices.Sort(ids)

	result := make([]TransportConfiguration, 0, len(ids))
	for _, cid := range ids {
		result = append(result, *s.transports[cid])
	}
	return result
}

// matchLocked returns the sorted connection IDs owned by the fabric,
// restricted to id when non-nil.
func (s *Server) matchLocked(fabricIndex uint8, id *ConnectionID) []ConnectionID {
	var ids []ConnectionID
	for cid, cfg := range s.transports {
		if cfg.FabricIndex != fabricIndex {
			continue
		}
		if id != nil && cid != *id {
			continue
		}
		ids = append(ids, cid)
	}
	slices.Sort(ids)
	return ids
}

// Verify Server implements the interface.
var _ datamodel.ServerCluster = (*Server)(nil)
