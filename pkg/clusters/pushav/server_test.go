package pushav

import (
	"errors"
	"testing"

	"github.com/backkem/matter-dm/pkg/datamodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockDelegate is a testify mock of Delegate.
type mockDelegate struct {
	mock.Mock
}

func (m *mockDelegate) Init(ep datamodel.EndpointID) error {
	args := m.Called(ep)
	return args.Error(0)
}

func (m *mockDelegate) Shutdown(ep datamodel.EndpointID) {
	m.Called(ep)
}

func (m *mockDelegate) ValidateTransport(opts *TransportOptions) error {
	args := m.Called(opts)
	return args.Error(0)
}

func (m *mockDelegate) AllocateTransport(id ConnectionID, opts *TransportOptions) error {
	args := m.Called(id, opts)
	return args.Error(0)
}

func (m *mockDelegate) DeallocateTransport(id ConnectionID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockDelegate) SetTransportStatus(ids []ConnectionID, status TransportStatus) error {
	args := m.Called(ids, status)
	return args.Error(0)
}

// newPermissiveDelegate accepts every call.
func newPermissiveDelegate() *mockDelegate {
	d := &mockDelegate{}
	d.On("Init", mock.Anything).Return(nil)
	d.On("Shutdown", mock.Anything).Return()
	d.On("ValidateTransport", mock.Anything).Return(nil)
	d.On("AllocateTransport", mock.Anything, mock.Anything).Return(nil)
	d.On("DeallocateTransport", mock.Anything).Return(nil)
	d.On("SetTransportStatus", mock.Anything, mock.Anything).Return(nil)
	return d
}

func ptr[T any](v T) *T { return &v }

func videoOptions() TransportOptions {
	return TransportOptions{
		StreamUsage:   1,
		VideoStreamID: ptr[uint16](1),
		URL:           "https://ingest.example.com/cam1",
		Trigger:       TriggerOptions{Type: TriggerContinuous},
	}
}

func newInitializedServer(t *testing.T, features Features) (*Server, *mockDelegate) {
	t.Helper()

	s := New(Config{EndpointID: 1, Features: features})
	d := newPermissiveDelegate()
	s.SetDelegate(d)
	require.NoError(t, s.Init())
	return s, d
}

func TestServer_New(t *testing.T) {
	s := New(Config{EndpointID: 3, Features: FeatureMetadata})

	assert.Equal(t, datamodel.ConcreteClusterPath{Endpoint: 3, Cluster: ClusterID}, s.Path())
	assert.Equal(t, FeatureMetadata, s.Features())
	assert.Equal(t, uint32(FeatureMetadata), s.FeatureMap())
	assert.Equal(t, ClusterRevision, s.ClusterRevision())
	assert.True(t, datamodel.HasAttribute(s.AttributeList(), AttrCurrentConnections))
	assert.True(t, datamodel.HasAttribute(s.AttributeList(), datamodel.GlobalAttrFeatureMap))
	assert.False(t, s.Initialized())
}

func TestServer_InitRequiresDelegate(t *testing.T) {
	s := New(Config{EndpointID: 1})

	assert.ErrorIs(t, s.Init(), ErrNoDelegate)
	assert.False(t, s.Initialized())
}

func TestServer_InitDelegateFailure(t *testing.T) {
	s := New(Config{EndpointID: 1})
	d := &mockDelegate{}
	boom := errors.New("camera offline")
	d.On("Init", datamodel.EndpointID(1)).Return(boom)
	s.SetDelegate(d)

	err := s.Init()
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Initialized())
}

func TestServer_DeinitShutsDownDelegate(t *testing.T) {
	s, d := newInitializedServer(t, 0)

	_, err := s.AllocateTransport(1, videoOptions())
	require.NoError(t, err)

	s.Deinit()

	d.AssertCalled(t, "Shutdown", datamodel.EndpointID(1))
	assert.Nil(t, s.Delegate())
	assert.Empty(t, s.CurrentConnections())
	assert.False(t, s.Initialized())

	// Second Deinit does not shut down again.
	s.Deinit()
	d.AssertNumberOfCalls(t, "Shutdown", 1)
}

func TestServer_DeinitWithoutInit(t *testing.T) {
	s := New(Config{EndpointID: 1})
	d := &mockDelegate{}
	s.SetDelegate(d)

	s.Deinit()
	d.AssertNotCalled(t, "Shutdown", mock.Anything)
}

func TestServer_AllocateBeforeInit(t *testing.T) {
	s := New(Config{EndpointID: 1})

	_, err := s.AllocateTransport(1, videoOptions())
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, err, datamodel.ErrClusterNotInitialized)
}

func TestServer_AllocateTransport(t *testing.T) {
	s, d := newInitializedServer(t, 0)
	before := s.DataVersion()

	cfg, err := s.AllocateTransport(2, videoOptions())
	require.NoError(t, err)

	assert.Equal(t, ConnectionID(0), cfg.ConnectionID)
	assert.Equal(t, TransportStatusInactive, cfg.Status)
	assert.Equal(t, uint8(2), cfg.FabricIndex)
	assert.NotEqual(t, before, s.DataVersion())
	d.AssertCalled(t, "AllocateTransport", ConnectionID(0), mock.Anything)

	second, err := s.AllocateTransport(2, videoOptions())
	require.NoError(t, err)
	assert.Equal(t, ConnectionID(1), second.ConnectionID)
	assert.Len(t, s.CurrentConnections(), 2)
}

func TestServer_AllocateValidation(t *testing.T) {
	tests := []struct {
		name     string
		features Features
		mutate   func(o *TransportOptions)
		wantErr  error
	}{
		{
			name:    "empty URL",
			mutate:  func(o *TransportOptions) { o.URL = "" },
			wantErr: ErrInvalidTransport,
		},
		{
			name:    "no streams",
			mutate:  func(o *TransportOptions) { o.VideoStreamID = nil },
			wantErr: ErrInvalidTransport,
		},
		{
			name:    "metadata without feature",
			mutate:  func(o *TransportOptions) { o.MetadataEnabled = true },
			wantErr: ErrUnsupportedFeature,
		},
		{
			name:     "metadata with feature",
			features: FeatureMetadata,
			mutate:   func(o *TransportOptions) { o.MetadataEnabled = true },
		},
		{
			name: "zone sensitivity without feature",
			mutate: func(o *TransportOptions) {
				o.Trigger = TriggerOptions{
					Type:              TriggerMotion,
					MotionSensitivity: ptr[uint8](5),
					MotionZones:       []MotionZone{{Zone: ptr[uint16](1), Sensitivity: ptr[uint8](3)}},
				}
			},
			wantErr: ErrUnsupportedFeature,
		},
		{
			name:     "zone sensitivity with feature",
			features: FeaturePerZoneSensitivity,
			mutate: func(o *TransportOptions) {
				o.Trigger = TriggerOptions{
					Type:        TriggerMotion,
					MotionZones: []MotionZone{{Zone: ptr[uint16](1), Sensitivity: ptr[uint8](3)}},
				}
			},
		},
		{
			name: "motion without sensitivity",
			mutate: func(o *TransportOptions) {
				o.Trigger = TriggerOptions{Type: TriggerMotion}
			},
			wantErr: ErrInvalidTransport,
		},
		{
			name:    "unknown trigger",
			mutate:  func(o *TransportOptions) { o.Trigger.Type = 9 },
			wantErr: ErrInvalidTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newInitializedServer(t, tt.features)
			opts := videoOptions()
			tt.mutate(&opts)

			_, err := s.AllocateTransport(1, opts)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s.CurrentConnections())
		})
	}
}

func TestServer_AllocateDelegateRejects(t *testing.T) {
	s := New(Config{EndpointID: 1})
	d := &mockDelegate{}
	d.On("Init", mock.Anything).Return(nil)
	d.On("ValidateTransport", mock.Anything).Return(errors.New("unknown stream"))
	s.SetDelegate(d)
	require.NoError(t, s.Init())

	_, err := s.AllocateTransport(1, videoOptions())
	assert.ErrorIs(t, err, ErrInvalidTransport)
	d.AssertNotCalled(t, "AllocateTransport", mock.Anything, mock.Anything)
}

func TestServer_ResourceExhausted(t *testing.T) {
	s := New(Config{EndpointID: 1, MaxConnections: 2})
	s.SetDelegate(newPermissiveDelegate())
	require.NoError(t, s.Init())

	for range 2 {
		_, err := s.AllocateTransport(1, videoOptions())
		require.NoError(t, err)
	}
	_, err := s.AllocateTransport(1, videoOptions())
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

func TestServer_CommandsRacingDeinit(t *testing.T) {
	id := ConnectionID(0)

	tests := []struct {
		name string
		call func(s *Server) error
	}{
		{"allocate", func(s *Server) error {
			_, err := s.AllocateTransport(1, videoOptions())
			return err
		}},
		{"deallocate", func(s *Server) error {
			return s.DeallocateTransport(1, id)
		}},
		{"set status", func(s *Server) error {
			return s.SetTransportStatus(1, nil, TransportStatusActive)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, d := newInitializedServer(t, 0)
			_, err := s.AllocateTransport(1, videoOptions())
			require.NoError(t, err)

			// Deinit lands after the command passed its Initialized check.
			s.testHookBeforeLock = s.Deinit

			var callErr error
			require.NotPanics(t, func() { callErr = tt.call(s) })
			assert.ErrorIs(t, callErr, ErrNotInitialized)
			assert.False(t, s.Initialized())
			d.AssertNumberOfCalls(t, "Shutdown", 1)
			d.AssertNumberOfCalls(t, "DeallocateTransport", 0)
			d.AssertNumberOfCalls(t, "SetTransportStatus", 0)
		})
	}
}

func TestServer_CommandAfterDelegateReplaced(t *testing.T) {
	s, old := newInitializedServer(t, 0)

	next := newPermissiveDelegate()
	s.testHookBeforeLock = func() {
		s.Deinit()
		s.SetDelegate(next)
	}

	_, err := s.AllocateTransport(1, videoOptions())
	assert.ErrorIs(t, err, ErrNotInitialized)
	old.AssertNumberOfCalls(t, "AllocateTransport", 0)
	next.AssertNumberOfCalls(t, "AllocateTransport", 0)

	s.testHookBeforeLock = nil
	require.NoError(t, s.Init())
	_, err = s.AllocateTransport(1, videoOptions())
	require.NoError(t, err)
	next.AssertNumberOfCalls(t, "AllocateTransport", 1)
}

func TestServer_DeallocateTransport(t *testing.T) {
	s, d := newInitializedServer(t, 0)

	cfg, err := s.AllocateTransport(1, videoOptions())
	require.NoError(t, err)

	// Other fabrics cannot see the transport.
	assert.ErrorIs(t, s.DeallocateTransport(2, cfg.ConnectionID), ErrTransportNotFound)

	require.NoError(t, s.DeallocateTransport(1, cfg.ConnectionID))
	d.AssertCalled(t, "DeallocateTransport", cfg.ConnectionID)
	assert.Empty(t, s.CurrentConnections())

	assert.ErrorIs(t, s.DeallocateTransport(1, cfg.ConnectionID), ErrTransportNotFound)
}

func TestServer_SetTransportStatus(t *testing.T) {
	s, d := newInitializedServer(t, 0)

	a, _ := s.AllocateTransport(1, videoOptions())
	b, _ := s.AllocateTransport(1, videoOptions())
	c, _ := s.AllocateTransport(2, videoOptions())

	require.NoError(t, s.SetTransportStatus(1, &a.ConnectionID, TransportStatusActive))
	d.AssertCalled(t, "SetTransportStatus", []ConnectionID{a.ConnectionID}, TransportStatusActive)

	found, err := s.FindTransport(1, &a.ConnectionID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, TransportStatusActive, found[0].Status)

	// nil applies to every transport of the fabric.
	require.NoError(t, s.SetTransportStatus(1, nil, TransportStatusActive))
	d.AssertCalled(t, "SetTransportStatus", []ConnectionID{a.ConnectionID, b.ConnectionID}, TransportStatusActive)

	other, err := s.FindTransport(2, &c.ConnectionID)
	require.NoError(t, err)
	assert.Equal(t, TransportStatusInactive, other[0].Status)

	assert.ErrorIs(t, s.SetTransportStatus(2, &a.ConnectionID, TransportStatusActive), ErrTransportNotFound)
	assert.ErrorIs(t, s.SetTransportStatus(1, nil, TransportStatus(7)), ErrInvalidTransport)
}

func TestServer_FindTransport(t *testing.T) {
	s, _ := newInitializedServer(t, 0)

	_, err := s.FindTransport(1, nil)
	assert.ErrorIs(t, err, ErrTransportNotFound)

	a, _ := s.AllocateTransport(1, videoOptions())
	b, _ := s.AllocateTransport(1, videoOptions())
	_, _ = s.AllocateTransport(3, videoOptions())

	all, err := s.FindTransport(1, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ConnectionID, all[0].ConnectionID)
	assert.Equal(t, b.ConnectionID, all[1].ConnectionID)

	missing := ConnectionID(99)
	_, err = s.FindTransport(1, &missing)
	assert.ErrorIs(t, err, ErrTransportNotFound)
}

func TestFeatures_String(t *testing.T) {
	tests := []struct {
		f    Features
		want string
	}{
		{0, "none"},
		{FeaturePerZoneSensitivity, "PerZoneSensitivity"},
		{FeaturePerZoneSensitivity | FeatureMetadata, "PerZoneSensitivity|Metadata"},
		{FeatureMetadata | 0x10, "Metadata|0x10"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Features(%#x).String() = %q, want %q", uint32(tt.f), got, tt.want)
		}
	}
}

func TestTransportStatus_String(t *testing.T) {
	if got := TransportStatusActive.String(); got != "Active" {
		t.Errorf("String() = %q, want Active", got)
	}
	if got := TransportStatusInactive.String(); got != "Inactive" {
		t.Errorf("String() = %q, want Inactive", got)
	}
	if got := TransportStatus(9).String(); got != "Unknown" {
		t.Errorf("String() = %q, want Unknown", got)
	}
}
