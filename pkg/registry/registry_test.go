package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/backkem/matter-dm/pkg/datamodel"
)

// fakeCluster is a minimal ServerCluster for registry tests.
type fakeCluster struct {
	*datamodel.ClusterBase
}

func newFakeCluster(ep datamodel.EndpointID, id datamodel.ClusterID) *fakeCluster {
	return &fakeCluster{ClusterBase: datamodel.NewClusterBase(id, ep, 1)}
}

func (c *fakeCluster) AttributeList() []datamodel.AttributeID {
	return datamodel.MergeAttributeLists(nil)
}
func (c *fakeCluster) Init() error { return c.MarkInitialized() }
func (c *fakeCluster) Deinit()     { c.MarkDeinitialized() }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	c := newFakeCluster(1, 0x0006)

	if err := r.Register(Registration{Cluster: c}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if got := r.Get(c.Path()); got != c {
		t.Errorf("Get() = %v, want registered cluster", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := New()
	c1 := newFakeCluster(1, 0x0006)
	c2 := newFakeCluster(1, 0x0006)

	if err := r.Register(Registration{Cluster: c1}); err != nil {
		t.Fatalf("Register(c1) error = %v", err)
	}
	if err := r.Register(Registration{Cluster: c2}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("Register(c2) = %v, want ErrAlreadyRegistered", err)
	}
	if got := r.Get(c1.Path()); got != c1 {
		t.Error("duplicate registration replaced the original cluster")
	}
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := New()

	if err := r.Register(Registration{}); !errors.Is(err, ErrInvalidRegistration) {
		t.Errorf("Register(nil) = %v, want ErrInvalidRegistration", err)
	}

	c := newFakeCluster(datamodel.InvalidEndpointID, 0x0006)
	err := r.Register(Registration{Cluster: c})
	if !errors.Is(err, ErrInvalidRegistration) {
		t.Errorf("Register(invalid endpoint) = %v, want ErrInvalidRegistration", err)
	}
	if !errors.Is(err, datamodel.ErrInvalidEndpoint) {
		t.Errorf("Register(invalid endpoint) = %v, want datamodel.ErrInvalidEndpoint", err)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := New()
	c := newFakeCluster(2, 0x0555)

	if err := r.Unregister(c); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Unregister(unknown) = %v, want ErrNotRegistered", err)
	}

	if err := r.Register(Registration{Cluster: c}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Unregister(c); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if r.Get(c.Path()) != nil {
		t.Error("Get() after Unregister returned a cluster")
	}
	if len(r.Clusters()) != 0 {
		t.Errorf("Clusters() len = %d, want 0", len(r.Clusters()))
	}
}

func TestRegistry_UnregisterMatchesIdentity(t *testing.T) {
	r := New()
	registered := newFakeCluster(1, 0x0006)
	impostor := newFakeCluster(1, 0x0006)

	if err := r.Register(Registration{Cluster: registered}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Unregister(impostor); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Unregister(impostor) = %v, want ErrNotRegistered", err)
	}
	if r.Get(registered.Path()) != registered {
		t.Error("impostor unregister removed the registered cluster")
	}
}

func TestRegistry_Order(t *testing.T) {
	r := New()
	clusters := []*fakeCluster{
		newFakeCluster(0, 0x0028),
		newFakeCluster(2, 0x0555),
		newFakeCluster(1, 0x0555),
	}
	for _, c := range clusters {
		if err := r.Register(Registration{Cluster: c}); err != nil {
			t.Fatalf("Register(%s) error = %v", c.Path(), err)
		}
	}

	got := r.Clusters()
	if len(got) != len(clusters) {
		t.Fatalf("Clusters() len = %d, want %d", len(got), len(clusters))
	}
	for i, c := range clusters {
		if got[i] != c {
			t.Errorf("Clusters()[%d] = %s, want %s", i, got[i].Path(), c.Path())
		}
	}

	if err := r.Unregister(clusters[1]); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	got = r.Clusters()
	if len(got) != 2 || got[0] != clusters[0] || got[1] != clusters[2] {
		t.Error("Clusters() order not preserved after Unregister")
	}

	if eps := r.EndpointClusters(1); len(eps) != 1 || eps[0] != clusters[2] {
		t.Errorf("EndpointClusters(1) = %v, want [%s]", eps, clusters[2].Path())
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(ep datamodel.EndpointID) {
			defer wg.Done()
			c := newFakeCluster(ep, 0x0555)
			if err := r.Register(Registration{Cluster: c}); err != nil {
				t.Errorf("Register(%d) error = %v", ep, err)
				return
			}
			_ = r.Get(c.Path())
			_ = r.Clusters()
			if err := r.Unregister(c); err != nil {
				t.Errorf("Unregister(%d) error = %v", ep, err)
			}
		}(datamodel.EndpointID(i + 1))
	}

	wg.Wait()
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}
