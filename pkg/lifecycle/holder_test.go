package lifecycle

import (
	"errors"
	"testing"

	"github.com/backkem/matter-dm/pkg/datamodel"
)

func buildTest(ep datamodel.EndpointID, args uint32) *testCluster {
	return newTestCluster(ep, 0x0555, args, nil)
}

func TestHolder_CreateDestroy(t *testing.T) {
	h := NewHolder[*testCluster, uint32]()

	if h.IsConstructed(1) {
		t.Fatal("IsConstructed(1) = true on empty holder")
	}
	if got := h.State(1); got != StateEmpty {
		t.Errorf("State(1) = %v, want Empty", got)
	}

	c, err := h.Create(1, 3, buildTest)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.EndpointID() != 1 {
		t.Errorf("EndpointID() = %d, want 1", c.EndpointID())
	}
	if got := h.State(1); got != StateConstructed {
		t.Errorf("State(1) = %v, want Constructed", got)
	}
	if args, ok := h.Args(1); !ok || args != 3 {
		t.Errorf("Args(1) = %d, %v, want 3, true", args, ok)
	}
	if got, ok := h.Get(1); !ok || got != c {
		t.Error("Get(1) did not return the constructed instance")
	}

	reg, ok := h.Registration(1)
	if !ok {
		t.Fatal("Registration(1) not available while constructed")
	}
	if reg.Cluster != c {
		t.Error("Registration(1).Cluster is not the constructed instance")
	}

	if err := h.Destroy(1); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if h.IsConstructed(1) {
		t.Error("IsConstructed(1) = true after Destroy")
	}
	if _, ok := h.Registration(1); ok {
		t.Error("Registration(1) available after Destroy")
	}
}

func TestHolder_CreateTwice(t *testing.T) {
	h := NewHolder[*testCluster, uint32]()

	first, err := h.Create(2, 1, buildTest)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	built := false
	second, err := h.Create(2, 2, func(ep datamodel.EndpointID, args uint32) *testCluster {
		built = true
		return buildTest(ep, args)
	})
	if !errors.Is(err, ErrAlreadyConstructed) {
		t.Errorf("Create() twice = %v, want ErrAlreadyConstructed", err)
	}
	if built {
		t.Error("build function called for a constructed endpoint")
	}
	if second != first {
		t.Error("second Create did not return the existing instance")
	}
	if args, _ := h.Args(2); args != 1 {
		t.Errorf("Args(2) = %d, want 1", args)
	}
}

func TestHolder_DestroyEmpty(t *testing.T) {
	h := NewHolder[*testCluster, uint32]()

	if err := h.Destroy(5); !errors.Is(err, ErrNotConstructed) {
		t.Errorf("Destroy(empty) = %v, want ErrNotConstructed", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHolder_Reconstruct(t *testing.T) {
	h := NewHolder[*testCluster, uint32]()

	first, _ := h.Create(1, 1, buildTest)
	if err := h.Destroy(1); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	second, err := h.Create(1, 2, buildTest)
	if err != nil {
		t.Fatalf("Create() after Destroy error = %v", err)
	}
	if first == second {
		t.Error("reconstruction reused the destroyed instance")
	}
}

func TestHolder_EndpointsAndReset(t *testing.T) {
	h := NewHolder[*testCluster, uint32]()

	for _, ep := range []datamodel.EndpointID{7, 1, 3} {
		if _, err := h.Create(ep, 0, buildTest); err != nil {
			t.Fatalf("Create(%d) error = %v", ep, err)
		}
	}

	got := h.Endpoints()
	want := []datamodel.EndpointID{1, 3, 7}
	if len(got) != len(want) {
		t.Fatalf("Endpoints() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Endpoints()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", h.Len())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
		built bool
	}{
		{StateEmpty, "Empty", false},
		{StateConstructed, "Constructed", true},
		{StateRegistered, "Registered", true},
		{State(42), "Unknown", false},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
		if got := tt.state.IsConstructed(); got != tt.built {
			t.Errorf("State(%d).IsConstructed() = %v, want %v", tt.state, got, tt.built)
		}
	}
}
