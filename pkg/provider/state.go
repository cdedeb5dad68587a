package provider

// State represents the lifecycle state of a Provider.
type State int

const (
	// StateUninitialized is the state after New, before Startup.
	StateUninitialized State = iota

	// StateRunning means Startup completed and endpoints can be enabled.
	StateRunning

	// StateStopped means the provider has been shut down.
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// IsRunning returns true if endpoints can be enabled in this state.
func (s State) IsRunning() bool {
	return s == StateRunning
}
