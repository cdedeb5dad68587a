package lifecycle

// State is the lifecycle state of one holder entry.
type State int

const (
	// StateEmpty means no instance exists for the endpoint.
	StateEmpty State = iota

	// StateConstructed means the instance exists but is not registered,
	// either because registration has not happened yet or because it failed.
	StateConstructed

	// StateRegistered means the instance exists and is visible in the registry.
	StateRegistered
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateConstructed:
		return "Constructed"
	case StateRegistered:
		return "Registered"
	default:
		return "Unknown"
	}
}

// IsConstructed returns true if an instance exists in this state.
func (s State) IsConstructed() bool {
	return s == StateConstructed || s == StateRegistered
}
