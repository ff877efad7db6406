package domain

// State is the lifecycle state of a client session. Transitions are strictly
// closed -> idle -> running -> idle -> closed; no state is ever skipped.
type State int

const (
	// StateClosed means no sequencer session is held (initial and terminal state).
	StateClosed State = iota
	// StateIdle means the session is open but not processing events.
	StateIdle
	// StateRunning means the monitor and the receiver queue are active.
	StateRunning
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}
