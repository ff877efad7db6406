package domain

import (
	"errors"
	"fmt"
)

// Domain errors returned by the public API. They can be checked with errors.Is.
var (
	// ErrBadState is returned when an operation is invoked from an illegal
	// lifecycle state.
	ErrBadState = errors.New("seqtap: wrong state")

	// ErrService marks failures reported by the underlying sequencer service.
	ErrService = errors.New("seqtap: sequencer service error")

	// ErrPortExists is returned when a second receiver port is requested.
	// Only one receiver port can be created per session.
	ErrPortExists = errors.New("seqtap: receiver port already exists")

	// ErrNotMIDI indicates a sequencer event with no MIDI representation.
	// Such events are skipped silently during retrieval.
	ErrNotMIDI = errors.New("seqtap: event has no MIDI representation")
)

// StateError reports an operation invoked from an illegal lifecycle state.
// It unwraps to ErrBadState.
type StateError struct {
	Op      string
	Current State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("seqtap: cannot %s: wrong state %s", e.Op, e.Current)
}

func (e *StateError) Unwrap() error { return ErrBadState }

// ServiceError wraps a failure of the underlying sequencer service.
// It matches ErrService with errors.Is and unwraps to the driver error.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("seqtap: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) Is(target error) bool { return target == ErrService }
