package ports

import "time"

// EventQueue buffers hardware events between the driver's capture context and
// the consumer. It is the sole supplier of buffered input events for the
// retrieval bridge.
type EventQueue interface {
	// Start attaches the queue to the sequencer as its event sink.
	Start(seq Sequencer) error

	// Stop detaches the queue from the sequencer and discards buffered events.
	Stop() error

	// Len returns the number of currently buffered events.
	Len() int

	// Process applies fn, in arrival order, to every buffered event whose
	// capture time is at or before deadline. Events captured later stay
	// queued for a future call. fn returning false stops the drain and
	// leaves the remaining events queued. Process never blocks waiting for
	// new events; it returns the number of events handed to fn.
	Process(deadline time.Time, fn func(ev RawEvent, at time.Time) bool) int
}
