package app

import (
	"errors"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/auricle-labs/seqtap/internal/domain"
	"github.com/auricle-labs/seqtap/internal/ports"
	"github.com/auricle-labs/seqtap/pkg/log"
)

// RetrieveFunc receives one decoded MIDI event together with its capture
// time. Returning a non-nil error stops the current drain; events delivered
// before the failure are not rolled back.
type RetrieveFunc func(ev midi.Message, at time.Time) error

// Retrieve drains every queued event captured at or before deadline, in
// arrival order, decoding each into a typed MIDI message and handing it to
// fn. Events captured after the deadline stay queued for a future call.
// Retrieve never blocks waiting for new events: it returns as soon as the
// queue is exhausted or the deadline boundary is reached, even if zero
// events were available.
//
// Raw events with no MIDI representation are skipped silently; any other
// decode failure is logged and the event dropped. A failing fn ends the
// drain immediately and its error becomes the return value.
func (c *Client) Retrieve(deadline time.Time, fn RetrieveFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateRunning {
		return &domain.StateError{Op: "retrieve events", Current: c.state}
	}

	return c.retrieveLocked(deadline, fn)
}

// RetrieveDue drains everything captured up to the present moment.
func (c *Client) RetrieveDue(fn RetrieveFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateRunning {
		return &domain.StateError{Op: "retrieve events", Current: c.state}
	}
	return c.retrieveLocked(c.clock.Now(), fn)
}

func (c *Client) retrieveLocked(deadline time.Time, fn RetrieveFunc) error {
	var cbErr error
	c.queue.Process(deadline, func(ev ports.RawEvent, at time.Time) bool {
		data, err := c.seq.Decode(ev)
		if err != nil {
			if errors.Is(err, domain.ErrNotMIDI) {
				// the sequencer event does not correspond to a MIDI
				// message; that's OK, just ignore it.
				return true
			}
			c.logger.Warn("event decode failed", log.Err(err))
			return true
		}
		if err := fn(midi.Message(data), at); err != nil {
			cbErr = err
			return false
		}
		return true
	})
	return cbErr
}
