// Package queue provides the in-memory receiver queue that buffers captured
// sequencer events between the driver's delivery context and the consumer.
package queue

import (
	"sync"
	"time"

	"github.com/auricle-labs/seqtap/internal/ports"
	"github.com/auricle-labs/seqtap/pkg/log"
)

// DefaultCapacity bounds the number of buffered events.
const DefaultCapacity = 1024

type entry struct {
	ev ports.RawEvent
	at time.Time
}

// Queue implements ports.EventQueue and ports.EventSink. Delivery never
// blocks: when the queue is full, the newest event is dropped and counted.
type Queue struct {
	mu       sync.Mutex
	entries  []entry
	capacity int
	running  bool
	seq      ports.Sequencer
	dropped  int
	logger   log.Logger
}

// New creates a queue holding at most capacity events. A capacity of zero or
// less falls back to DefaultCapacity.
func New(capacity int, logger log.Logger) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Queue{capacity: capacity, logger: logger}
}

// Start attaches the queue to the sequencer as its event sink.
func (q *Queue) Start(seq ports.Sequencer) error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = true
	q.seq = seq
	q.mu.Unlock()

	if err := seq.StartInput(q); err != nil {
		q.mu.Lock()
		q.running = false
		q.seq = nil
		q.mu.Unlock()
		return err
	}
	return nil
}

// Stop detaches the queue from the sequencer and discards buffered events.
func (q *Queue) Stop() error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	seq := q.seq
	q.seq = nil
	q.entries = nil
	q.mu.Unlock()

	return seq.StopInput()
}

// Deliver appends one captured event. Events arriving while the queue is
// stopped or full are dropped; capture must never block.
func (q *Queue) Deliver(ev ports.RawEvent, at time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return
	}
	if len(q.entries) >= q.capacity {
		q.dropped++
		q.logger.Warn("receiver queue full, event dropped",
			log.Int("dropped_total", q.dropped),
		)
		return
	}
	q.entries = append(q.entries, entry{ev: ev, at: at})
}

// Len returns the number of currently buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Dropped returns the number of events discarded because the queue was full.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Process applies fn, in arrival order, to every buffered event captured at
// or before deadline. Later events stay queued. fn returning false ends the
// drain with the remaining events still queued. The queue lock is released
// around each fn call so that delivery from the driver goroutine is never
// blocked by a slow consumer.
func (q *Queue) Process(deadline time.Time, fn func(ev ports.RawEvent, at time.Time) bool) int {
	processed := 0
	for {
		q.mu.Lock()
		if len(q.entries) == 0 || q.entries[0].at.After(deadline) {
			q.mu.Unlock()
			return processed
		}
		e := q.entries[0]
		q.entries = q.entries[1:]
		q.mu.Unlock()

		processed++
		if !fn(e.ev, e.at) {
			return processed
		}
	}
}
