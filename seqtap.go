// Package seqtap provides a client for receiving MIDI events from a
// low-level sound-sequencer service.
//
// A session runs through the closed -> idle -> running lifecycle:
//
//	client := seqtap.NewSystem()
//	defer client.Close()
//
//	if err := client.Open("my-synth"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.NewReceiverPort("in", "Launchkey:MIDI 1"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Activate(); err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    _ = client.Retrieve(time.Now(), func(ev midi.Message, at time.Time) error {
//	        fmt.Println(at, ev)
//	        return nil
//	    })
//	    time.Sleep(10 * time.Millisecond)
//	}
//
// While the session is running, a background monitor re-establishes the
// desired connection whenever the receiver port has no subscriber.
package seqtap

import (
	"github.com/auricle-labs/seqtap/internal/adapters/rtseq"
	"github.com/auricle-labs/seqtap/internal/app"
	"github.com/auricle-labs/seqtap/internal/domain"
	"github.com/auricle-labs/seqtap/internal/ports"
	"github.com/auricle-labs/seqtap/internal/queue"
	"github.com/auricle-labs/seqtap/pkg/log"
)

// Client owns one sequencer session and its single receiver port.
type Client = app.Client

// State is the lifecycle state of a client session.
type State = domain.State

// Lifecycle states.
const (
	StateClosed  = domain.StateClosed
	StateIdle    = domain.StateIdle
	StateRunning = domain.StateRunning
)

// PortID identifies a sequencer port by client and port numbers.
type PortID = domain.PortID

// Sequencer is the boundary to the sound-sequencer service.
type Sequencer = ports.Sequencer

// EventQueue buffers captured events between the driver and the consumer.
type EventQueue = ports.EventQueue

// Option customizes a Client.
type Option = app.Option

// MonitorHandler is invoked on every connection-monitor tick.
type MonitorHandler = app.MonitorHandler

// RetrieveFunc receives one decoded MIDI event with its capture time.
type RetrieveFunc = app.RetrieveFunc

// Errors checkable with errors.Is.
var (
	ErrBadState   = domain.ErrBadState
	ErrService    = domain.ErrService
	ErrPortExists = domain.ErrPortExists
)

// Client options.
var (
	WithLogger          = app.WithLogger
	WithMonitorInterval = app.WithMonitorInterval
)

// New creates a client over the given sequencer service and receiver queue.
func New(seq Sequencer, q EventQueue, opts ...Option) *Client {
	return app.New(seq, q, opts...)
}

// NewSystem creates a client wired to the system MIDI driver and an
// in-memory receiver queue with the default capacity.
func NewSystem(opts ...Option) *Client {
	seq := rtseq.New(log.NewNoopLogger())
	return app.New(seq, queue.New(queue.DefaultCapacity, nil), opts...)
}
