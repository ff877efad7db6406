package ports

import (
	"time"

	"github.com/auricle-labs/seqtap/internal/domain"
)

// RawEvent is one hardware event as captured from the sequencer service,
// before MIDI decoding.
type RawEvent struct {
	Data []byte
}

// PortInfo describes one port as enumerated by the sequencer service.
type PortInfo struct {
	ID         domain.PortID
	ClientName string
	PortName   string
	Caps       domain.PortCaps
}

// EventSink receives captured hardware events together with their capture
// time. Implementations must not block: delivery happens on the driver's
// callback goroutine.
type EventSink interface {
	Deliver(ev RawEvent, at time.Time)
}

// Sequencer is the boundary to the sound-sequencer service. Every native
// "out parameter + status code" call is wrapped into a value-or-error result
// so the client core never inspects raw status codes.
type Sequencer interface {
	// Open starts a duplex, non-blocking session under the given client name
	// and prepares the event decoder. It returns the client number assigned
	// by the service. The session handle and the decoder are valid together
	// or not at all.
	Open(clientName string) (int, error)

	// Close releases the decoder and the session.
	Close() error

	// ClientName returns the name the service assigned to this client.
	ClientName() (string, error)

	// CreatePort creates an application port with the given capabilities and
	// returns its port number.
	CreatePort(name string, caps domain.PortCaps) (int, error)

	// PortName returns the service-assigned name of one of our own ports.
	PortName(port int) (string, error)

	// ConnectFrom subscribes our receiver port to events emitted by sender.
	ConnectFrom(receiverPort int, sender domain.PortID) error

	// Subscribers lists the remote ports currently subscribed to write into
	// receiverPort.
	Subscribers(receiverPort int) ([]domain.PortID, error)

	// Ports enumerates every port known to the service, in the service's
	// native enumeration order. The order is stable but externally defined.
	Ports() ([]PortInfo, error)

	// Decode turns a raw event into MIDI bytes, self-contained per message
	// (no running-status compression). It returns domain.ErrNotMIDI when the
	// event does not correspond to a MIDI message.
	Decode(ev RawEvent) ([]byte, error)

	// StartInput begins delivering captured events to sink.
	StartInput(sink EventSink) error

	// StopInput stops event delivery.
	StopInput() error
}
