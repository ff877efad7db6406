package domain

import "fmt"

// NullID marks an unknown client or port number.
const NullID = -1

// PortID identifies a sequencer port by its client and port numbers.
// Equality is by both fields.
type PortID struct {
	Client int
	Port   int
}

// NullPortID is the "no such port" sentinel.
var NullPortID = PortID{Client: NullID, Port: NullID}

// IsNull reports whether the ID is the "no such port" sentinel.
func (p PortID) IsNull() bool { return p == NullPortID }

// String renders the ID in the conventional client:port notation.
func (p PortID) String() string { return fmt.Sprintf("%d:%d", p.Client, p.Port) }

// PortCaps is a bitset describing what a port can do. It is used both as a
// filter on enumerated ports and as a requirement in a search profile.
type PortCaps uint

const (
	// CapRead marks a port whose events can be read.
	CapRead PortCaps = 1 << iota
	// CapWrite marks a port that accepts incoming events.
	CapWrite
	// CapSubsRead marks a port external clients may subscribe to as a sender.
	CapSubsRead
	// CapSubsWrite marks a port external clients may subscribe to as a receiver.
	CapSubsWrite
)

// SenderPortCaps is the capability set required of a port we subscribe from.
const SenderPortCaps = CapRead | CapSubsRead

// ReceiverPortCaps is the capability set of the client's own input port.
const ReceiverPortCaps = CapWrite | CapSubsWrite

// Fulfills reports whether c offers every capability in required.
func (c PortCaps) Fulfills(required PortCaps) bool { return c&required == required }
