// Package rtseq adapts the system MIDI driver (rtmidi via gomidi) to the
// ports.Sequencer boundary.
//
// The rtmidi API has no notion of a subscription graph: "connecting from" a
// sender port is realized by opening that port and listening on it, and the
// subscriber query reports the connections this adapter itself established.
// On ALSA, enumerated port names carry the native "client:port" address as a
// trailing token, which this adapter parses into PortID numbers.
package rtseq

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/auricle-labs/seqtap/internal/domain"
	"github.com/auricle-labs/seqtap/internal/ports"
	"github.com/auricle-labs/seqtap/pkg/log"
)

// Sequencer implements ports.Sequencer on top of the rtmidi driver.
type Sequencer struct {
	mu     sync.Mutex
	drv    *rtmididrv.Driver
	logger log.Logger

	clientName string
	clientID   int

	receiver     drivers.In // our virtual input port, nil until created
	receiverName string
	receiverID   int
	receiverStop func()

	sender     drivers.In // the subscribed sender port, nil when unconnected
	senderID   domain.PortID
	senderStop func()

	sink ports.EventSink
}

// New creates an unopened sequencer adapter.
func New(logger log.Logger) *Sequencer {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Sequencer{
		logger:     logger,
		clientID:   domain.NullID,
		receiverID: domain.NullID,
		senderID:   domain.NullPortID,
	}
}

// Open initializes the underlying driver. rtmidi does not expose the numeric
// client id the sound server assigns, so the session reports client 0 and is
// otherwise identified by name.
func (s *Sequencer) Open(clientName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv != nil {
		return domain.NullID, fmt.Errorf("rtseq: driver already open")
	}
	drv, err := rtmididrv.New()
	if err != nil {
		return domain.NullID, fmt.Errorf("rtseq: init driver: %w", err)
	}
	s.drv = drv
	s.clientName = clientName
	s.clientID = 0
	return s.clientID, nil
}

// Close stops all listeners and releases the driver.
func (s *Sequencer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return nil
	}
	s.detachSenderLocked()
	if s.receiverStop != nil {
		s.receiverStop()
		s.receiverStop = nil
	}
	if s.receiver != nil {
		_ = s.receiver.Close()
		s.receiver = nil
	}
	err := s.drv.Close()
	s.drv = nil
	s.clientName = ""
	s.clientID = domain.NullID
	s.receiverID = domain.NullID
	s.receiverName = ""
	s.sink = nil
	return err
}

// ClientName returns the name the session was opened under.
func (s *Sequencer) ClientName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return "", fmt.Errorf("rtseq: driver not open")
	}
	return s.clientName, nil
}

// CreatePort creates a virtual input port other applications can write to.
func (s *Sequencer) CreatePort(name string, caps domain.PortCaps) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return domain.NullID, fmt.Errorf("rtseq: driver not open")
	}
	if !caps.Fulfills(domain.CapWrite) {
		return domain.NullID, fmt.Errorf("rtseq: only write-capable ports are supported")
	}
	if s.receiver != nil {
		return domain.NullID, fmt.Errorf("rtseq: port already created")
	}
	in, err := s.drv.OpenVirtualIn(name)
	if err != nil {
		return domain.NullID, fmt.Errorf("rtseq: create virtual port %q: %w", name, err)
	}
	s.receiver = in
	s.receiverName = name
	s.receiverID = 0
	if s.sink != nil {
		if err := s.listenReceiverLocked(); err != nil {
			_ = in.Close()
			s.receiver = nil
			s.receiverID = domain.NullID
			return domain.NullID, err
		}
	}
	return s.receiverID, nil
}

// PortName returns the name of our own port.
func (s *Sequencer) PortName(port int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.receiver == nil || port != s.receiverID {
		return "", fmt.Errorf("rtseq: no such port %d", port)
	}
	return s.receiverName, nil
}

// Ports enumerates the driver's input and output ports in native order.
func (s *Sequencer) Ports() ([]ports.PortInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return nil, fmt.Errorf("rtseq: driver not open")
	}

	ins, err := s.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("rtseq: enumerate inputs: %w", err)
	}
	outs, err := s.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("rtseq: enumerate outputs: %w", err)
	}

	infos := make([]ports.PortInfo, 0, len(ins)+len(outs))
	for _, in := range ins {
		info := parsePortName(in.String(), in.Number())
		info.Caps = domain.CapRead | domain.CapSubsRead
		infos = append(infos, info)
	}
	for _, out := range outs {
		info := parsePortName(out.String(), out.Number())
		info.Caps = domain.CapWrite | domain.CapSubsWrite
		infos = append(infos, info)
	}
	return infos, nil
}

// ConnectFrom opens the designated sender port and begins forwarding its
// events to the registered sink.
func (s *Sequencer) ConnectFrom(receiverPort int, sender domain.PortID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return fmt.Errorf("rtseq: driver not open")
	}
	if s.receiver == nil || receiverPort != s.receiverID {
		return fmt.Errorf("rtseq: no such receiver port %d", receiverPort)
	}
	if s.sender != nil && s.senderID == sender {
		return nil // already connected
	}

	ins, err := s.drv.Ins()
	if err != nil {
		return fmt.Errorf("rtseq: enumerate inputs: %w", err)
	}
	var found drivers.In
	for _, in := range ins {
		if parsePortName(in.String(), in.Number()).ID == sender {
			found = in
			break
		}
	}
	if found == nil {
		return fmt.Errorf("rtseq: sender port %s not found", sender)
	}

	if err := found.Open(); err != nil {
		return fmt.Errorf("rtseq: open sender port %s: %w", sender, err)
	}
	stop, err := found.Listen(func(msg []byte, _ int32) {
		s.deliver(msg)
	}, drivers.ListenConfig{
		SysEx: true,
		OnErr: func(err error) {
			s.logger.Warn("sender listener error", log.Err(err))
		},
	})
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("rtseq: listen on sender port %s: %w", sender, err)
	}

	s.detachSenderLocked()
	s.sender = found
	s.senderID = sender
	s.senderStop = stop
	return nil
}

// Subscribers reports the sender connections this adapter established.
func (s *Sequencer) Subscribers(receiverPort int) ([]domain.PortID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.receiver == nil || receiverPort != s.receiverID {
		return nil, nil
	}
	if s.sender == nil {
		return nil, nil
	}
	return []domain.PortID{s.senderID}, nil
}

// Decode validates a raw event as a self-contained MIDI message.
func (s *Sequencer) Decode(ev ports.RawEvent) ([]byte, error) {
	if len(ev.Data) == 0 {
		return nil, domain.ErrNotMIDI
	}
	if ev.Data[0] < 0x80 {
		return nil, fmt.Errorf("rtseq: malformed event, status byte %#x", ev.Data[0])
	}
	out := make([]byte, len(ev.Data))
	copy(out, ev.Data)
	return out, nil
}

// StartInput begins delivering captured events to sink.
func (s *Sequencer) StartInput(sink ports.EventSink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drv == nil {
		return fmt.Errorf("rtseq: driver not open")
	}
	s.sink = sink
	if s.receiver != nil && s.receiverStop == nil {
		return s.listenReceiverLocked()
	}
	return nil
}

// StopInput stops event delivery. Established connections persist; only the
// flow of events into the sink ceases.
func (s *Sequencer) StopInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = nil
	return nil
}

func (s *Sequencer) listenReceiverLocked() error {
	stop, err := s.receiver.Listen(func(msg []byte, _ int32) {
		s.deliver(msg)
	}, drivers.ListenConfig{
		SysEx: true,
		OnErr: func(err error) {
			s.logger.Warn("receiver listener error", log.Err(err))
		},
	})
	if err != nil {
		return fmt.Errorf("rtseq: listen on receiver port: %w", err)
	}
	s.receiverStop = stop
	return nil
}

// deliver runs on the driver's callback goroutine.
func (s *Sequencer) deliver(msg []byte) {
	at := time.Now()
	data := make([]byte, len(msg))
	copy(data, msg)

	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink.Deliver(ports.RawEvent{Data: data}, at)
	}
}

func (s *Sequencer) detachSenderLocked() {
	if s.senderStop != nil {
		s.senderStop()
		s.senderStop = nil
	}
	if s.sender != nil {
		_ = s.sender.Close()
		s.sender = nil
	}
	s.senderID = domain.NullPortID
}

// parsePortName splits an enumerated rtmidi port name into client and port
// names. On ALSA the name ends with the native "client:port" address, e.g.
// "Midi Through:Midi Through Port-0 14:0"; when that token is absent the
// driver's own port number is used and the client number stays unknown.
func parsePortName(name string, number int) ports.PortInfo {
	info := ports.PortInfo{
		ID:       domain.PortID{Client: domain.NullID, Port: number},
		PortName: name,
	}

	base := name
	if i := strings.LastIndexByte(name, ' '); i >= 0 {
		if client, port, ok := parseAddress(name[i+1:]); ok {
			info.ID = domain.PortID{Client: client, Port: port}
			base = name[:i]
		}
	}

	if i := strings.IndexByte(base, ':'); i >= 0 {
		info.ClientName = base[:i]
		info.PortName = base[i+1:]
	} else {
		info.PortName = base
	}
	return info
}

func parseAddress(s string) (client, port int, ok bool) {
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return 0, 0, false
	}
	client, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, 0, false
	}
	port, err = strconv.Atoi(s[i+1:])
	if err != nil {
		return 0, 0, false
	}
	return client, port, true
}
