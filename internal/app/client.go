package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/auricle-labs/seqtap/internal/domain"
	"github.com/auricle-labs/seqtap/internal/ports"
	"github.com/auricle-labs/seqtap/pkg/log"
)

// DefaultMonitorInterval is the pause between connection-monitor ticks.
// Activate blocks for one interval, and Stop/Close let the monitor goroutine
// cease within one interval.
const DefaultMonitorInterval = 200 * time.Millisecond

// MonitorHandler is invoked on every monitor tick with the designation of
// the port the session should keep connected to.
type MonitorHandler func(connectTo string)

// Client owns one sequencer session and its single receiver port, and runs
// the closed -> idle -> running lifecycle. All public operations are
// serialized against each other, and against the monitor's default handler,
// by one mutex.
type Client struct {
	mu    sync.Mutex
	state domain.State

	seq   ports.Sequencer
	queue ports.EventQueue

	clientID  int
	portID    int // NullID while no receiver port exists
	connectTo string
	onMonitor MonitorHandler

	// monitoring is read by the monitor goroutine on every wake-up without
	// taking the session mutex, so teardown can flip it while holding the
	// lock without deadlocking against an in-flight tick. generation stamps
	// each activation; a loop outlives its stamp when a Stop/Activate cycle
	// completes within one interval, and must not be revived by the flag
	// turning true again.
	monitoring atomic.Bool
	generation atomic.Uint64

	interval time.Duration
	clock    Clock
	logger   log.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMonitorInterval sets the pause between connection-monitor ticks.
func WithMonitorInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock substitutes the time source. Tests use this to control deadlines.
func WithClock(clk Clock) Option {
	return func(c *Client) { c.clock = clk }
}

// New creates a client over the given sequencer service and receiver queue.
// The client starts in the closed state.
func New(seq ports.Sequencer, queue ports.EventQueue, opts ...Option) *Client {
	c := &Client{
		state:    domain.StateClosed,
		seq:      seq,
		queue:    queue,
		clientID: domain.NullID,
		portID:   domain.NullID,
		interval: DefaultMonitorInterval,
		clock:    systemClock{},
		logger:   log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state. The read is serialized with
// in-flight transitions: a caller observing running is guaranteed the
// session handles are valid at the instant of the read.
func (c *Client) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open starts the sequencer session and the event decoder under the given
// client name and moves the session from closed to idle. On failure nothing
// is retained and the state is left unchanged.
func (c *Client) Open(clientName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateClosed {
		return &domain.StateError{Op: "open client", Current: c.state}
	}

	clientID, err := c.seq.Open(clientName)
	if err != nil {
		return &domain.ServiceError{Op: "open sequencer session", Err: err}
	}

	c.clientID = clientID
	c.portID = domain.NullID
	c.connectTo = ""
	c.onMonitor = nil
	c.state = domain.StateIdle
	c.logger.Debug("session opened",
		log.String("client", clientName),
		log.Int("client_id", clientID),
	)
	return nil
}

// NewReceiverPort creates the session's single write-subscribable input port
// and remembers connectTo as the designation the connection monitor should
// keep connected. The connection itself is deferred to the monitor's first
// tick after Activate. An empty connectTo means no connection is attempted.
func (c *Client) NewReceiverPort(portName, connectTo string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateIdle {
		return &domain.StateError{Op: "create receiver port", Current: c.state}
	}
	if c.portID != domain.NullID {
		return domain.ErrPortExists
	}

	portID, err := c.seq.CreatePort(portName, domain.ReceiverPortCaps)
	if err != nil {
		return &domain.ServiceError{Op: "create receiver port", Err: err}
	}

	c.portID = portID
	c.connectTo = connectTo
	c.onMonitor = c.defaultConnectionsHandler
	c.logger.Debug("receiver port created",
		log.String("port", portName),
		log.String("connect_to", connectTo),
	)
	return nil
}

// SetConnectTarget replaces the designation the connection monitor tries to
// keep connected. Like handler registration, retargeting is only permitted
// while the session is not running.
func (c *Client) SetConnectTarget(connectTo string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateRunning {
		return &domain.StateError{Op: "set connect target", Current: c.state}
	}
	c.connectTo = connectTo
	return nil
}

// Activate starts the connection monitor and the receiver queue and moves
// the session from idle to running. It blocks the caller for one monitor
// interval so that the first connection attempt has been issued by the time
// it returns.
func (c *Client) Activate() error {
	c.mu.Lock()
	if c.state != domain.StateIdle {
		defer c.mu.Unlock()
		return &domain.StateError{Op: "activate client", Current: c.state}
	}

	if err := c.queue.Start(c.seq); err != nil {
		c.mu.Unlock()
		return &domain.ServiceError{Op: "start receiver queue", Err: err}
	}

	// The handler and target are captured here, under the lock; they are
	// only written while not running, so the monitor goroutine needs no
	// further synchronization to use them.
	handler := c.onMonitor
	connectTo := c.connectTo
	interval := c.interval

	gen := c.generation.Add(1)
	c.monitoring.Store(true)
	go c.monitorLoop(gen, handler, connectTo, interval)

	c.state = domain.StateRunning
	c.mu.Unlock()

	// Give the monitor a chance to run at least once before returning.
	time.Sleep(interval)
	return nil
}

// Stop halts connection monitoring and event capture and returns the session
// to idle. It is a no-op unless the session is running.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateRunning {
		return
	}
	c.stopInternal()
	c.state = domain.StateIdle
}

// Close performs the same teardown as Stop unconditionally, releases the
// decoder and session handles and returns the session to closed. Close never
// fails; errors from the underlying close are logged only.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateClosed {
		return
	}

	// Monitor and queue must be stopped before the handles are released so
	// that no concurrent actor can observe a freed session.
	c.stopInternal()

	if err := c.seq.Close(); err != nil {
		c.logger.Warn("sequencer close failed", log.Err(err))
	}

	c.portID = domain.NullID
	c.clientID = domain.NullID
	c.connectTo = ""
	c.onMonitor = nil
	c.state = domain.StateClosed
	c.logger.Debug("session closed")
}

// stopInternal flips the monitoring flag and stops the receiver queue. The
// monitor goroutine is not joined: it stops issuing actions within one
// interval and its handler re-checks the state under the lock before acting.
func (c *Client) stopInternal() {
	c.monitoring.Store(false)
	if err := c.queue.Stop(); err != nil {
		c.logger.Warn("receiver queue stop failed", log.Err(err))
	}
}

// ClientName returns the name the service assigned to this client, or the
// empty string when the session is closed.
func (c *Client) ClientName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateClosed {
		return ""
	}
	name, err := c.seq.ClientName()
	if err != nil {
		c.logger.Warn("client name query failed", log.Err(err))
		return ""
	}
	return name
}

// PortName returns the service-assigned name of the receiver port, or the
// empty string when the session is closed or no receiver port exists.
func (c *Client) PortName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateClosed || c.portID == domain.NullID {
		return ""
	}
	name, err := c.seq.PortName(c.portID)
	if err != nil {
		c.logger.Warn("port name query failed", log.Err(err))
		return ""
	}
	return name
}

// ReceiverPortConnections lists the remote ports currently subscribed to
// write into the receiver port. It returns an empty list when the session is
// closed or no receiver port exists yet; it never fails.
func (c *Client) ReceiverPortConnections() []domain.PortID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateClosed || c.portID == domain.NullID {
		return nil
	}
	connected, err := c.seq.Subscribers(c.portID)
	if err != nil {
		c.logger.Warn("subscription query failed", log.Err(err))
		return nil
	}
	return connected
}

// tryToConnect locates the designated sender port and subscribes the
// receiver port to it. A designation that matches no port is not an error:
// the receiver port simply remains unconnected. A failing subscribe call is.
// The caller must hold the session mutex.
func (c *Client) tryToConnect(designation string) error {
	if designation == "" {
		return nil
	}

	profile := ToProfile(domain.SenderPortCaps, designation)
	target, err := FindPort(c.seq, profile, Match)
	if err != nil {
		return err
	}
	if target.IsNull() {
		c.logger.Info("no such port", log.String("designation", designation))
		return nil
	}

	if err := c.seq.ConnectFrom(c.portID, target); err != nil {
		return &domain.ServiceError{Op: "connect from " + designation, Err: err}
	}
	c.logger.Info("connected",
		log.String("designation", designation),
		log.String("sender", target.String()),
	)
	return nil
}
