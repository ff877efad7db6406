package app

import (
	"time"

	"github.com/auricle-labs/seqtap/internal/domain"
	"github.com/auricle-labs/seqtap/pkg/log"
)

// OnMonitorConnections registers the handler invoked on every monitor tick
// with the remembered connect target. Registration is rejected while the
// session is running: the monitor reads the handler without per-tick
// locking, which is only safe because it cannot change underneath it.
func (c *Client) OnMonitorConnections(handler MonitorHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateRunning {
		return &domain.StateError{Op: "register monitor handler", Current: c.state}
	}
	c.onMonitor = handler
	return nil
}

// monitorLoop runs on a dedicated goroutine for the lifetime of the running
// state. Shutdown is cooperative: flipping the monitoring flag lets the loop
// exit on its next wake-up, so cessation is bounded by one interval. Nothing
// interrupts an in-progress sleep. The loop also dies when its generation is
// superseded, so a Stop/Activate cycle completing within one interval cannot
// resurrect it with its stale connect target.
func (c *Client) monitorLoop(gen uint64, handler MonitorHandler, connectTo string, interval time.Duration) {
	for c.monitoring.Load() && c.generation.Load() == gen {
		if handler != nil {
			handler(connectTo)
		}
		time.Sleep(interval)
	}
}

// defaultConnectionsHandler re-establishes the desired connection while the
// receiver port has no subscriber at all. It deliberately does not verify
// that an existing subscriber is the configured target: any subscriber
// suppresses the connection attempt.
func (c *Client) defaultConnectionsHandler(connectTo string) {
	if connectTo == "" {
		// no connection requested, nothing to do
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateRunning {
		// teardown has started; the handles may be on their way out
		return
	}
	if c.portID == domain.NullID {
		// we have no receiver port
		return
	}

	connected, err := c.seq.Subscribers(c.portID)
	if err != nil {
		c.logger.Warn("subscription query failed", log.Err(err))
		return
	}
	if len(connected) > 0 {
		// something is connected; we assume it is what we ought to be
		// connected to.
		return
	}

	if err := c.tryToConnect(connectTo); err != nil {
		// Auto-connect is best effort; a failed background attempt stays
		// invisible to the caller.
		c.logger.Debug("auto-connect failed",
			log.String("target", connectTo),
			log.Err(err),
		)
	}
}
