package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SEQTAP_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("client-name", os.Getenv("SEQTAP_CLIENT_NAME"), &cfg.ClientName)
	s.setString("port-name", os.Getenv("SEQTAP_PORT_NAME"), &cfg.PortName)
	s.setString("connect", os.Getenv("SEQTAP_CONNECT_TO"), &cfg.ConnectTo)

	if err := s.setDuration("monitor-interval", os.Getenv("SEQTAP_MONITOR_INTERVAL"), &cfg.MonitorInterval); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("SEQTAP_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setIntFromString("queue-capacity", os.Getenv("SEQTAP_QUEUE_CAPACITY"), &cfg.QueueCapacity); err != nil {
		return err
	}

	s.setBoolFromString("debug", os.Getenv("SEQTAP_DEBUG"), &cfg.Debug)

	return nil
}
