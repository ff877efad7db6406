// Package cliconfig holds the configuration surface of the seqtap CLI:
// defaults, validation, TOML file loading, environment overrides and the
// config-file watcher.
package cliconfig

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds CLI configuration for seqtap.
type Config struct {
	// ClientName is the name this session registers with the sound server.
	ClientName string

	// PortName is the name of the receiver port other applications see.
	PortName string

	// ConnectTo is the designation of a sender port the connection monitor
	// keeps connected, e.g. "28:0" or "Launchkey:MIDI 1". Empty disables
	// auto-connect.
	ConnectTo string

	// MonitorInterval is the pause between connection-monitor ticks.
	MonitorInterval time.Duration

	// PollInterval is how often the CLI drains due events.
	PollInterval time.Duration

	// QueueCapacity bounds the receiver queue.
	QueueCapacity int

	// Debug enables debug-level logging.
	Debug bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ClientName:      "seqtap",
		PortName:        "in",
		MonitorInterval: 200 * time.Millisecond,
		PollInterval:    10 * time.Millisecond,
		QueueCapacity:   1024,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ClientName == "" {
		return fmt.Errorf("client-name is required")
	}
	if c.PortName == "" {
		return fmt.Errorf("port-name is required")
	}
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue capacity must be positive")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag has not been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
