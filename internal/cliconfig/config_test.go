package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ClientName != "seqtap" {
		t.Errorf("ClientName = %q, want seqtap", cfg.ClientName)
	}
	if cfg.PortName != "in" {
		t.Errorf("PortName = %q, want in", cfg.PortName)
	}
	if cfg.ConnectTo != "" {
		t.Errorf("ConnectTo = %q, want empty", cfg.ConnectTo)
	}
	if cfg.MonitorInterval != 200*time.Millisecond {
		t.Errorf("MonitorInterval = %v, want 200ms", cfg.MonitorInterval)
	}
	if cfg.PollInterval != 10*time.Millisecond {
		t.Errorf("PollInterval = %v, want 10ms", cfg.PollInterval)
	}
	if cfg.QueueCapacity != 1024 {
		t.Errorf("QueueCapacity = %d, want 1024", cfg.QueueCapacity)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty client name", func(c *Config) { c.ClientName = "" }, true},
		{"empty port name", func(c *Config) { c.PortName = "" }, true},
		{"zero monitor interval", func(c *Config) { c.MonitorInterval = 0 }, true},
		{"negative poll interval", func(c *Config) { c.PollInterval = -time.Second }, true},
		{"zero queue capacity", func(c *Config) { c.QueueCapacity = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigSetter_RespectsChangedFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClientName = "from-flag"

	s := newConfigSetter(map[string]bool{"client-name": true})
	s.setString("client-name", "from-file", &cfg.ClientName)
	if cfg.ClientName != "from-flag" {
		t.Errorf("ClientName = %q, explicit flag should win", cfg.ClientName)
	}

	s.setString("port-name", "from-file", &cfg.PortName)
	if cfg.PortName != "from-file" {
		t.Errorf("PortName = %q, unset flag should be overridden", cfg.PortName)
	}
}

func TestConfigSetter_IgnoresEmptyAndInvalid(t *testing.T) {
	cfg := DefaultConfig()
	s := newConfigSetter(nil)

	s.setString("client-name", "", &cfg.ClientName)
	if cfg.ClientName != "seqtap" {
		t.Errorf("empty value overwrote ClientName: %q", cfg.ClientName)
	}

	s.setInt("queue-capacity", -1, &cfg.QueueCapacity)
	if cfg.QueueCapacity != 1024 {
		t.Errorf("non-positive value overwrote QueueCapacity: %d", cfg.QueueCapacity)
	}

	if err := s.setDuration("poll", "not-a-duration", &cfg.PollInterval); err == nil {
		t.Error("setDuration accepted an invalid duration")
	}
}
