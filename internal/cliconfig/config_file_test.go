package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeTempConfig(t, `
client_name = "mysynth"
port_name = "capture"
connect_to = "Launchkey:MIDI 1"
monitor_interval = "500ms"
poll_interval = "25ms"
queue_capacity = 256
debug = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	if fc.ClientName != "mysynth" {
		t.Errorf("ClientName = %q", fc.ClientName)
	}
	if fc.PortName != "capture" {
		t.Errorf("PortName = %q", fc.PortName)
	}
	if fc.ConnectTo != "Launchkey:MIDI 1" {
		t.Errorf("ConnectTo = %q", fc.ConnectTo)
	}
	if fc.MonitorInterval != "500ms" {
		t.Errorf("MonitorInterval = %q", fc.MonitorInterval)
	}
	if fc.QueueCapacity != 256 {
		t.Errorf("QueueCapacity = %d", fc.QueueCapacity)
	}
	if fc.Debug == nil || !*fc.Debug {
		t.Error("Debug not set")
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFileConfig_Malformed(t *testing.T) {
	path := writeTempConfig(t, "client_name = [broken")
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := DefaultConfig()
	debug := true
	fc := FileConfig{
		ClientName:      "mysynth",
		ConnectTo:       "28:0",
		MonitorInterval: "1s",
		QueueCapacity:   64,
		Debug:           &debug,
	}

	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatal(err)
	}

	if cfg.ClientName != "mysynth" {
		t.Errorf("ClientName = %q", cfg.ClientName)
	}
	if cfg.PortName != "in" {
		t.Errorf("PortName = %q, file left it unset", cfg.PortName)
	}
	if cfg.ConnectTo != "28:0" {
		t.Errorf("ConnectTo = %q", cfg.ConnectTo)
	}
	if cfg.MonitorInterval != time.Second {
		t.Errorf("MonitorInterval = %v", cfg.MonitorInterval)
	}
	if cfg.QueueCapacity != 64 {
		t.Errorf("QueueCapacity = %d", cfg.QueueCapacity)
	}
	if !cfg.Debug {
		t.Error("Debug not applied")
	}
}

func TestApplyFileConfig_FlagPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectTo = "flag:target"

	fc := FileConfig{ConnectTo: "file:target"}
	changed := map[string]bool{"connect": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatal(err)
	}
	if cfg.ConnectTo != "flag:target" {
		t.Errorf("ConnectTo = %q, explicit flag should win over file", cfg.ConnectTo)
	}
}

func TestApplyFileConfig_BadDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := FileConfig{MonitorInterval: "soon"}
	if err := ApplyFileConfig(&cfg, fc, nil); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestFileExists(t *testing.T) {
	path := writeTempConfig(t, "")
	if !FileExists(path) {
		t.Error("FileExists = false for existing file")
	}
	if FileExists(filepath.Join(t.TempDir(), "nope.toml")) {
		t.Error("FileExists = true for missing file")
	}
}
