package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr default: got %q", cfg.Addr)
	}
	if cfg.Reminder.SweepIntervalSec != 60 {
		t.Fatalf("sweep interval default: got %d", cfg.Reminder.SweepIntervalSec)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
addr: ":9090"
timezone: "Europe/Prague"
smtp:
  host: smtp.example.com
  port: 587
  starttls: true
reminder:
  sweep_interval_sec: 30
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" || cfg.Timezone != "Europe/Prague" {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.SMTP.Host != "smtp.example.com" || cfg.SMTP.Port != 587 || !cfg.SMTP.StartTLS {
		t.Fatalf("smtp: got %+v", cfg.SMTP)
	}
	if cfg.Reminder.SweepIntervalSec != 30 {
		t.Fatalf("sweep interval: got %d", cfg.Reminder.SweepIntervalSec)
	}
	// Unset keys keep their defaults.
	if cfg.Reminder.SendTimeoutSec != 15 {
		t.Fatalf("send timeout default: got %d", cfg.Reminder.SendTimeoutSec)
	}
}
