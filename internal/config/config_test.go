package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Remote.Timeout != 30*time.Second {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Fatalf("level = %v", cfg.Level())
	}
}

func TestLoadFile_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
log_level: debug
store:
  backend: HTTP
remote:
  base_url: https://api.example.com
  token: abc
  timeout: 5s
reminder:
  enabled: true
  workdays: [monday, TUE]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != "http" || cfg.Remote.BaseURL != "https://api.example.com" || cfg.Remote.Timeout != 5*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Reminder.Workdays[0] != "Mon" || cfg.Reminder.Workdays[1] != "Tue" {
		t.Fatalf("workdays = %v", cfg.Reminder.Workdays)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.Level())
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("TALLY_STORE_BACKEND", "mysql")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != "mysql" {
		t.Fatalf("backend = %q", cfg.Store.Backend)
	}
}

func TestLoadFile_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("TALLY_STORE_BACKEND", "postgres")
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
