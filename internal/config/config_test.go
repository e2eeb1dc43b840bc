package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "nested", DefaultDBName) {
		t.Fatalf("expected db path next to config, got %q", cfg.DBPath)
	}
	if cfg.Reminders.DueTodayStartHour != 8 || cfg.Reminders.DueTodayEndHour != 10 {
		t.Fatalf("unexpected window defaults: %+v", cfg.Reminders)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again != cfg {
		t.Fatalf("reload mismatch:\n%+v\n%+v", again, cfg)
	}
}

func TestLoadOrCreateReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	body := `
db_path = "/var/lib/tasks.json"
default_filter = "active"

[storage]
backend = "json"

[reminders]
check_interval = "30s"
due_today_start_hour = 7
due_today_end_hour = 9
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/var/lib/tasks.json" || cfg.Storage.Backend != "json" {
		t.Fatalf("unexpected storage config: %+v", cfg)
	}
	if cfg.DefaultFilter != "active" {
		t.Fatalf("unexpected filter: %q", cfg.DefaultFilter)
	}
	if d, err := cfg.CheckInterval(); err != nil || d != 30*time.Second {
		t.Fatalf("unexpected interval: %v %v", d, err)
	}
	if cfg.Reminders.DueTodayStartHour != 7 || cfg.Reminders.DueTodayEndHour != 9 {
		t.Fatalf("unexpected window: %+v", cfg.Reminders)
	}
	// Unset keys keep their defaults.
	if cfg.Reminders.DismissAfterMS != 5000 || cfg.LogLevel != "info" {
		t.Fatalf("expected defaults to survive partial file: %+v", cfg)
	}
}

func TestLoadOrCreateRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("db_path = ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadOrCreate(path); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DUETASKS_DB_PATH", "/tmp/x.db")
	t.Setenv("DUETASKS_STORAGE_BACKEND", "MEMORY")
	t.Setenv("DUETASKS_SQLITE_DRIVER", "sqlite3")
	t.Setenv("DUETASKS_CHECK_INTERVAL", "2m")
	t.Setenv("DUETASKS_DUE_TODAY_START_HOUR", "6")
	t.Setenv("DUETASKS_DUE_TODAY_END_HOUR", "11")
	t.Setenv("DUETASKS_DESKTOP_NOTIFICATIONS", "off")
	t.Setenv("DUETASKS_LOG_LEVEL", "DEBUG")
	t.Setenv("DUETASKS_METRICS_FILE", "/tmp/duetasks.prom")

	cfg := FromEnv(Default())
	if cfg.DBPath != "/tmp/x.db" || cfg.Storage.Backend != "memory" || cfg.Storage.Driver != "sqlite3" {
		t.Fatalf("unexpected storage overrides: %+v", cfg)
	}
	if cfg.Reminders.CheckInterval != "2m" {
		t.Fatalf("unexpected interval: %q", cfg.Reminders.CheckInterval)
	}
	if cfg.Reminders.DueTodayStartHour != 6 || cfg.Reminders.DueTodayEndHour != 11 {
		t.Fatalf("unexpected window: %+v", cfg.Reminders)
	}
	if cfg.Notifications.Desktop {
		t.Fatal("expected desktop notifications off")
	}
	if cfg.LogLevel != "debug" || cfg.MetricsFile != "/tmp/duetasks.prom" {
		t.Fatalf("unexpected logging overrides: %+v", cfg)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("DUETASKS_CHECK_INTERVAL", "soon")
	t.Setenv("DUETASKS_DUE_TODAY_START_HOUR", "eight")
	t.Setenv("DUETASKS_DESKTOP_NOTIFICATIONS", "maybe")
	t.Setenv("DUETASKS_LOG_LEVEL", "loud")

	def := Default()
	if cfg := FromEnv(def); cfg != def {
		t.Fatalf("expected garbage env to be ignored, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted window", func(c *Config) { c.Reminders.DueTodayStartHour, c.Reminders.DueTodayEndHour = 10, 8 }},
		{"empty window", func(c *Config) { c.Reminders.DueTodayEndHour = 8 }},
		{"hour past midnight", func(c *Config) { c.Reminders.DueTodayEndHour = 25 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "pgx" }},
		{"bad interval", func(c *Config) { c.Reminders.CheckInterval = "-1s" }},
		{"bad filter", func(c *Config) { c.DefaultFilter = "overdue" }},
		{"bad level", func(c *Config) { c.LogLevel = "chatty" }},
		{"missing path", func(c *Config) { c.DBPath = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}

	mem := Default()
	mem.Storage.Backend = "memory"
	mem.DBPath = ""
	if err := mem.Validate(); err != nil {
		t.Fatalf("memory backend needs no path: %v", err)
	}
}

func TestDefaultPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join(AppName, DefaultConfigFileName)) {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestDismissAfter(t *testing.T) {
	cfg := Default()
	if cfg.DismissAfter() != 5*time.Second {
		t.Fatalf("unexpected default dismiss: %v", cfg.DismissAfter())
	}
	cfg.Reminders.DismissAfterMS = 0
	if cfg.DismissAfter() != 5*time.Second {
		t.Fatalf("expected fallback dismiss, got %v", cfg.DismissAfter())
	}
}
