// Package config loads duetasks settings from a TOML file with environment
// overrides on top.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/storage"
)

const (
	AppName               = "duetasks"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "duetasks.db"
	DefaultLogName        = "duetasks.log"
)

var ErrInvalid = errors.New("config: invalid")

type Storage struct {
	Backend string `toml:"backend"`
	Driver  string `toml:"driver"`
}

type Reminders struct {
	CheckInterval     string `toml:"check_interval"`
	DueTodayStartHour int    `toml:"due_today_start_hour"`
	DueTodayEndHour   int    `toml:"due_today_end_hour"`
	DismissAfterMS    int    `toml:"dismiss_after_ms"`
	SchedulerBuffer   int    `toml:"scheduler_buffer"`
}

type Notifications struct {
	Desktop bool `toml:"desktop"`
	Blocked bool `toml:"blocked"`
}

type Config struct {
	DBPath        string        `toml:"db_path"`
	LogFile       string        `toml:"log_file"`
	LogLevel      string        `toml:"log_level"`
	MetricsFile   string        `toml:"metrics_file"`
	DefaultFilter string        `toml:"default_filter"`
	Storage       Storage       `toml:"storage"`
	Reminders     Reminders     `toml:"reminders"`
	Notifications Notifications `toml:"notifications"`
}

func Default() Config {
	return Config{
		DBPath:        DefaultDBName,
		LogFile:       DefaultLogName,
		LogLevel:      "info",
		DefaultFilter: string(model.FilterAll),
		Storage: Storage{
			Backend: string(storage.BackendSQLite),
			Driver:  storage.DriverModernc,
		},
		Reminders: Reminders{
			CheckInterval:     "60s",
			DueTodayStartHour: 8,
			DueTodayEndHour:   10,
			DismissAfterMS:    5000,
			SchedulerBuffer:   16,
		},
		Notifications: Notifications{Desktop: true},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/duetasks/config.toml, falling back to the
// platform config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate config dir: %w", err)
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName), nil
}

// LoadOrCreate reads path, writing the defaults there first when the file
// does not exist. Relative db_path, log_file and metrics_file values resolve
// against the directory holding the config file.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c Config) resolve(base string) Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.DBPath = abs(c.DBPath)
	c.LogFile = abs(c.LogFile)
	c.MetricsFile = abs(c.MetricsFile)
	return c
}

// FromEnv applies DUETASKS_* overrides. Values that do not parse are ignored.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("DUETASKS_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("DUETASKS_STORAGE_BACKEND"); ok {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("DUETASKS_SQLITE_DRIVER"); ok {
		cfg.Storage.Driver = v
	}
	if v, ok := getEnvString("DUETASKS_CHECK_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Reminders.CheckInterval = v
		}
	}
	if v, ok := getEnvInt("DUETASKS_DUE_TODAY_START_HOUR"); ok && v >= 0 {
		cfg.Reminders.DueTodayStartHour = v
	}
	if v, ok := getEnvInt("DUETASKS_DUE_TODAY_END_HOUR"); ok && v > 0 {
		cfg.Reminders.DueTodayEndHour = v
	}
	if v, ok := getEnvBool("DUETASKS_DESKTOP_NOTIFICATIONS"); ok {
		cfg.Notifications.Desktop = v
	}
	if v, ok := getEnvString("DUETASKS_LOG_LEVEL"); ok {
		var lvl slog.Level
		if lvl.UnmarshalText([]byte(v)) == nil {
			cfg.LogLevel = strings.ToLower(v)
		}
	}
	if v, ok := getEnvString("DUETASKS_METRICS_FILE"); ok {
		cfg.MetricsFile = v
	}
	return cfg
}

func (c Config) Validate() error {
	switch storage.Backend(c.Storage.Backend) {
	case storage.BackendSQLite, storage.BackendJSON, storage.BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalid, c.Storage.Backend)
	}
	if storage.Backend(c.Storage.Backend) == storage.BackendSQLite {
		switch c.Storage.Driver {
		case storage.DriverMattn, storage.DriverModernc:
		default:
			return fmt.Errorf("%w: unknown sqlite driver %q", ErrInvalid, c.Storage.Driver)
		}
	}
	if storage.Backend(c.Storage.Backend) != storage.BackendMemory && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path is required", ErrInvalid)
	}
	r := c.Reminders
	if r.DueTodayStartHour < 0 || r.DueTodayEndHour > 24 || r.DueTodayStartHour >= r.DueTodayEndHour {
		return fmt.Errorf("%w: due-today window [%d, %d)", ErrInvalid, r.DueTodayStartHour, r.DueTodayEndHour)
	}
	if _, err := c.CheckInterval(); err != nil {
		return err
	}
	if _, err := model.ParseFilterMode(c.DefaultFilter); err != nil {
		return fmt.Errorf("%w: default_filter %q", ErrInvalid, c.DefaultFilter)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) CheckInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Reminders.CheckInterval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: check_interval %q", ErrInvalid, c.Reminders.CheckInterval)
	}
	return d, nil
}

func (c Config) DismissAfter() time.Duration {
	if c.Reminders.DismissAfterMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Reminders.DismissAfterMS) * time.Millisecond
}

func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}

func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: storage.Backend(c.Storage.Backend),
		Path:    c.DBPath,
		Driver:  c.Storage.Driver,
	}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
