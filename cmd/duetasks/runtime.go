package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/duetasks/internal/config"
	"github.com/sandeepkv93/duetasks/internal/metrics"
	"github.com/sandeepkv93/duetasks/internal/notify"
	"github.com/sandeepkv93/duetasks/internal/scheduler"
	"github.com/sandeepkv93/duetasks/internal/storage"
	"github.com/sandeepkv93/duetasks/internal/update"
)

type globalFlags struct {
	configPath string
	ephemeral  bool
}

// runtimeEnv is everything a command needs, built from config.
type runtimeEnv struct {
	cfg     config.Config
	kv      storage.KV
	app     *update.App
	logger  *slog.Logger
	closers []io.Closer
}

func (r *runtimeEnv) Close() {
	if r.app != nil {
		r.app.Close()
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
}

func loadConfig(flags globalFlags) (config.Config, error) {
	path := flags.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, withCode(exitConfig, err)
		}
		path = p
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, withCode(exitConfig, err)
	}
	cfg = config.FromEnv(cfg)
	if flags.ephemeral {
		cfg.Storage.Backend = string(storage.BackendMemory)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, withCode(exitConfig, err)
	}
	return cfg, nil
}

// setup loads config and opens storage. logTo receives the logs; nil means
// the configured log file, which the TUI needs since it owns the terminal.
func setup(ctx context.Context, flags globalFlags, logTo io.Writer) (*runtimeEnv, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	env := &runtimeEnv{cfg: cfg}

	level, _ := cfg.SlogLevel()
	if logTo == nil {
		w, closer, err := openLogFile(cfg.LogFile)
		if err != nil {
			return nil, withCode(exitConfig, err)
		}
		if closer != nil {
			env.closers = append(env.closers, closer)
		}
		logTo = w
	}
	env.logger = newLogger(logTo, level)
	slog.SetDefault(env.logger)

	kv, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		env.Close()
		return nil, withCode(exitStorage, err)
	}
	env.kv = kv
	env.closers = append(env.closers, kv)

	interval, _ := cfg.CheckInterval()
	app, err := update.NewApp(ctx, update.Deps{
		KV:       kv,
		Platform: newPlatform(ctx, cfg, kv, env.logger),
		Logger:   env.logger,
		Metrics:  metrics.New(),
		Window: scheduler.Window{
			StartHour: cfg.Reminders.DueTodayStartHour,
			EndHour:   cfg.Reminders.DueTodayEndHour,
		},
		DismissAfter:    cfg.DismissAfter(),
		CheckInterval:   interval,
		SchedulerBuffer: cfg.Reminders.SchedulerBuffer,
		MetricsFile:     cfg.MetricsFile,
	})
	if err != nil {
		env.Close()
		return nil, withCode(exitConfig, err)
	}
	env.app = app
	env.logger.Debug("runtime_ready",
		slog.String("backend", cfg.Storage.Backend),
		slog.String("db_path", cfg.DBPath),
		slog.Int("tasks", app.Store.Len()),
	)
	return env, nil
}

func newPlatform(ctx context.Context, cfg config.Config, kv storage.KV, logger *slog.Logger) notify.Platform {
	if !cfg.Notifications.Desktop {
		return notify.NewRecorder(notify.PermissionDefault)
	}
	return notify.NewDesktop(ctx, kv, notify.DesktopOptions{
		AppName:      config.AppName,
		Blocked:      cfg.Notifications.Blocked,
		DismissAfter: int(cfg.DismissAfter().Milliseconds()),
		Logger:       logger,
	})
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

func openLogFile(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		return io.Discard, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}
