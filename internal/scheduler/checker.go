// Package scheduler decides which reminders to show and drives the periodic
// reminder check.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeepkv93/duetasks/internal/clock"
	"github.com/sandeepkv93/duetasks/internal/ledger"
	"github.com/sandeepkv93/duetasks/internal/metrics"
	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/notify"
)

// Window is a local-hour range [StartHour, EndHour) during which due-today
// reminders may fire.
type Window struct {
	StartHour int
	EndHour   int
}

var DefaultWindow = Window{StartHour: 8, EndHour: 10}

func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("scheduler: invalid due-today window [%d, %d)", w.StartHour, w.EndHour)
	}
	return nil
}

func (w Window) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.StartHour && h < w.EndHour
}

type Reminder struct {
	TaskID       int64
	Kind         model.ReminderKind
	Day          model.Date
	Notification notify.Notification
}

type TaskSource interface {
	All() []model.Task
}

type CheckerConfig struct {
	Tasks        TaskSource
	Ledger       *ledger.Ledger
	Platform     notify.Platform
	Clock        clock.Clock
	Window       Window
	DismissAfter time.Duration
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

type Checker struct {
	cfg CheckerConfig
}

func NewChecker(cfg CheckerConfig) (*Checker, error) {
	if cfg.Tasks == nil || cfg.Ledger == nil || cfg.Platform == nil {
		return nil, errors.New("scheduler: tasks, ledger and platform are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Window == (Window{}) {
		cfg.Window = DefaultWindow
	}
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	if cfg.DismissAfter <= 0 {
		cfg.DismissAfter = notify.DefaultDismissAfter
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Checker{cfg: cfg}, nil
}

func (c *Checker) Window() Window {
	return c.cfg.Window
}

// Check scans the tasks once and shows every reminder that has not already
// gone out today. Overdue reminders may fire at any hour; due-today
// reminders only inside the window. Nothing happens without permission.
func (c *Checker) Check(ctx context.Context) []Reminder {
	p := c.cfg.Platform
	if !p.Supported() || p.Permission() != notify.PermissionGranted {
		return nil
	}
	c.cfg.Metrics.CheckRan()

	now := c.cfg.Clock.Now()
	today := model.DateOf(now)
	tasks := c.cfg.Tasks.All()
	out := make([]Reminder, 0)

	for _, t := range tasks {
		if model.Classify(t, today) != model.StatusOverdue {
			continue
		}
		n := notify.Notification{
			Title: "Task Overdue!",
			Body:  fmt.Sprintf(`"%s" was due on %s`, t.Text, model.FormatDue(*t.DueDate, today)),
		}
		if r, ok := c.fire(ctx, t, model.ReminderOverdue, today, n); ok {
			out = append(out, r)
		}
	}

	if c.cfg.Window.Contains(now) {
		for _, t := range tasks {
			if model.Classify(t, today) != model.StatusDueToday {
				continue
			}
			n := notify.Notification{
				Title: "Task Due Today!",
				Body:  fmt.Sprintf(`"%s" is due today`, t.Text),
			}
			if r, ok := c.fire(ctx, t, model.ReminderDueToday, today, n); ok {
				out = append(out, r)
			}
		}
	}

	if len(out) > 0 {
		c.cfg.Logger.Info("reminders_emitted", slog.Int("count", len(out)), slog.String("day", today.String()))
	}
	return out
}

// fire shows one reminder unless the ledger already has it for today. The
// ledger is only written after the platform accepted the notification.
func (c *Checker) fire(ctx context.Context, t model.Task, kind model.ReminderKind, today model.Date, n notify.Notification) (Reminder, bool) {
	if c.cfg.Ledger.SentOn(ctx, t.ID, kind, today) {
		return Reminder{}, false
	}
	n.Tag = notify.DefaultTag
	n.Timeout = c.cfg.DismissAfter
	if err := c.cfg.Platform.Show(ctx, n); err != nil {
		c.cfg.Logger.Warn("reminder_show_failed",
			slog.Int64("task_id", t.ID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return Reminder{}, false
	}
	if err := c.cfg.Ledger.Record(ctx, t.ID, kind, today); err != nil {
		c.cfg.Metrics.PersistFailure()
		c.cfg.Logger.Error("ledger_record_failed", slog.Int64("task_id", t.ID), slog.String("error", err.Error()))
	}
	c.cfg.Metrics.ReminderEmitted(string(kind))
	return Reminder{TaskID: t.ID, Kind: kind, Day: today, Notification: n}, true
}
