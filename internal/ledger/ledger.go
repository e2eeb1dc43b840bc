// Package ledger records the last calendar day a reminder of each kind was
// shown for a task, so a reminder fires at most once per task, kind and day.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/storage"
)

type Ledger struct {
	kv     storage.KV
	logger *slog.Logger
}

func New(kv storage.KV, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{kv: kv, logger: logger}
}

// Key returns the storage key for (taskID, kind): notified_<id> for overdue
// and notified_today_<id> for due-today.
func Key(taskID int64, kind model.ReminderKind) string {
	id := strconv.FormatInt(taskID, 10)
	if kind == model.ReminderDueToday {
		return "notified_today_" + id
	}
	return "notified_" + id
}

// LastSent reports the day recorded for (taskID, kind). Missing or
// unreadable entries count as never sent.
func (l *Ledger) LastSent(ctx context.Context, taskID int64, kind model.ReminderKind) (model.Date, bool) {
	key := Key(taskID, kind)
	raw, err := l.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.logger.Warn("ledger_read_failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return model.Date{}, false
	}
	day, err := model.ParseDate(raw)
	if err != nil {
		l.logger.Warn("ledger_entry_invalid", slog.String("key", key), slog.String("value", raw))
		return model.Date{}, false
	}
	return day, true
}

// SentOn reports whether a reminder of kind was already recorded for day.
func (l *Ledger) SentOn(ctx context.Context, taskID int64, kind model.ReminderKind, day model.Date) bool {
	last, ok := l.LastSent(ctx, taskID, kind)
	return ok && last.Equal(day)
}

func (l *Ledger) Record(ctx context.Context, taskID int64, kind model.ReminderKind, day model.Date) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if err := l.kv.Set(ctx, Key(taskID, kind), day.String()); err != nil {
		return fmt.Errorf("record %s reminder for task %d: %w", kind, taskID, err)
	}
	return nil
}

// Forget drops both entries for a deleted task.
func (l *Ledger) Forget(ctx context.Context, taskID int64) error {
	var errs []error
	for _, kind := range []model.ReminderKind{model.ReminderOverdue, model.ReminderDueToday} {
		if err := l.kv.Delete(ctx, Key(taskID, kind)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
