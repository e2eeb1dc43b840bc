package ledger

import (
	"context"
	"testing"

	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/storage"
)

func TestKeys(t *testing.T) {
	if got := Key(42, model.ReminderOverdue); got != "notified_42" {
		t.Fatalf("unexpected overdue key: %s", got)
	}
	if got := Key(42, model.ReminderDueToday); got != "notified_today_42" {
		t.Fatalf("unexpected due-today key: %s", got)
	}
}

func TestRecordAndLastSent(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	l := New(kv, nil)
	day, _ := model.ParseDate("2024-01-10")

	if _, ok := l.LastSent(ctx, 1, model.ReminderOverdue); ok {
		t.Fatal("expected no entry before record")
	}
	if err := l.Record(ctx, 1, model.ReminderOverdue, day); err != nil {
		t.Fatalf("record: %v", err)
	}
	if !l.SentOn(ctx, 1, model.ReminderOverdue, day) {
		t.Fatal("expected overdue sent on day")
	}
	if l.SentOn(ctx, 1, model.ReminderDueToday, day) {
		t.Fatal("kinds must be tracked separately")
	}
	if l.SentOn(ctx, 1, model.ReminderOverdue, day.AddDays(1)) {
		t.Fatal("next day must not count as sent")
	}
	raw, _ := kv.Get(ctx, "notified_1")
	if raw != "2024-01-10" {
		t.Fatalf("unexpected stored value: %q", raw)
	}
}

func TestLastSentIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	_ = kv.Set(ctx, "notified_7", "yesterday-ish")
	l := New(kv, nil)
	if _, ok := l.LastSent(ctx, 7, model.ReminderOverdue); ok {
		t.Fatal("expected garbage entry to read as never sent")
	}
}

func TestRecordRejectsUnknownKind(t *testing.T) {
	l := New(storage.NewMemoryKV(), nil)
	day, _ := model.ParseDate("2024-01-10")
	if err := l.Record(context.Background(), 1, model.ReminderKind("weekly"), day); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	l := New(storage.NewMemoryKV(), nil)
	day, _ := model.ParseDate("2024-01-10")
	_ = l.Record(ctx, 3, model.ReminderOverdue, day)
	_ = l.Record(ctx, 3, model.ReminderDueToday, day)
	if err := l.Forget(ctx, 3); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, ok := l.LastSent(ctx, 3, model.ReminderOverdue); ok {
		t.Fatal("expected overdue entry removed")
	}
	if _, ok := l.LastSent(ctx, 3, model.ReminderDueToday); ok {
		t.Fatal("expected due-today entry removed")
	}
}
