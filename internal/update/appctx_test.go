package update

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/duetasks/internal/clock"
	"github.com/sandeepkv93/duetasks/internal/metrics"
	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/notify"
	"github.com/sandeepkv93/duetasks/internal/scheduler"
	"github.com/sandeepkv93/duetasks/internal/storage"
)

func TestNewAppRequiresKV(t *testing.T) {
	if _, err := NewApp(context.Background(), Deps{}); err == nil {
		t.Fatal("expected error without kv")
	}
}

func TestNewAppRejectsBadWindow(t *testing.T) {
	_, err := NewApp(context.Background(), Deps{KV: storage.NewMemoryKV(), Window: scheduler.Window{StartHour: 10, EndHour: 8}})
	if err == nil {
		t.Fatal("expected window error")
	}
}

func TestAppStateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	clk := clock.NewFake(time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local))

	first, err := NewApp(ctx, Deps{KV: kv, Clock: clk})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	due := model.Date{Year: 2024, Month: time.January, Day: 12}
	a, _, _ := first.AddTask(ctx, "taskA", &due)
	b, _, _ := first.AddTask(ctx, "taskB", nil)
	first.ToggleTask(ctx, b.ID)
	if _, _, ok := first.AddTask(ctx, "   ", nil); ok {
		t.Fatal("blank add must be a no-op")
	}
	if _, ok := first.DeleteTask(ctx, 999); ok {
		t.Fatal("delete of unknown id must report false")
	}

	second, err := NewApp(ctx, Deps{KV: kv, Clock: clk})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	all := second.Store.All()
	if len(all) != 2 || all[0].ID != b.ID || all[1].ID != a.ID {
		t.Fatalf("unexpected reloaded tasks: %+v", all)
	}
	completed := model.Filter(all, model.FilterCompleted)
	if len(completed) != 1 || completed[0].Text != "taskB" {
		t.Fatalf("expected [taskB] completed, got %+v", completed)
	}
}

func TestRunCheckWritesMetricsTextfile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "duetasks.prom")
	m := metrics.New()
	app, err := NewApp(ctx, Deps{
		KV:          storage.NewMemoryKV(),
		Platform:    notify.NewRecorder(notify.PermissionGranted),
		Clock:       clock.NewFake(time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)),
		Metrics:     m,
		MetricsFile: path,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	due := model.Date{Year: 2024, Month: time.January, Day: 1}
	if _, reminders, ok := app.AddTask(ctx, "late", &due); !ok || len(reminders) != 1 {
		t.Fatalf("expected one reminder on add, got %+v", reminders)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(raw), `duetasks_reminders_emitted_total{kind="overdue"} 1`) {
		t.Fatalf("unexpected textfile:\n%s", raw)
	}
}

func TestRequestNotificationsSync(t *testing.T) {
	ctx := context.Background()
	platform := notify.NewRecorder(notify.PermissionDefault)
	app, err := NewApp(ctx, Deps{
		KV:       storage.NewMemoryKV(),
		Platform: platform,
		Clock:    clock.NewFake(time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	today := app.Today()
	app.AddTask(ctx, "Buy milk", &today)

	outcome, reminders := app.RequestNotifications(ctx)
	if outcome != notify.OutcomeGranted || len(reminders) != 1 || reminders[0].Kind != model.ReminderDueToday {
		t.Fatalf("unexpected result: %s %+v", outcome, reminders)
	}
	if app.PermissionLabel() != "Notifications Enabled" {
		t.Fatalf("unexpected label %q", app.PermissionLabel())
	}

	outcome, reminders = app.RequestNotifications(ctx)
	if outcome != notify.OutcomeAlreadyEnabled || reminders != nil {
		t.Fatalf("expected already-enabled, got %s %+v", outcome, reminders)
	}
}

func TestPermissionLabelUnsupported(t *testing.T) {
	platform := notify.NewRecorder(notify.PermissionGranted)
	platform.Unsupported = true
	app, err := NewApp(context.Background(), Deps{KV: storage.NewMemoryKV(), Platform: platform})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if app.PermissionLabel() != "Notifications Unavailable" {
		t.Fatalf("unexpected label %q", app.PermissionLabel())
	}
}
