package update

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sandeepkv93/duetasks/internal/clock"
	"github.com/sandeepkv93/duetasks/internal/ledger"
	"github.com/sandeepkv93/duetasks/internal/metrics"
	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/notify"
	"github.com/sandeepkv93/duetasks/internal/scheduler"
	"github.com/sandeepkv93/duetasks/internal/storage"
	"github.com/sandeepkv93/duetasks/internal/store"
)

// Deps are the collaborators an App is assembled from. Zero values fall back
// to the system clock, the default logger and the default reminder settings.
type Deps struct {
	KV              storage.KV
	Platform        notify.Platform
	Clock           clock.Clock
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	Window          scheduler.Window
	DismissAfter    time.Duration
	CheckInterval   time.Duration
	SchedulerBuffer int
	MetricsFile     string
}

// App is the application context shared by the TUI and the CLI. Every
// mutation and every reminder check goes through it so the same rules apply
// regardless of the front end.
type App struct {
	Store    *store.Store
	Ledger   *ledger.Ledger
	Checker  *scheduler.Checker
	Engine   *scheduler.Engine
	Platform notify.Platform
	Clock    clock.Clock
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	metricsFile  string
	dismissAfter time.Duration
}

func NewApp(ctx context.Context, d Deps) (*App, error) {
	if d.KV == nil {
		return nil, errors.New("update: key-value storage is required")
	}
	if d.Platform == nil {
		d.Platform = notify.NewRecorder(notify.PermissionDefault)
	}
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.CheckInterval <= 0 {
		d.CheckInterval = scheduler.DefaultInterval
	}

	st := store.Load(ctx, d.KV, d.Clock, store.WithLogger(d.Logger), store.WithMetrics(d.Metrics))
	led := ledger.New(d.KV, d.Logger)
	checker, err := scheduler.NewChecker(scheduler.CheckerConfig{
		Tasks:        st,
		Ledger:       led,
		Platform:     d.Platform,
		Clock:        d.Clock,
		Window:       d.Window,
		DismissAfter: d.DismissAfter,
		Logger:       d.Logger,
		Metrics:      d.Metrics,
	})
	if err != nil {
		return nil, err
	}
	engine, err := scheduler.NewEngine(d.CheckInterval, d.SchedulerBuffer, d.Clock)
	if err != nil {
		return nil, err
	}
	return &App{
		Store:        st,
		Ledger:       led,
		Checker:      checker,
		Engine:       engine,
		Platform:     d.Platform,
		Clock:        d.Clock,
		Logger:       d.Logger,
		Metrics:      d.Metrics,
		metricsFile:  d.MetricsFile,
		dismissAfter: d.DismissAfter,
	}, nil
}

func (a *App) Today() model.Date {
	return model.DateOf(a.Clock.Now())
}

// AddTask adds a task and, when one was created, runs a reminder check so a
// task added already overdue is reported right away.
func (a *App) AddTask(ctx context.Context, text string, due *model.Date) (model.Task, []scheduler.Reminder, bool) {
	t, ok := a.Store.Add(ctx, text, due)
	if !ok {
		return model.Task{}, nil, false
	}
	return t, a.RunCheck(ctx), true
}

func (a *App) ToggleTask(ctx context.Context, id int64) ([]scheduler.Reminder, bool) {
	if !a.Store.Toggle(ctx, id) {
		return nil, false
	}
	return a.RunCheck(ctx), true
}

// DeleteTask removes the task and its ledger entries, then runs a check like
// every other mutation.
func (a *App) DeleteTask(ctx context.Context, id int64) ([]scheduler.Reminder, bool) {
	if !a.Store.Delete(ctx, id) {
		return nil, false
	}
	if err := a.Ledger.Forget(ctx, id); err != nil {
		a.Metrics.PersistFailure()
		a.Logger.Warn("ledger_forget_failed", slog.Int64("task_id", id), slog.String("error", err.Error()))
	}
	return a.RunCheck(ctx), true
}

// RunCheck runs one reminder pass and refreshes the metrics textfile when
// one is configured.
func (a *App) RunCheck(ctx context.Context) []scheduler.Reminder {
	reminders := a.Checker.Check(ctx)
	if err := a.Metrics.WriteTextfile(a.metricsFile); err != nil {
		a.Logger.Warn("metrics_write_failed", slog.String("path", a.metricsFile), slog.String("error", err.Error()))
	}
	return reminders
}

// RequestNotifications asks for permission and, once granted, checks
// immediately so pending reminders are not held back until the next tick.
func (a *App) RequestNotifications(ctx context.Context) (notify.Outcome, []scheduler.Reminder) {
	outcome, err := notify.RequestFlow(ctx, a.Platform, a.dismissAfter)
	if err != nil {
		a.Logger.Warn("notification_request_failed", slog.String("error", err.Error()))
	}
	a.Logger.Info("notification_request", slog.String("outcome", string(outcome)))
	if outcome != notify.OutcomeGranted {
		return outcome, nil
	}
	return outcome, a.RunCheck(ctx)
}

func (a *App) PermissionLabel() string {
	if !a.Platform.Supported() {
		return "Notifications Unavailable"
	}
	return notify.StatusLabel(a.Platform.Permission())
}

// Close stops the engine. It does not close the key-value store, which the
// caller opened.
func (a *App) Close() {
	a.Engine.Stop()
}
