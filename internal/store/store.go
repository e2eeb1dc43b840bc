// Package store holds the ordered task list and mirrors it to key-value
// storage after every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sandeepkv93/duetasks/internal/clock"
	"github.com/sandeepkv93/duetasks/internal/metrics"
	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/storage"
)

const (
	TasksKey  = "todos"
	LastIDKey = "todos_last_id"
)

// Store is the in-memory source of truth for tasks, newest first. It is not
// safe for concurrent use; callers drive it from one goroutine.
type Store struct {
	kv      storage.KV
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
	tasks   []model.Task
	lastID  int64
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Load reads the persisted list. Missing, unreadable or corrupt data yields
// an empty store; Load never fails.
func Load(ctx context.Context, kv storage.KV, clk clock.Clock, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		clock:  clk,
		logger: slog.Default(),
		tasks:  make([]model.Task, 0),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := kv.Get(ctx, TasksKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		s.logger.Warn("tasks_load_failed", slog.String("error", err.Error()))
	default:
		s.tasks = decodeTasks(raw, s.logger)
	}

	for _, t := range s.tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	if raw, err := kv.Get(ctx, LastIDKey); err == nil {
		if v, perr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); perr == nil && v > s.lastID {
			s.lastID = v
		}
	}
	s.logger.Debug("tasks_loaded", slog.Int("count", len(s.tasks)), slog.Int64("last_id", s.lastID))
	return s
}

func decodeTasks(raw string, logger *slog.Logger) []model.Task {
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logger.Warn("tasks_corrupt", slog.String("error", err.Error()))
		return make([]model.Task, 0)
	}
	// Records decode one at a time so a single bad record is skipped
	// instead of discarding the whole list.
	out := make([]model.Task, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for i, rec := range records {
		var t model.Task
		if err := json.Unmarshal(rec, &t); err != nil {
			logger.Warn("task_record_undecodable", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		if err := t.Validate(); err != nil || seen[t.ID] {
			logger.Warn("task_record_skipped", slog.Int64("id", t.ID))
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// Add prepends a new task. Text is trimmed; empty text is rejected and
// reported with ok=false.
func (s *Store) Add(ctx context.Context, text string, due *model.Date) (model.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, false
	}
	now := s.clock.Now()
	t := model.Task{
		ID:        s.nextID(now.UnixMilli()),
		Text:      text,
		CreatedAt: now,
	}
	if due != nil && !due.IsZero() {
		d := *due
		t.DueDate = &d
	}

	s.tasks = append([]model.Task{t}, s.tasks...)
	s.metrics.Mutation("add")
	s.persist(ctx)
	s.logger.Info("task_added", slog.Int64("id", t.ID), slog.Bool("has_due", t.HasDue()))
	return t.Clone(), true
}

// nextID prefers the creation time in milliseconds but never hands out an
// id at or below the high-water mark, so ids stay unique after deletes and
// clock skew.
func (s *Store) nextID(candidate int64) int64 {
	if candidate <= s.lastID {
		candidate = s.lastID + 1
	}
	s.lastID = candidate
	return candidate
}

func (s *Store) Toggle(ctx context.Context, id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.metrics.Mutation("toggle")
	s.persist(ctx)
	s.logger.Info("task_toggled", slog.Int64("id", id), slog.Bool("completed", s.tasks[i].Completed))
	return true
}

func (s *Store) Delete(ctx context.Context, id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.metrics.Mutation("delete")
	s.persist(ctx)
	s.logger.Info("task_deleted", slog.Int64("id", id))
	return true
}

func (s *Store) Get(id int64) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// All returns a copy of the list in stored order.
func (s *Store) All() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the full list. Failures are logged and counted; the
// in-memory list stays authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	payload, err := json.Marshal(s.tasks)
	if err != nil {
		s.persistFailed(err)
		return
	}
	if err := s.kv.Set(ctx, TasksKey, string(payload)); err != nil {
		s.persistFailed(err)
		return
	}
	if err := s.kv.Set(ctx, LastIDKey, strconv.FormatInt(s.lastID, 10)); err != nil {
		s.persistFailed(err)
	}
}

func (s *Store) persistFailed(err error) {
	s.metrics.PersistFailure()
	s.logger.Error("tasks_persist_failed", slog.String("error", err.Error()))
}
