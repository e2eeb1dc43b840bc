package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	m := New()
	m.ReminderEmitted("overdue")
	m.ReminderEmitted("overdue")
	m.ReminderEmitted("due-today")
	m.Mutation("add")
	m.PersistFailure()
	m.CheckRan()

	if got := testutil.ToFloat64(m.remindersTotal.WithLabelValues("overdue")); got != 2 {
		t.Fatalf("overdue reminders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.mutationsTotal.WithLabelValues("add")); got != 1 {
		t.Fatalf("add mutations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.persistFailures); got != 1 {
		t.Fatalf("persist failures = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ReminderEmitted("overdue")
	m.Mutation("toggle")
	m.PersistFailure()
	m.CheckRan()
	if err := m.WriteTextfile("x.prom"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ReminderEmitted("due-today")
	path := filepath.Join(t.TempDir(), "duetasks.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	want := `duetasks_reminders_emitted_total{kind="due-today"} 1`
	if !strings.Contains(string(raw), want) {
		t.Fatalf("expected %q in textfile:\n%s", want, raw)
	}

	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "metrics.txt")); err == nil {
		t.Fatal("expected error for non .prom path")
	}
}
