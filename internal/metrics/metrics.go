// Package metrics counts reminders, task mutations and persistence failures
// in a private Prometheus registry. There is no listener; the registry can be
// dumped to a node-exporter textfile.
package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry        *prometheus.Registry
	remindersTotal  *prometheus.CounterVec
	mutationsTotal  *prometheus.CounterVec
	persistFailures prometheus.Counter
	checksTotal     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		remindersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duetasks_reminders_emitted_total",
				Help: "Reminders shown, by kind",
			},
			[]string{"kind"},
		),
		mutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duetasks_task_mutations_total",
				Help: "Task store mutations, by operation",
			},
			[]string{"op"},
		),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duetasks_persist_failures_total",
			Help: "Failed writes of task or ledger state",
		}),
		checksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duetasks_scheduler_checks_total",
			Help: "Reminder scans that ran with notification permission granted",
		}),
	}
	m.registry.MustRegister(m.remindersTotal, m.mutationsTotal, m.persistFailures, m.checksTotal)
	return m
}

// The recording methods accept a nil receiver so callers can run without
// metrics.

func (m *Metrics) ReminderEmitted(kind string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) PersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) CheckRan() {
	if m == nil {
		return
	}
	m.checksTotal.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile dumps the registry in text exposition format. An empty path
// is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	if !strings.HasSuffix(path, ".prom") {
		return errors.New("metrics: textfile path must end in .prom")
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
