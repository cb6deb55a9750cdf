package observability

import (
	"context"

	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Skipped     *prometheus.CounterVec
	Entries     *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Renders     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagestate_transitions_total",
			Help: "Total number of successful transitions by source and target state",
		}, []string{"from", "to"}),
		Skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagestate_transitions_skipped_total",
			Help: "Total number of transitions ignored because the source state was not active",
		}, []string{"from", "to"}),
		Entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagestate_entry_hooks_total",
			Help: "Total number of entry hooks fired by state",
		}, []string{"state"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagestate_entry_hook_failures_total",
			Help: "Total number of async entry hooks that returned an error by state",
		}, []string{"state"}),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagestate_renders_total",
			Help: "Total number of rendered frames",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Skipped, m.Entries, m.Failures, m.Renders)
	}
	return m
}

// Hooks records events into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.From, e.To).Inc()
		},
		OnSkip: func(_ context.Context, e *domain.TransitionEvent) {
			m.Skipped.WithLabelValues(e.From, e.To).Inc()
		},
		OnEntry: func(_ context.Context, e *domain.EntryEvent) {
			m.Entries.WithLabelValues(e.State).Inc()
		},
		OnEntryError: func(_ context.Context, e *domain.EntryEvent) {
			m.Failures.WithLabelValues(e.State).Inc()
		},
	}
}

// Output counts rendered frames. Attach it to a runner next to the real output.
func (m *Metrics) Output() runner.Output {
	return runner.OutputFunc(func(context.Context, runner.Frame) error {
		m.Renders.Inc()
		return nil
	})
}
