// Package observability wires Prometheus collectors into the pipeline's
// lifecycle hooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lmeira/codemend/pkg/domain"
)

// Metrics holds the collectors recorded by the pipeline hooks.
type Metrics struct {
	NodeVisits     *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	Rectifications prometheus.Counter
	RunsTotal      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. Pass
// prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codemend_node_visits_total",
				Help: "Total number of pipeline node visits",
			},
			[]string{"node_id"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "codemend_run_duration_seconds",
				Help:    "Wall-clock duration of complete pipeline runs",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
		Rectifications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "codemend_rectifications_total",
				Help: "Total number of rectification attempts across runs",
			},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codemend_runs_total",
				Help: "Completed pipeline runs by terminal status",
			},
			[]string{"status"},
		),
	}
	reg.MustRegister(m.NodeVisits, m.RunDuration, m.Rectifications, m.RunsTotal)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.NodeID).Inc()
			if e.NodeID == domain.NodeRectifier {
				m.Rectifications.Inc()
			}
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			m.RunDuration.Observe(e.Duration.Seconds())
			m.RunsTotal.WithLabelValues(string(e.Status)).Inc()
		},
	}
}

// Merge combines two hook sets so both sides observe every event.
func Merge(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: both(a.OnNodeEnter, b.OnNodeEnter),
		OnNodeLeave: both(a.OnNodeLeave, b.OnNodeLeave),
		OnRunEnd:    bothRun(a.OnRunEnd, b.OnRunEnd),
	}
}

func both(a, b func(context.Context, *domain.NodeEvent)) func(context.Context, *domain.NodeEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *domain.NodeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func bothRun(a, b func(context.Context, *domain.RunEvent)) func(context.Context, *domain.RunEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *domain.RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
