package observability

import (
	"context"
	"errors"

	"github.com/aretw0/anilink/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Transition outcomes used as the "outcome" label.
const (
	OutcomeAccepted          = "accepted"
	OutcomeInvalidTransition = "invalid_transition"
	OutcomeInvalidState      = "invalid_state"
	OutcomeNotFound          = "not_found"
	OutcomeError             = "error"
)

// Metrics holds the registry collectors.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Connects    prometheus.Counter
	Disconnects prometheus.Counter
	Subjects    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anilink_transitions_total",
				Help: "State change requests by outcome",
			},
			[]string{"outcome"},
		),
		Connects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anilink_connects_total",
			Help: "Total number of connect calls",
		}),
		Disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anilink_disconnects_total",
			Help: "Total number of disconnect calls that removed a subject",
		}),
		Subjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anilink_subjects",
			Help: "Subjects connected through this process",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Connects, m.Disconnects, m.Subjects)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConnect: func(_ context.Context, e *domain.LinkEvent) {
			m.Connects.Inc()
			if !e.Replaced {
				m.Subjects.Inc()
			}
		},
		OnDisconnect: func(_ context.Context, e *domain.LinkEvent) {
			if e.Removed {
				m.Disconnects.Inc()
				m.Subjects.Dec()
			}
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(Outcome(e.Err)).Inc()
		},
	}
}

// Outcome classifies a SetState result into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, domain.ErrInvalidTransition):
		return OutcomeInvalidTransition
	case errors.Is(err, domain.ErrInvalidState):
		return OutcomeInvalidState
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
