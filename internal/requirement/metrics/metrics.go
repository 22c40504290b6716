package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the requirement lifecycle.
type Metrics struct {
	// Transitions by action (submitted, accepted, rejected, ...).
	Transitions *prometheus.CounterVec

	// Refused transitions by error code.
	TransitionsRefused *prometheus.CounterVec

	// Derivation runs (profile changes and seeding).
	Derivations prometheus.Counter
}

// New creates and registers all requirement metrics.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nachweis_requirement_transitions_total",
			Help: "Total lifecycle transitions by action",
		}, []string{"action"}),
		TransitionsRefused: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nachweis_requirement_transitions_refused_total",
			Help: "Refused lifecycle transitions by error code",
		}, []string{"code"}),
		Derivations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachweis_requirement_derivations_total",
			Help: "Requirement derivation runs",
		}),
	}
}

// IncTransition records a successful transition.
func (m *Metrics) IncTransition(action string) {
	if m != nil {
		m.Transitions.WithLabelValues(action).Inc()
	}
}

// IncRefused records a refused transition.
func (m *Metrics) IncRefused(code string) {
	if m != nil {
		m.TransitionsRefused.WithLabelValues(code).Inc()
	}
}

// IncDerivation records one derivation run.
func (m *Metrics) IncDerivation() {
	if m != nil {
		m.Derivations.Inc()
	}
}
