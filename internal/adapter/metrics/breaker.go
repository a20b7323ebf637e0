package metrics

import "github.com/prometheus/client_golang/prometheus"

// BreakerMetrics tracks circuit breaker transitions, by component.
type BreakerMetrics struct {
	StateChanges *prometheus.CounterVec
	State        *prometheus.GaugeVec
}

func NewBreakerMetrics(reg prometheus.Registerer) *BreakerMetrics {
	m := &BreakerMetrics{
		StateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state_changes_total",
			Help:      "Total number of circuit breaker state changes.",
		}, []string{"component", "to_state"}),
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state",
			Help:      "Current circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"component"}),
	}
	reg.MustRegister(m.StateChanges, m.State)
	return m
}

// Transition records a move to state, encoded as value for the gauge.
// A nil *BreakerMetrics records nothing.
func (m *BreakerMetrics) Transition(component, state string, value float64) {
	if m == nil {
		return
	}
	m.StateChanges.WithLabelValues(component, state).Inc()
	m.State.WithLabelValues(component).Set(value)
}
