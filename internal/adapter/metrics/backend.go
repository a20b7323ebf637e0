package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a call to the collection backend.
const (
	OutcomeSuccess   = "success"
	OutcomeAPIError  = "api_error"
	OutcomeTransport = "transport_error"
)

// BackendMetrics tracks calls to the collection backend.
// A nil *BackendMetrics records nothing.
type BackendMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewBackendMetrics creates and registers backend call metrics on the given registry.
func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	m := &BackendMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of calls to the collection backend, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls to the collection backend in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

func (m *BackendMetrics) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
