package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RedisMetrics tracks session store traffic to Redis.
type RedisMetrics struct {
	OpsTotal         *prometheus.CounterVec
	OpDuration       *prometheus.HistogramVec
	ConnectionErrors prometheus.Counter
}

func NewRedisMetrics(reg prometheus.Registerer) *RedisMetrics {
	m := &RedisMetrics{
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "operations_total",
			Help:      "Total number of Redis commands by command and status.",
		}, []string{"operation", "status"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "operation_duration_seconds",
			Help:      "Duration of Redis commands in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"operation"}),
		ConnectionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "connection_errors_total",
			Help:      "Total number of failed Redis dials.",
		}),
	}
	reg.MustRegister(m.OpsTotal, m.OpDuration, m.ConnectionErrors)
	return m
}

// ObserveOp records one command. A nil *RedisMetrics records nothing.
func (m *RedisMetrics) ObserveOp(operation string, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if failed {
		status = "error"
	}
	m.OpsTotal.WithLabelValues(operation, status).Inc()
	m.OpDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *RedisMetrics) DialFailed() {
	if m == nil {
		return
	}
	m.ConnectionErrors.Inc()
}
