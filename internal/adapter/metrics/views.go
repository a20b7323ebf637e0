package metrics

import "github.com/prometheus/client_golang/prometheus"

// ViewMetrics tracks mounted dashboard views.
type ViewMetrics struct {
	Mounted prometheus.Gauge
}

func NewViewMetrics(reg prometheus.Registerer) *ViewMetrics {
	m := &ViewMetrics{
		Mounted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "views_mounted",
			Help:      "Number of dashboard views currently mounted.",
		}),
	}
	reg.MustRegister(m.Mounted)
	return m
}

func (m *ViewMetrics) SetMounted(n int) {
	m.Mounted.Set(float64(n))
}
