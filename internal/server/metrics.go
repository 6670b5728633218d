package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "numerics"

// Metrics holds the solve counters on a private registry so that several
// servers (and tests) can coexist in one process.
type Metrics struct {
	Registry      *prometheus.Registry
	solvesTotal   *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the solve metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "solve_total",
				Help:      "Total number of solve requests by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "solve_duration_seconds",
				Help:      "Solve duration in seconds by method",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method"},
		),
	}
	reg.MustRegister(m.solvesTotal, m.solveDuration)
	return m
}

// observe records one solve. Unknown method names are folded into a
// single label value to keep cardinality bounded.
func (m *Metrics) observe(method, outcome string, seconds float64) {
	m.solvesTotal.WithLabelValues(method, outcome).Inc()
	m.solveDuration.WithLabelValues(method).Observe(seconds)
}
