package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPropagationMetrics() {
	r.PropagationRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lanc_propagation_runs_total",
			Help: "Total number of propagation model runs",
		},
		[]string{"model"},
	)

	r.PropagationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lanc_propagation_duration_seconds",
			Help:    "Propagation run duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"model"},
	)

	r.SystemTrustScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "lanc_system_trust_score",
			Help: "Overall system trust from the last composition run",
		},
	)

	r.WeakLinksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "lanc_weak_links_total",
			Help: "Weak links found in the last composition run",
		},
	)

	r.CriticalPathsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "lanc_critical_paths_total",
			Help: "Critical paths found in the last composition run",
		},
	)
}
