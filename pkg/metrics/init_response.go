package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initResponseMetrics() {
	r.PolicyEvaluationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lanc_policy_evaluations_total",
			Help: "Total number of response policy evaluations",
		},
		[]string{"policy", "result"},
	)

	r.ActionsDispatchedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lanc_actions_dispatched_total",
			Help: "Total number of remediation actions dispatched",
		},
		[]string{"action_type", "status"},
	)

	r.ActionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lanc_action_duration_seconds",
			Help:    "Remediation action execution duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"action_type"},
	)

	r.IncidentsOpen = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "lanc_incidents_open",
			Help: "Number of unresolved incidents",
		},
	)

	r.AlertsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "lanc_alerts_active",
			Help: "Number of active alerts",
		},
	)

	r.FeedUpdatesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "lanc_feed_updates_total",
			Help: "Total number of trust score updates consumed from the feed",
		},
		[]string{"status"},
	)
}
