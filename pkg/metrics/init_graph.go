package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "lanc_graph_nodes_total",
			Help: "Total number of components in the trust graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "lanc_graph_edges_total",
			Help: "Total number of relationships in the trust graph",
		},
	)
}
