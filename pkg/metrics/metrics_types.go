package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph Metrics
	GraphNodesTotal prometheus.Gauge
	GraphEdgesTotal prometheus.Gauge

	// Propagation Metrics
	PropagationRunsTotal *prometheus.CounterVec
	PropagationDuration  *prometheus.HistogramVec
	SystemTrustScore     prometheus.Gauge
	WeakLinksTotal       prometheus.Gauge
	CriticalPathsTotal   prometheus.Gauge

	// Response Metrics
	PolicyEvaluationsTotal *prometheus.CounterVec
	ActionsDispatchedTotal *prometheus.CounterVec
	ActionDuration         *prometheus.HistogramVec
	IncidentsOpen          prometheus.Gauge
	AlertsActive           prometheus.Gauge
	FeedUpdatesTotal       *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initGraphMetrics()
	r.initPropagationMetrics()
	r.initResponseMetrics()
	r.initHTTPMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
