// Package api serves the read-only reporting surface: trust scores,
// incidents, alerts, and on-demand composition results.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sangeeta1998/lanc/pkg/composition"
	"github.com/sangeeta1998/lanc/pkg/feed"
	"github.com/sangeeta1998/lanc/pkg/logging"
	"github.com/sangeeta1998/lanc/pkg/metrics"
	"github.com/sangeeta1998/lanc/pkg/response"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Server exposes the reporting endpoints over HTTP.
type Server struct {
	composer  *composition.Engine
	responder *response.Engine
	consumer  *feed.Consumer

	logger  logging.Logger
	metrics *metrics.Registry
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger logging.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics sets the server's metrics registry.
func WithMetrics(registry *metrics.Registry) ServerOption {
	return func(s *Server) { s.metrics = registry }
}

// NewServer creates a reporting server over the given engines.
func NewServer(composer *composition.Engine, responder *response.Engine, consumer *feed.Consumer, opts ...ServerOption) *Server {
	s := &Server{
		composer:  composer,
		responder: responder,
		consumer:  consumer,
		logger:    logging.NewNopLogger(),
		metrics:   metrics.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table with metrics middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/trust-scores", s.handleTrustScores)
	mux.HandleFunc("/api/v1/system-trust", s.handleSystemTrust)
	mux.HandleFunc("/api/v1/propagation", s.handlePropagation)
	mux.HandleFunc("/api/v1/incidents", s.handleIncidents)
	mux.HandleFunc("/api/v1/incidents/resolve", s.handleResolveIncident)
	mux.HandleFunc("/api/v1/alerts", s.handleAlerts)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	return s.metricsMiddleware(mux)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
