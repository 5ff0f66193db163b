package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sangeeta1998/lanc/pkg/logging"
)

// metricsMiddleware records request count and latency per route.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		status := strconv.Itoa(wrapper.statusCode)
		s.metrics.RecordHTTPRequest(r.Method, r.URL.Path, status, duration)
		s.logger.Debug("http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("status", status),
			logging.Latency(duration),
		)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
