package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sangeeta1998/lanc/pkg/response"
)

func (s *Server) handleTrustScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	s.respondJSON(w, http.StatusOK, s.composer.Graph().TrustScores())
}

// handleSystemTrust runs a full composition pass. Roots come from the
// comma-separated "roots" query parameter; when absent, every node is a
// root.
func (s *Server) handleSystemTrust(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	roots := splitParam(r.URL.Query().Get("roots"))
	if len(roots) == 0 {
		roots = s.composer.Graph().Snapshot().NodeIDs()
	}
	s.respondJSON(w, http.StatusOK, s.composer.CalculateSystemTrust(roots))
}

func (s *Server) handlePropagation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		s.respondError(w, http.StatusBadRequest, "missing source parameter")
		return
	}
	if _, err := s.composer.Graph().GetNode(source); err != nil {
		s.respondError(w, http.StatusNotFound, "source component not found")
		return
	}
	s.respondJSON(w, http.StatusOK, s.composer.PropagationAnalysis(source))
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	s.respondJSON(w, http.StatusOK, s.responder.ActiveIncidents())
}

func (s *Server) handleResolveIncident(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	incidentID := r.URL.Query().Get("id")
	if incidentID == "" {
		s.respondError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	if err := s.responder.ResolveIncident(incidentID); err != nil {
		if errors.Is(err, response.ErrIncidentNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "resolved", "incident_id": incidentID})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	s.respondJSON(w, http.StatusOK, s.responder.Alerts().Active())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	componentID := r.URL.Query().Get("component")
	if componentID == "" {
		s.respondError(w, http.StatusBadRequest, "missing component parameter")
		return
	}
	s.respondJSON(w, http.StatusOK, s.consumer.History(componentID))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.composer.Graph().GetStatistics()
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"nodes":  stats.NodeCount,
		"edges":  stats.EdgeCount,
	})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
