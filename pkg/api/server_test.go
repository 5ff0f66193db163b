package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangeeta1998/lanc/pkg/composition"
	"github.com/sangeeta1998/lanc/pkg/feed"
	"github.com/sangeeta1998/lanc/pkg/graph"
	"github.com/sangeeta1998/lanc/pkg/metrics"
	"github.com/sangeeta1998/lanc/pkg/propagation"
	"github.com/sangeeta1998/lanc/pkg/response"
)

func newTestServer(t *testing.T) (*Server, *feed.Consumer, *response.Engine) {
	t.Helper()

	g := graph.New()
	for _, id := range []string{"a", "b"} {
		g.AddNode(&graph.Node{ID: id, TrustScore: 0.9, ComponentType: graph.ComponentMicroservice})
	}
	g.AddEdge(&graph.Edge{From: "a", To: "b", RelationshipType: graph.RelationshipDependency, TrustWeight: 0.8})

	registry := metrics.NewRegistry()
	composer := composition.NewEngine(g, propagation.DefaultRegistry(), composition.WithMetrics(registry))
	responder := response.NewEngine(response.WithMetrics(registry))
	consumer := feed.NewConsumer(g, responder, feed.WithConsumerMetrics(registry))

	server := NewServer(composer, responder, consumer, WithMetrics(registry))
	return server, consumer, responder
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTrustScoresEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/trust-scores")

	require.Equal(t, http.StatusOK, rec.Code)
	var scores map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scores))
	assert.Len(t, scores, 2)
	assert.Equal(t, 0.9, scores["a"])
}

func TestTrustScoresMethodNotAllowed(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodPost, "/api/v1/trust-scores")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSystemTrustEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/system-trust?roots=a")

	require.Equal(t, http.StatusOK, rec.Code)
	var result composition.SystemTrustScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 1.0, result.ComponentScores["a"], 1e-9)
	assert.NotZero(t, result.Timestamp)
}

func TestSystemTrustDefaultsToAllRoots(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/system-trust")

	require.Equal(t, http.StatusOK, rec.Code)
	var result composition.SystemTrustScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.ComponentScores, 2)
}

func TestPropagationEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/propagation?source=a")

	require.Equal(t, http.StatusOK, rec.Code)
	var result composition.PropagationAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "a", result.SourceComponent)
	assert.Len(t, result.PropagationResults, 3)
}

func TestPropagationMissingSource(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/propagation")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPropagationUnknownSource(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/propagation?source=ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIncidentsAndResolve(t *testing.T) {
	server, consumer, responder := newTestServer(t)
	responder.AddPolicy(response.Policy{
		PolicyID: "p1",
		Conditions: []response.Condition{
			{ConditionType: response.ConditionTrustScore, Operator: response.OpLessThan, Threshold: 0.3},
		},
		Actions: []response.Action{
			{ActionID: "a1", ActionType: response.ActionIsolateComponent, TargetComponents: []string{"a"}},
		},
		Priority: 1,
		Enabled:  true,
	})
	consumer.Process(context.Background(), feed.Update{ComponentID: "a", TrustScore: 0.1, Timestamp: time.Now()})

	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/incidents")
	require.Equal(t, http.StatusOK, rec.Code)
	var incidents []response.Incident
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incidents))
	require.Len(t, incidents, 1)

	rec = doRequest(t, server.Handler(), http.MethodPost, "/api/v1/incidents/resolve?id="+incidents[0].IncidentID)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server.Handler(), http.MethodGet, "/api/v1/incidents")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incidents))
	assert.Empty(t, incidents)
}

func TestResolveUnknownIncident(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodPost, "/api/v1/incidents/resolve?id=ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertsEndpoint(t *testing.T) {
	server, consumer, _ := newTestServer(t)
	consumer.Process(context.Background(), feed.Update{ComponentID: "a", TrustScore: 0.1, Timestamp: time.Now()})

	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/alerts")
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []response.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, response.AlertTrustCritical, alerts[0].AlertType)
}

func TestHistoryEndpoint(t *testing.T) {
	server, consumer, _ := newTestServer(t)
	consumer.Process(context.Background(), feed.Update{ComponentID: "a", TrustScore: 0.6, Timestamp: time.Now()})

	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/history?component=a")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []feed.TrustSample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, feed.HealthHealthy, history[0].Health)
}

func TestHistoryMissingComponentParam(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/api/v1/history")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["nodes"])
}

func TestMetricsEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := doRequest(t, server.Handler(), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lanc_")
}
