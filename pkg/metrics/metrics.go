package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordPropagationRun records one propagation model run
func (r *Registry) RecordPropagationRun(model string, duration time.Duration) {
	r.PropagationRunsTotal.WithLabelValues(model).Inc()
	r.PropagationDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordCompositionResult records the outcome of a system trust calculation
func (r *Registry) RecordCompositionResult(overallTrust float64, weakLinks, criticalPaths int) {
	r.SystemTrustScore.Set(overallTrust)
	r.WeakLinksTotal.Set(float64(weakLinks))
	r.CriticalPathsTotal.Set(float64(criticalPaths))
}

// RecordAction records a dispatched remediation action
func (r *Registry) RecordAction(actionType, status string, duration time.Duration) {
	r.ActionsDispatchedTotal.WithLabelValues(actionType, status).Inc()
	r.ActionDuration.WithLabelValues(actionType).Observe(duration.Seconds())
}

// RecordPolicyEvaluation records one policy evaluation outcome
func (r *Registry) RecordPolicyEvaluation(policy, result string) {
	r.PolicyEvaluationsTotal.WithLabelValues(policy, result).Inc()
}

// RecordFeedUpdate records one consumed feed update by outcome
func (r *Registry) RecordFeedUpdate(status string) {
	r.FeedUpdatesTotal.WithLabelValues(status).Inc()
}

// UpdateResponseGauges updates the open incident and active alert gauges
func (r *Registry) UpdateResponseGauges(openIncidents, activeAlerts int) {
	r.IncidentsOpen.Set(float64(openIncidents))
	r.AlertsActive.Set(float64(activeAlerts))
}

// UpdateGraphSize updates the graph size gauges
func (r *Registry) UpdateGraphSize(nodes, edges int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}
