// Package feed ingests external trust updates, fans them out to
// in-process subscribers, and drives the response engine.
package feed

import "time"

// Update is one externally observed trust measurement for a component.
type Update struct {
	ComponentID string  `json:"component_id" validate:"required"`
	TrustScore  float64 `json:"trust_score" validate:"gte=0,lte=1"`
	Confidence  float64 `json:"confidence,omitempty" validate:"gte=0,lte=1"`

	SecurityEvents        []SecurityEventUpdate `json:"security_events,omitempty"`
	PerformanceMetrics    map[string]float64    `json:"performance_metrics,omitempty"`
	FailedDependencies    []string              `json:"failed_dependencies,omitempty"`
	CommunicationFailures []string              `json:"communication_failures,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// SecurityEventUpdate is a security observation carried on an update.
type SecurityEventUpdate struct {
	EventType   string  `json:"event_type"`
	Severity    float64 `json:"severity"`
	Source      string  `json:"source"`
	Description string  `json:"description"`
}

// HealthStatus bands a component's trust score.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// HealthFor bands a trust score: healthy at or above 0.5, warning at or
// above 0.2, critical below.
func HealthFor(score float64) HealthStatus {
	switch {
	case score >= 0.5:
		return HealthHealthy
	case score >= 0.2:
		return HealthWarning
	default:
		return HealthCritical
	}
}

// TrustSample is one point of a component's trust history.
type TrustSample struct {
	TrustScore float64      `json:"trust_score"`
	Health     HealthStatus `json:"health"`
	Timestamp  time.Time    `json:"timestamp"`
}
