package response

import (
	"testing"
	"time"
)

func TestOperatorCompare(t *testing.T) {
	tests := []struct {
		name      string
		op        Operator
		value     float64
		threshold float64
		want      bool
	}{
		{"gt true", OpGreaterThan, 0.6, 0.5, true},
		{"gt false on equal", OpGreaterThan, 0.5, 0.5, false},
		{"lt true", OpLessThan, 0.4, 0.5, true},
		{"lt false", OpLessThan, 0.5, 0.5, false},
		{"eq within epsilon", OpEqualTo, 0.5004, 0.5, true},
		{"eq outside epsilon", OpEqualTo, 0.502, 0.5, false},
		{"ne outside epsilon", OpNotEqualTo, 0.502, 0.5, true},
		{"ne within epsilon", OpNotEqualTo, 0.5004, 0.5, false},
		{"gte on equal", OpGreaterThanOrEqual, 0.5, 0.5, true},
		{"lte on equal", OpLessThanOrEqual, 0.5, 0.5, true},
		{"unknown operator", Operator("between"), 0.5, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.Compare(tt.value, tt.threshold); got != tt.want {
				t.Errorf("Compare(%f, %f) = %v, want %v", tt.value, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestConditionHolds(t *testing.T) {
	ctx := TrustContext{
		ComponentID: "svc",
		TrustScore:  0.25,
		SecurityEvents: []SecurityEvent{
			{EventType: "intrusion", Severity: 0.9},
		},
		PerformanceMetrics:    map[string]float64{"latency_ms": 350},
		BehavioralAnomalies:   []Anomaly{{AnomalyType: "traffic_spike", Severity: 0.6}},
		FailedDependencies:    []string{"db"},
		CommunicationFailures: nil,
		Timestamp:             time.Now(),
	}

	tests := []struct {
		name      string
		condition Condition
		want      bool
	}{
		{
			"trust below threshold",
			Condition{ConditionType: ConditionTrustScore, Operator: OpLessThan, Threshold: 0.3},
			true,
		},
		{
			"trust not below lower threshold",
			Condition{ConditionType: ConditionTrustScore, Operator: OpLessThan, Threshold: 0.2},
			false,
		},
		{
			"security event above severity",
			Condition{ConditionType: ConditionSecurityEvent, Threshold: 0.8},
			true,
		},
		{
			"no security event above severity",
			Condition{ConditionType: ConditionSecurityEvent, Threshold: 0.95},
			false,
		},
		{
			"performance metric breach",
			Condition{ConditionType: ConditionPerformanceMetric, MetricName: "latency_ms", Operator: OpGreaterThan, Threshold: 300},
			true,
		},
		{
			"missing performance metric",
			Condition{ConditionType: ConditionPerformanceMetric, MetricName: "error_rate", Operator: OpGreaterThan, Threshold: 0},
			false,
		},
		{
			"anomaly count above threshold",
			Condition{ConditionType: ConditionBehavioralAnomaly, Threshold: 0},
			true,
		},
		{
			"dependency failure count",
			Condition{ConditionType: ConditionDependencyFailure, Threshold: 0},
			true,
		},
		{
			"no communication failures",
			Condition{ConditionType: ConditionCommunicationFailure, Threshold: 0},
			false,
		},
		{
			"unknown condition type",
			Condition{ConditionType: ConditionType("phase_of_moon"), Threshold: 0},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.condition.Holds(ctx); got != tt.want {
				t.Errorf("Holds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecutorNameFor(t *testing.T) {
	mapped := map[ActionType]string{
		ActionIsolateComponent:    "isolation",
		ActionScaleResources:      "scaling",
		ActionUpdateConfiguration: "configuration",
		ActionTriggerWorkflow:     "workflow",
	}
	for actionType, want := range mapped {
		name, ok := ExecutorNameFor(actionType)
		if !ok || name != want {
			t.Errorf("ExecutorNameFor(%s) = %q, %v; want %q, true", actionType, name, ok, want)
		}
	}

	// Unmapped types have no fallback executor.
	for _, actionType := range []ActionType{ActionSendNotification, ActionRestartService, ActionQuarantineData} {
		if name, ok := ExecutorNameFor(actionType); ok {
			t.Errorf("ExecutorNameFor(%s) unexpectedly mapped to %q", actionType, name)
		}
	}
}
