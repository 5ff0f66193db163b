package response

import (
	"math"
	"time"
)

// ConditionType selects which part of the trust context a condition
// inspects.
type ConditionType string

const (
	ConditionTrustScore           ConditionType = "trust_score"
	ConditionSecurityEvent        ConditionType = "security_event"
	ConditionPerformanceMetric    ConditionType = "performance_metric"
	ConditionBehavioralAnomaly    ConditionType = "behavioral_anomaly"
	ConditionDependencyFailure    ConditionType = "dependency_failure"
	ConditionCommunicationFailure ConditionType = "communication_failure"
)

// Operator is a comparison operator for condition thresholds.
type Operator string

const (
	OpGreaterThan        Operator = "gt"
	OpLessThan           Operator = "lt"
	OpEqualTo            Operator = "eq"
	OpNotEqualTo         Operator = "ne"
	OpGreaterThanOrEqual Operator = "gte"
	OpLessThanOrEqual    Operator = "lte"
)

// equalityEpsilon bounds float comparison for eq/ne operators.
const equalityEpsilon = 0.001

// Compare applies the operator to (value, threshold).
func (op Operator) Compare(value, threshold float64) bool {
	switch op {
	case OpGreaterThan:
		return value > threshold
	case OpLessThan:
		return value < threshold
	case OpEqualTo:
		return math.Abs(value-threshold) < equalityEpsilon
	case OpNotEqualTo:
		return math.Abs(value-threshold) >= equalityEpsilon
	case OpGreaterThanOrEqual:
		return value >= threshold
	case OpLessThanOrEqual:
		return value <= threshold
	default:
		return false
	}
}

// Condition is one predicate of a response policy. Duration is accepted
// in the schema but not applied by the evaluator; no time-windowing is
// performed.
type Condition struct {
	ConditionType ConditionType `json:"condition_type" yaml:"condition_type"`
	MetricName    string        `json:"metric_name" yaml:"metric_name"`
	Operator      Operator      `json:"operator" yaml:"operator"`
	Threshold     float64       `json:"threshold" yaml:"threshold"`
	Duration      time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// ActionType classifies a remediation action.
type ActionType string

const (
	ActionIsolateComponent     ActionType = "isolate_component"
	ActionScaleResources       ActionType = "scale_resources"
	ActionUpdateConfiguration  ActionType = "update_configuration"
	ActionTriggerWorkflow      ActionType = "trigger_workflow"
	ActionSendNotification     ActionType = "send_notification"
	ActionUpdateSecurityPolicy ActionType = "update_security_policy"
	ActionFailoverToBackup     ActionType = "failover_to_backup"
	ActionRestartService       ActionType = "restart_service"
	ActionUpdateFirewallRules  ActionType = "update_firewall_rules"
	ActionQuarantineData       ActionType = "quarantine_data"
	ActionEnableMonitoring     ActionType = "enable_monitoring"
	ActionDisableAccess        ActionType = "disable_access"
)

// executorNames maps action types to the executor registered for them.
// Unmapped types are a dispatch failure: there is deliberately no
// fall-back to an arbitrary executor.
var executorNames = map[ActionType]string{
	ActionIsolateComponent:    "isolation",
	ActionScaleResources:      "scaling",
	ActionUpdateConfiguration: "configuration",
	ActionTriggerWorkflow:     "workflow",
}

// ExecutorNameFor returns the executor name responsible for the action
// type, or false when no mapping exists.
func ExecutorNameFor(t ActionType) (string, bool) {
	name, ok := executorNames[t]
	return name, ok
}

// Action is one remediation step of a policy. Timeout and RetryCount are
// enforced by the engine around executor invocation; zero values fall
// back to the engine defaults.
type Action struct {
	ActionID         string            `json:"action_id" yaml:"action_id"`
	ActionType       ActionType        `json:"action_type" yaml:"action_type"`
	TargetComponents []string          `json:"target_components" yaml:"target_components"`
	Parameters       map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Timeout          time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RetryCount       int               `json:"retry_count,omitempty" yaml:"retry_count,omitempty"`
}

// EscalationStep is one stage of a policy's escalation chain.
type EscalationStep struct {
	StepID           string        `json:"step_id" yaml:"step_id"`
	Delay            time.Duration `json:"delay" yaml:"delay"`
	Actions          []Action      `json:"actions" yaml:"actions"`
	NotifyChannels   []string      `json:"notify_channels,omitempty" yaml:"notify_channels,omitempty"`
	ApprovalRequired bool          `json:"approval_required" yaml:"approval_required"`
}

// Policy is an ordered, conditionally-triggered response rule. All
// conditions must hold (AND semantics) for the actions to dispatch.
// Lower priority sorts first and is evaluated first. Policies are
// independent: several may fire for the same event.
type Policy struct {
	PolicyID        string           `json:"policy_id" yaml:"policy_id"`
	Name            string           `json:"name" yaml:"name"`
	Conditions      []Condition      `json:"conditions" yaml:"conditions"`
	Actions         []Action         `json:"actions" yaml:"actions"`
	Priority        int              `json:"priority" yaml:"priority"`
	Enabled         bool             `json:"enabled" yaml:"enabled"`
	EscalationChain []EscalationStep `json:"escalation_chain,omitempty" yaml:"escalation_chain,omitempty"`
}

// TrustContext is the live evaluation context supplied per component.
type TrustContext struct {
	ComponentID           string             `json:"component_id"`
	TrustScore            float64            `json:"trust_score"`
	SecurityEvents        []SecurityEvent    `json:"security_events,omitempty"`
	PerformanceMetrics    map[string]float64 `json:"performance_metrics,omitempty"`
	BehavioralAnomalies   []Anomaly          `json:"behavioral_anomalies,omitempty"`
	FailedDependencies    []string           `json:"failed_dependencies,omitempty"`
	CommunicationFailures []string           `json:"communication_failures,omitempty"`
	Timestamp             time.Time          `json:"timestamp"`
}

// SecurityEvent is a recent security observation for a component.
type SecurityEvent struct {
	EventType   string    `json:"event_type"`
	Severity    float64   `json:"severity"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Anomaly is a behavioral deviation observed for a component.
type Anomaly struct {
	AnomalyType string    `json:"anomaly_type"`
	Severity    float64   `json:"severity"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Holds reports whether the condition is satisfied by the context.
func (c Condition) Holds(ctx TrustContext) bool {
	switch c.ConditionType {
	case ConditionTrustScore:
		return c.Operator.Compare(ctx.TrustScore, c.Threshold)
	case ConditionSecurityEvent:
		for _, event := range ctx.SecurityEvents {
			if event.Severity > c.Threshold {
				return true
			}
		}
		return false
	case ConditionPerformanceMetric:
		value, exists := ctx.PerformanceMetrics[c.MetricName]
		if !exists {
			return false
		}
		return c.Operator.Compare(value, c.Threshold)
	case ConditionBehavioralAnomaly:
		return len(ctx.BehavioralAnomalies) > int(c.Threshold)
	case ConditionDependencyFailure:
		return len(ctx.FailedDependencies) > int(c.Threshold)
	case ConditionCommunicationFailure:
		return len(ctx.CommunicationFailures) > int(c.Threshold)
	default:
		return false
	}
}
