package composition

import (
	"time"

	"github.com/sangeeta1998/lanc/pkg/analysis"
)

// SystemTrustScore is the on-demand result of a full composition run.
// It is ephemeral and never persisted.
type SystemTrustScore struct {
	OverallTrust    float64                 `json:"overall_trust"`
	ComponentScores map[string]float64      `json:"component_scores"`
	CriticalPaths   []analysis.CriticalPath `json:"critical_paths"`
	WeakLinks       []analysis.WeakLink     `json:"weak_links"`
	Timestamp       time.Time               `json:"timestamp"`
}

// PropagationAnalysis reports each registered model's raw propagation
// result from a single source.
type PropagationAnalysis struct {
	SourceComponent    string                        `json:"source_component"`
	PropagationResults map[string]map[string]float64 `json:"propagation_results"`
	Timestamp          time.Time                     `json:"timestamp"`
}

// RuleType classifies a composition rule.
type RuleType string

const (
	RuleTrustThreshold         RuleType = "trust_threshold"
	RuleSecurityViolation      RuleType = "security_violation"
	RuleDependencyFailure      RuleType = "dependency_failure"
	RulePerformanceDegradation RuleType = "performance_degradation"
	RuleComplianceViolation    RuleType = "compliance_violation"
)

// RuleActionType classifies a rule's remediation suggestion.
type RuleActionType string

const (
	RuleActionIsolateComponent     RuleActionType = "isolate_component"
	RuleActionReduceTrustWeight    RuleActionType = "reduce_trust_weight"
	RuleActionTriggerAlert         RuleActionType = "trigger_alert"
	RuleActionUpdateSecurityPolicy RuleActionType = "update_security_policy"
	RuleActionScaleResources       RuleActionType = "scale_resources"
	RuleActionFailoverToBackup     RuleActionType = "failover_to_backup"
)

// SecurityCondition matches nodes by security posture thresholds.
type SecurityCondition struct {
	VulnerabilityThreshold float64 `json:"vulnerability_threshold" yaml:"vulnerability_threshold"`
	ComplianceThreshold    float64 `json:"compliance_threshold" yaml:"compliance_threshold"`
}

// RuleCondition is one predicate of a composition rule. Set fields are
// evaluated against every node of the graph; a condition holds when any
// node matches.
type RuleCondition struct {
	TrustThreshold    *float64           `json:"trust_threshold,omitempty" yaml:"trust_threshold,omitempty"`
	SecurityCondition *SecurityCondition `json:"security_condition,omitempty" yaml:"security_condition,omitempty"`
}

// RuleAction is a remediation suggestion emitted by a matching rule.
type RuleAction struct {
	ActionType       RuleActionType    `json:"action_type" yaml:"action_type"`
	TargetComponents []string          `json:"target_components" yaml:"target_components"`
	Parameters       map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Rule is a threshold-based predicate over the whole graph. Rules are
// kept in ascending priority order and evaluated independently: a match
// never short-circuits the remaining rules.
type Rule struct {
	RuleID     string          `json:"rule_id" yaml:"rule_id"`
	RuleType   RuleType        `json:"rule_type" yaml:"rule_type"`
	Conditions []RuleCondition `json:"conditions" yaml:"conditions"`
	Actions    []RuleAction    `json:"actions" yaml:"actions"`
	Priority   int             `json:"priority" yaml:"priority"`
}
