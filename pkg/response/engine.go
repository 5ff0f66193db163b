// Package response evaluates incident-response policies against live
// trust updates and dispatches remediation actions to executors.
package response

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sangeeta1998/lanc/pkg/logging"
	"github.com/sangeeta1998/lanc/pkg/metrics"
)

// ErrExecutorNotFound is returned when an action maps to an executor
// that is not registered.
var ErrExecutorNotFound = fmt.Errorf("executor not found")

const (
	// DefaultActionTimeout bounds one executor invocation when the
	// action carries no timeout of its own.
	DefaultActionTimeout = 30 * time.Second

	// DefaultRetryCount is the number of additional attempts after a
	// failed execution when the action carries no retry count.
	DefaultRetryCount = 2
)

// RecoveryPlan names a sequence of actions to replay when an incident
// escalates past automated remediation.
type RecoveryPlan struct {
	PlanID      string   `json:"plan_id" yaml:"plan_id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Actions     []Action `json:"actions" yaml:"actions"`
}

// Engine evaluates policies against trust context updates, dispatches
// the actions of every matching policy, and records the outcome on the
// component's incident.
type Engine struct {
	policies   []Policy
	policiesMu sync.RWMutex

	executors   map[string]Executor
	executorsMu sync.RWMutex

	plans   map[string]RecoveryPlan
	plansMu sync.RWMutex

	incidents *IncidentStore
	alerts    *AlertStore

	actionTimeout time.Duration
	retryCount    int

	logger  logging.Logger
	metrics *metrics.Registry
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger logging.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the engine's metrics registry.
func WithMetrics(registry *metrics.Registry) EngineOption {
	return func(e *Engine) { e.metrics = registry }
}

// WithActionTimeout sets the default per-invocation executor timeout.
func WithActionTimeout(timeout time.Duration) EngineOption {
	return func(e *Engine) {
		if timeout > 0 {
			e.actionTimeout = timeout
		}
	}
}

// WithRetryCount sets the default retry count for failed executions.
func WithRetryCount(retries int) EngineOption {
	return func(e *Engine) {
		if retries >= 0 {
			e.retryCount = retries
		}
	}
}

// NewEngine creates a response engine with the four built-in executors
// registered.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		policies:      make([]Policy, 0),
		executors:     make(map[string]Executor),
		plans:         make(map[string]RecoveryPlan),
		incidents:     NewIncidentStore(),
		alerts:        NewAlertStore(),
		actionTimeout: DefaultActionTimeout,
		retryCount:    DefaultRetryCount,
		logger:        logging.NewNopLogger(),
		metrics:       metrics.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.RegisterExecutor(NewIsolationExecutor())
	e.RegisterExecutor(NewScalingExecutor())
	e.RegisterExecutor(NewConfigurationExecutor())
	e.RegisterExecutor(NewWorkflowExecutor())
	return e
}

// Incidents returns the engine's incident store.
func (e *Engine) Incidents() *IncidentStore { return e.incidents }

// Alerts returns the engine's alert store.
func (e *Engine) Alerts() *AlertStore { return e.alerts }

// AddPolicy registers a policy, keeping policies sorted by ascending
// priority. Lower priority fires first.
func (e *Engine) AddPolicy(policy Policy) {
	e.policiesMu.Lock()
	defer e.policiesMu.Unlock()

	e.policies = append(e.policies, policy)
	sort.SliceStable(e.policies, func(i, j int) bool {
		return e.policies[i].Priority < e.policies[j].Priority
	})

	e.logger.Info("policy registered",
		logging.PolicyID(policy.PolicyID),
		logging.Int("priority", policy.Priority),
		logging.Int("conditions", len(policy.Conditions)),
		logging.Int("actions", len(policy.Actions)),
	)
}

// RemovePolicy unregisters the policy with the given ID.
func (e *Engine) RemovePolicy(policyID string) bool {
	e.policiesMu.Lock()
	defer e.policiesMu.Unlock()

	for i, policy := range e.policies {
		if policy.PolicyID == policyID {
			e.policies = append(e.policies[:i], e.policies[i+1:]...)
			return true
		}
	}
	return false
}

// Policies returns a copy of the registered policies in priority order.
func (e *Engine) Policies() []Policy {
	e.policiesMu.RLock()
	defer e.policiesMu.RUnlock()

	out := make([]Policy, len(e.policies))
	copy(out, e.policies)
	return out
}

// RegisterExecutor registers an executor under its name, replacing any
// previous executor with the same name.
func (e *Engine) RegisterExecutor(exec Executor) {
	e.executorsMu.Lock()
	defer e.executorsMu.Unlock()
	e.executors[exec.Name()] = exec
}

// RegisterRecoveryPlan registers a named recovery plan.
func (e *Engine) RegisterRecoveryPlan(plan RecoveryPlan) {
	e.plansMu.Lock()
	defer e.plansMu.Unlock()
	e.plans[plan.PlanID] = plan
}

// RecoveryPlan returns the registered plan with the given ID.
func (e *Engine) RecoveryPlan(planID string) (RecoveryPlan, error) {
	e.plansMu.RLock()
	defer e.plansMu.RUnlock()

	plan, exists := e.plans[planID]
	if !exists {
		return RecoveryPlan{}, fmt.Errorf("%w: %s", ErrRecoveryPlanNotFound, planID)
	}
	return plan, nil
}

// ProcessTrustUpdate evaluates every enabled policy against the context
// in priority order and dispatches the actions of each matching policy.
// A failed action never prevents its siblings from running, and a
// matching policy never short-circuits later policies. Returns the IDs
// of the policies that fired.
func (e *Engine) ProcessTrustUpdate(ctx context.Context, tc TrustContext) []string {
	policies := e.Policies()

	fired := make([]string, 0)
	for _, policy := range policies {
		if !policy.Enabled {
			continue
		}
		if !e.policyMatches(policy, tc) {
			e.metrics.RecordPolicyEvaluation(policy.PolicyID, "no_match")
			continue
		}
		e.metrics.RecordPolicyEvaluation(policy.PolicyID, "match")
		fired = append(fired, policy.PolicyID)

		e.logger.Info("policy triggered",
			logging.PolicyID(policy.PolicyID),
			logging.ComponentID(tc.ComponentID),
			logging.TrustScore(tc.TrustScore),
		)
		e.dispatchActions(ctx, policy, tc)
	}
	e.metrics.UpdateResponseGauges(e.incidents.OpenCount(), len(e.alerts.Active()))
	return fired
}

// policyMatches applies AND semantics: every condition must hold.
// A policy with no conditions never matches.
func (e *Engine) policyMatches(policy Policy, tc TrustContext) bool {
	if len(policy.Conditions) == 0 {
		return false
	}
	for _, condition := range policy.Conditions {
		if !condition.Holds(tc) {
			return false
		}
	}
	return true
}

// dispatchActions runs every action of a fired policy concurrently and
// records each outcome on the component's incident.
func (e *Engine) dispatchActions(ctx context.Context, policy Policy, tc TrustContext) {
	severity := severityForTrust(tc.TrustScore)

	var wg sync.WaitGroup
	for _, action := range policy.Actions {
		wg.Add(1)
		go func(action Action) {
			defer wg.Done()
			record := e.executeAction(ctx, action)
			e.incidents.RecordAction(tc.ComponentID, severity, record)
			if record.Status == ActionFailed {
				e.alerts.Raise(tc.ComponentID, AlertExecutorFailure, SeverityHigh, record.Result)
			}
		}(action)
	}
	wg.Wait()
}

// executeAction resolves the action's executor, then runs it with the
// timeout and retry budget the action (or engine default) specifies.
func (e *Engine) executeAction(ctx context.Context, action Action) ActionRecord {
	record := ActionRecord{
		ActionID:   action.ActionID,
		ActionType: action.ActionType,
		ExecutedAt: time.Now(),
	}

	name, mapped := ExecutorNameFor(action.ActionType)
	if !mapped {
		record.Status = ActionFailed
		record.Result = fmt.Sprintf("no executor mapped for action type %s", action.ActionType)
		e.metrics.RecordAction(string(action.ActionType), "dispatch_failed", 0)
		e.logger.Warn("action dispatch failed",
			logging.ActionType(string(action.ActionType)),
			logging.String("reason", "unmapped action type"),
		)
		return record
	}

	e.executorsMu.RLock()
	exec, exists := e.executors[name]
	e.executorsMu.RUnlock()
	if !exists {
		record.Status = ActionFailed
		record.Result = fmt.Sprintf("%v: %s", ErrExecutorNotFound, name)
		e.metrics.RecordAction(string(action.ActionType), "dispatch_failed", 0)
		return record
	}

	timeout := e.actionTimeout
	if action.Timeout > 0 {
		timeout = action.Timeout
	}
	retries := e.retryCount
	if action.RetryCount > 0 {
		retries = action.RetryCount
	}

	start := time.Now()
	var result ActionResult
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err = exec.Execute(attemptCtx, action)
		cancel()
		if err == nil && result.Success {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	record.Duration = time.Since(start)

	switch {
	case err != nil:
		record.Status = ActionFailed
		record.Result = err.Error()
		e.metrics.RecordAction(string(action.ActionType), "failed", record.Duration)
		e.logger.Error("action execution failed",
			logging.ActionType(string(action.ActionType)),
			logging.String("executor", name),
			logging.Error(err),
		)
	case !result.Success:
		record.Status = ActionFailed
		record.Result = result.Message
		e.metrics.RecordAction(string(action.ActionType), "failed", record.Duration)
	default:
		record.Status = ActionCompleted
		record.Result = result.Message
		e.metrics.RecordAction(string(action.ActionType), "completed", record.Duration)
	}
	return record
}

// ResolveIncident marks an incident resolved by ID.
func (e *Engine) ResolveIncident(incidentID string) error {
	return e.incidents.Resolve(incidentID)
}

// ActiveIncidents returns all unresolved incidents.
func (e *Engine) ActiveIncidents() []Incident {
	return e.incidents.Active()
}

// severityForTrust maps a trust score to an incident severity band.
func severityForTrust(score float64) Severity {
	switch {
	case score < 0.1:
		return SeverityEmergency
	case score < 0.2:
		return SeverityCritical
	case score < 0.3:
		return SeverityHigh
	case score < 0.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
