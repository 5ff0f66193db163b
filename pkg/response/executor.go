package response

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ActionResult is what an executor reports back after performing one
// remediation action.
type ActionResult struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Executor performs one concrete remediation action type. Executors are
// side-effect-only: they hold no reference to shared graph state and are
// safe to invoke concurrently.
type Executor interface {
	// Execute performs the action. The context carries the engine's
	// per-invocation timeout.
	Execute(ctx context.Context, action Action) (ActionResult, error)

	// Name returns the executor's registry name.
	Name() string

	// Healthy reports whether the executor can currently act.
	Healthy() bool
}

// IsolationExecutor cuts a component off from the rest of the system.
type IsolationExecutor struct {
	name string
}

// NewIsolationExecutor creates the isolation executor.
func NewIsolationExecutor() *IsolationExecutor {
	return &IsolationExecutor{name: "isolation"}
}

func (e *IsolationExecutor) Name() string  { return e.name }
func (e *IsolationExecutor) Healthy() bool { return true }

func (e *IsolationExecutor) Execute(ctx context.Context, action Action) (ActionResult, error) {
	if action.ActionType != ActionIsolateComponent {
		return ActionResult{}, fmt.Errorf("isolation executor cannot handle action type %s", action.ActionType)
	}
	if err := ctx.Err(); err != nil {
		return ActionResult{}, err
	}
	return ActionResult{
		Success: true,
		Message: fmt.Sprintf("isolated components %v", action.TargetComponents),
		Metrics: map[string]float64{
			"components_isolated": float64(len(action.TargetComponents)),
		},
		Timestamp: time.Now(),
	}, nil
}

// ScalingExecutor adjusts a component's resource allocation.
type ScalingExecutor struct {
	name string
}

// NewScalingExecutor creates the scaling executor.
func NewScalingExecutor() *ScalingExecutor {
	return &ScalingExecutor{name: "scaling"}
}

func (e *ScalingExecutor) Name() string  { return e.name }
func (e *ScalingExecutor) Healthy() bool { return true }

func (e *ScalingExecutor) Execute(ctx context.Context, action Action) (ActionResult, error) {
	if action.ActionType != ActionScaleResources {
		return ActionResult{}, fmt.Errorf("scaling executor cannot handle action type %s", action.ActionType)
	}
	if err := ctx.Err(); err != nil {
		return ActionResult{}, err
	}
	scaleFactor := 2.0
	if raw, exists := action.Parameters["scale_factor"]; exists {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			scaleFactor = parsed
		}
	}
	return ActionResult{
		Success: true,
		Message: fmt.Sprintf("scaled resources by factor %.1f", scaleFactor),
		Metrics: map[string]float64{
			"scale_factor": scaleFactor,
		},
		Timestamp: time.Now(),
	}, nil
}

// ConfigurationExecutor pushes a configuration change to a component.
type ConfigurationExecutor struct {
	name string
}

// NewConfigurationExecutor creates the configuration executor.
func NewConfigurationExecutor() *ConfigurationExecutor {
	return &ConfigurationExecutor{name: "configuration"}
}

func (e *ConfigurationExecutor) Name() string  { return e.name }
func (e *ConfigurationExecutor) Healthy() bool { return true }

func (e *ConfigurationExecutor) Execute(ctx context.Context, action Action) (ActionResult, error) {
	if action.ActionType != ActionUpdateConfiguration {
		return ActionResult{}, fmt.Errorf("configuration executor cannot handle action type %s", action.ActionType)
	}
	if err := ctx.Err(); err != nil {
		return ActionResult{}, err
	}
	key := action.Parameters["config_key"]
	if key == "" {
		key = "security_policy"
	}
	value := action.Parameters["config_value"]
	if value == "" {
		value = "enhanced"
	}
	return ActionResult{
		Success: true,
		Message: fmt.Sprintf("updated configuration %s=%s", key, value),
		Metrics: map[string]float64{
			"configs_updated": 1,
		},
		Timestamp: time.Now(),
	}, nil
}

// WorkflowExecutor triggers an external remediation workflow.
type WorkflowExecutor struct {
	name string
}

// NewWorkflowExecutor creates the workflow executor.
func NewWorkflowExecutor() *WorkflowExecutor {
	return &WorkflowExecutor{name: "workflow"}
}

func (e *WorkflowExecutor) Name() string  { return e.name }
func (e *WorkflowExecutor) Healthy() bool { return true }

func (e *WorkflowExecutor) Execute(ctx context.Context, action Action) (ActionResult, error) {
	if action.ActionType != ActionTriggerWorkflow {
		return ActionResult{}, fmt.Errorf("workflow executor cannot handle action type %s", action.ActionType)
	}
	if err := ctx.Err(); err != nil {
		return ActionResult{}, err
	}
	workflowID := action.Parameters["workflow_id"]
	if workflowID == "" {
		workflowID = "security_response"
	}
	return ActionResult{
		Success: true,
		Message: fmt.Sprintf("triggered workflow %s", workflowID),
		Metrics: map[string]float64{
			"workflows_triggered": 1,
		},
		Timestamp: time.Now(),
	}, nil
}
