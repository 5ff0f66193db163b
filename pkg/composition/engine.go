// Package composition orchestrates the propagation models and the
// structural analyzer against the trust graph to produce a system-wide
// trust score.
package composition

import (
	"sort"
	"sync"
	"time"

	"github.com/sangeeta1998/lanc/pkg/analysis"
	"github.com/sangeeta1998/lanc/pkg/graph"
	"github.com/sangeeta1998/lanc/pkg/logging"
	"github.com/sangeeta1998/lanc/pkg/metrics"
	"github.com/sangeeta1998/lanc/pkg/propagation"
)

// Engine runs every registered propagation model from every requested
// root and aggregates the results into per-component and overall scores.
type Engine struct {
	graph  *graph.Graph
	models *propagation.Registry

	rules   []Rule
	rulesMu sync.RWMutex

	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the engine's metrics registry.
func WithMetrics(registry *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = registry }
}

// NewEngine creates a composition engine over the given graph and models.
func NewEngine(g *graph.Graph, models *propagation.Registry, opts ...Option) *Engine {
	e := &Engine{
		graph:   g,
		models:  models,
		rules:   make([]Rule, 0),
		logger:  logging.NewNopLogger(),
		metrics: metrics.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the engine's underlying trust graph.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Models returns the engine's propagation model registry.
func (e *Engine) Models() *propagation.Registry {
	return e.models
}

// AddRule registers a composition rule, keeping rules sorted by
// ascending priority.
func (e *Engine) AddRule(rule Rule) {
	e.rulesMu.Lock()
	defer e.rulesMu.Unlock()

	e.rules = append(e.rules, rule)
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].Priority < e.rules[j].Priority
	})
}

// CalculateSystemTrust runs every model from every root against one
// graph snapshot, averages the per-component results, and attaches the
// structural analysis.
func (e *Engine) CalculateSystemTrust(roots []string) SystemTrustScore {
	snap := e.graph.Snapshot()

	accumulated := make(map[string][]float64)
	for _, model := range e.models.All() {
		for _, root := range roots {
			start := time.Now()
			propagated := model.Propagate(snap, root)
			e.metrics.RecordPropagationRun(model.Name(), time.Since(start))

			for componentID, score := range propagated {
				accumulated[componentID] = append(accumulated[componentID], score)
			}
		}
	}

	finalScores := make(map[string]float64, len(accumulated))
	for componentID, scores := range accumulated {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		finalScores[componentID] = sum / float64(len(scores))
	}

	overall := 0.0
	if len(finalScores) > 0 {
		for _, score := range finalScores {
			overall += score
		}
		overall /= float64(len(finalScores))
	}

	result := SystemTrustScore{
		OverallTrust:    overall,
		ComponentScores: finalScores,
		CriticalPaths:   analysis.CriticalPaths(snap, roots),
		WeakLinks:       analysis.WeakLinks(snap, finalScores),
		Timestamp:       time.Now(),
	}

	e.metrics.RecordCompositionResult(overall, len(result.WeakLinks), len(result.CriticalPaths))
	e.logger.Info("system trust calculated",
		logging.Float64("overall_trust", overall),
		logging.Int("components", len(finalScores)),
		logging.Int("weak_links", len(result.WeakLinks)),
		logging.Int("critical_paths", len(result.CriticalPaths)),
	)

	return result
}

// PropagationAnalysis runs every model from a single source and reports
// the raw per-model results.
func (e *Engine) PropagationAnalysis(source string) PropagationAnalysis {
	snap := e.graph.Snapshot()

	results := make(map[string]map[string]float64)
	for _, model := range e.models.All() {
		start := time.Now()
		results[model.Name()] = model.Propagate(snap, source)
		e.metrics.RecordPropagationRun(model.Name(), time.Since(start))
	}

	return PropagationAnalysis{
		SourceComponent:    source,
		PropagationResults: results,
		Timestamp:          time.Now(),
	}
}

// EvaluateRules checks every composition rule against the current graph
// and collects the actions of all matching rules. Matching never
// short-circuits later rules.
func (e *Engine) EvaluateRules() []RuleAction {
	snap := e.graph.Snapshot()

	e.rulesMu.RLock()
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	e.rulesMu.RUnlock()

	triggered := make([]RuleAction, 0)
	for _, rule := range rules {
		if ruleMatches(snap, rule) {
			triggered = append(triggered, rule.Actions...)
		}
	}
	return triggered
}

// ruleMatches reports whether any set condition of the rule holds for
// some node of the graph.
func ruleMatches(snap *graph.Snapshot, rule Rule) bool {
	for _, condition := range rule.Conditions {
		if condition.TrustThreshold != nil {
			for _, id := range snap.NodeIDs() {
				if snap.Node(id).TrustScore < *condition.TrustThreshold {
					return true
				}
			}
		}
		if condition.SecurityCondition != nil {
			for _, id := range snap.NodeIDs() {
				if snap.Node(id).SecurityPosture.VulnerabilityScore > condition.SecurityCondition.VulnerabilityThreshold {
					return true
				}
			}
		}
	}
	return false
}
