package composition

import (
	"math"
	"testing"

	"github.com/sangeeta1998/lanc/pkg/graph"
	"github.com/sangeeta1998/lanc/pkg/metrics"
	"github.com/sangeeta1998/lanc/pkg/propagation"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(&graph.Node{ID: id, TrustScore: 1.0, ComponentType: graph.ComponentMicroservice})
	}
	g.AddEdge(&graph.Edge{From: "a", To: "b", RelationshipType: graph.RelationshipDependency, TrustWeight: 0.5})
	g.AddEdge(&graph.Edge{From: "b", To: "c", RelationshipType: graph.RelationshipDependency, TrustWeight: 0.4})

	return NewEngine(g, propagation.DefaultRegistry(), WithMetrics(metrics.NewRegistry()))
}

func TestCalculateSystemTrustAverages(t *testing.T) {
	e := newTestEngine(t)

	result := e.CalculateSystemTrust([]string{"a"})

	// Source is 1.0 in every model; b averages the three models'
	// derived values: weighted 0.5, minimum 0.5, bayesian 0.25.
	if math.Abs(result.ComponentScores["a"]-1.0) > 1e-9 {
		t.Errorf("expected a=1.0, got %f", result.ComponentScores["a"])
	}
	wantB := (0.5 + 0.5 + 0.25) / 3
	if math.Abs(result.ComponentScores["b"]-wantB) > 1e-9 {
		t.Errorf("expected b=%f, got %f", wantB, result.ComponentScores["b"])
	}

	if result.OverallTrust <= 0 || result.OverallTrust > 1 {
		t.Errorf("overall trust out of bounds: %f", result.OverallTrust)
	}
	if result.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestCalculateSystemTrustEmptyRoots(t *testing.T) {
	e := newTestEngine(t)

	result := e.CalculateSystemTrust(nil)
	if len(result.ComponentScores) != 0 {
		t.Errorf("expected no scores without roots, got %v", result.ComponentScores)
	}
	if result.OverallTrust != 0 {
		t.Errorf("expected overall 0 without roots, got %f", result.OverallTrust)
	}
}

func TestCalculateSystemTrustReportsWeakLinks(t *testing.T) {
	e := newTestEngine(t)

	result := e.CalculateSystemTrust([]string{"a"})

	// c ends up well below 0.3 under every model.
	found := false
	for _, link := range result.WeakLinks {
		if link.ComponentID == "c" {
			found = true
			if len(link.MitigationSuggestions) == 0 {
				t.Error("expected mitigation suggestions for weak link")
			}
		}
	}
	if !found {
		t.Errorf("expected c in weak links, got %v", result.WeakLinks)
	}
}

func TestCalculateSystemTrustReportsCycles(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"x", "y"} {
		g.AddNode(&graph.Node{ID: id, TrustScore: 1.0})
	}
	g.AddEdge(&graph.Edge{From: "x", To: "y", TrustWeight: 0.9})
	g.AddEdge(&graph.Edge{From: "y", To: "x", TrustWeight: 0.9})
	e := NewEngine(g, propagation.DefaultRegistry(), WithMetrics(metrics.NewRegistry()))

	result := e.CalculateSystemTrust([]string{"x"})
	if len(result.CriticalPaths) == 0 {
		t.Error("expected the x/y cycle to be reported")
	}
}

func TestPropagationAnalysisCoversAllModels(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.PropagationAnalysis("a")
	if analysis.SourceComponent != "a" {
		t.Errorf("expected source a, got %s", analysis.SourceComponent)
	}
	for _, name := range []string{"weighted_average", "minimum_trust", "bayesian"} {
		scores, exists := analysis.PropagationResults[name]
		if !exists {
			t.Errorf("missing results for model %s", name)
			continue
		}
		if scores["a"] != 1.0 {
			t.Errorf("%s: expected source at 1.0, got %f", name, scores["a"])
		}
	}
}

func TestEvaluateRulesCollectsAllMatches(t *testing.T) {
	e := newTestEngine(t)
	e.Graph().UpdateTrustScore("c", 0.1)

	low := 0.2
	lower := 0.15
	e.AddRule(Rule{
		RuleID:     "second",
		RuleType:   RuleTrustThreshold,
		Conditions: []RuleCondition{{TrustThreshold: &low}},
		Actions:    []RuleAction{{ActionType: RuleActionTriggerAlert, TargetComponents: []string{"c"}}},
		Priority:   2,
	})
	e.AddRule(Rule{
		RuleID:     "first",
		RuleType:   RuleTrustThreshold,
		Conditions: []RuleCondition{{TrustThreshold: &lower}},
		Actions:    []RuleAction{{ActionType: RuleActionIsolateComponent, TargetComponents: []string{"c"}}},
		Priority:   1,
	})

	actions := e.EvaluateRules()
	if len(actions) != 2 {
		t.Fatalf("expected both rules to fire, got %d actions", len(actions))
	}
	// Priority 1 rule's action comes first.
	if actions[0].ActionType != RuleActionIsolateComponent {
		t.Errorf("expected isolate action first, got %s", actions[0].ActionType)
	}
}

func TestEvaluateRulesNoMatch(t *testing.T) {
	e := newTestEngine(t)

	threshold := 0.2
	e.AddRule(Rule{
		RuleID:     "quiet",
		RuleType:   RuleTrustThreshold,
		Conditions: []RuleCondition{{TrustThreshold: &threshold}},
		Actions:    []RuleAction{{ActionType: RuleActionTriggerAlert}},
		Priority:   1,
	})

	if actions := e.EvaluateRules(); len(actions) != 0 {
		t.Errorf("expected no actions, got %v", actions)
	}
}

func TestEvaluateRulesSecurityCondition(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{
		ID:         "svc",
		TrustScore: 0.9,
		SecurityPosture: graph.SecurityPosture{
			VulnerabilityScore: 0.8,
		},
	})
	e := NewEngine(g, propagation.DefaultRegistry(), WithMetrics(metrics.NewRegistry()))

	e.AddRule(Rule{
		RuleID:   "vuln",
		RuleType: RuleSecurityViolation,
		Conditions: []RuleCondition{{
			SecurityCondition: &SecurityCondition{VulnerabilityThreshold: 0.7},
		}},
		Actions:  []RuleAction{{ActionType: RuleActionUpdateSecurityPolicy, TargetComponents: []string{"svc"}}},
		Priority: 1,
	})

	actions := e.EvaluateRules()
	if len(actions) != 1 {
		t.Fatalf("expected security rule to fire, got %d actions", len(actions))
	}
}
