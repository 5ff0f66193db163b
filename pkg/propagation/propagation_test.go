package propagation

import (
	"math"
	"testing"

	"github.com/sangeeta1998/lanc/pkg/graph"
)

const tolerance = 1e-9

func buildChain(t *testing.T) *graph.Snapshot {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(&graph.Node{ID: id, TrustScore: 1.0, ComponentType: graph.ComponentMicroservice})
	}
	g.AddEdge(&graph.Edge{From: "a", To: "b", RelationshipType: graph.RelationshipDependency, TrustWeight: 0.5})
	g.AddEdge(&graph.Edge{From: "b", To: "c", RelationshipType: graph.RelationshipDependency, TrustWeight: 0.4})
	return g.Snapshot()
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestWeightedAverageChain(t *testing.T) {
	snap := buildChain(t)
	scores := NewWeightedAverage().Propagate(snap, "a")

	want := map[string]float64{"a": 1.0, "b": 0.5, "c": 0.2}
	if len(scores) != len(want) {
		t.Fatalf("expected %d scores, got %d: %v", len(want), len(scores), scores)
	}
	for id, expected := range want {
		if !approxEqual(scores[id], expected) {
			t.Errorf("%s: expected %f, got %f", id, expected, scores[id])
		}
	}
}

func TestMinimumTrustChain(t *testing.T) {
	snap := buildChain(t)
	scores := NewMinimumTrust().Propagate(snap, "a")

	want := map[string]float64{"a": 1.0, "b": 0.5, "c": 0.4}
	for id, expected := range want {
		if !approxEqual(scores[id], expected) {
			t.Errorf("%s: expected %f, got %f", id, expected, scores[id])
		}
	}
}

func TestBayesianChainDefaultProbability(t *testing.T) {
	snap := buildChain(t)
	scores := NewBayesian(nil).Propagate(snap, "a")

	// Each hop attenuates by weight * 0.5.
	want := map[string]float64{"a": 1.0, "b": 0.25, "c": 0.05}
	for id, expected := range want {
		if !approxEqual(scores[id], expected) {
			t.Errorf("%s: expected %f, got %f", id, expected, scores[id])
		}
	}
}

func TestBayesianConditionalOverride(t *testing.T) {
	snap := buildChain(t)
	model := NewBayesian(nil)
	model.SetConditional("a", "b", 1.0)

	scores := model.Propagate(snap, "a")
	if !approxEqual(scores["b"], 0.5) {
		t.Errorf("expected b=0.5 with probability 1.0, got %f", scores["b"])
	}
}

func TestIsolatedSource(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "lonely", TrustScore: 1.0})
	snap := g.Snapshot()

	for _, model := range DefaultRegistry().All() {
		scores := model.Propagate(snap, "lonely")
		if len(scores) != 1 {
			t.Errorf("%s: expected 1 score for isolated source, got %v", model.Name(), scores)
		}
		if !approxEqual(scores["lonely"], 1.0) {
			t.Errorf("%s: expected source at 1.0, got %f", model.Name(), scores["lonely"])
		}
	}
}

func TestCyclicGraphTerminates(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b"} {
		g.AddNode(&graph.Node{ID: id, TrustScore: 1.0})
	}
	g.AddEdge(&graph.Edge{From: "a", To: "b", TrustWeight: 0.8})
	g.AddEdge(&graph.Edge{From: "b", To: "a", TrustWeight: 0.8})
	snap := g.Snapshot()

	for _, model := range DefaultRegistry().All() {
		scores := model.Propagate(snap, "a")
		if len(scores) != 2 {
			t.Errorf("%s: expected 2 scores on cycle, got %v", model.Name(), scores)
		}
	}
}

func TestMinimumTrustTakesLowerPath(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(&graph.Node{ID: id, TrustScore: 1.0})
	}
	g.AddEdge(&graph.Edge{From: "a", To: "b", TrustWeight: 0.9})
	g.AddEdge(&graph.Edge{From: "a", To: "c", TrustWeight: 0.2})
	g.AddEdge(&graph.Edge{From: "b", To: "d", TrustWeight: 0.9})
	g.AddEdge(&graph.Edge{From: "c", To: "d", TrustWeight: 0.9})
	snap := g.Snapshot()

	scores := NewMinimumTrust().Propagate(snap, "a")
	if !approxEqual(scores["d"], 0.2) {
		t.Errorf("expected d at 0.2 via the weaker path, got %f", scores["d"])
	}
}

func TestRegistryGet(t *testing.T) {
	registry := DefaultRegistry()

	model, err := registry.Get("weighted_average")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if model.Name() != "weighted_average" {
		t.Errorf("unexpected model: %s", model.Name())
	}

	if _, err := registry.Get("unknown"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestRegistryAllSorted(t *testing.T) {
	models := DefaultRegistry().All()
	if len(models) != 3 {
		t.Fatalf("expected 3 default models, got %d", len(models))
	}
	want := []string{"bayesian", "minimum_trust", "weighted_average"}
	for i, model := range models {
		if model.Name() != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], model.Name())
		}
	}
}
