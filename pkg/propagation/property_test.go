package propagation

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sangeeta1998/lanc/pkg/graph"
)

// chainFromWeights builds node0 -> node1 -> ... with the given weights,
// plus a skip edge from node0 to the last node when at least three nodes
// exist, so multi-path behavior is exercised.
func chainFromWeights(weights []float64) *graph.Snapshot {
	g := graph.New()
	for i := 0; i <= len(weights); i++ {
		g.AddNode(&graph.Node{ID: nodeID(i), TrustScore: 1.0})
	}
	for i, w := range weights {
		g.AddEdge(&graph.Edge{From: nodeID(i), To: nodeID(i + 1), TrustWeight: w})
	}
	if len(weights) >= 2 {
		g.AddEdge(&graph.Edge{From: nodeID(0), To: nodeID(len(weights)), TrustWeight: weights[0]})
	}
	return g.Snapshot()
}

func nodeID(i int) string {
	return fmt.Sprintf("n%d", i)
}

// TestPropagationInvariants verifies the bounds every model must hold
// for any graph whose edge weights are in [0, 1].
func TestPropagationInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	weightsGen := gen.SliceOfN(4, gen.Float64Range(0, 1))

	properties.Property("scores stay within [0, 1] and source is 1.0", prop.ForAll(
		func(weights []float64) bool {
			snap := chainFromWeights(weights)
			for _, model := range DefaultRegistry().All() {
				scores := model.Propagate(snap, nodeID(0))
				if scores[nodeID(0)] != 1.0 {
					return false
				}
				for _, score := range scores {
					if score < 0 || score > 1 {
						return false
					}
				}
			}
			return true
		},
		weightsGen,
	))

	properties.Property("every reported component is reachable", prop.ForAll(
		func(weights []float64) bool {
			snap := chainFromWeights(weights)
			for _, model := range DefaultRegistry().All() {
				scores := model.Propagate(snap, nodeID(0))
				// The chain reaches every node, so the score map must
				// cover the whole graph.
				if len(scores) != snap.NodeCount() {
					return false
				}
			}
			return true
		},
		weightsGen,
	))

	properties.Property("models agree on the reachable set", prop.ForAll(
		func(weights []float64) bool {
			snap := chainFromWeights(weights)
			weighted := NewWeightedAverage().Propagate(snap, nodeID(0))
			minimum := NewMinimumTrust().Propagate(snap, nodeID(0))
			if len(weighted) != len(minimum) {
				return false
			}
			for id := range minimum {
				if _, exists := weighted[id]; !exists {
					return false
				}
			}
			return true
		},
		weightsGen,
	))

	properties.TestingRun(t)
}
