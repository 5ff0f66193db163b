package propagation

import (
	"github.com/sangeeta1998/lanc/pkg/graph"
)

// WeightedAverage propagates trust by multiplying the current value with
// each outgoing edge's trust weight during a breadth-first traversal.
//
// The first visit to a node fixes its value: later paths to the same node
// are not reconsidered. This is a single-pass O(V+E) trade-off, exact for
// tree-shaped subgraphs; on multi-path graphs the result depends on the
// snapshot's (sorted) successor order.
type WeightedAverage struct {
	name string
}

// NewWeightedAverage creates the standard weighted-average model.
func NewWeightedAverage() *WeightedAverage {
	return &WeightedAverage{name: "weighted_average"}
}

func (m *WeightedAverage) Name() string { return m.name }

type bfsEntry struct {
	id    string
	trust float64
}

// Propagate performs the first-visit-wins BFS from source.
func (m *WeightedAverage) Propagate(snap *graph.Snapshot, source string) map[string]float64 {
	scores := make(map[string]float64)
	visited := map[string]bool{source: true}
	queue := []bfsEntry{{id: source, trust: 1.0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		scores[current.id] = current.trust

		for _, target := range snap.Successors(current.id) {
			if visited[target] {
				continue
			}
			edge := snap.Edge(current.id, target)
			if edge == nil {
				continue
			}
			visited[target] = true
			queue = append(queue, bfsEntry{id: target, trust: current.trust * edge.TrustWeight})
		}
	}

	return scores
}
