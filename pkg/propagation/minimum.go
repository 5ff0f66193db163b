package propagation

import (
	"github.com/sangeeta1998/lanc/pkg/graph"
)

// MinimumTrust is the pessimistic model: a node's derived trust is the
// minimum of the current value and the edge weight, and a node is
// re-enqueued whenever a lower value is discovered along another path.
// The final value is the minimum over all paths seen during the pass.
type MinimumTrust struct {
	name string
}

// NewMinimumTrust creates the standard minimum-trust model.
func NewMinimumTrust() *MinimumTrust {
	return &MinimumTrust{name: "minimum_trust"}
}

func (m *MinimumTrust) Name() string { return m.name }

// Propagate performs the lower-value-wins BFS from source.
func (m *MinimumTrust) Propagate(snap *graph.Snapshot, source string) map[string]float64 {
	scores := make(map[string]float64)
	visited := map[string]bool{source: true}
	queue := []bfsEntry{{id: source, trust: 1.0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if existing, seen := scores[current.id]; !seen || current.trust < existing {
			scores[current.id] = current.trust
		}

		for _, target := range snap.Successors(current.id) {
			edge := snap.Edge(current.id, target)
			if edge == nil {
				continue
			}
			derived := current.trust
			if edge.TrustWeight < derived {
				derived = edge.TrustWeight
			}
			existing, seen := scores[target]
			if !visited[target] || (seen && derived < existing) {
				visited[target] = true
				scores[target] = derived
				queue = append(queue, bfsEntry{id: target, trust: derived})
			}
		}
	}

	return scores
}
