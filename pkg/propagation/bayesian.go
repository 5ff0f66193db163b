package propagation

import (
	"github.com/sangeeta1998/lanc/pkg/graph"
)

// DefaultConditionalProbability is used for edges with no entry in the
// conditional probability table.
const DefaultConditionalProbability = 0.5

// Bayesian propagates trust by multiplying the edge weight with a
// conditional probability looked up per edge, keyed "from->to". Traversal
// shape matches WeightedAverage: first visit wins.
type Bayesian struct {
	name  string
	probs map[string]float64
}

// NewBayesian creates the Bayesian model with the given conditional
// probability table. A nil table means every edge falls back to
// DefaultConditionalProbability.
func NewBayesian(conditionalProbabilities map[string]float64) *Bayesian {
	if conditionalProbabilities == nil {
		conditionalProbabilities = make(map[string]float64)
	}
	return &Bayesian{name: "bayesian", probs: conditionalProbabilities}
}

func (m *Bayesian) Name() string { return m.name }

// SetConditional sets the conditional probability for the (from, to) edge.
func (m *Bayesian) SetConditional(from, to string, probability float64) {
	m.probs[graph.EdgeKey(from, to)] = probability
}

// Propagate performs the first-visit-wins BFS from source, attenuating by
// edge weight and conditional probability.
func (m *Bayesian) Propagate(snap *graph.Snapshot, source string) map[string]float64 {
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
			probability, exists := m.probs[graph.EdgeKey(current.id, target)]
			if !exists {
				probability = DefaultConditionalProbability
			}
			visited[target] = true
			queue = append(queue, bfsEntry{
				id:    target,
				trust: current.trust * edge.TrustWeight * probability,
			})
		}
	}

	return scores
}
