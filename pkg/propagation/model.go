// Package propagation implements the pluggable trust propagation models.
//
// A model derives a trust value for every component reachable from a
// single source, seeded at 1.0, by folding per-edge trust weights along
// the traversal. All models run against an immutable graph snapshot and
// terminate on cyclic graphs.
package propagation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sangeeta1998/lanc/pkg/graph"
)

var ErrModelNotFound = fmt.Errorf("propagation model not found")

// Model derives trust scores for all nodes reachable from source.
// The source itself is always reported at 1.0.
type Model interface {
	// Propagate returns a node ID -> derived trust mapping. A source with
	// no outgoing edges yields {source: 1.0} only.
	Propagate(snap *graph.Snapshot, source string) map[string]float64

	// Name returns the model's registry name.
	Name() string
}

// Registry maps model names to implementations so new models can be added
// without touching call sites.
type Registry struct {
	models map[string]Model
	mu     sync.RWMutex
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]Model)}
}

// Register adds or replaces a model under its own name.
func (r *Registry) Register(model Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[model.Name()] = model
}

// Get returns the named model.
func (r *Registry) Get(name string) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, exists := r.models[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return model, nil
}

// All returns the registered models ordered by name, so composition runs
// are deterministic.
func (r *Registry) All() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)

	models := make([]Model, 0, len(names))
	for _, name := range names {
		models = append(models, r.models[name])
	}
	return models
}

// DefaultRegistry returns a registry with the three standard models.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewWeightedAverage())
	r.Register(NewMinimumTrust())
	r.Register(NewBayesian(nil))
	return r
}
