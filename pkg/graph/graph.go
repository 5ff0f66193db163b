package graph

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	ErrNodeNotFound = fmt.Errorf("node not found")
	ErrEdgeNotFound = fmt.Errorf("edge not found")
)

// Graph is the shared trust graph: component nodes, directed weighted
// edges, and a derived dependency index for successor lookup.
//
// A single reader/writer lock guards all three structures. Mutations take
// the write lock; traversals run against a Snapshot so a propagation pass
// never interleaves with writes.
type Graph struct {
	nodes        map[string]*Node
	edges        map[string]*Edge    // "from->to" -> edge
	dependencies map[string][]string // from -> successor IDs

	mu sync.RWMutex
}

// New creates an empty trust graph.
func New() *Graph {
	return &Graph{
		nodes:        make(map[string]*Node),
		edges:        make(map[string]*Edge),
		dependencies: make(map[string][]string),
	}
}

// AddNode registers a component. Re-registering an existing ID replaces
// the stored node (idempotent upsert, latest write wins).
func (g *Graph) AddNode(node *Node) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("node must have an id")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	stored := node.Clone()
	if stored.LastUpdated.IsZero() {
		stored.LastUpdated = time.Now()
	}
	g.nodes[stored.ID] = stored
	return nil
}

// AddEdge registers a relationship keyed by (from, to). An existing pair
// is replaced; the dependency index is kept consistent with the edge set.
//
// Endpoints are not required to be registered nodes: dangling edges are
// tolerated, and propagation over them yields no entry for the missing ID.
func (g *Graph) AddEdge(edge *Edge) error {
	if edge == nil || edge.From == "" || edge.To == "" {
		return fmt.Errorf("edge must have from and to ids")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := edge.Key()
	if _, exists := g.edges[key]; !exists {
		g.dependencies[edge.From] = append(g.dependencies[edge.From], edge.To)
	}
	g.edges[key] = edge.Clone()
	return nil
}

// RemoveNode unregisters a component and every edge referencing it, so
// removal never leaves entries in the dependency index.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; !exists {
		return ErrNodeNotFound
	}
	delete(g.nodes, id)

	for key, edge := range g.edges {
		if edge.From == id || edge.To == id {
			delete(g.edges, key)
			g.removeDependency(edge.From, edge.To)
		}
	}
	delete(g.dependencies, id)
	return nil
}

// RemoveEdge unregisters the (from, to) relationship.
func (g *Graph) RemoveEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := EdgeKey(from, to)
	if _, exists := g.edges[key]; !exists {
		return ErrEdgeNotFound
	}
	delete(g.edges, key)
	g.removeDependency(from, to)
	return nil
}

// removeDependency drops one occurrence of to from from's successor list.
// Caller must hold the write lock.
func (g *Graph) removeDependency(from, to string) {
	successors := g.dependencies[from]
	for i, s := range successors {
		if s == to {
			g.dependencies[from] = append(successors[:i], successors[i+1:]...)
			break
		}
	}
	if len(g.dependencies[from]) == 0 {
		delete(g.dependencies, from)
	}
}

// GetNode returns a clone of the node with the given ID.
func (g *Graph) GetNode(id string) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, exists := g.nodes[id]
	if !exists {
		return nil, ErrNodeNotFound
	}
	return node.Clone(), nil
}

// GetEdge returns a clone of the (from, to) edge.
func (g *Graph) GetEdge(from, to string) (*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edge, exists := g.edges[EdgeKey(from, to)]
	if !exists {
		return nil, ErrEdgeNotFound
	}
	return edge.Clone(), nil
}

// UpdateTrustScore sets a component's trust score from the upstream feed
// and stamps LastUpdated.
func (g *Graph) UpdateTrustScore(id string, score float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, exists := g.nodes[id]
	if !exists {
		return ErrNodeNotFound
	}
	node.TrustScore = score
	node.LastUpdated = time.Now()
	return nil
}

// TrustScores returns the current trust score of every registered node.
func (g *Graph) TrustScores() map[string]float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	scores := make(map[string]float64, len(g.nodes))
	for id, node := range g.nodes {
		scores[id] = node.TrustScore
	}
	return scores
}

// GetStatistics returns node and edge counts.
func (g *Graph) GetStatistics() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return Statistics{
		NodeCount: len(g.nodes),
		EdgeCount: len(g.edges),
	}
}

// Snapshot returns a deep, immutable copy of the graph for traversal.
// Successor lists are sorted so traversal order is deterministic for a
// given graph state.
func (g *Graph) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := &Snapshot{
		nodes:      make(map[string]*Node, len(g.nodes)),
		edges:      make(map[string]*Edge, len(g.edges)),
		successors: make(map[string][]string, len(g.dependencies)),
	}
	for id, node := range g.nodes {
		snap.nodes[id] = node.Clone()
	}
	for key, edge := range g.edges {
		snap.edges[key] = edge.Clone()
	}
	for from, successors := range g.dependencies {
		copied := make([]string, len(successors))
		copy(copied, successors)
		sort.Strings(copied)
		snap.successors[from] = copied
	}
	return snap
}

// Snapshot is a read-only view of the graph taken at a point in time.
// It is safe for concurrent use by multiple traversals.
type Snapshot struct {
	nodes      map[string]*Node
	edges      map[string]*Edge
	successors map[string][]string
}

// Node returns the snapshotted node, or nil when the ID is unknown.
func (s *Snapshot) Node(id string) *Node {
	return s.nodes[id]
}

// Edge returns the snapshotted (from, to) edge, or nil when absent.
func (s *Snapshot) Edge(from, to string) *Edge {
	return s.edges[EdgeKey(from, to)]
}

// Successors returns the IDs reachable from id over one outgoing edge,
// in sorted order.
func (s *Snapshot) Successors(id string) []string {
	return s.successors[id]
}

// NodeIDs returns all snapshotted node IDs in sorted order.
func (s *Snapshot) NodeIDs() []string {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NodeCount returns the number of snapshotted nodes.
func (s *Snapshot) NodeCount() int {
	return len(s.nodes)
}
