// Package analysis provides structural analysis over a trust graph
// snapshot: critical-path (cycle) detection and weak-link impact
// assessment.
package analysis

import (
	"sort"

	"github.com/sangeeta1998/lanc/pkg/graph"
)

// WeakLinkThreshold is the exclusive trust boundary below which a
// component is reported as a weak link.
const WeakLinkThreshold = 0.3

// HighImpactComponentCount is the closure size above which a weak link's
// impact is rated high rather than moderate.
const HighImpactComponentCount = 10

// CriticalPath is a cycle discovered during structural analysis. The path
// preserves traversal order starting at the node the back edge returns to.
type CriticalPath struct {
	Path        []string `json:"path"`
	Criticality float64  `json:"criticality"`
	Description string   `json:"description"`
}

// WeakLink is a component whose derived trust fell below the threshold.
type WeakLink struct {
	ComponentID           string           `json:"component_id"`
	TrustScore            float64          `json:"trust_score"`
	ImpactAssessment      ImpactAssessment `json:"impact_assessment"`
	MitigationSuggestions []string         `json:"mitigation_suggestions"`
}

// ImpactAssessment describes the forward closure a weak link can affect.
type ImpactAssessment struct {
	AffectedComponents []string `json:"affected_components"`
	Severity           float64  `json:"severity"`
	BusinessImpact     string   `json:"business_impact"`
}

// CriticalPaths runs a DFS from each root and reports every back edge to
// a node still on the current path as a cycle with criticality 1.0.
func CriticalPaths(snap *graph.Snapshot, roots []string) []CriticalPath {
	paths := make([]CriticalPath, 0)
	for _, root := range roots {
		onPath := make(map[string]bool)
		stack := make([]string, 0)
		dfsCriticalPaths(snap, root, onPath, &stack, &paths)
	}
	return paths
}

func dfsCriticalPaths(snap *graph.Snapshot, current string, onPath map[string]bool, stack *[]string, paths *[]CriticalPath) {
	if onPath[current] {
		// Back edge: the sub-path from the revisited node to the end of
		// the stack is the cycle.
		for i, id := range *stack {
			if id == current {
				cycle := make([]string, len(*stack)-i)
				copy(cycle, (*stack)[i:])
				*paths = append(*paths, CriticalPath{
					Path:        cycle,
					Criticality: 1.0,
					Description: "circular dependency detected",
				})
				break
			}
		}
		return
	}

	onPath[current] = true
	*stack = append(*stack, current)

	for _, target := range snap.Successors(current) {
		dfsCriticalPaths(snap, target, onPath, stack, paths)
	}

	*stack = (*stack)[:len(*stack)-1]
	delete(onPath, current)
}

// WeakLinks reports every component whose final score is strictly below
// WeakLinkThreshold, with its forward-closure impact assessment.
func WeakLinks(snap *graph.Snapshot, scores map[string]float64) []WeakLink {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	links := make([]WeakLink, 0)
	for _, id := range ids {
		score := scores[id]
		if score >= WeakLinkThreshold {
			continue
		}
		links = append(links, WeakLink{
			ComponentID:           id,
			TrustScore:            score,
			ImpactAssessment:      AssessImpact(snap, id),
			MitigationSuggestions: MitigationSuggestions(score),
		})
	}
	return links
}

// AssessImpact computes the breadth-first closure of components reachable
// forward from the given component, including the component itself.
func AssessImpact(snap *graph.Snapshot, componentID string) ImpactAssessment {
	affected := make(map[string]bool)
	queue := []string{componentID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if affected[current] {
			continue
		}
		affected[current] = true
		queue = append(queue, snap.Successors(current)...)
	}

	components := make([]string, 0, len(affected))
	for id := range affected {
		components = append(components, id)
	}
	sort.Strings(components)

	severity := 0.5
	impact := "moderate"
	if len(components) > HighImpactComponentCount {
		severity = 1.0
		impact = "high"
	}

	return ImpactAssessment{
		AffectedComponents: components,
		Severity:           severity,
		BusinessImpact:     impact,
	}
}

// MitigationSuggestions returns canned remediation guidance keyed by
// score band.
func MitigationSuggestions(score float64) []string {
	switch {
	case score < 0.1:
		return []string{"immediate isolation required", "emergency security review"}
	case score < 0.3:
		return []string{"enhanced monitoring required", "security patch deployment"}
	case score < 0.5:
		return []string{"regular security assessment", "performance optimization"}
	default:
		return nil
	}
}
