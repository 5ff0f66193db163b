package graph

import (
	"time"
)

// ComponentType classifies a node in the trust graph.
type ComponentType string

const (
	ComponentMicroservice    ComponentType = "microservice"
	ComponentDatabase        ComponentType = "database"
	ComponentAPI             ComponentType = "api"
	ComponentLoadBalancer    ComponentType = "load_balancer"
	ComponentMessageQueue    ComponentType = "message_queue"
	ComponentCache           ComponentType = "cache"
	ComponentExternalService ComponentType = "external_service"
	ComponentLegacySystem    ComponentType = "legacy_system"
	ComponentEdgeDevice      ComponentType = "edge_device"
	ComponentContainer       ComponentType = "container"
)

// RelationshipType classifies an edge in the trust graph.
type RelationshipType string

const (
	RelationshipDataFlow      RelationshipType = "data_flow"
	RelationshipDependency    RelationshipType = "dependency"
	RelationshipCommunication RelationshipType = "communication"
	RelationshipControl       RelationshipType = "control"
	RelationshipMonitoring    RelationshipType = "monitoring"
	RelationshipBackup        RelationshipType = "backup"
	RelationshipLoadBalancing RelationshipType = "load_balancing"
)

// SecurityPosture holds the security sub-scores for a component.
// Each score is a float in [0, 1].
type SecurityPosture struct {
	VulnerabilityScore float64 `json:"vulnerability_score" yaml:"vulnerability_score"`
	PatchStatus        float64 `json:"patch_status" yaml:"patch_status"`
	ComplianceScore    float64 `json:"compliance_score" yaml:"compliance_score"`
	EncryptionStatus   float64 `json:"encryption_status" yaml:"encryption_status"`
	AccessControlScore float64 `json:"access_control_score" yaml:"access_control_score"`
}

// Node is a component in the trust graph. Nodes are owned by the Graph
// and mutated only through its registration API; callers always receive
// clones.
type Node struct {
	ID              string            `json:"id" yaml:"id"`
	TrustScore      float64           `json:"trust_score" yaml:"trust_score"`
	ComponentType   ComponentType     `json:"component_type" yaml:"component_type"`
	SecurityPosture SecurityPosture   `json:"security_posture" yaml:"security_posture"`
	LastUpdated     time.Time         `json:"last_updated" yaml:"-"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	clone := *n
	if n.Metadata != nil {
		clone.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

// Edge is a directed, weighted relationship between two components.
// Edges are keyed by (From, To); re-adding an existing pair replaces it.
type Edge struct {
	From             string           `json:"from" yaml:"from"`
	To               string           `json:"to" yaml:"to"`
	RelationshipType RelationshipType `json:"relationship_type" yaml:"relationship_type"`
	TrustWeight      float64          `json:"trust_weight" yaml:"trust_weight"`
	DataFlowVolume   float64          `json:"data_flow_volume" yaml:"data_flow_volume"`
	Criticality      float64          `json:"criticality" yaml:"criticality"`
}

// Key returns the edge's map key in "from->to" form.
func (e *Edge) Key() string {
	return EdgeKey(e.From, e.To)
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	clone := *e
	return &clone
}

// EdgeKey builds the canonical edge key for a (from, to) pair.
func EdgeKey(from, to string) string {
	return from + "->" + to
}

// Statistics reports graph size counters.
type Statistics struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}
