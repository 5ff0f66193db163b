// Package config loads and validates the daemon's YAML configuration,
// including the seed topology and response policies.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sangeeta1998/lanc/pkg/graph"
	"github.com/sangeeta1998/lanc/pkg/response"
)

// ServerConfig configures the HTTP reporting server.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// FeedConfig configures the trust update feed.
type FeedConfig struct {
	ListenAddr   string `yaml:"listen_addr"`
	HistoryLimit int    `yaml:"history_limit"`
}

// ResponseConfig configures the response engine's execution budget.
type ResponseConfig struct {
	ActionTimeout Duration `yaml:"action_timeout"`
	RetryCount    int      `yaml:"retry_count"`
}

// NodeConfig seeds one component into the trust graph.
type NodeConfig struct {
	ID            string  `yaml:"id"`
	ComponentType string  `yaml:"component_type"`
	TrustScore    float64 `yaml:"trust_score"`
}

// EdgeConfig seeds one trust relationship into the graph.
type EdgeConfig struct {
	From             string  `yaml:"from"`
	To               string  `yaml:"to"`
	RelationshipType string  `yaml:"relationship_type"`
	TrustWeight      float64 `yaml:"trust_weight"`
	Criticality      float64 `yaml:"criticality"`
}

// TopologyConfig seeds the initial trust graph.
type TopologyConfig struct {
	Nodes []NodeConfig `yaml:"nodes"`
	Edges []EdgeConfig `yaml:"edges"`
}

// Config is the daemon's full configuration.
type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Feed     FeedConfig        `yaml:"feed"`
	Response ResponseConfig    `yaml:"response"`
	Topology TopologyConfig    `yaml:"topology"`
	Policies []response.Policy `yaml:"policies"`
}

// DefaultConfig returns a config with every field at its default.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Feed: FeedConfig{
			ListenAddr:   "tcp://0.0.0.0:7101",
			HistoryLimit: 100,
		},
		Response: ResponseConfig{
			ActionTimeout: Duration{response.DefaultActionTimeout},
			RetryCount:    response.DefaultRetryCount,
		},
	}
}

// Load reads and validates a config file, filling unset fields with
// defaults.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Config{}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	c.Server.Addr = DefaultOr(c.Server.Addr, defaults.Server.Addr)
	c.Server.ShutdownTimeout = DefaultOr(c.Server.ShutdownTimeout, defaults.Server.ShutdownTimeout)
	c.Feed.ListenAddr = DefaultOr(c.Feed.ListenAddr, defaults.Feed.ListenAddr)
	c.Feed.HistoryLimit = DefaultOr(c.Feed.HistoryLimit, defaults.Feed.HistoryLimit)
	c.Response.ActionTimeout = DefaultOr(c.Response.ActionTimeout, defaults.Response.ActionTimeout)
	if c.Response.RetryCount < 0 {
		c.Response.RetryCount = defaults.Response.RetryCount
	}
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	cv := NewConfigValidator("Config").
		Required("server.addr", c.Server.Addr).
		Required("feed.listen_addr", c.Feed.ListenAddr).
		Positive("feed.history_limit", c.Feed.HistoryLimit).
		MinDuration("response.action_timeout", c.Response.ActionTimeout.Duration, time.Millisecond).
		NonNegative("response.retry_count", c.Response.RetryCount)

	for i, node := range c.Topology.Nodes {
		field := fmt.Sprintf("topology.nodes[%d]", i)
		cv.Required(field+".id", node.ID).
			RangeFloat(field+".trust_score", node.TrustScore, 0, 1)
	}
	for i, edge := range c.Topology.Edges {
		field := fmt.Sprintf("topology.edges[%d]", i)
		cv.Required(field+".from", edge.From).
			Required(field+".to", edge.To).
			RangeFloat(field+".trust_weight", edge.TrustWeight, 0, 1)
	}
	for i, policy := range c.Policies {
		field := fmt.Sprintf("policies[%d]", i)
		cv.Required(field+".policy_id", policy.PolicyID).
			Custom(field+".conditions", func() error {
				if len(policy.Conditions) == 0 {
					return fmt.Errorf("policy has no conditions")
				}
				return nil
			}).
			Custom(field+".actions", func() error {
				if len(policy.Actions) == 0 {
					return fmt.Errorf("policy has no actions")
				}
				return nil
			})
	}

	return cv.Validate()
}

// SeedGraph builds a trust graph from the topology section.
func (c Config) SeedGraph() (*graph.Graph, error) {
	g := graph.New()
	for _, node := range c.Topology.Nodes {
		n := &graph.Node{
			ID:            node.ID,
			TrustScore:    node.TrustScore,
			ComponentType: graph.ComponentType(node.ComponentType),
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("failed to seed node %s: %w", node.ID, err)
		}
	}
	for _, edge := range c.Topology.Edges {
		e := &graph.Edge{
			From:             edge.From,
			To:               edge.To,
			RelationshipType: graph.RelationshipType(edge.RelationshipType),
			TrustWeight:      edge.TrustWeight,
			Criticality:      edge.Criticality,
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("failed to seed edge %s->%s: %w", edge.From, edge.To, err)
		}
	}
	return g, nil
}

// SeedPolicies registers the configured policies on the engine.
func (c Config) SeedPolicies(engine *response.Engine) {
	for _, policy := range c.Policies {
		engine.AddPolicy(policy)
	}
}
