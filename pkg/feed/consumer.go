package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/sangeeta1998/lanc/pkg/graph"
	"github.com/sangeeta1998/lanc/pkg/logging"
	"github.com/sangeeta1998/lanc/pkg/metrics"
	"github.com/sangeeta1998/lanc/pkg/response"
)

// DefaultHistoryLimit bounds the per-component trust history.
const DefaultHistoryLimit = 100

// Consumer applies trust updates to the graph, keeps a bounded trust
// history per component, raises threshold alerts, and hands each update
// to the response engine for policy evaluation.
type Consumer struct {
	graph  *graph.Graph
	engine *response.Engine
	logger logging.Logger

	historyLimit int
	history      map[string][]TrustSample
	historyMu    sync.RWMutex

	metrics *metrics.Registry
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithHistoryLimit sets the per-component history bound.
func WithHistoryLimit(limit int) ConsumerOption {
	return func(c *Consumer) {
		if limit > 0 {
			c.historyLimit = limit
		}
	}
}

// WithConsumerLogger sets the consumer's logger.
func WithConsumerLogger(logger logging.Logger) ConsumerOption {
	return func(c *Consumer) { c.logger = logger }
}

// WithConsumerMetrics sets the consumer's metrics registry.
func WithConsumerMetrics(registry *metrics.Registry) ConsumerOption {
	return func(c *Consumer) { c.metrics = registry }
}

// NewConsumer creates a consumer over the given graph and response
// engine.
func NewConsumer(g *graph.Graph, engine *response.Engine, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		graph:        g,
		engine:       engine,
		logger:       logging.NewNopLogger(),
		historyLimit: DefaultHistoryLimit,
		history:      make(map[string][]TrustSample),
		metrics:      metrics.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes updates from the subscription until the context ends or
// the subscription closes.
func (c *Consumer) Run(ctx context.Context, sub *Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-sub.Updates():
			if !ok {
				return
			}
			c.Process(ctx, update)
		}
	}
}

// Process applies one update: graph score, history, health alerts, then
// policy evaluation.
func (c *Consumer) Process(ctx context.Context, update Update) {
	if err := c.graph.UpdateTrustScore(update.ComponentID, update.TrustScore); err != nil {
		c.metrics.RecordFeedUpdate("unknown_component")
		c.logger.Warn("trust update for unknown component",
			logging.ComponentID(update.ComponentID),
			logging.Error(err),
		)
		return
	}
	c.metrics.RecordFeedUpdate("applied")

	health := c.appendHistory(update)
	c.raiseHealthAlerts(update, health)

	fired := c.engine.ProcessTrustUpdate(ctx, trustContextFor(update))
	c.logger.Debug("trust update processed",
		logging.ComponentID(update.ComponentID),
		logging.TrustScore(update.TrustScore),
		logging.String("health", string(health)),
		logging.Int("policies_fired", len(fired)),
	)
}

// History returns a copy of the component's trust history, oldest
// first.
func (c *Consumer) History(componentID string) []TrustSample {
	c.historyMu.RLock()
	defer c.historyMu.RUnlock()
	return append([]TrustSample(nil), c.history[componentID]...)
}

// HealthStatus returns the component's current health band from its
// most recent sample.
func (c *Consumer) HealthStatus(componentID string) (HealthStatus, bool) {
	c.historyMu.RLock()
	defer c.historyMu.RUnlock()

	samples := c.history[componentID]
	if len(samples) == 0 {
		return "", false
	}
	return samples[len(samples)-1].Health, true
}

func (c *Consumer) appendHistory(update Update) HealthStatus {
	health := HealthFor(update.TrustScore)
	sample := TrustSample{
		TrustScore: update.TrustScore,
		Health:     health,
		Timestamp:  update.Timestamp,
	}

	c.historyMu.Lock()
	samples := append(c.history[update.ComponentID], sample)
	if len(samples) > c.historyLimit {
		samples = samples[len(samples)-c.historyLimit:]
	}
	c.history[update.ComponentID] = samples
	c.historyMu.Unlock()

	return health
}

func (c *Consumer) raiseHealthAlerts(update Update, health HealthStatus) {
	alerts := c.engine.Alerts()
	switch health {
	case HealthCritical:
		alerts.Raise(update.ComponentID, response.AlertTrustCritical, response.SeverityCritical,
			fmt.Sprintf("trust score %.2f below critical threshold", update.TrustScore))
	case HealthWarning:
		alerts.Raise(update.ComponentID, response.AlertTrustDegradation, response.SeverityMedium,
			fmt.Sprintf("trust score %.2f below healthy threshold", update.TrustScore))
	}
}

func trustContextFor(update Update) response.TrustContext {
	events := make([]response.SecurityEvent, 0, len(update.SecurityEvents))
	for _, event := range update.SecurityEvents {
		events = append(events, response.SecurityEvent{
			EventType:   event.EventType,
			Severity:    event.Severity,
			Source:      event.Source,
			Description: event.Description,
			Timestamp:   update.Timestamp,
		})
	}
	return response.TrustContext{
		ComponentID:           update.ComponentID,
		TrustScore:            update.TrustScore,
		SecurityEvents:        events,
		PerformanceMetrics:    update.PerformanceMetrics,
		FailedDependencies:    update.FailedDependencies,
		CommunicationFailures: update.CommunicationFailures,
		Timestamp:             update.Timestamp,
	}
}
