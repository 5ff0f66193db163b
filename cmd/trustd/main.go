// trustd is the trust propagation and automated response daemon. It
// seeds a trust graph from config, consumes trust updates off the feed,
// evaluates response policies, and serves the reporting API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sangeeta1998/lanc/pkg/api"
	"github.com/sangeeta1998/lanc/pkg/composition"
	"github.com/sangeeta1998/lanc/pkg/config"
	"github.com/sangeeta1998/lanc/pkg/feed"
	"github.com/sangeeta1998/lanc/pkg/logging"
	"github.com/sangeeta1998/lanc/pkg/metrics"
	"github.com/sangeeta1998/lanc/pkg/propagation"
	"github.com/sangeeta1998/lanc/pkg/response"
	"github.com/sangeeta1998/lanc/pkg/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trustd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	feedAddr := flag.String("feed-addr", "", "feed listen address (overrides config)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *feedAddr != "" {
		cfg.Feed.ListenAddr = *feedAddr
	}

	logger := logging.NewDefaultLogger()
	registry := metrics.DefaultRegistry()

	g, err := cfg.SeedGraph()
	if err != nil {
		return err
	}
	seedStats := g.GetStatistics()
	registry.UpdateGraphSize(seedStats.NodeCount, seedStats.EdgeCount)
	logger.Info("trust graph seeded",
		logging.Int("nodes", seedStats.NodeCount),
		logging.Int("edges", seedStats.EdgeCount),
	)

	composer := composition.NewEngine(g, propagation.DefaultRegistry(),
		composition.WithLogger(logger),
		composition.WithMetrics(registry),
	)

	responder := response.NewEngine(
		response.WithLogger(logger),
		response.WithMetrics(registry),
		response.WithActionTimeout(cfg.Response.ActionTimeout.Duration),
		response.WithRetryCount(cfg.Response.RetryCount),
	)
	cfg.SeedPolicies(responder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := feed.NewBus()
	defer bus.Shutdown()

	consumer := feed.NewConsumer(g, responder,
		feed.WithConsumerLogger(logger),
		feed.WithConsumerMetrics(registry),
		feed.WithHistoryLimit(cfg.Feed.HistoryLimit),
	)
	go consumer.Run(ctx, bus.Subscribe(ctx))

	listener := feed.NewListener(cfg.Feed.ListenAddr, bus, logger)
	if err := listener.Start(); err != nil {
		return err
	}
	defer listener.Stop()

	apiServer := api.NewServer(composer, responder, consumer,
		api.WithLogger(logger),
		api.WithMetrics(registry),
	)

	gs := server.NewGracefulServer(cfg.Server.Addr, apiServer.Handler(), logger)
	return gs.Start(cfg.Server.ShutdownTimeout.Duration)
}
