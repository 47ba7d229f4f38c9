package arbitrage

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/defistate/defistate-arb/protocols/tokenregistry"
	tokenindexer "github.com/defistate/defistate-arb/protocols/tokenregistry/indexer"
	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
	poolindexer "github.com/defistate/defistate-arb/protocols/uniswapv2/indexer"
)

// Engine runs the full detection pipeline: rate graph, line graph, per-source
// cycle detection, trade sizing and collection.
type Engine struct {
	cfg     Config
	logger  Logger
	metrics *Metrics
}

// NewEngine constructs an engine from cfg, returning an error if the config is invalid.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		cfg:     cfg,
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.Registry),
	}, nil
}

// Run searches the pools in pairs whose tokens both belong to tokens for
// profitable cycles. Malformed pools and cycles over missing pairs are logged
// and skipped. The returned error is non-nil only when ctx is cancelled.
func (e *Engine) Run(ctx context.Context, tokens []tokenregistry.Token, pairs []uniswapv2.Pair) (*Collector, error) {
	timer := prometheus.NewTimer(e.metrics.runDuration)
	defer timer.ObserveDuration()

	universe := tokenindexer.NewIndexableTokenSystem(tokens)
	rate := BuildRateGraph(universe, pairs, e.cfg.FeeRate, e.logger)
	e.metrics.poolsSkipped.Add(float64(len(rate.Skipped)))

	line := BuildLineGraph(rate.Graph)
	e.logger.Info("Graphs built",
		"tokens", rate.NodeCount(),
		"pools", len(rate.Pools),
		"skipped", len(rate.Skipped),
		"lineNodes", line.NodeCount(),
		"lineEdges", line.EdgeCount(),
	)

	detector := NewDetector(line)
	optimizer := NewOptimizer(poolindexer.NewIndexableUniswapV2System(rate.Pools), e.cfg)
	collector := NewCollector()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for source := 0; source < line.NodeCount(); source++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return e.runSource(gctx, detector, optimizer, collector, source)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("arbitrage run: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("arbitrage run: %w", err)
	}

	e.metrics.opportunities.Set(float64(collector.Len()))
	e.logger.Info("Detection finished", "opportunities", collector.Len(), "sources", line.NodeCount())
	return collector, nil
}

// runSource detects the cycles reachable from one line-graph node and sizes each of them.
func (e *Engine) runSource(ctx context.Context, detector *Detector, optimizer *Optimizer, collector *Collector, source int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cycles := detector.DetectFrom(source)
	seen := make(map[string]struct{}, len(cycles))
	for _, cycle := range cycles {
		e.metrics.cyclesDetected.Inc()
		if cycle.Degenerate {
			e.metrics.cyclesDegenerate.Inc()
			e.logger.Debug("Degenerate cycle reconstructed", "source", cycle.Source, "cycle", cycle.String())
		}

		// Several still-relaxable edges often close the same walk.
		walk := strings.Join(cycle.Nodes, ",")
		if _, ok := seen[walk]; ok {
			continue
		}
		seen[walk] = struct{}{}

		opp, err := optimizer.Optimize(cycle)
		if err != nil {
			reason := "simulation"
			if errors.Is(err, ErrPairNotFound) {
				reason = "pair_not_found"
			}
			e.metrics.cyclesDropped.WithLabelValues(reason).Inc()
			e.logger.Warn("Dropping cycle", "source", cycle.Source, "cycle", cycle.String(), "reason", reason, "error", err)
			continue
		}
		collector.Add(opp)
	}
	return nil
}
