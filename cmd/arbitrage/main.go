package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/defistate/defistate-arb/arbitrage"
	"github.com/defistate/defistate-arb/cmd/arbitrage/config"
	"github.com/defistate/defistate-arb/dataset"
	"github.com/defistate/defistate-arb/protocols/tokenregistry"
	tokenindexer "github.com/defistate/defistate-arb/protocols/tokenregistry/indexer"
	"github.com/defistate/defistate-arb/selector"
	"github.com/defistate/defistate-arb/subgraph"
)

func main() {
	rootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	close := func() {
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		rootLogger.Error("Failed to load configuration", "error", err)
		close()
	}
	rootLogger = newLogger(cfg)
	prometheusRegistry := prometheus.DefaultRegisterer

	// Create a context that cancels when the OS sends an interrupt (Ctrl+C) or termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Subgraph.Fetch {
		if err := fetchPairs(ctx, cfg, rootLogger.With("component", "subgraph")); err != nil {
			rootLogger.Error("Failed to fetch pairs", "error", err)
			close()
		}
	}

	pairs, err := dataset.LoadPairs(cfg.Files.Pairs)
	if err != nil {
		rootLogger.Error("Failed to load pairs", "path", cfg.Files.Pairs, "error", err)
		close()
	}
	rootLogger.Info("Loaded pairs", "path", cfg.Files.Pairs, "count", len(pairs))

	tokens, loadErr := dataset.LoadTokens(cfg.Files.Tokens)
	if cfg.Selection.Enabled {
		sel, err := selector.Select(pairs, cfg.SelectorConfig())
		if err != nil {
			rootLogger.Error("Failed to select pools", "error", err)
			close()
		}
		if loadErr == nil {
			diff := tokenregistry.Differ(tokens, sel.Tokens)
			rootLogger.Info("Token universe changed since last selection",
				"added", len(diff.Additions),
				"updated", len(diff.Updates),
				"removed", len(diff.Deletions),
			)
		}
		if err := dataset.SaveTokens(cfg.Files.Tokens, sel.Tokens); err != nil {
			rootLogger.Error("Failed to save selected tokens", "path", cfg.Files.Tokens, "error", err)
			close()
		}
		rootLogger.Info("Selected tokens", "tokens", len(sel.Tokens), "pools", len(sel.Pairs), "unparsable", sel.Skipped)
		tokens = sel.Tokens
	} else if loadErr != nil {
		rootLogger.Error("Failed to load tokens", "path", cfg.Files.Tokens, "error", loadErr)
		close()
	}

	engine, err := arbitrage.NewEngine(cfg.ArbitrageConfig(rootLogger.With("component", "arbitrage"), prometheusRegistry))
	if err != nil {
		rootLogger.Error("Failed to initialize engine", "error", err)
		close()
	}

	collector, err := engine.Run(ctx, tokens, pairs)
	if err != nil {
		rootLogger.Error("Detection aborted", "error", err)
		close()
	}

	opportunities, total := collector.Select(cfg.Report.Top, cfg.Report.Unique)

	if cfg.Report.OutputFile != "" {
		if err := dataset.Save(cfg.Report.OutputFile, opportunities); err != nil {
			rootLogger.Error("Failed to write report", "path", cfg.Report.OutputFile, "error", err)
			close()
		}
	}

	printReport(os.Stdout, tokenindexer.NewIndexableTokenSystem(tokens), opportunities, total)
}

func fetchPairs(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := subgraph.NewClient(cfg.SubgraphClientConfig(logger))
	if err != nil {
		return err
	}
	pairs, err := client.FetchAllPairs(ctx)
	if err != nil {
		return err
	}
	return dataset.SavePairs(cfg.Files.Pairs, pairs)
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.LogLevel() // checked by LoadConfig
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func loadConfig() (*config.Config, error) {
	configPath := flag.String("config", "", "Path to the configuration file. Defaults and ARB_* environment variables apply without one.")
	flag.Parse()
	if *configPath != "" {
		log.Printf("Loading configuration from: %s", *configPath)
	}
	return config.LoadConfig(*configPath)
}
