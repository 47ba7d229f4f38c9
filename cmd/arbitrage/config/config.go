// Package config loads the arbitrage CLI configuration: built-in defaults, then
// an optional YAML file, then ARB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/defistate/defistate-arb/arbitrage"
	"github.com/defistate/defistate-arb/dataset"
	calculator "github.com/defistate/defistate-arb/protocols/uniswapv2/calculator"
	"github.com/defistate/defistate-arb/selector"
	"github.com/defistate/defistate-arb/subgraph"
)

// EnvPrefix prefixes every environment override, e.g. ARB_ENGINE_WORKERS.
const EnvPrefix = "ARB_"

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // json or text
}

type SubgraphConfig struct {
	// Fetch refreshes the pairs file from the subgraph before detection.
	Fetch      bool          `yaml:"fetch" env:"FETCH"`
	URL        string        `yaml:"url" env:"URL"`
	APIKey     string        `yaml:"api_key" env:"API_KEY"`
	BatchSize  int           `yaml:"batch_size" env:"BATCH_SIZE"`
	MaxPages   int           `yaml:"max_pages" env:"MAX_PAGES"`
	MaxRetries int           `yaml:"max_retries" env:"MAX_RETRIES"`
	Timeout    time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type SelectionConfig struct {
	// Enabled runs the TVL pre-filter and rewrites the tokens file. When off,
	// the tokens file is read as the token universe.
	Enabled      bool   `yaml:"enabled" env:"ENABLED"`
	MinTVL       string `yaml:"min_tvl" env:"MIN_TVL"`
	TargetPools  int    `yaml:"target_pools" env:"TARGET_POOLS"`
	TargetTokens int    `yaml:"target_tokens" env:"TARGET_TOKENS"`
}

type EngineConfig struct {
	FeeRate       float64 `yaml:"fee_rate" env:"FEE_RATE"`
	Tolerance     float64 `yaml:"tolerance" env:"TOLERANCE"`
	UpperBound    float64 `yaml:"upper_bound" env:"UPPER_BOUND"`
	MaxIterations int     `yaml:"max_iterations" env:"MAX_ITERATIONS"`
	Workers       int     `yaml:"workers" env:"WORKERS"`
}

type ReportConfig struct {
	Top int `yaml:"top" env:"TOP"`
	// Unique reports each cycle once, at its most profitable rotation.
	Unique     bool   `yaml:"unique" env:"UNIQUE"`
	OutputFile string `yaml:"output_file" env:"OUTPUT_FILE"`
}

type FilesConfig struct {
	Pairs  string `yaml:"pairs" env:"PAIRS"`
	Tokens string `yaml:"tokens" env:"TOKENS"`
}

// Config is the complete CLI configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Subgraph  SubgraphConfig  `yaml:"subgraph" envPrefix:"SUBGRAPH_"`
	Selection SelectionConfig `yaml:"selection" envPrefix:"SELECTION_"`
	Engine    EngineConfig    `yaml:"engine" envPrefix:"ENGINE_"`
	Report    ReportConfig    `yaml:"report" envPrefix:"REPORT_"`
	Files     FilesConfig     `yaml:"files" envPrefix:"FILES_"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "json"},
		Subgraph: SubgraphConfig{
			BatchSize:  subgraph.DefaultBatchSize,
			MaxRetries: subgraph.DefaultMaxRetries,
			Timeout:    60 * time.Second,
		},
		Selection: SelectionConfig{
			Enabled:      true,
			MinTVL:       selector.DefaultMinTVL.String(),
			TargetPools:  selector.DefaultTargetPools,
			TargetTokens: selector.DefaultTargetTokens,
		},
		Engine: EngineConfig{
			FeeRate:       calculator.DefaultFeeRate,
			Tolerance:     arbitrage.DefaultTolerance,
			UpperBound:    arbitrage.DefaultUpperBound,
			MaxIterations: arbitrage.DefaultMaxIterations,
		},
		Report: ReportConfig{Top: 20, Unique: true},
		Files: FilesConfig{
			Pairs:  dataset.DefaultPairsFile,
			Tokens: dataset.DefaultTokensFile,
		},
	}
}

// LoadConfig builds the configuration from path, which may be empty, and the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Subgraph.Fetch && strings.TrimSpace(c.Subgraph.URL) == "" {
		return errors.New("config: subgraph.url is required when subgraph.fetch is set")
	}
	if _, err := decimal.NewFromString(c.Selection.MinTVL); err != nil {
		return fmt.Errorf("config: invalid selection.min_tvl %q: %w", c.Selection.MinTVL, err)
	}
	if c.Report.Top < 0 {
		return errors.New("config: report.top cannot be negative")
	}
	if c.Files.Pairs == "" || c.Files.Tokens == "" {
		return errors.New("config: files.pairs and files.tokens are required")
	}
	return nil
}

// LogLevel maps the configured level name onto slog.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// SelectorConfig converts the selection section.
func (c *Config) SelectorConfig() selector.Config {
	minTVL, _ := decimal.NewFromString(c.Selection.MinTVL) // checked by validate
	return selector.Config{
		MinTVL:       minTVL,
		TargetPools:  c.Selection.TargetPools,
		TargetTokens: c.Selection.TargetTokens,
	}
}

// ArbitrageConfig converts the engine section.
func (c *Config) ArbitrageConfig(logger arbitrage.Logger, registry prometheus.Registerer) arbitrage.Config {
	return arbitrage.Config{
		FeeRate:       c.Engine.FeeRate,
		Tolerance:     c.Engine.Tolerance,
		UpperBound:    c.Engine.UpperBound,
		MaxIterations: c.Engine.MaxIterations,
		Workers:       c.Engine.Workers,
		Logger:        logger,
		Registry:      registry,
	}
}

// SubgraphClientConfig converts the subgraph section.
func (c *Config) SubgraphClientConfig(logger subgraph.Logger) subgraph.Config {
	cfg := subgraph.Config{
		URL:        c.Subgraph.URL,
		APIKey:     c.Subgraph.APIKey,
		Logger:     logger,
		BatchSize:  c.Subgraph.BatchSize,
		MaxPages:   c.Subgraph.MaxPages,
		MaxRetries: c.Subgraph.MaxRetries,
	}
	if c.Subgraph.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: c.Subgraph.Timeout}
	}
	return cfg
}
