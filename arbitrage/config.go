package arbitrage

import (
	"errors"
	"log/slog"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	calculator "github.com/defistate/defistate-arb/protocols/uniswapv2/calculator"
)

const (
	DefaultTolerance     = 1e-8
	DefaultUpperBound    = 1e20
	DefaultMaxIterations = 500
)

// Config holds the tunables and dependencies of the arbitrage engine.
type Config struct {
	// FeeRate is the per-swap fee, applied both to edge weights and to simulated swaps.
	FeeRate float64
	// Tolerance stops the input search once the bracket is narrower than this.
	Tolerance float64
	// UpperBound is the largest input the search considers.
	UpperBound float64
	// MaxIterations caps every search loop.
	MaxIterations int
	// Workers bounds concurrent detection tasks. Zero means GOMAXPROCS.
	Workers int

	Logger   Logger
	Registry prometheus.Registerer
}

// DefaultConfig returns a Config with the default tunables, the default slog
// logger and a private metrics registry.
func DefaultConfig() Config {
	return Config{
		FeeRate:       calculator.DefaultFeeRate,
		Tolerance:     DefaultTolerance,
		UpperBound:    DefaultUpperBound,
		MaxIterations: DefaultMaxIterations,
		Logger:        slog.Default(),
		Registry:      prometheus.NewRegistry(),
	}
}

func (c *Config) validate() error {
	if c.FeeRate < 0 || c.FeeRate >= 1 || math.IsNaN(c.FeeRate) {
		return errors.New("config: FeeRate must be in [0, 1)")
	}
	if !(c.Tolerance > 0) {
		return errors.New("config: Tolerance must be positive")
	}
	if !(c.UpperBound > 0) || math.IsInf(c.UpperBound, 1) {
		return errors.New("config: UpperBound must be positive and finite")
	}
	if c.MaxIterations <= 0 {
		return errors.New("config: MaxIterations must be positive")
	}
	if c.Workers < 0 {
		return errors.New("config: Workers cannot be negative")
	}
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	return nil
}
