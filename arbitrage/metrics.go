package arbitrage

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	poolsSkipped     prometheus.Counter
	cyclesDetected   prometheus.Counter
	cyclesDegenerate prometheus.Counter
	cyclesDropped    *prometheus.CounterVec
	opportunities    prometheus.Gauge
	runDuration      prometheus.Histogram
}

// NewMetrics creates the engine collectors and registers them with reg. When a
// collector is already registered, for instance by an earlier engine sharing the
// registry, the existing one is reused.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		poolsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arbitrage",
			Name:      "pools_skipped_total",
			Help:      "Pools dropped because their data could not be parsed.",
		}),
		cyclesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arbitrage",
			Name:      "cycles_detected_total",
			Help:      "Negative cycles reported by the detector, across all sources.",
		}),
		cyclesDegenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arbitrage",
			Name:      "cycles_degenerate_total",
			Help:      "Detected cycles whose predecessor walk did not close.",
		}),
		cyclesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arbitrage",
			Name:      "cycles_dropped_total",
			Help:      "Detected cycles that could not be optimized, by reason.",
		}, []string{"reason"}),
		opportunities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "arbitrage",
			Name:      "opportunities",
			Help:      "Profitable opportunities found by the last run.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arbitrage",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full detection run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
	}

	m.poolsSkipped = register(reg, m.poolsSkipped)
	m.cyclesDetected = register(reg, m.cyclesDetected)
	m.cyclesDegenerate = register(reg, m.cyclesDegenerate)
	m.cyclesDropped = register(reg, m.cyclesDropped)
	m.opportunities = register(reg, m.opportunities)
	m.runDuration = register(reg, m.runDuration)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
