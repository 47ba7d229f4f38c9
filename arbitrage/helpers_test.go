package arbitrage

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/defistate/defistate-arb/protocols/tokenregistry"
	tokenindexer "github.com/defistate/defistate-arb/protocols/tokenregistry/indexer"
	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
	poolindexer "github.com/defistate/defistate-arb/protocols/uniswapv2/indexer"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Logger = discardLogger()
	cfg.Registry = prometheus.NewRegistry()
	return cfg
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// newTestPair builds a pair record quoting subgraph-style spot prices from its reserves.
func newTestPair(token0, token1 string, reserve0, reserve1 float64) uniswapv2.Pair {
	p := uniswapv2.Pair{
		ID:         "pool-" + token0 + token1,
		Token0:     tokenregistry.Token{ID: token0, Symbol: token0},
		Token1:     tokenregistry.Token{ID: token1, Symbol: token1},
		Reserve0:   formatAmount(reserve0),
		Reserve1:   formatAmount(reserve1),
		ReserveUSD: "100000",
	}
	if reserve0 > 0 && reserve1 > 0 {
		p.Token0Price = formatAmount(reserve0 / reserve1)
		p.Token1Price = formatAmount(reserve1 / reserve0)
	} else {
		p.Token0Price, p.Token1Price = "0", "0"
	}
	return p
}

func newTestTokens(ids ...string) []tokenregistry.Token {
	tokens := make([]tokenregistry.Token, len(ids))
	for i, id := range ids {
		tokens[i] = tokenregistry.Token{ID: id, Symbol: id}
	}
	return tokens
}

// triangle is the three-pool market A-B 1000/2000, B-C 1000/500, C-A 2000/1000.
// Trading a -> c -> b -> a returns about 1.98 times the input at the margin.
func triangle() ([]tokenregistry.Token, []uniswapv2.Pair) {
	return newTestTokens("a", "b", "c"), []uniswapv2.Pair{
		newTestPair("a", "b", 1000, 2000),
		newTestPair("b", "c", 1000, 500),
		newTestPair("c", "a", 2000, 1000),
	}
}

// balancedTriangle has consistent prices, so no cycle beats the fees.
func balancedTriangle() ([]tokenregistry.Token, []uniswapv2.Pair) {
	return newTestTokens("a", "b", "c"), []uniswapv2.Pair{
		newTestPair("a", "b", 1000, 2000),
		newTestPair("b", "c", 2000, 4000),
		newTestPair("c", "a", 4000, 1000),
	}
}

func buildTestGraphs(tokens []tokenregistry.Token, pairs []uniswapv2.Pair, feeRate float64) (*RateGraph, *Detector, *Optimizer) {
	cfg := testConfig()
	cfg.FeeRate = feeRate
	rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(tokens), pairs, feeRate, cfg.Logger)
	detector := NewDetector(BuildLineGraph(rate.Graph))
	optimizer := NewOptimizer(poolindexer.NewIndexableUniswapV2System(rate.Pools), cfg)
	return rate, detector, optimizer
}

// profitableCycle is the rotation-independent key of a -> c -> b -> a.
var profitableCycle = cycleKey([]string{"a-c", "c-b", "b-a"})
