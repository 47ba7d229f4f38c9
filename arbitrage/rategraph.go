package arbitrage

import (
	"errors"
	"math"
	"strings"

	"github.com/defistate/defistate-arb/graph"
	"github.com/defistate/defistate-arb/protocols/tokenregistry"
	tokenindexer "github.com/defistate/defistate-arb/protocols/tokenregistry/indexer"
	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
)

// EdgeWeight converts a spot price into a rate-graph weight, -ln((1-fee)*price).
// A non-positive price yields +Inf, an edge that never relaxes.
func EdgeWeight(price, feeRate float64) float64 {
	rate := (1 - feeRate) * price
	if rate <= 0 || math.IsNaN(rate) {
		return math.Inf(1)
	}
	return -math.Log(rate)
}

// RateGraph is the token-level exchange-rate graph and the pools backing its edges.
type RateGraph struct {
	*graph.Graph
	// Pools holds one parsed pool per connected token pair, in dataset order.
	Pools []uniswapv2.Pool
	// Skipped holds a *uniswapv2.DataFormatError for every malformed pool.
	Skipped []error
}

// BuildRateGraph builds the rate graph over universe from raw pair records.
//
// Every universe token becomes a node. A pool whose tokens are both in the
// universe contributes an edge in each direction. Pools reaching outside the
// universe are ignored before parsing; malformed pools inside it are recorded
// in Skipped. When two pools trade the same pair the first one wins.
func BuildRateGraph(
	universe tokenindexer.IndexedTokenSystem,
	pairs []uniswapv2.Pair,
	feeRate float64,
	logger Logger,
) *RateGraph {
	rg := &RateGraph{Graph: graph.New()}

	for _, id := range universe.IDs() {
		if strings.Contains(id, lineNodeSeparator) {
			logger.Warn("Token id contains the line node separator, excluding it", "token", id)
			continue
		}
		rg.AddNode(id)
	}

	for _, pair := range pairs {
		token0 := tokenregistry.NormalizeID(pair.Token0.ID)
		token1 := tokenregistry.NormalizeID(pair.Token1.ID)
		if !rg.HasNode(token0) || !rg.HasNode(token1) {
			logger.Debug("Ignoring pool outside the token universe", "pool", pair.ID)
			continue
		}

		pool, err := uniswapv2.ParsePool(pair)
		if err != nil {
			var dfe *uniswapv2.DataFormatError
			if !errors.As(err, &dfe) {
				dfe = &uniswapv2.DataFormatError{PoolID: pair.ID, Err: err}
			}
			logger.Warn("Skipping malformed pool", "pool", pair.ID, "field", dfe.Field, "error", err)
			rg.Skipped = append(rg.Skipped, dfe)
			continue
		}
		if rg.HasEdge(pool.Token0, pool.Token1) {
			logger.Debug("Ignoring duplicate pool for pair", "pool", pool.ID, "token0", pool.Token0, "token1", pool.Token1)
			continue
		}

		forward, _ := pool.Price(pool.Token0, pool.Token1)
		backward, _ := pool.Price(pool.Token1, pool.Token0)
		rg.AddEdge(pool.Token0, pool.Token1, EdgeWeight(forward, feeRate))
		rg.AddEdge(pool.Token1, pool.Token0, EdgeWeight(backward, feeRate))
		rg.Pools = append(rg.Pools, pool)
	}

	if len(rg.Pools) == 0 {
		logger.Info("Rate graph has no edges", "tokens", rg.NodeCount(), "pairs", len(pairs), "skipped", len(rg.Skipped))
	}

	return rg
}
