package indexer

import (
	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
)

// pairKey is an unordered token pair.
type pairKey struct {
	a, b string
}

func newPairKey(tokenA, tokenB string) pairKey {
	if tokenA > tokenB {
		tokenA, tokenB = tokenB, tokenA
	}
	return pairKey{a: tokenA, b: tokenB}
}

// IndexableUniswapV2System provides fast, indexed access to Uniswap V2 pool data.
// Only the first pool seen for a token pair is reachable through GetByPair.
type IndexableUniswapV2System struct {
	byID   map[string]uniswapv2.Pool
	byPair map[pairKey]uniswapv2.Pool
	all    []uniswapv2.Pool
}

// NewIndexableUniswapV2System creates a new indexed Uniswap V2 system.
func NewIndexableUniswapV2System(pools []uniswapv2.Pool) *IndexableUniswapV2System {
	byID := make(map[string]uniswapv2.Pool, len(pools))
	byPair := make(map[pairKey]uniswapv2.Pool, len(pools))

	for _, p := range pools {
		byID[p.ID] = p
		key := newPairKey(p.Token0, p.Token1)
		if _, exists := byPair[key]; !exists {
			byPair[key] = p
		}
	}

	return &IndexableUniswapV2System{
		byID:   byID,
		byPair: byPair,
		all:    pools,
	}
}

// GetByID retrieves a pool by its unique ID.
func (ius *IndexableUniswapV2System) GetByID(id string) (uniswapv2.Pool, bool) {
	p, ok := ius.byID[id]
	return p, ok
}

// GetByPair retrieves the pool trading tokenA against tokenB, in either order.
func (ius *IndexableUniswapV2System) GetByPair(tokenA, tokenB string) (uniswapv2.Pool, bool) {
	p, ok := ius.byPair[newPairKey(tokenA, tokenB)]
	return p, ok
}

// All returns a defensive copy of the slice of all pools.
func (ius *IndexableUniswapV2System) All() []uniswapv2.Pool {
	allCopy := make([]uniswapv2.Pool, len(ius.all))
	copy(allCopy, ius.all)
	return allCopy
}
