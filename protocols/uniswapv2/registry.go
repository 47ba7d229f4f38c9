package uniswapv2

import (
	tokenregistry "github.com/defistate/defistate-arb/protocols/tokenregistry"
)

// Pair is a raw Uniswap V2 pair record as served by the subgraph and persisted in
// the pair dataset. Numeric fields are decimal strings and are only interpreted by ParsePool.
type Pair struct {
	ID          string              `json:"id"`
	Token0      tokenregistry.Token `json:"token0"`
	Token1      tokenregistry.Token `json:"token1"`
	Reserve0    string              `json:"reserve0"`
	Reserve1    string              `json:"reserve1"`
	ReserveUSD  string              `json:"reserveUSD,omitempty"`
	Token0Price string              `json:"token0Price"`
	Token1Price string              `json:"token1Price"`
}

// Pool is a parsed constant-product pool snapshot.
// Token0Price is the amount of token0 quoted for one token1 (reserve0/reserve1 on
// the subgraph), and Token1Price the converse.
type Pool struct {
	ID          string
	Token0      string
	Token1      string
	Reserve0    float64
	Reserve1    float64
	Token0Price float64
	Token1Price float64
	ReserveUSD  float64
}

// Contains reports whether the pool trades the given token.
func (p Pool) Contains(tokenID string) bool {
	return p.Token0 == tokenID || p.Token1 == tokenID
}

// Price returns the spot rate for swapping tokenIn into tokenOut.
// A swap token0 -> token1 is priced with Token1Price and token1 -> token0 with Token0Price.
func (p Pool) Price(tokenIn, tokenOut string) (float64, bool) {
	switch {
	case tokenIn == p.Token0 && tokenOut == p.Token1:
		return p.Token1Price, true
	case tokenIn == p.Token1 && tokenOut == p.Token0:
		return p.Token0Price, true
	}
	return 0, false
}
