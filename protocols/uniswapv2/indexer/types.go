package indexer

import uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"

// IndexedUniswapV2 defines the methods for accessing indexed Uniswap V2 pool data.
type IndexedUniswapV2 interface {
	GetByID(id string) (uniswapv2.Pool, bool)
	GetByPair(tokenA, tokenB string) (uniswapv2.Pool, bool)
	All() []uniswapv2.Pool
}
