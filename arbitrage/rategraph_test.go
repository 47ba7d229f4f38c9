package arbitrage

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenindexer "github.com/defistate/defistate-arb/protocols/tokenregistry/indexer"
	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
)

func TestEdgeWeight(t *testing.T) {
	testCases := []struct {
		name     string
		price    float64
		fee      float64
		expected float64
	}{
		{name: "Unit Price Without Fee", price: 1, fee: 0, expected: 0},
		{name: "Price Two With Fee", price: 2, fee: 0.003, expected: -math.Log(0.997 * 2)},
		{name: "Price Below One", price: 0.5, fee: 0.003, expected: -math.Log(0.997 * 0.5)},
		{name: "Zero Price", price: 0, fee: 0.003, expected: math.Inf(1)},
		{name: "Negative Price", price: -1, fee: 0.003, expected: math.Inf(1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EdgeWeight(tc.price, tc.fee))
		})
	}
}

func TestBuildRateGraph(t *testing.T) {
	t.Run("BuildsBothDirections", func(t *testing.T) {
		tokens, pairs := triangle()
		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(tokens), pairs, 0.003, discardLogger())

		assert.Equal(t, []string{"a", "b", "c"}, rate.Nodes())
		assert.Equal(t, 6, rate.EdgeCount())
		assert.Len(t, rate.Pools, 3)
		assert.Empty(t, rate.Skipped)

		w, ok := rate.Weight("a", "b")
		require.True(t, ok)
		assert.InDelta(t, -math.Log(0.997*2), w, 1e-12)

		w, ok = rate.Weight("b", "a")
		require.True(t, ok)
		assert.InDelta(t, -math.Log(0.997*0.5), w, 1e-12)
	})

	t.Run("SkipsMalformedPools", func(t *testing.T) {
		tokens, pairs := triangle()
		bad := newTestPair("a", "c", 10, 10)
		bad.ID = "bad"
		bad.Reserve0 = "not-a-number"
		pairs = append([]uniswapv2.Pair{bad}, pairs...)

		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(tokens), pairs, 0.003, discardLogger())

		require.Len(t, rate.Skipped, 1)
		assert.True(t, errors.Is(rate.Skipped[0], uniswapv2.ErrDataFormat))

		var dfe *uniswapv2.DataFormatError
		require.True(t, errors.As(rate.Skipped[0], &dfe))
		assert.Equal(t, "bad", dfe.PoolID)
		assert.Equal(t, "reserve0", dfe.Field)

		// The malformed pool did not claim the a-c pair; the valid one did.
		assert.Len(t, rate.Pools, 3)
		assert.Equal(t, 6, rate.EdgeCount())
	})

	t.Run("IgnoresPoolsOutsideUniverse", func(t *testing.T) {
		_, pairs := triangle()
		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(newTestTokens("a", "b")), pairs, 0.003, discardLogger())

		assert.Equal(t, 2, rate.NodeCount())
		assert.Equal(t, 2, rate.EdgeCount())
		require.Len(t, rate.Pools, 1)
		assert.Equal(t, "pool-ab", rate.Pools[0].ID)
	})

	t.Run("IgnoresMalformedPoolsOutsideUniverse", func(t *testing.T) {
		tokens, pairs := triangle()
		outside := newTestPair("a", "z", 10, 10)
		outside.ID = "outside"
		outside.Reserve0 = "not-a-number"
		unknown := newTestPair("y", "z", 10, 10)
		unknown.ID = "unknown"
		unknown.Token0Price = "-1"
		pairs = append(pairs, outside, unknown)

		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(tokens), pairs, 0.003, discardLogger())

		assert.Empty(t, rate.Skipped)
		assert.Len(t, rate.Pools, 3)
	})

	t.Run("MatchesUniverseOnNormalizedIDs", func(t *testing.T) {
		pair := newTestPair(" A ", "B", 1000, 2000)
		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(newTestTokens("a", "b")),
			[]uniswapv2.Pair{pair}, 0.003, discardLogger())

		require.Len(t, rate.Pools, 1)
		assert.Equal(t, "a", rate.Pools[0].Token0)
		assert.True(t, rate.HasEdge("a", "b"))
	})

	t.Run("WeighsEachDirectionByItsQuotedPrice", func(t *testing.T) {
		// Quoted prices need not be reciprocal; each direction uses its own.
		pair := newTestPair("a", "b", 1000, 2000)
		pair.Token0Price = "0.4"
		pair.Token1Price = "3"

		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(newTestTokens("a", "b")),
			[]uniswapv2.Pair{pair}, 0.003, discardLogger())

		w, ok := rate.Weight("a", "b")
		require.True(t, ok)
		assert.InDelta(t, -math.Log(0.997*3), w, 1e-12)

		w, ok = rate.Weight("b", "a")
		require.True(t, ok)
		assert.InDelta(t, -math.Log(0.997*0.4), w, 1e-12)
	})

	t.Run("FirstPoolWinsForDuplicatePair", func(t *testing.T) {
		first := newTestPair("a", "b", 1000, 2000)
		second := newTestPair("b", "a", 500, 500)
		second.ID = "second"

		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(newTestTokens("a", "b")),
			[]uniswapv2.Pair{first, second}, 0.003, discardLogger())

		require.Len(t, rate.Pools, 1)
		assert.Equal(t, "pool-ab", rate.Pools[0].ID)
		w, _ := rate.Weight("a", "b")
		assert.InDelta(t, -math.Log(0.997*2), w, 1e-12)
	})

	t.Run("ExcludesTokensContainingSeparator", func(t *testing.T) {
		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(newTestTokens("a", "b-x")),
			[]uniswapv2.Pair{newTestPair("a", "b-x", 10, 10)}, 0.003, discardLogger())

		assert.Equal(t, []string{"a"}, rate.Nodes())
		assert.Empty(t, rate.Pools)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		rate := BuildRateGraph(tokenindexer.NewIndexableTokenSystem(nil), nil, 0.003, discardLogger())
		assert.Equal(t, 0, rate.NodeCount())
		assert.Equal(t, 0, rate.EdgeCount())
	})
}
