package selector

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/defistate-arb/protocols/tokenregistry"
	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
)

func newPair(id, token0, token1, reserveUSD string) uniswapv2.Pair {
	return uniswapv2.Pair{
		ID:         id,
		Token0:     tokenregistry.Token{ID: token0, Symbol: token0},
		Token1:     tokenregistry.Token{ID: token1, Symbol: token1},
		ReserveUSD: reserveUSD,
	}
}

func pairIDs(pairs []uniswapv2.Pair) []string {
	ids := make([]string, len(pairs))
	for i, p := range pairs {
		ids[i] = p.ID
	}
	return ids
}

func tokenIDs(tokens []tokenregistry.Token) []string {
	ids := make([]string, len(tokens))
	for i, t := range tokens {
		ids[i] = t.ID
	}
	return ids
}

func TestSelect(t *testing.T) {
	pairs := []uniswapv2.Pair{
		newPair("p1", "a", "b", "50000"),
		newPair("p2", "b", "c", "19999.99"),
		newPair("p3", "c", "d", "120000.5"),
		newPair("p4", "a", "c", "20000"),
		newPair("p5", "d", "e", "not-a-number"),
		newPair("p6", "e", "f", "75000"),
	}

	testCases := []struct {
		name           string
		cfg            Config
		expectedPairs  []string
		expectedTokens []string
	}{
		{
			name:           "Defaults",
			cfg:            DefaultConfig(),
			expectedPairs:  []string{"p3", "p6", "p1", "p4"},
			expectedTokens: []string{"c", "d", "e", "f", "a", "b"},
		},
		{
			name:           "Pool Cap",
			cfg:            Config{MinTVL: DefaultMinTVL, TargetPools: 2, TargetTokens: 100},
			expectedPairs:  []string{"p3", "p6"},
			expectedTokens: []string{"c", "d", "e", "f"},
		},
		{
			name:           "Token Cap Drops Lowest Pools",
			cfg:            Config{MinTVL: DefaultMinTVL, TargetPools: 100, TargetTokens: 3},
			expectedPairs:  []string{"p3"},
			expectedTokens: []string{"c", "d"},
		},
		{
			name:           "Higher Floor",
			cfg:            Config{MinTVL: decimal.NewFromInt(60000), TargetPools: 100, TargetTokens: 100},
			expectedPairs:  []string{"p3", "p6"},
			expectedTokens: []string{"c", "d", "e", "f"},
		},
		{
			name:           "Zero Floor Keeps Low Pools",
			cfg:            Config{MinTVL: decimal.Zero, TargetPools: 100, TargetTokens: 100},
			expectedPairs:  []string{"p3", "p6", "p1", "p4", "p2"},
			expectedTokens: []string{"c", "d", "e", "f", "a", "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := Select(pairs, tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedPairs, pairIDs(sel.Pairs))
			assert.Equal(t, tc.expectedTokens, tokenIDs(sel.Tokens))
			assert.Equal(t, 1, sel.Skipped)
		})
	}
}

func TestSelectTieKeepsDatasetOrder(t *testing.T) {
	pairs := []uniswapv2.Pair{
		newPair("p1", "a", "b", "30000"),
		newPair("p2", "c", "d", "30000.0"),
	}
	sel, err := Select(pairs, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, pairIDs(sel.Pairs))
}

func TestSelectFirstTokenRecordWins(t *testing.T) {
	pairs := []uniswapv2.Pair{
		{ID: "p1", Token0: tokenregistry.Token{ID: "0xAA", Symbol: "FIRST"}, Token1: tokenregistry.Token{ID: "0xbb"}, ReserveUSD: "90000"},
		{ID: "p2", Token0: tokenregistry.Token{ID: "0xaa", Symbol: "SECOND"}, Token1: tokenregistry.Token{ID: "0xcc"}, ReserveUSD: "80000"},
	}
	sel, err := Select(pairs, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, sel.Tokens, 3)
	assert.Equal(t, "FIRST", sel.Tokens[0].Symbol)
}

func TestSelectInvalidConfig(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectedErr string
	}{
		{name: "Negative Floor", cfg: Config{MinTVL: decimal.NewFromInt(-1), TargetPools: 1, TargetTokens: 1}, expectedErr: "config: MinTVL cannot be negative"},
		{name: "No Pools", cfg: Config{TargetPools: 0, TargetTokens: 1}, expectedErr: "config: TargetPools must be positive"},
		{name: "No Tokens", cfg: Config{TargetPools: 1, TargetTokens: 0}, expectedErr: "config: TargetTokens must be positive"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Select(nil, tc.cfg)
			assert.EqualError(t, err, tc.expectedErr)
		})
	}
}
