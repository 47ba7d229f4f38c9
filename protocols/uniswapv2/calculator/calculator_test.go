package uniswapv2

import (
	"math"
	"testing"

	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAmountOut(t *testing.T) {
	pool := uniswapv2.Pool{ID: "p", Token0: "usdc", Token1: "weth", Reserve0: 100, Reserve1: 50}

	testCases := []struct {
		name           string
		amountIn       float64
		tokenIn        string
		tokenOut       string
		pool           uniswapv2.Pool
		feeRate        float64
		expectedAmount float64
		expectedErr    error
	}{
		{
			name:           "Standard Swap (Token0 -> Token1)",
			amountIn:       1,
			tokenIn:        "usdc",
			tokenOut:       "weth",
			pool:           pool,
			feeRate:        0.003,
			expectedAmount: 50 * 0.997 / (100 + 0.997),
		},
		{
			name:           "Standard Swap (Token1 -> Token0)",
			amountIn:       1,
			tokenIn:        "weth",
			tokenOut:       "usdc",
			pool:           pool,
			feeRate:        0.003,
			expectedAmount: 100 * 0.997 / (50 + 0.997),
		},
		{
			name:           "No Fee",
			amountIn:       100,
			tokenIn:        "usdc",
			tokenOut:       "weth",
			pool:           pool,
			feeRate:        0,
			expectedAmount: 25,
		},
		{
			name:           "Zero Input",
			amountIn:       0,
			tokenIn:        "usdc",
			tokenOut:       "weth",
			pool:           pool,
			feeRate:        0.003,
			expectedAmount: 0,
		},
		{
			name:           "Edge Case: Zero Reserve In",
			amountIn:       10,
			tokenIn:        "usdc",
			tokenOut:       "weth",
			pool:           uniswapv2.Pool{ID: "p", Token0: "usdc", Token1: "weth", Reserve0: 0, Reserve1: 50},
			feeRate:        0.003,
			expectedAmount: 0,
		},
		{
			name:           "Edge Case: Zero Reserve Out",
			amountIn:       10,
			tokenIn:        "usdc",
			tokenOut:       "weth",
			pool:           uniswapv2.Pool{ID: "p", Token0: "usdc", Token1: "weth", Reserve0: 100, Reserve1: 0},
			feeRate:        0.003,
			expectedAmount: 0,
		},
		{name: "Invalid Input: Negative AmountIn", amountIn: -1, tokenIn: "usdc", tokenOut: "weth", pool: pool, feeRate: 0.003, expectedErr: ErrInvalidAmount},
		{name: "Invalid Input: NaN AmountIn", amountIn: math.NaN(), tokenIn: "usdc", tokenOut: "weth", pool: pool, feeRate: 0.003, expectedErr: ErrInvalidAmount},
		{name: "Invalid Input: Fee Of One", amountIn: 1, tokenIn: "usdc", tokenOut: "weth", pool: pool, feeRate: 1, expectedErr: ErrInvalidFee},
		{name: "Invalid Input: Token Mismatch", amountIn: 1, tokenIn: "usdc", tokenOut: "dai", pool: pool, feeRate: 0.003, expectedErr: ErrTokenMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amountOut, err := GetAmountOut(tc.amountIn, tc.tokenIn, tc.tokenOut, tc.pool, tc.feeRate)
			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.expectedAmount, amountOut, 1e-12)
		})
	}
}

func TestGetAmountOutIsBoundedByReserve(t *testing.T) {
	pool := uniswapv2.Pool{ID: "p", Token0: "a", Token1: "b", Reserve0: 1000, Reserve1: 2000}

	previous := 0.0
	for _, amountIn := range []float64{1, 10, 100, 1e4, 1e8} {
		out, err := GetAmountOut(amountIn, "a", "b", pool, DefaultFeeRate)
		require.NoError(t, err)
		assert.Greater(t, out, previous, "output grows with input")
		assert.Less(t, out, pool.Reserve1, "output never drains the pool")
		previous = out
	}
}

func TestGetReserves(t *testing.T) {
	pool := uniswapv2.Pool{ID: "p", Token0: "a", Token1: "b", Reserve0: 1, Reserve1: 2}

	in, out, err := GetReserves("a", "b", pool)
	require.NoError(t, err)
	assert.Equal(t, 1.0, in)
	assert.Equal(t, 2.0, out)

	in, out, err = GetReserves("b", "a", pool)
	require.NoError(t, err)
	assert.Equal(t, 2.0, in)
	assert.Equal(t, 1.0, out)

	_, _, err = GetReserves("a", "a", pool)
	assert.ErrorIs(t, err, ErrTokenMismatch)
}
