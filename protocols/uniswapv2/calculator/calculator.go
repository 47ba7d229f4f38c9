package uniswapv2

import (
	"errors"
	"fmt"
	"math"

	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
)

// DefaultFeeRate is the Uniswap V2 swap fee (0.3%).
const DefaultFeeRate = 0.003

var (
	// ErrInvalidAmount is returned when an input amount is negative or not a finite number.
	ErrInvalidAmount = errors.New("amount must be finite and non-negative")
	// ErrInvalidFee is returned when the fee rate is outside [0, 1).
	ErrInvalidFee = errors.New("fee rate must be in [0, 1)")
	// ErrTokenMismatch is returned when the specified input/output tokens do not match the pool's tokens.
	ErrTokenMismatch = errors.New("token mismatch")
)

// GetAmountOut calculates the output of swapping amountIn of tokenIn for tokenOut
// against a constant-product pool charging feeRate on the input:
//
//	amountOut = reserveOut * amountIn*(1-fee) / (reserveIn + amountIn*(1-fee))
//
// A pool with an empty reserve on either side quotes zero.
func GetAmountOut(
	amountIn float64,
	tokenIn string,
	tokenOut string,
	pool uniswapv2.Pool,
	feeRate float64,
) (float64, error) {
	if amountIn < 0 || math.IsNaN(amountIn) || math.IsInf(amountIn, 0) {
		return 0, ErrInvalidAmount
	}
	if feeRate < 0 || feeRate >= 1 || math.IsNaN(feeRate) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidFee, feeRate)
	}

	reserveIn, reserveOut, err := GetReserves(tokenIn, tokenOut, pool)
	if err != nil {
		return 0, err
	}

	if reserveIn <= 0 || reserveOut <= 0 || amountIn == 0 {
		return 0, nil
	}

	amountInWithFee := amountIn * (1 - feeRate)
	return reserveOut * amountInWithFee / (reserveIn + amountInWithFee), nil
}

// GetReserves returns the reserves for the given swap direction.
func GetReserves(tokenIn, tokenOut string, pool uniswapv2.Pool) (reserveIn, reserveOut float64, err error) {
	if tokenIn == pool.Token0 && tokenOut == pool.Token1 {
		return pool.Reserve0, pool.Reserve1, nil
	} else if tokenIn == pool.Token1 && tokenOut == pool.Token0 {
		return pool.Reserve1, pool.Reserve0, nil
	}
	return 0, 0, fmt.Errorf("%w: pool %s does not contain the pair %s -> %s", ErrTokenMismatch, pool.ID, tokenIn, tokenOut)
}
