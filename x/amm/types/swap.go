package types

import (
	sdkmath "cosmossdk.io/math"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
)

// SwapParams describes one swap against a pool. Amount is the specified
// amount: positive for exact input, negative for exact output. IsToken1
// selects which token the amount denominates. SqrtRatioLimit bounds how far
// the price may move; zero means the extreme bound for the direction.
// SkipAhead is an optimization hint for runs of empty bitmap words and never
// changes the outcome.
type SwapParams struct {
	Amount         sdkmath.Int
	IsToken1       bool
	SqrtRatioLimit ammmath.SqrtRatio
	SkipAhead      uint32
}

// IsExactIn reports whether the specified amount is an input amount.
func (p SwapParams) IsExactIn() bool {
	return p.Amount.IsPositive()
}

// IsPriceIncreasing reports the price direction the swap moves in. Exact
// input of token1 and exact output of token0 both push the price up.
func (p SwapParams) IsPriceIncreasing() bool {
	return p.IsToken1 == p.IsExactIn()
}

// SwapResult is the outcome of a swap.
type SwapResult struct {
	// Delta is what the trader owes (positive) and is owed (negative).
	Delta BalanceDelta

	// StateAfter is the pool state after the swap.
	StateAfter PoolState

	// FeesPaid is the total fee charged, denominated in the input token.
	FeesPaid sdkmath.Int
}
