package types

import (
	sdkmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// FeesPerLiquidity is a pair of cumulative fee-per-unit-liquidity
// accumulators in 128.128 fixed point. The values wrap modulo 2^256 on
// overflow; only differences between observations are meaningful.
type FeesPerLiquidity struct {
	Value0 uint256.Int
	Value1 uint256.Int
}

// Add returns the element-wise wrapping sum.
func (f FeesPerLiquidity) Add(other FeesPerLiquidity) FeesPerLiquidity {
	var out FeesPerLiquidity
	out.Value0.Add(&f.Value0, &other.Value0)
	out.Value1.Add(&f.Value1, &other.Value1)
	return out
}

// Sub returns the element-wise wrapping difference.
func (f FeesPerLiquidity) Sub(other FeesPerLiquidity) FeesPerLiquidity {
	var out FeesPerLiquidity
	out.Value0.Sub(&f.Value0, &other.Value0)
	out.Value1.Sub(&f.Value1, &other.Value1)
	return out
}

// IsZero reports whether both accumulators are zero.
func (f FeesPerLiquidity) IsZero() bool {
	return f.Value0.IsZero() && f.Value1.IsZero()
}

// TickInfo is the per-tick liquidity record. A tick with both fields zero is
// uninitialized and must not appear in the bitmap.
type TickInfo struct {
	// LiquidityDelta is the signed change in active liquidity when the price
	// crosses this tick moving left to right.
	LiquidityDelta sdkmath.Int

	// LiquidityNet is the total liquidity of all positions referencing this
	// tick as either bound. The tick record is deleted when it reaches zero.
	LiquidityNet sdkmath.Int
}

// IsEmpty reports whether the tick no longer references any position.
func (t TickInfo) IsEmpty() bool {
	return t.LiquidityNet.IsZero() && t.LiquidityDelta.IsZero()
}
