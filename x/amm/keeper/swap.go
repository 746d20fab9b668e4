package keeper

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// Swap executes a swap against the pool inside the active lock. The
// specified amount is positive for exact input and negative for exact
// output; the resulting delta is accounted against the session's debts.
func (k *Keeper) Swap(ctx sdk.Context, key types.PoolKey, params types.SwapParams) (types.SwapResult, error) {
	session, err := k.activeSession()
	if err != nil {
		return types.SwapResult{}, err
	}
	if err := checkI128(params.Amount); err != nil {
		return types.SwapResult{}, err
	}

	poolID := key.ID()
	state, err := k.requirePoolState(ctx, poolID)
	if err != nil {
		return types.SwapResult{}, err
	}

	if err := k.beforeSwap(ctx, key, params); err != nil {
		return types.SwapResult{}, err
	}

	// 1. Resolve and validate the price limit for the swap direction.
	increasing := params.IsPriceIncreasing()
	limit, err := resolveLimit(key, state, params.SqrtRatioLimit, increasing)
	if err != nil {
		return types.SwapResult{}, err
	}

	// 2. A zero amount or an already-reached limit is a no-op.
	if params.Amount.IsZero() || limit == state.SqrtRatio {
		result := types.SwapResult{
			Delta:      types.ZeroBalanceDelta(),
			StateAfter: state,
			FeesPaid:   sdkmath.ZeroInt(),
		}
		if err := k.afterSwap(ctx, key, params, result); err != nil {
			return types.SwapResult{}, err
		}
		return result, nil
	}

	// 3. Walk constant-liquidity regions until the amount is exhausted or
	// the price reaches the limit. The global fee accumulators are read once
	// and written back only when a step actually charged fees.
	isExactIn := params.IsExactIn()
	remaining := params.Amount.Abs().BigInt()
	specifiedConsumed := new(big.Int)
	calculated := new(big.Int)
	feesPaid := new(big.Int)

	fees, err := k.GetPoolFees(ctx, poolID)
	if err != nil {
		return types.SwapResult{}, err
	}
	feesDirty := false
	flushFees := func() {
		if feesDirty {
			k.setPoolFees(ctx, poolID, fees)
			feesDirty = false
		}
	}

	for remaining.Sign() > 0 && state.SqrtRatio != limit {
		// 3a. Find the next liquidity boundary in the direction of travel.
		boundaryTick, boundaryInitialized, err := k.nextBoundary(ctx, poolID, key, state.Tick, increasing, params.SkipAhead)
		if err != nil {
			return types.SwapResult{}, err
		}
		boundaryRatio, err := ammmath.TickToRatio(boundaryTick)
		if err != nil {
			return types.SwapResult{}, types.ErrInvalidTick.Wrap(err.Error())
		}
		target := boundaryRatio
		if increasing && limit < target {
			target = limit
		}
		if !increasing && limit > target {
			target = limit
		}

		// 3b. Move the price within the region. Outside a stableswap window
		// the region holds no liquidity and the price jumps to the target.
		step, err := ammmath.ComputeSwapStep(state.SqrtRatio, target, activeLiquidity(key, state), remaining, isExactIn, key.Config.Fee)
		if err != nil {
			if err == ammmath.ErrPriceNotMoved {
				return types.SwapResult{}, types.ErrSwapStepStuck.Wrapf("remaining output %s", remaining)
			}
			return types.SwapResult{}, types.ErrAmountOverflow.Wrap(err.Error())
		}

		if isExactIn {
			consumed := new(big.Int).Add(step.AmountIn, step.Fee)
			remaining.Sub(remaining, consumed)
			specifiedConsumed.Add(specifiedConsumed, consumed)
			calculated.Add(calculated, step.AmountOut)
		} else {
			remaining.Sub(remaining, step.AmountOut)
			specifiedConsumed.Add(specifiedConsumed, step.AmountOut)
			calculated.Add(calculated, step.AmountIn)
			calculated.Add(calculated, step.Fee)
		}
		feesPaid.Add(feesPaid, step.Fee)

		// 3c. Distribute the step's fee over the liquidity that earned it.
		if step.Fee.Sign() > 0 && state.Liquidity.IsPositive() {
			feeAmount := sdkmath.NewIntFromBigInt(step.Fee)
			if increasing {
				addFeeGrowth(&fees.Value1, feeAmount, state.Liquidity)
			} else {
				addFeeGrowth(&fees.Value0, feeAmount, state.Liquidity)
			}
			feesDirty = true
		}

		state.SqrtRatio = step.NextRatio

		// 3d. Crossing an initialized boundary shifts the active liquidity
		// and flips the tick's fee snapshot. The accumulators must be
		// current in the store before the flip reads them.
		if step.NextRatio == boundaryRatio && boundaryInitialized {
			flushFees()
			liquidityChange, err := k.crossTick(ctx, poolID, boundaryTick, increasing)
			if err != nil {
				return types.SwapResult{}, err
			}
			newLiquidity := state.Liquidity.Add(liquidityChange)
			if newLiquidity.IsNegative() {
				return types.SwapResult{}, types.ErrLiquidityUnderflow.Wrapf("crossing tick %d", boundaryTick)
			}
			state.Liquidity = newLiquidity
			state.Tick = tickAfterCross(boundaryTick, increasing)
			continue
		}
		if step.NextRatio == boundaryRatio {
			// Uninitialized boundary, no liquidity change.
			state.Tick = tickAfterCross(boundaryTick, increasing)
			continue
		}
		tick, err := ammmath.RatioToTick(step.NextRatio)
		if err != nil {
			return types.SwapResult{}, types.ErrInvalidSqrtRatio.Wrap(err.Error())
		}
		state.Tick = tick
	}

	// 4. Persist the final pool state and any pending fee growth.
	flushFees()
	k.setPoolState(ctx, poolID, state)

	// 5. Account the realized delta against the session.
	delta := swapDelta(params, specifiedConsumed, calculated)
	if err := session.accountDelta(key.Token0, delta.Amount0); err != nil {
		return types.SwapResult{}, err
	}
	if err := session.accountDelta(key.Token1, delta.Amount1); err != nil {
		return types.SwapResult{}, err
	}

	result := types.SwapResult{
		Delta:      delta,
		StateAfter: state,
		FeesPaid:   sdkmath.NewIntFromBigInt(feesPaid),
	}
	if err := k.afterSwap(ctx, key, params, result); err != nil {
		return types.SwapResult{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSwap,
		sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%x", poolID)),
		sdk.NewAttribute(types.AttributeKeyAmount0, delta.Amount0.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1, delta.Amount1.String()),
		sdk.NewAttribute(types.AttributeKeyTick, fmt.Sprintf("%d", state.Tick)),
		sdk.NewAttribute(types.AttributeKeySqrtRatio, fmt.Sprintf("%d", state.SqrtRatio)),
		sdk.NewAttribute(types.AttributeKeyFeesPaid, result.FeesPaid.String()),
	))
	k.metrics.Swaps.Inc()
	return result, nil
}

// resolveLimit validates the price limit and substitutes the extreme bound
// when none is given. Stableswap pools additionally clamp to their window
// edges since no liquidity exists beyond them.
func resolveLimit(key types.PoolKey, state types.PoolState, limit ammmath.SqrtRatio, increasing bool) (ammmath.SqrtRatio, error) {
	if limit == 0 {
		if increasing {
			limit = ammmath.MaxSqrtRatio
		} else {
			limit = ammmath.MinSqrtRatio
		}
	}
	if limit < ammmath.MinSqrtRatio || limit > ammmath.MaxSqrtRatio {
		return 0, types.ErrInvalidPriceLimit.Wrapf("limit %d outside price range", limit)
	}
	if increasing && limit < state.SqrtRatio {
		return 0, types.ErrInvalidPriceLimit.Wrap("limit below current price on a price-increasing swap")
	}
	if !increasing && limit > state.SqrtRatio {
		return 0, types.ErrInvalidPriceLimit.Wrap("limit above current price on a price-decreasing swap")
	}

	if key.Config.IsStable() && !key.Config.IsFullRange() {
		window := key.Config.ActiveRange()
		if increasing {
			edge, err := ammmath.TickToRatio(window.Upper)
			if err != nil {
				return 0, types.ErrInvalidTick.Wrap(err.Error())
			}
			if limit > edge && edge > state.SqrtRatio {
				limit = edge
			} else if limit > edge {
				limit = state.SqrtRatio
			}
		} else {
			edge, err := ammmath.TickToRatio(window.Lower)
			if err != nil {
				return 0, types.ErrInvalidTick.Wrap(err.Error())
			}
			if limit < edge && edge < state.SqrtRatio {
				limit = edge
			} else if limit < edge {
				limit = state.SqrtRatio
			}
		}
	}
	return limit, nil
}

// nextBoundary returns the tick bounding the current constant-liquidity
// region in the direction of travel. Stableswap pools have no interior
// boundaries; their regions end at the window edges.
func (k *Keeper) nextBoundary(
	ctx sdk.Context,
	poolID types.PoolID,
	key types.PoolKey,
	currentTick int32,
	increasing bool,
	skipAhead uint32,
) (int32, bool, error) {
	if key.Config.IsStable() {
		window := key.Config.ActiveRange()
		if increasing {
			if currentTick < window.Lower {
				return window.Lower, false, nil
			}
			return window.Upper, false, nil
		}
		if currentTick >= window.Upper {
			return window.Upper, false, nil
		}
		return window.Lower, false, nil
	}
	if increasing {
		return k.NextInitializedTick(ctx, poolID, key.Config.TickSpacing, currentTick, skipAhead)
	}
	return k.PrevInitializedTick(ctx, poolID, key.Config.TickSpacing, currentTick, skipAhead)
}

// activeLiquidity returns the liquidity backing the current swap step. A
// stableswap pool's liquidity participates only inside its window; a price
// outside it trades against nothing until it reaches an edge.
func activeLiquidity(key types.PoolKey, state types.PoolState) *big.Int {
	if key.Config.IsStable() && !key.Config.IsFullRange() {
		window := key.Config.ActiveRange()
		if state.Tick < window.Lower || state.Tick >= window.Upper {
			return new(big.Int)
		}
	}
	return state.Liquidity.BigInt()
}

// tickAfterCross is the tick stored when the price lands exactly on a
// boundary: a decreasing swap activates the region below it. The stored tick
// stays within the valid range.
func tickAfterCross(boundaryTick int32, increasing bool) int32 {
	if increasing || boundaryTick == ammmath.MinTick {
		return boundaryTick
	}
	return boundaryTick - 1
}

// swapDelta maps the consumed specified and calculated amounts onto signed
// token deltas from the trader's point of view. The calculated side
// saturates at the signed container bound.
func swapDelta(params types.SwapParams, specifiedConsumed, calculated *big.Int) types.BalanceDelta {
	specified := sdkmath.NewIntFromBigInt(specifiedConsumed)
	other := clampI128(sdkmath.NewIntFromBigInt(calculated))
	if params.IsExactIn() {
		other = other.Neg()
	} else {
		specified = specified.Neg()
	}
	if params.IsToken1 {
		return types.BalanceDelta{Amount0: other, Amount1: specified}
	}
	return types.BalanceDelta{Amount0: specified, Amount1: other}
}
