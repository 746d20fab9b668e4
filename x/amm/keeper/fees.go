package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// FeesPerLiquidityInside returns the fee growth accumulated while the price
// was inside the given bounds. Values wrap modulo 2^256; positions only ever
// consume differences of two observations.
func (k *Keeper) FeesPerLiquidityInside(
	ctx sdk.Context,
	poolID types.PoolID,
	key types.PoolKey,
	state types.PoolState,
	bounds types.Bounds,
) (types.FeesPerLiquidity, error) {
	global, err := k.GetPoolFees(ctx, poolID)
	if err != nil {
		return types.FeesPerLiquidity{}, err
	}
	// Stableswap pools track no per-tick snapshots; the whole window shares
	// the global accumulators.
	if key.Config.IsStable() {
		return global, nil
	}

	lowerOutside, err := k.GetTickFeesOutside(ctx, poolID, bounds.Lower)
	if err != nil {
		return types.FeesPerLiquidity{}, err
	}
	upperOutside, err := k.GetTickFeesOutside(ctx, poolID, bounds.Upper)
	if err != nil {
		return types.FeesPerLiquidity{}, err
	}

	var below, above types.FeesPerLiquidity
	if state.Tick >= bounds.Lower {
		below = lowerOutside
	} else {
		below = global.Sub(lowerOutside)
	}
	if state.Tick < bounds.Upper {
		above = upperOutside
	} else {
		above = global.Sub(upperOutside)
	}
	return global.Sub(below).Sub(above), nil
}

// AccumulateAsFees donates the given amounts to the pool's currently active
// liquidity by bumping the global fee accumulators. Only the pool's extension
// may donate, while holding the lock as itself. The session owes the donated
// amounts; with zero active liquidity they are burned.
func (k *Keeper) AccumulateAsFees(ctx sdk.Context, key types.PoolKey, amount0, amount1 sdkmath.Int) error {
	session, err := k.activeSession()
	if err != nil {
		return err
	}
	if key.Config.Extension == "" || session.ActiveIdentity() != key.Config.Extension {
		return types.ErrNotPoolExtension.Wrapf("caller %s", session.ActiveIdentity())
	}
	if amount0.IsNegative() || amount1.IsNegative() {
		return types.ErrInvalidAmount.Wrap("fee donation must be non-negative")
	}
	if err := checkU128(amount0); err != nil {
		return err
	}
	if err := checkU128(amount1); err != nil {
		return err
	}

	poolID := key.ID()
	state, err := k.requirePoolState(ctx, poolID)
	if err != nil {
		return err
	}
	if state.Liquidity.IsPositive() {
		fees, err := k.GetPoolFees(ctx, poolID)
		if err != nil {
			return err
		}
		addFeeGrowth(&fees.Value0, amount0, state.Liquidity)
		addFeeGrowth(&fees.Value1, amount1, state.Liquidity)
		k.setPoolFees(ctx, poolID, fees)
	}

	if err := session.accountDelta(key.Token0, amount0); err != nil {
		return err
	}
	if err := session.accountDelta(key.Token1, amount1); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeFeesAccumulated,
		sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%x", poolID)),
		sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
	))
	return nil
}

// addFeeGrowth adds amount/liquidity in 128.128 fixed point to the
// accumulator, wrapping on overflow.
func addFeeGrowth(acc *uint256.Int, amount, liquidity sdkmath.Int) {
	if amount.IsZero() {
		return
	}
	num, _ := uint256.FromBig(amount.BigInt())
	num.Lsh(num, 128)
	liq, _ := uint256.FromBig(liquidity.BigInt())
	num.Div(num, liq)
	acc.Add(acc, num)
}
