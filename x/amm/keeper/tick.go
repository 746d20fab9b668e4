package keeper

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// GetTickInfo returns the liquidity record for a tick, zero if untracked.
func (k *Keeper) GetTickInfo(ctx sdk.Context, poolID types.PoolID, tick int32) (types.TickInfo, error) {
	bz := k.getStore(ctx).Get(types.TickInfoKey(poolID, tick))
	if bz == nil {
		return types.TickInfo{
			LiquidityDelta: sdkmath.ZeroInt(),
			LiquidityNet:   sdkmath.ZeroInt(),
		}, nil
	}
	return types.UnmarshalTickInfo(bz)
}

func (k *Keeper) setTickInfo(ctx sdk.Context, poolID types.PoolID, tick int32, info types.TickInfo) {
	k.getStore(ctx).Set(types.TickInfoKey(poolID, tick), types.MarshalTickInfo(info))
}

// GetTickFeesOutside returns a tick's fees-outside snapshot.
func (k *Keeper) GetTickFeesOutside(ctx sdk.Context, poolID types.PoolID, tick int32) (types.FeesPerLiquidity, error) {
	bz := k.getStore(ctx).Get(types.TickFeesKey(poolID, tick))
	if bz == nil {
		return types.FeesPerLiquidity{}, nil
	}
	return types.UnmarshalFeesPerLiquidity(bz)
}

func (k *Keeper) setTickFeesOutside(ctx sdk.Context, poolID types.PoolID, tick int32, fees types.FeesPerLiquidity) {
	k.getStore(ctx).Set(types.TickFeesKey(poolID, tick), types.MarshalFeesPerLiquidity(fees))
}

// updateTick applies a position liquidity change to one of its bound ticks.
// The bitmap tracks the tick's initialized state, and the fees-outside
// snapshot is seeded by convention on first touch: the full global value for
// ticks at or below the current tick, zero above it.
func (k *Keeper) updateTick(
	ctx sdk.Context,
	poolID types.PoolID,
	key types.PoolKey,
	tick int32,
	currentTick int32,
	liquidityDelta sdkmath.Int,
	isUpper bool,
) error {
	info, err := k.GetTickInfo(ctx, poolID, tick)
	if err != nil {
		return err
	}
	wasEmpty := info.IsEmpty()

	info.LiquidityNet = info.LiquidityNet.Add(liquidityDelta)
	if info.LiquidityNet.IsNegative() {
		return types.ErrLiquidityUnderflow.Wrapf("tick %d", tick)
	}
	if info.LiquidityNet.GT(key.MaxLiquidityPerTick()) {
		return types.ErrTickLiquidityOverflow.Wrapf(
			"tick %d liquidity %s exceeds cap %s", tick, info.LiquidityNet, key.MaxLiquidityPerTick())
	}
	if isUpper {
		info.LiquidityDelta = info.LiquidityDelta.Sub(liquidityDelta)
	} else {
		info.LiquidityDelta = info.LiquidityDelta.Add(liquidityDelta)
	}

	nowEmpty := info.IsEmpty()
	switch {
	case wasEmpty && !nowEmpty:
		globalFees, err := k.GetPoolFees(ctx, poolID)
		if err != nil {
			return err
		}
		if tick <= currentTick {
			k.setTickFeesOutside(ctx, poolID, tick, globalFees)
		} else {
			k.setTickFeesOutside(ctx, poolID, tick, types.FeesPerLiquidity{})
		}
		if !key.Config.IsStable() {
			if err := k.flipTick(ctx, poolID, tick, key.Config.TickSpacing); err != nil {
				return err
			}
		}
		k.setTickInfo(ctx, poolID, tick, info)
	case !wasEmpty && nowEmpty:
		store := k.getStore(ctx)
		store.Delete(types.TickInfoKey(poolID, tick))
		store.Delete(types.TickFeesKey(poolID, tick))
		if !key.Config.IsStable() {
			if err := k.flipTick(ctx, poolID, tick, key.Config.TickSpacing); err != nil {
				return err
			}
		}
	default:
		k.setTickInfo(ctx, poolID, tick, info)
	}
	return nil
}

// crossTick flips a tick's fees-outside snapshot as the price passes it and
// returns the change to apply to the pool's active liquidity.
func (k *Keeper) crossTick(
	ctx sdk.Context,
	poolID types.PoolID,
	tick int32,
	increasing bool,
) (sdkmath.Int, error) {
	info, err := k.GetTickInfo(ctx, poolID, tick)
	if err != nil {
		return sdkmath.Int{}, err
	}
	globalFees, err := k.GetPoolFees(ctx, poolID)
	if err != nil {
		return sdkmath.Int{}, err
	}
	outside, err := k.GetTickFeesOutside(ctx, poolID, tick)
	if err != nil {
		return sdkmath.Int{}, err
	}
	k.setTickFeesOutside(ctx, poolID, tick, globalFees.Sub(outside))

	if increasing {
		return info.LiquidityDelta, nil
	}
	return info.LiquidityDelta.Neg(), nil
}
