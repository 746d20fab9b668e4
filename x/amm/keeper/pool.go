package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// InitializePool creates the state for a pool key at the given starting tick
// and returns the starting sqrt ratio. Each pool key can be initialized once.
func (k *Keeper) InitializePool(ctx sdk.Context, key types.PoolKey, tick int32) (ammmath.SqrtRatio, error) {
	if err := key.Validate(); err != nil {
		return 0, err
	}
	if key.Config.Extension != "" {
		if _, err := k.GetExtensionCallPoints(ctx, key.Config.Extension); err != nil {
			return 0, err
		}
	}
	if tick < ammmath.MinTick || tick > ammmath.MaxTick {
		return 0, types.ErrInvalidTick.Wrapf("initial tick %d", tick)
	}

	poolID := key.ID()
	if state, _ := k.GetPoolState(ctx, poolID); state.IsInitialized() {
		return 0, types.ErrPoolAlreadyInitialized.Wrapf("pool %x", poolID)
	}

	if err := k.beforeInitializePool(ctx, key, tick); err != nil {
		return 0, err
	}

	sqrtRatio, err := ammmath.TickToRatio(tick)
	if err != nil {
		return 0, types.ErrInvalidTick.Wrap(err.Error())
	}
	state := types.PoolState{
		SqrtRatio: sqrtRatio,
		Tick:      tick,
		Liquidity: sdkmath.ZeroInt(),
	}
	k.setPoolState(ctx, poolID, state)
	k.setPoolFees(ctx, poolID, types.FeesPerLiquidity{})

	if err := k.afterInitializePool(ctx, key, state); err != nil {
		return 0, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypePoolInitialized,
		sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%x", poolID)),
		sdk.NewAttribute(types.AttributeKeyToken0, key.Token0),
		sdk.NewAttribute(types.AttributeKeyToken1, key.Token1),
		sdk.NewAttribute(types.AttributeKeyTick, fmt.Sprintf("%d", tick)),
		sdk.NewAttribute(types.AttributeKeySqrtRatio, fmt.Sprintf("%d", sqrtRatio)),
	))
	k.metrics.PoolsInitialized.Inc()
	k.logger.Info("pool initialized",
		"pool_id", fmt.Sprintf("%x", poolID),
		"token0", key.Token0,
		"token1", key.Token1,
		"tick", tick,
	)
	return sqrtRatio, nil
}

// GetPoolState returns the state record for a pool id. The zero state with
// IsInitialized() false is returned for unknown pools.
func (k *Keeper) GetPoolState(ctx sdk.Context, poolID types.PoolID) (types.PoolState, error) {
	bz := k.getStore(ctx).Get(types.PoolStateKey(poolID))
	if bz == nil {
		return types.PoolState{Liquidity: sdkmath.ZeroInt()}, nil
	}
	return types.UnmarshalPoolState(bz)
}

// requirePoolState is GetPoolState plus the initialization check.
func (k *Keeper) requirePoolState(ctx sdk.Context, poolID types.PoolID) (types.PoolState, error) {
	state, err := k.GetPoolState(ctx, poolID)
	if err != nil {
		return types.PoolState{}, err
	}
	if !state.IsInitialized() {
		return types.PoolState{}, types.ErrPoolNotInitialized.Wrapf("pool %x", poolID)
	}
	return state, nil
}

func (k *Keeper) setPoolState(ctx sdk.Context, poolID types.PoolID, state types.PoolState) {
	k.getStore(ctx).Set(types.PoolStateKey(poolID), types.MarshalPoolState(state))
}

// GetPoolFees returns the pool's global fee-per-liquidity accumulators.
func (k *Keeper) GetPoolFees(ctx sdk.Context, poolID types.PoolID) (types.FeesPerLiquidity, error) {
	bz := k.getStore(ctx).Get(types.PoolFeesKey(poolID))
	if bz == nil {
		return types.FeesPerLiquidity{}, nil
	}
	return types.UnmarshalFeesPerLiquidity(bz)
}

func (k *Keeper) setPoolFees(ctx sdk.Context, poolID types.PoolID, fees types.FeesPerLiquidity) {
	k.getStore(ctx).Set(types.PoolFeesKey(poolID), types.MarshalFeesPerLiquidity(fees))
}
