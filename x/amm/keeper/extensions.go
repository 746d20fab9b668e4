package keeper

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// RegisterExtension records an extension so pool keys may reference it. The
// expected call points must match what the extension reports, guarding
// against wiring a hook set the implementation does not serve.
func (k *Keeper) RegisterExtension(ctx sdk.Context, ext types.Extension, expected types.CallPoints) error {
	addr := ext.Address()
	if addr == "" {
		return types.ErrExtensionNotRegistered.Wrap("empty extension address")
	}
	actual := ext.CallPoints()
	if actual != expected {
		return types.ErrCallPointsMismatch.Wrapf("extension %s", addr)
	}
	if actual.IsEmpty() {
		return types.ErrEmptyCallPoints.Wrapf("extension %s", addr)
	}

	store := k.getStore(ctx)
	key := types.ExtensionKey(addr)
	if store.Has(key) {
		return types.ErrExtensionAlreadyRegistered.Wrapf("extension %s", addr)
	}
	store.Set(key, types.MarshalCallPoints(actual))
	k.extensions[addr] = ext

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeExtensionSet,
		sdk.NewAttribute(types.AttributeKeyExtension, addr),
	))
	k.logger.Info("extension registered", "address", addr)
	return nil
}

// GetExtensionCallPoints returns the registered call points for an extension
// address, or an error when it is unknown.
func (k *Keeper) GetExtensionCallPoints(ctx sdk.Context, addr string) (types.CallPoints, error) {
	bz := k.getStore(ctx).Get(types.ExtensionKey(addr))
	if bz == nil {
		return types.CallPoints{}, types.ErrExtensionNotRegistered.Wrapf("extension %s", addr)
	}
	return types.UnmarshalCallPoints(bz)
}

// resolveExtension returns the hook target for a pool, nil when the pool has
// no extension or the extension itself is the session's active identity.
// Extensions acting on their own pools skip their hooks so they can reuse
// the public operations without recursing.
func (k *Keeper) resolveExtension(ctx sdk.Context, key types.PoolKey) (types.Extension, types.CallPoints, error) {
	addr := key.Config.Extension
	if addr == "" {
		return nil, types.CallPoints{}, nil
	}
	if k.session != nil && k.session.ActiveIdentity() == addr {
		return nil, types.CallPoints{}, nil
	}
	points, err := k.GetExtensionCallPoints(ctx, addr)
	if err != nil {
		return nil, types.CallPoints{}, err
	}
	ext, ok := k.extensions[addr]
	if !ok {
		return nil, types.CallPoints{}, types.ErrExtensionNotRegistered.Wrapf("extension %s not loaded", addr)
	}
	return ext, points, nil
}

func (k *Keeper) beforeInitializePool(ctx sdk.Context, key types.PoolKey, tick int32) error {
	ext, points, err := k.resolveExtension(ctx, key)
	if err != nil || ext == nil || !points.BeforeInitializePool {
		return err
	}
	return ext.BeforeInitializePool(ctx, key, tick)
}

func (k *Keeper) afterInitializePool(ctx sdk.Context, key types.PoolKey, state types.PoolState) error {
	ext, points, err := k.resolveExtension(ctx, key)
	if err != nil || ext == nil || !points.AfterInitializePool {
		return err
	}
	return ext.AfterInitializePool(ctx, key, state)
}

func (k *Keeper) beforeSwap(ctx sdk.Context, key types.PoolKey, params types.SwapParams) error {
	ext, points, err := k.resolveExtension(ctx, key)
	if err != nil || ext == nil || !points.BeforeSwap {
		return err
	}
	return ext.BeforeSwap(ctx, key, params)
}

func (k *Keeper) afterSwap(ctx sdk.Context, key types.PoolKey, params types.SwapParams, result types.SwapResult) error {
	ext, points, err := k.resolveExtension(ctx, key)
	if err != nil || ext == nil || !points.AfterSwap {
		return err
	}
	return ext.AfterSwap(ctx, key, params, result)
}

func (k *Keeper) beforeUpdatePosition(ctx sdk.Context, key types.PoolKey, id types.PositionID, liquidityDelta sdkmath.Int) error {
	ext, points, err := k.resolveExtension(ctx, key)
	if err != nil || ext == nil || !points.BeforeUpdatePosition {
		return err
	}
	return ext.BeforeUpdatePosition(ctx, key, id, liquidityDelta)
}

func (k *Keeper) afterUpdatePosition(ctx sdk.Context, key types.PoolKey, id types.PositionID, delta types.BalanceDelta) error {
	ext, points, err := k.resolveExtension(ctx, key)
	if err != nil || ext == nil || !points.AfterUpdatePosition {
		return err
	}
	return ext.AfterUpdatePosition(ctx, key, id, delta)
}

func (k *Keeper) beforeCollectFees(ctx sdk.Context, key types.PoolKey, id types.PositionID) error {
	ext, points, err := k.resolveExtension(ctx, key)
	if err != nil || ext == nil || !points.BeforeCollectFees {
		return err
	}
	return ext.BeforeCollectFees(ctx, key, id)
}

func (k *Keeper) afterCollectFees(ctx sdk.Context, key types.PoolKey, id types.PositionID, amount0, amount1 sdkmath.Int) error {
	ext, points, err := k.resolveExtension(ctx, key)
	if err != nil || ext == nil || !points.AfterCollectFees {
		return err
	}
	return ext.AfterCollectFees(ctx, key, id, amount0, amount1)
}
