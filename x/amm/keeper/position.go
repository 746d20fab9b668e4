package keeper

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// GetPosition returns a stored position record.
func (k *Keeper) GetPosition(ctx sdk.Context, poolID types.PoolID, id types.PositionID) (types.Position, bool, error) {
	bz := k.getStore(ctx).Get(types.PositionStoreKey(poolID, id))
	if bz == nil {
		return types.Position{}, false, nil
	}
	p, err := types.UnmarshalPosition(bz)
	if err != nil {
		return types.Position{}, false, err
	}
	return p, true, nil
}

func (k *Keeper) setPosition(ctx sdk.Context, poolID types.PoolID, p types.Position) {
	k.getStore(ctx).Set(types.PositionStoreKey(poolID, p.PositionID), types.MarshalPosition(p))
}

// UpdatePosition changes the liquidity of the active identity's position
// identified by salt and bounds. A positive delta deposits liquidity, a
// negative one withdraws it, zero refreshes the fee snapshot. The returned
// delta is what the session now owes (positive) or is owed (negative).
func (k *Keeper) UpdatePosition(
	ctx sdk.Context,
	key types.PoolKey,
	salt []byte,
	bounds types.Bounds,
	liquidityDelta sdkmath.Int,
) (types.BalanceDelta, error) {
	session, err := k.activeSession()
	if err != nil {
		return types.BalanceDelta{}, err
	}
	if err := checkI128(liquidityDelta); err != nil {
		return types.BalanceDelta{}, err
	}
	if err := bounds.Validate(key.Config); err != nil {
		return types.BalanceDelta{}, err
	}

	poolID := key.ID()
	state, err := k.requirePoolState(ctx, poolID)
	if err != nil {
		return types.BalanceDelta{}, err
	}

	id := types.PositionID{
		Owner:  session.ActiveIdentity(),
		Salt:   salt,
		Bounds: bounds,
	}
	if err := k.beforeUpdatePosition(ctx, key, id, liquidityDelta); err != nil {
		return types.BalanceDelta{}, err
	}

	position, found, err := k.GetPosition(ctx, poolID, id)
	if err != nil {
		return types.BalanceDelta{}, err
	}
	if !found {
		if liquidityDelta.IsNegative() {
			return types.BalanceDelta{}, types.ErrPositionNotFound.Wrapf("owner %s", id.Owner)
		}
		position = types.Position{PositionID: id, Liquidity: sdkmath.ZeroInt()}
	}

	newLiquidity := position.Liquidity.Add(liquidityDelta)
	if newLiquidity.IsNegative() {
		return types.BalanceDelta{}, types.ErrLiquidityUnderflow.Wrapf(
			"position liquidity %s, withdrawal %s", position.Liquidity, liquidityDelta.Abs())
	}
	if err := checkU128(newLiquidity); err != nil {
		return types.BalanceDelta{}, err
	}

	// Re-snapshot so pending fees keep their value under the new liquidity.
	// Closing the position zeroes the snapshot; pending fees must be
	// collected before the last unit of liquidity is withdrawn.
	inside, err := k.FeesPerLiquidityInside(ctx, poolID, key, state, bounds)
	if err != nil {
		return types.BalanceDelta{}, err
	}
	position.FeesSnapshot = carriedSnapshot(position, inside, newLiquidity)
	position.Liquidity = newLiquidity

	if !liquidityDelta.IsZero() {
		if !key.Config.IsStable() {
			if err := k.updateTick(ctx, poolID, key, bounds.Lower, state.Tick, liquidityDelta, false); err != nil {
				return types.BalanceDelta{}, err
			}
			if err := k.updateTick(ctx, poolID, key, bounds.Upper, state.Tick, liquidityDelta, true); err != nil {
				return types.BalanceDelta{}, err
			}
		}
		if key.Config.IsStable() || bounds.Contains(state.Tick) {
			newActive := state.Liquidity.Add(liquidityDelta)
			if newActive.IsNegative() {
				return types.BalanceDelta{}, types.ErrLiquidityUnderflow.Wrap("active liquidity")
			}
			state.Liquidity = newActive
			k.setPoolState(ctx, poolID, state)
		}
	}

	if newLiquidity.IsZero() {
		k.getStore(ctx).Delete(types.PositionStoreKey(poolID, id))
	} else {
		k.setPosition(ctx, poolID, position)
	}

	delta, err := positionDelta(state, bounds, liquidityDelta)
	if err != nil {
		return types.BalanceDelta{}, err
	}
	if err := k.afterUpdatePosition(ctx, key, id, delta); err != nil {
		return types.BalanceDelta{}, err
	}

	if err := session.accountDelta(key.Token0, delta.Amount0); err != nil {
		return types.BalanceDelta{}, err
	}
	if err := session.accountDelta(key.Token1, delta.Amount1); err != nil {
		return types.BalanceDelta{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypePositionUpdated,
		sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%x", poolID)),
		sdk.NewAttribute(types.AttributeKeyOwner, id.Owner),
		sdk.NewAttribute(types.AttributeKeyLiquidity, liquidityDelta.String()),
		sdk.NewAttribute(types.AttributeKeyAmount0, delta.Amount0.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1, delta.Amount1.String()),
	))
	k.metrics.PositionUpdates.Inc()
	return delta, nil
}

// CollectFees pays out the pending fees of the active identity's position
// and resets its snapshot, making collection idempotent.
func (k *Keeper) CollectFees(
	ctx sdk.Context,
	key types.PoolKey,
	salt []byte,
	bounds types.Bounds,
) (sdkmath.Int, sdkmath.Int, error) {
	session, err := k.activeSession()
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	poolID := key.ID()
	state, err := k.requirePoolState(ctx, poolID)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}

	id := types.PositionID{
		Owner:  session.ActiveIdentity(),
		Salt:   salt,
		Bounds: bounds,
	}
	position, found, err := k.GetPosition(ctx, poolID, id)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	if !found {
		return sdkmath.Int{}, sdkmath.Int{}, types.ErrPositionNotFound.Wrapf("owner %s", id.Owner)
	}

	if err := k.beforeCollectFees(ctx, key, id); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}

	inside, err := k.FeesPerLiquidityInside(ctx, poolID, key, state, bounds)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	amount0, amount1 := position.PendingFees(inside)
	position.FeesSnapshot = inside
	k.setPosition(ctx, poolID, position)

	if err := k.afterCollectFees(ctx, key, id, amount0, amount1); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}

	if err := session.accountDelta(key.Token0, amount0.Neg()); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	if err := session.accountDelta(key.Token1, amount1.Neg()); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeFeesCollected,
		sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%x", poolID)),
		sdk.NewAttribute(types.AttributeKeyOwner, id.Owner),
		sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
	))
	return amount0, amount1, nil
}

// SetPositionTag stores an opaque tag on the active identity's position. The
// tag is never interpreted by the module and survives liquidity changes.
func (k *Keeper) SetPositionTag(
	ctx sdk.Context,
	key types.PoolKey,
	salt []byte,
	bounds types.Bounds,
	tag [32]byte,
) error {
	session, err := k.activeSession()
	if err != nil {
		return err
	}
	poolID := key.ID()
	id := types.PositionID{
		Owner:  session.ActiveIdentity(),
		Salt:   salt,
		Bounds: bounds,
	}
	position, found, err := k.GetPosition(ctx, poolID, id)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrPositionNotFound.Wrapf("owner %s", id.Owner)
	}
	position.Tag = tag
	k.setPosition(ctx, poolID, position)

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypePositionTagged,
		sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%x", poolID)),
		sdk.NewAttribute(types.AttributeKeyOwner, id.Owner),
	))
	return nil
}

// carriedSnapshot returns the fee snapshot that preserves the value of the
// position's pending fees at the new liquidity.
func carriedSnapshot(p types.Position, inside types.FeesPerLiquidity, newLiquidity sdkmath.Int) types.FeesPerLiquidity {
	if newLiquidity.IsZero() {
		return types.FeesPerLiquidity{}
	}
	if p.Liquidity.IsZero() {
		return inside
	}
	pending0, pending1 := p.PendingFees(inside)
	snap := inside
	subScaled(&snap.Value0, pending0, newLiquidity)
	subScaled(&snap.Value1, pending1, newLiquidity)
	return snap
}

// subScaled subtracts pending/liquidity in 128.128 fixed point from the
// accumulator, wrapping like the accumulators themselves.
func subScaled(acc *uint256.Int, pending, liquidity sdkmath.Int) {
	if pending.IsZero() {
		return
	}
	v := new(big.Int).Lsh(pending.BigInt(), 128)
	v.Quo(v, liquidity.BigInt())
	v.Mod(v, twoPow256)
	u, _ := uint256.FromBig(v)
	acc.Sub(acc, u)
}

var twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)

// positionDelta prices a liquidity change at the current pool state.
// Deposits round against the depositor, withdrawals against the pool.
func positionDelta(state types.PoolState, bounds types.Bounds, liquidityDelta sdkmath.Int) (types.BalanceDelta, error) {
	if liquidityDelta.IsZero() {
		return types.ZeroBalanceDelta(), nil
	}
	lowerRatio, err := ammmath.TickToRatio(bounds.Lower)
	if err != nil {
		return types.BalanceDelta{}, types.ErrInvalidTick.Wrap(err.Error())
	}
	upperRatio, err := ammmath.TickToRatio(bounds.Upper)
	if err != nil {
		return types.BalanceDelta{}, types.ErrInvalidTick.Wrap(err.Error())
	}
	lowerF := lowerRatio.Fixed()
	upperF := upperRatio.Fixed()
	curF := state.SqrtRatio.Fixed()

	add := liquidityDelta.IsPositive()
	liquidity := liquidityDelta.Abs().BigInt()

	amount0 := new(big.Int)
	amount1 := new(big.Int)
	switch {
	case curF.Cmp(lowerF) <= 0:
		if amount0, err = ammmath.Amount0Delta(lowerF, upperF, liquidity, add); err != nil {
			return types.BalanceDelta{}, types.ErrAmountOverflow.Wrap(err.Error())
		}
	case curF.Cmp(upperF) >= 0:
		if amount1, err = ammmath.Amount1Delta(lowerF, upperF, liquidity, add); err != nil {
			return types.BalanceDelta{}, types.ErrAmountOverflow.Wrap(err.Error())
		}
	default:
		if amount0, err = ammmath.Amount0Delta(curF, upperF, liquidity, add); err != nil {
			return types.BalanceDelta{}, types.ErrAmountOverflow.Wrap(err.Error())
		}
		if amount1, err = ammmath.Amount1Delta(lowerF, curF, liquidity, add); err != nil {
			return types.BalanceDelta{}, types.ErrAmountOverflow.Wrap(err.Error())
		}
	}

	delta := types.BalanceDelta{
		Amount0: sdkmath.NewIntFromBigInt(amount0),
		Amount1: sdkmath.NewIntFromBigInt(amount1),
	}
	if !add {
		delta.Amount0 = delta.Amount0.Neg()
		delta.Amount1 = delta.Amount1.Neg()
	}
	return delta, nil
}
