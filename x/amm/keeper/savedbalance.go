package keeper

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// GetSavedBalance returns the custodied balance pair for an id, zero when
// nothing is saved.
func (k *Keeper) GetSavedBalance(ctx sdk.Context, id types.SavedBalanceID) (types.SavedBalance, error) {
	bz := k.getStore(ctx).Get(types.SavedBalanceKey(id))
	if bz == nil {
		return types.SavedBalance{
			Amount0: sdkmath.ZeroInt(),
			Amount1: sdkmath.ZeroInt(),
		}, nil
	}
	return types.UnmarshalSavedBalance(bz)
}

// UpdateSavedBalances moves value between the session and a saved balance
// entry. Positive deltas deposit into the entry, increasing the session's
// debt; negative deltas withdraw from it as credit. Only the entry's owner
// may withdraw.
func (k *Keeper) UpdateSavedBalances(ctx sdk.Context, id types.SavedBalanceID, delta0, delta1 sdkmath.Int) error {
	session, err := k.activeSession()
	if err != nil {
		return err
	}
	if err := id.Validate(); err != nil {
		return err
	}
	if err := checkI128(delta0); err != nil {
		return err
	}
	if err := checkI128(delta1); err != nil {
		return err
	}
	if (delta0.IsNegative() || delta1.IsNegative()) && session.ActiveIdentity() != id.Owner {
		return types.ErrNotPositionOwner.Wrapf("saved balance owner %s", id.Owner)
	}

	saved, err := k.GetSavedBalance(ctx, id)
	if err != nil {
		return err
	}
	saved.Amount0 = saved.Amount0.Add(delta0)
	saved.Amount1 = saved.Amount1.Add(delta1)
	if saved.Amount0.IsNegative() || saved.Amount1.IsNegative() {
		return types.ErrSavedBalanceOverflow.Wrap("withdrawal exceeds saved balance")
	}
	if err := checkU128(saved.Amount0); err != nil {
		return types.ErrSavedBalanceOverflow.Wrap(err.Error())
	}
	if err := checkU128(saved.Amount1); err != nil {
		return types.ErrSavedBalanceOverflow.Wrap(err.Error())
	}

	store := k.getStore(ctx)
	if saved.IsZero() {
		store.Delete(types.SavedBalanceKey(id))
	} else {
		store.Set(types.SavedBalanceKey(id), types.MarshalSavedBalance(saved))
	}

	if err := session.accountDelta(id.Token0, delta0); err != nil {
		return err
	}
	if err := session.accountDelta(id.Token1, delta1); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSavedBalance,
		sdk.NewAttribute(types.AttributeKeyOwner, id.Owner),
		sdk.NewAttribute(types.AttributeKeyToken0, id.Token0),
		sdk.NewAttribute(types.AttributeKeyToken1, id.Token1),
		sdk.NewAttribute(types.AttributeKeyAmount0, delta0.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1, delta1.String()),
	))
	return nil
}
