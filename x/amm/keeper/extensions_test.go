package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/zhenyu-captain/2025-11-ekubo-sub001/testutil/keeper"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// recordingExtension subscribes to every hook and records the order in which
// they fire. A non-nil failWith aborts the next hook invocation.
type recordingExtension struct {
	types.BaseExtension

	addr     string
	calls    []string
	failWith error
}

func allCallPoints() types.CallPoints {
	return types.CallPoints{
		BeforeInitializePool: true,
		AfterInitializePool:  true,
		BeforeSwap:           true,
		AfterSwap:            true,
		BeforeUpdatePosition: true,
		AfterUpdatePosition:  true,
		BeforeCollectFees:    true,
		AfterCollectFees:     true,
	}
}

func (e *recordingExtension) Address() string              { return e.addr }
func (e *recordingExtension) CallPoints() types.CallPoints { return allCallPoints() }

func (e *recordingExtension) record(name string) error {
	if e.failWith != nil {
		return e.failWith
	}
	e.calls = append(e.calls, name)
	return nil
}

func (e *recordingExtension) BeforeInitializePool(sdk.Context, types.PoolKey, int32) error {
	return e.record("before_initialize_pool")
}

func (e *recordingExtension) AfterInitializePool(sdk.Context, types.PoolKey, types.PoolState) error {
	return e.record("after_initialize_pool")
}

func (e *recordingExtension) BeforeSwap(sdk.Context, types.PoolKey, types.SwapParams) error {
	return e.record("before_swap")
}

func (e *recordingExtension) AfterSwap(sdk.Context, types.PoolKey, types.SwapParams, types.SwapResult) error {
	return e.record("after_swap")
}

func (e *recordingExtension) BeforeUpdatePosition(sdk.Context, types.PoolKey, types.PositionID, sdkmath.Int) error {
	return e.record("before_update_position")
}

func (e *recordingExtension) AfterUpdatePosition(sdk.Context, types.PoolKey, types.PositionID, types.BalanceDelta) error {
	return e.record("after_update_position")
}

func (e *recordingExtension) BeforeCollectFees(sdk.Context, types.PoolKey, types.PositionID) error {
	return e.record("before_collect_fees")
}

func (e *recordingExtension) AfterCollectFees(sdk.Context, types.PoolKey, types.PositionID, sdkmath.Int, sdkmath.Int) error {
	return e.record("after_collect_fees")
}

func extensionPoolKey(addr string) types.PoolKey {
	key := testPoolKey(0, 10)
	key.Config.Extension = addr
	return key
}

func TestRegisterExtensionValidation(t *testing.T) {
	k, _, ctx := testkeeper.AmmKeeper(t)
	ext := &recordingExtension{addr: testkeeper.TestAddr(9)}

	// Declared call points must match what the extension reports.
	err := k.RegisterExtension(ctx, ext, types.CallPoints{BeforeSwap: true})
	require.ErrorIs(t, err, types.ErrCallPointsMismatch)

	require.NoError(t, k.RegisterExtension(ctx, ext, allCallPoints()))

	points, err := k.GetExtensionCallPoints(ctx, ext.addr)
	require.NoError(t, err)
	require.Equal(t, allCallPoints(), points)

	err = k.RegisterExtension(ctx, ext, allCallPoints())
	require.ErrorIs(t, err, types.ErrExtensionAlreadyRegistered)
}

func TestHooksFireInOrder(t *testing.T) {
	k, bank, ctx := testkeeper.AmmKeeper(t)
	ext := &recordingExtension{addr: testkeeper.TestAddr(9)}
	require.NoError(t, k.RegisterExtension(ctx, ext, allCallPoints()))

	key := extensionPoolKey(ext.addr)
	initPool(t, k, ctx, key, 0)
	owner := fundedTrader(bank, 1)
	trader := fundedTrader(bank, 2)
	bounds := types.Bounds{Lower: -10000, Upper: 10000}

	addLiquidity(t, k, ctx, key, owner, bounds, 1_000_000_000)
	swapIn(t, k, ctx, key, trader, 1_000_000, false)
	collectFees(t, k, ctx, key, owner, bounds)

	require.Equal(t, []string{
		"before_initialize_pool",
		"after_initialize_pool",
		"before_update_position",
		"after_update_position",
		"before_swap",
		"after_swap",
		"before_collect_fees",
		"after_collect_fees",
	}, ext.calls)
}

func TestHookErrorAbortsOperation(t *testing.T) {
	k, bank, ctx := testkeeper.AmmKeeper(t)
	ext := &recordingExtension{addr: testkeeper.TestAddr(9)}
	require.NoError(t, k.RegisterExtension(ctx, ext, allCallPoints()))

	key := extensionPoolKey(ext.addr)
	initPool(t, k, ctx, key, 0)
	owner := fundedTrader(bank, 1)

	ext.failWith = types.ErrInvalidAmount.Wrap("rejected by extension")
	err := k.Lock(ctx, owner, func(ctx sdk.Context) error {
		_, err := k.UpdatePosition(ctx, key, nil, types.Bounds{Lower: -100, Upper: 100}, sdkmath.NewInt(1000))
		return err
	})
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, found, err := k.GetPosition(ctx, key.ID(), types.PositionID{
		Owner:  owner,
		Bounds: types.Bounds{Lower: -100, Upper: 100},
	})
	require.NoError(t, err)
	require.False(t, found)
}

func TestPoolRequiresRegisteredExtension(t *testing.T) {
	k, _, ctx := testkeeper.AmmKeeper(t)
	key := extensionPoolKey(testkeeper.TestAddr(9))

	_, err := k.InitializePool(ctx, key, 0)
	require.ErrorIs(t, err, types.ErrExtensionNotRegistered)
}

func TestExtensionSkipsOwnHooks(t *testing.T) {
	k, bank, ctx := testkeeper.AmmKeeper(t)
	ext := &recordingExtension{addr: testkeeper.TestAddr(9)}
	require.NoError(t, k.RegisterExtension(ctx, ext, allCallPoints()))

	key := extensionPoolKey(ext.addr)
	initPool(t, k, ctx, key, 0)

	acc, _ := sdk.AccAddressFromBech32(ext.addr)
	bank.FundAccount(acc, sdk.NewCoins(
		sdk.NewCoin(denom0, sdkmath.NewInt(1_000_000_000_000)),
		sdk.NewCoin(denom1, sdkmath.NewInt(1_000_000_000_000)),
	))

	before := len(ext.calls)

	// When the extension itself holds the lock, its own pool's hooks are
	// suppressed so it can call back into the pool freely.
	require.NoError(t, k.Lock(ctx, ext.addr, func(ctx sdk.Context) error {
		if _, err := k.UpdatePosition(ctx, key, nil, types.Bounds{Lower: -100, Upper: 100}, sdkmath.NewInt(1000)); err != nil {
			return err
		}
		settle(t, k, ctx, ext.addr, key.Token0, key.Token1)
		return nil
	}))

	require.Len(t, ext.calls, before)
}
