package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/zhenyu-captain/2025-11-ekubo-sub001/testutil/keeper"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/keeper"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

const (
	denom0 = "token0"
	denom1 = "utoken1"
)

func testPoolKey(fee uint64, spacing uint32) types.PoolKey {
	return types.PoolKey{
		Token0: denom0,
		Token1: denom1,
		Config: types.PoolConfig{Fee: fee, TickSpacing: spacing},
	}
}

// fundedTrader returns a bech32 address holding plenty of both pool tokens.
func fundedTrader(bank *testkeeper.MockBankKeeper, index byte) string {
	addr := testkeeper.TestAddr(index)
	acc, _ := sdk.AccAddressFromBech32(addr)
	bank.FundAccount(acc, sdk.NewCoins(
		sdk.NewCoin(denom0, sdkmath.NewInt(1_000_000_000_000)),
		sdk.NewCoin(denom1, sdkmath.NewInt(1_000_000_000_000)),
	))
	return addr
}

// settle pays off positive debts and withdraws credits so the lock commits.
func settle(t *testing.T, k *keeper.Keeper, ctx sdk.Context, recipient string, tokens ...string) {
	t.Helper()
	session := k.Session()
	require.NotNil(t, session)
	for _, token := range tokens {
		debt := session.Debt(token)
		switch {
		case debt.IsPositive():
			require.NoError(t, k.Pay(ctx, token, debt))
		case debt.IsNegative():
			require.NoError(t, k.Withdraw(ctx, token, debt.Neg(), recipient))
		}
	}
}

// initPool initializes a pool at the given tick.
func initPool(t *testing.T, k *keeper.Keeper, ctx sdk.Context, key types.PoolKey, tick int32) {
	t.Helper()
	_, err := k.InitializePool(ctx, key, tick)
	require.NoError(t, err)
}

// addLiquidity opens a position under owner inside its own lock and settles
// the deposit.
func addLiquidity(
	t *testing.T,
	k *keeper.Keeper,
	ctx sdk.Context,
	key types.PoolKey,
	owner string,
	bounds types.Bounds,
	liquidity int64,
) types.BalanceDelta {
	t.Helper()
	var delta types.BalanceDelta
	err := k.Lock(ctx, owner, func(ctx sdk.Context) error {
		var err error
		delta, err = k.UpdatePosition(ctx, key, nil, bounds, sdkmath.NewInt(liquidity))
		if err != nil {
			return err
		}
		settle(t, k, ctx, owner, key.Token0, key.Token1)
		return nil
	})
	require.NoError(t, err)
	return delta
}

// swapIn performs an exact-input swap inside its own lock and settles.
func swapIn(
	t *testing.T,
	k *keeper.Keeper,
	ctx sdk.Context,
	key types.PoolKey,
	trader string,
	amount int64,
	isToken1 bool,
) types.SwapResult {
	t.Helper()
	var result types.SwapResult
	err := k.Lock(ctx, trader, func(ctx sdk.Context) error {
		var err error
		result, err = k.Swap(ctx, key, types.SwapParams{
			Amount:   sdkmath.NewInt(amount),
			IsToken1: isToken1,
		})
		if err != nil {
			return err
		}
		settle(t, k, ctx, trader, key.Token0, key.Token1)
		return nil
	})
	require.NoError(t, err)
	return result
}
