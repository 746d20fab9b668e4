package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	testkeeper "github.com/zhenyu-captain/2025-11-ekubo-sub001/testutil/keeper"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/keeper"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

func TestInvariantsHoldUnderActivity(t *testing.T) {
	k, bank, ctx := testkeeper.AmmKeeper(t)
	key := testPoolKey(feeRate25Pct, 10)
	initPool(t, k, ctx, key, 0)
	owner := fundedTrader(bank, 1)
	trader := fundedTrader(bank, 2)

	addLiquidity(t, k, ctx, key, owner, types.Bounds{Lower: -10000, Upper: 10000}, 1_000_000_000)
	addLiquidity(t, k, ctx, key, owner, types.Bounds{Lower: -100, Upper: 100}, 5_000_000_000)
	swapIn(t, k, ctx, key, trader, 10_000_000, false)
	swapIn(t, k, ctx, key, trader, 3_000_000, true)
	addLiquidity(t, k, ctx, key, owner, types.Bounds{Lower: -100, Upper: 100}, -5_000_000_000)

	msg, broken := keeper.AllInvariants(k)(ctx)
	require.False(t, broken, msg)
}

func TestInvariantsOnEmptyState(t *testing.T) {
	k, _, ctx := testkeeper.AmmKeeper(t)
	msg, broken := keeper.AllInvariants(k)(ctx)
	require.False(t, broken, msg)
}
