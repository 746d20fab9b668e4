package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	testkeeper "github.com/zhenyu-captain/2025-11-ekubo-sub001/testutil/keeper"
	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

func TestNextPrevInitializedTick(t *testing.T) {
	k, bank, ctx := testkeeper.AmmKeeper(t)
	key := testPoolKey(0, 10)
	initPool(t, k, ctx, key, 0)
	owner := fundedTrader(bank, 1)

	// Positions mark their bounds in the bitmap.
	addLiquidity(t, k, ctx, key, owner, types.Bounds{Lower: -500, Upper: 200}, 1000)
	addLiquidity(t, k, ctx, key, owner, types.Bounds{Lower: 200, Upper: 7000}, 1000)

	poolID := key.ID()
	const budget = uint32(1 << 20)

	next, initialized, err := k.NextInitializedTick(ctx, poolID, 10, 0, budget)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, int32(200), next)

	// Strictly greater: from the tick itself the search moves on.
	next, initialized, err = k.NextInitializedTick(ctx, poolID, 10, 200, budget)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, int32(7000), next)

	prev, initialized, err := k.PrevInitializedTick(ctx, poolID, 10, 0, budget)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, int32(-500), prev)

	// At or below: the tick itself is found.
	prev, initialized, err = k.PrevInitializedTick(ctx, poolID, 10, -500, budget)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, int32(-500), prev)

	prev, initialized, err = k.PrevInitializedTick(ctx, poolID, 10, -501, budget)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, int32(-500), prev)
}

func TestBitmapBitClearsWhenTickEmpties(t *testing.T) {
	k, bank, ctx := testkeeper.AmmKeeper(t)
	key := testPoolKey(0, 10)
	initPool(t, k, ctx, key, 0)
	owner := fundedTrader(bank, 1)

	bounds := types.Bounds{Lower: -500, Upper: 200}
	addLiquidity(t, k, ctx, key, owner, bounds, 1000)
	addLiquidity(t, k, ctx, key, owner, bounds, -1000)

	next, initialized, err := k.NextInitializedTick(ctx, key.ID(), 10, 0, 1<<20)
	require.NoError(t, err)
	require.False(t, initialized)
	require.Equal(t, ammmath.MaxTick, next)
}

func TestSkipAheadBoundsTheSearch(t *testing.T) {
	k, bank, ctx := testkeeper.AmmKeeper(t)
	key := testPoolKey(0, 10)
	initPool(t, k, ctx, key, 0)
	owner := fundedTrader(bank, 1)

	// One word covers 256 positions of 10 ticks each. The only initialized
	// tick sits far beyond a zero-budget search from the origin.
	addLiquidity(t, k, ctx, key, owner, types.Bounds{Lower: -100000, Upper: 100000}, 1000)

	next, initialized, err := k.NextInitializedTick(ctx, key.ID(), 10, 0, 0)
	require.NoError(t, err)
	require.False(t, initialized)
	require.True(t, next < 100000)

	// Resuming from the horizon with a large budget finds it.
	next, initialized, err = k.NextInitializedTick(ctx, key.ID(), 10, next, 1<<20)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, int32(100000), next)

	prev, initialized, err := k.PrevInitializedTick(ctx, key.ID(), 10, 0, 0)
	require.NoError(t, err)
	require.False(t, initialized)
	require.True(t, prev > -100000)
}

func TestUnalignedFromFloorsToGrid(t *testing.T) {
	k, bank, ctx := testkeeper.AmmKeeper(t)
	key := testPoolKey(0, 10)
	initPool(t, k, ctx, key, 0)
	owner := fundedTrader(bank, 1)
	addLiquidity(t, k, ctx, key, owner, types.Bounds{Lower: -500, Upper: 200}, 1000)

	// A search from between grid ticks still finds the bound below.
	prev, initialized, err := k.PrevInitializedTick(ctx, key.ID(), 10, -493, 1<<20)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, int32(-500), prev)

	next, initialized, err := k.NextInitializedTick(ctx, key.ID(), 10, 195, 1<<20)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, int32(200), next)
}
