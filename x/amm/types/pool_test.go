package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

func concentratedKey() types.PoolKey {
	return types.PoolKey{
		Token0: "uatom",
		Token1: "uosmo",
		Config: types.PoolConfig{Fee: 1 << 32, TickSpacing: 100},
	}
}

func TestPoolKeyValidate(t *testing.T) {
	require.NoError(t, concentratedKey().Validate())

	cases := []struct {
		name   string
		mutate func(*types.PoolKey)
		err    error
	}{
		{"empty token", func(k *types.PoolKey) { k.Token0 = "" }, types.ErrInvalidPoolKey},
		{"unsorted", func(k *types.PoolKey) { k.Token0, k.Token1 = k.Token1, k.Token0 }, types.ErrTokensNotSorted},
		{"equal tokens", func(k *types.PoolKey) { k.Token1 = k.Token0 }, types.ErrTokensNotSorted},
		{"fee too high", func(k *types.PoolKey) { k.Config.Fee = types.MaxFeeRate + 1 }, types.ErrInvalidFeeRate},
		{"spacing too big", func(k *types.PoolKey) { k.Config.TickSpacing = types.MaxTickSpacing + 1 }, types.ErrInvalidTickSpacing},
		{"stable fields on concentrated", func(k *types.PoolKey) { k.Config.CenterTick = 5 }, types.ErrInvalidPoolKey},
		{"amplification too high", func(k *types.PoolKey) {
			k.Config.TickSpacing = 0
			k.Config.Amplification = types.MaxAmplification + 1
		}, types.ErrInvalidStableRange},
		{"stable window out of range", func(k *types.PoolKey) {
			k.Config.TickSpacing = 0
			k.Config.Amplification = 1
			k.Config.CenterTick = ammmath.MaxTick
		}, types.ErrInvalidStableRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := concentratedKey()
			tc.mutate(&key)
			require.ErrorIs(t, key.Validate(), tc.err)
		})
	}
}

func TestStableKeyValidate(t *testing.T) {
	key := types.PoolKey{
		Token0: "uatom",
		Token1: "uosmo",
		Config: types.PoolConfig{TickSpacing: 0, Amplification: 10, CenterTick: 100},
	}
	require.NoError(t, key.Validate())
	require.True(t, key.Config.IsStable())
	require.False(t, key.Config.IsFullRange())

	window := key.Config.ActiveRange()
	require.Equal(t, int32(100-(ammmath.MaxTick>>10)), window.Lower)
	require.Equal(t, int32(100+(ammmath.MaxTick>>10)), window.Upper)
}

func TestPoolIDDeterministicAndDistinct(t *testing.T) {
	a := concentratedKey()
	b := concentratedKey()
	require.Equal(t, a.ID(), b.ID())

	b.Config.Fee++
	require.NotEqual(t, a.ID(), b.ID())

	c := concentratedKey()
	c.Config.Extension = "ext"
	require.NotEqual(t, a.ID(), c.ID())

	// Field boundaries must not be ambiguous across tokens.
	d := types.PoolKey{Token0: "ab", Token1: "cd", Config: a.Config}
	e := types.PoolKey{Token0: "a", Token1: "bcd", Config: a.Config}
	require.NotEqual(t, d.ID(), e.ID())
}

func TestMaxLiquidityPerTick(t *testing.T) {
	key := concentratedKey()
	perTick := key.MaxLiquidityPerTick()
	require.True(t, perTick.IsPositive())

	numTicks := (int64(ammmath.MaxTick)/100)*2 + 1
	total := perTick.MulRaw(numTicks)
	require.True(t, total.BigInt().Cmp(ammmath.MaxU128()) <= 0)

	// Wider spacing means fewer ticks and a higher cap.
	wide := concentratedKey()
	wide.Config.TickSpacing = 10_000
	require.True(t, wide.MaxLiquidityPerTick().GT(perTick))

	stable := types.PoolKey{Token0: "a", Token1: "b", Config: types.PoolConfig{}}
	require.Equal(t, ammmath.MaxU128(), stable.MaxLiquidityPerTick().BigInt())
}
