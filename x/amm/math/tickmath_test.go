package math

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTickToRatioBounds(t *testing.T) {
	_, err := TickToRatio(MaxTick + 1)
	require.ErrorIs(t, err, ErrTickOutOfRange)
	_, err = TickToRatio(MinTick - 1)
	require.ErrorIs(t, err, ErrTickOutOfRange)

	lo, err := TickToRatio(MinTick)
	require.NoError(t, err)
	require.Equal(t, MinSqrtRatio, lo)

	hi, err := TickToRatio(MaxTick)
	require.NoError(t, err)
	require.Equal(t, MaxSqrtRatio, hi)

	require.Less(t, uint64(lo), uint64(hi))
}

func TestTickZeroIsUnitRatio(t *testing.T) {
	r, err := TickToRatio(0)
	require.NoError(t, err)
	require.Equal(t, new(big.Int).Lsh(big.NewInt(1), 128), r.Fixed())
}

func TestTickToRatioMonotonic(t *testing.T) {
	ticks := []int32{
		MinTick, MinTick + 1, -50_000_000, -1_000_000, -100_000, -1000, -100, -2, -1,
		0, 1, 2, 100, 1000, 100_000, 1_000_000, 50_000_000, MaxTick - 1, MaxTick,
	}
	var prev SqrtRatio
	for i, tick := range ticks {
		r, err := TickToRatio(tick)
		require.NoError(t, err, "tick %d", tick)
		if i > 0 {
			require.Less(t, uint64(prev), uint64(r), "tick %d", tick)
		}
		prev = r
	}
}

func TestTickRatioRoundTrip(t *testing.T) {
	ticks := []int32{
		MinTick, MinTick + 1, -10_000_000, -698_605, -1000, -1, 0, 1, 1000,
		698_605, 10_000_000, MaxTick - 1, MaxTick,
	}
	for _, tick := range ticks {
		r, err := TickToRatio(tick)
		require.NoError(t, err, "tick %d", tick)
		got, err := RatioToTick(r)
		require.NoError(t, err, "tick %d", tick)
		require.Equal(t, tick, got, "tick %d", tick)
	}
}

func TestRatioToTickFloors(t *testing.T) {
	// A ratio strictly between two tick ratios resolves to the lower tick.
	for _, tick := range []int32{-1000, -1, 0, 1, 12345} {
		lo, err := TickToRatio(tick)
		require.NoError(t, err)
		hi, err := TickToRatio(tick + 1)
		require.NoError(t, err)

		mid := new(big.Int).Add(lo.Fixed(), hi.Fixed())
		mid.Rsh(mid, 1)
		r, err := SqrtRatioFromFixedDown(mid)
		require.NoError(t, err)

		got, err := RatioToTick(r)
		require.NoError(t, err)
		require.Equal(t, tick, got, "between ticks %d and %d", tick, tick+1)
	}
}

func TestRatioToTickRejectsOutOfRange(t *testing.T) {
	_, err := RatioToTick(0)
	require.ErrorIs(t, err, ErrRatioOutOfRange)
	_, err = RatioToTick(MinSqrtRatio - 1)
	require.ErrorIs(t, err, ErrRatioOutOfRange)
	_, err = RatioToTick(MaxSqrtRatio + 1)
	require.ErrorIs(t, err, ErrRatioOutOfRange)
}

func TestAdjacentTickSpacingIsOneInMillion(t *testing.T) {
	// sqrt(1.000001)^2 == 1.000001 within the grid's resolution: the ratio
	// of consecutive tick prices (squared ratios) stays near one part per
	// million.
	for _, tick := range []int32{-100_000, -1, 0, 1, 100_000} {
		a, err := TickToRatio(tick)
		require.NoError(t, err)
		b, err := TickToRatio(tick + 1)
		require.NoError(t, err)

		// b/a in parts per billion, computed on the fixed values.
		q := new(big.Int).Mul(b.Fixed(), big.NewInt(1_000_000_000))
		q.Quo(q, a.Fixed())
		diff := new(big.Int).Sub(q, big.NewInt(1_000_000_000))
		// sqrt(1.000001) is ~500 ppb over 1; allow the grid's quantization.
		require.InDelta(t, 500, float64(diff.Int64()), 5, "tick %d", tick)
	}
}
