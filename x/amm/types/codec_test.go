package types_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

func TestTickInfoCodecSignedDelta(t *testing.T) {
	// Negative crossing deltas survive the two's complement encoding.
	info := types.TickInfo{
		LiquidityDelta: sdkmath.NewInt(-12345),
		LiquidityNet:   sdkmath.NewInt(12345),
	}
	got, err := types.UnmarshalTickInfo(types.MarshalTickInfo(info))
	require.NoError(t, err)
	require.Equal(t, info.LiquidityDelta, got.LiquidityDelta)
	require.Equal(t, info.LiquidityNet, got.LiquidityNet)

	extreme := types.TickInfo{
		LiquidityDelta: sdkmath.NewIntFromBigInt(ammmath.MinI128()),
		LiquidityNet:   sdkmath.NewIntFromBigInt(ammmath.MaxU128()),
	}
	got, err = types.UnmarshalTickInfo(types.MarshalTickInfo(extreme))
	require.NoError(t, err)
	require.Equal(t, extreme, got)
}

func TestPoolStateCodecNegativeTick(t *testing.T) {
	state := types.PoolState{
		SqrtRatio: ammmath.MinSqrtRatio,
		Tick:      -88_000_000,
		Liquidity: sdkmath.NewInt(1_000_000),
	}
	got, err := types.UnmarshalPoolState(types.MarshalPoolState(state))
	require.NoError(t, err)
	require.Equal(t, state, got)
}

func TestPositionCodecKeepsIdentity(t *testing.T) {
	var v0, v1 uint256.Int
	v0.SetUint64(777)
	v1.Lsh(uint256.NewInt(1), 200)
	p := types.Position{
		PositionID: types.PositionID{
			Owner:  "cosmos1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnrujsuw",
			Salt:   []byte("salt"),
			Bounds: types.Bounds{Lower: -200, Upper: 600},
		},
		Liquidity:    sdkmath.NewInt(42),
		FeesSnapshot: types.FeesPerLiquidity{Value0: v0, Value1: v1},
	}
	copy(p.Tag[:], "opaque owner data")
	got, err := types.UnmarshalPosition(types.MarshalPosition(p))
	require.NoError(t, err)
	require.Equal(t, p, got)

	// Empty salt stays nil through the round trip.
	p.Salt = nil
	got, err = types.UnmarshalPosition(types.MarshalPosition(p))
	require.NoError(t, err)
	require.Nil(t, got.Salt)
}

func TestCallPointsCodec(t *testing.T) {
	points := types.CallPoints{BeforeSwap: true, AfterCollectFees: true}
	got, err := types.UnmarshalCallPoints(types.MarshalCallPoints(points))
	require.NoError(t, err)
	require.Equal(t, points, got)

	_, err = types.UnmarshalCallPoints([]byte{})
	require.Error(t, err)
}

func TestUnmarshalRejectsTruncation(t *testing.T) {
	_, err := types.UnmarshalPoolState([]byte{1, 2, 3})
	require.Error(t, err)
	_, err = types.UnmarshalTickInfo(nil)
	require.Error(t, err)
	_, err = types.UnmarshalPosition([]byte{200})
	require.Error(t, err)
}

func TestMarshalPanicsOnOverflow(t *testing.T) {
	over := sdkmath.NewIntFromBigInt(ammmath.MaxU128()).AddRaw(1)
	require.Panics(t, func() {
		types.MarshalPoolState(types.PoolState{
			SqrtRatio: ammmath.MinSqrtRatio,
			Liquidity: over,
		})
	})
}
