package keeper

import (
	"encoding/binary"
	"fmt"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// RegisterInvariants registers all AMM invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "tick-liquidity", TickLiquidityInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-liquidity-balance", PoolLiquidityBalanceInvariant(k))
}

// AllInvariants runs all invariants of the AMM module
func AllInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := TickLiquidityInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return PoolLiquidityBalanceInvariant(k)(ctx)
	}
}

// TickLiquidityInvariant checks that every tick record is internally
// consistent: the referencing liquidity is positive and covers the absolute
// crossing delta.
func TickLiquidityInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg    string
			broken int
		)
		store := k.getStore(ctx)
		it := storetypes.KVStorePrefixIterator(store, types.TickInfoKeyPrefix)
		defer it.Close()
		for ; it.Valid(); it.Next() {
			info, err := types.UnmarshalTickInfo(it.Value())
			if err != nil {
				broken++
				msg += fmt.Sprintf("undecodable tick record %x: %v\n", it.Key(), err)
				continue
			}
			tick := tickFromKey(it.Key())
			if !info.LiquidityNet.IsPositive() {
				broken++
				msg += fmt.Sprintf("tick %d tracked with non-positive liquidity %s\n", tick, info.LiquidityNet)
			}
			if info.LiquidityDelta.Abs().GT(info.LiquidityNet) {
				broken++
				msg += fmt.Sprintf("tick %d crossing delta %s exceeds referenced liquidity %s\n",
					tick, info.LiquidityDelta, info.LiquidityNet)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "tick-liquidity",
			fmt.Sprintf("%d broken tick records\n%s", broken, msg)), broken != 0
	}
}

// PoolLiquidityBalanceInvariant checks per pool that the crossing deltas of
// all ticks sum to zero, which holds when every position contributed equal
// and opposite deltas at its bounds.
func PoolLiquidityBalanceInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		sums := make(map[types.PoolID]sdkmath.Int)
		store := k.getStore(ctx)
		it := storetypes.KVStorePrefixIterator(store, types.TickInfoKeyPrefix)
		defer it.Close()
		for ; it.Valid(); it.Next() {
			info, err := types.UnmarshalTickInfo(it.Value())
			if err != nil {
				continue
			}
			var poolID types.PoolID
			copy(poolID[:], it.Key()[1:33])
			sum, ok := sums[poolID]
			if !ok {
				sum = sdkmath.ZeroInt()
			}
			sums[poolID] = sum.Add(info.LiquidityDelta)
		}

		var (
			msg    string
			broken int
		)
		for poolID, sum := range sums {
			if !sum.IsZero() {
				broken++
				msg += fmt.Sprintf("pool %x tick deltas sum to %s\n", poolID, sum)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "pool-liquidity-balance",
			fmt.Sprintf("%d unbalanced pools\n%s", broken, msg)), broken != 0
	}
}

// tickFromKey recovers the biased tick from a tick record key.
func tickFromKey(key []byte) int32 {
	raw := binary.BigEndian.Uint32(key[len(key)-4:])
	return int32(raw - (uint32(1) << 31))
}
