package keeper

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// quoteLocker is the identity quotes simulate under. It never settles.
const quoteLocker = "quoter"

// QuoteSwap simulates a swap on a discarded store branch and returns its
// result without requiring a lock or settling any debt.
func (k *Keeper) QuoteSwap(ctx sdk.Context, key types.PoolKey, params types.SwapParams) (types.SwapResult, error) {
	if k.session != nil {
		return types.SwapResult{}, types.ErrLockActive.Wrap("cannot quote inside a lock")
	}
	cacheCtx, _ := ctx.CacheContext()
	k.session = &LockSession{
		locker: quoteLocker,
		debts:  make(map[string]sdkmath.Int),
	}
	defer func() { k.session = nil }()
	return k.Swap(cacheCtx, key, params)
}
