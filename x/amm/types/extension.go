package types

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// CallPoints declares which pool lifecycle hooks an extension receives. The
// set is fixed at registration; a pool key naming the extension routes
// exactly these calls.
type CallPoints struct {
	BeforeInitializePool bool
	AfterInitializePool  bool
	BeforeSwap           bool
	AfterSwap            bool
	BeforeUpdatePosition bool
	AfterUpdatePosition  bool
	BeforeCollectFees    bool
	AfterCollectFees     bool
}

// IsEmpty reports whether no hook is requested. Registration rejects empty
// call points since such an extension could never observe anything.
func (c CallPoints) IsEmpty() bool {
	return c == CallPoints{}
}

// Extension is a per-pool hook module. Implementations are registered in the
// keeper by address before any pool may reference them. Hook errors abort
// the triggering operation unchanged.
type Extension interface {
	// Address is the identity the extension registers and pools reference.
	Address() string

	// CallPoints returns the hooks this extension expects. Must be constant.
	CallPoints() CallPoints

	BeforeInitializePool(ctx sdk.Context, key PoolKey, tick int32) error
	AfterInitializePool(ctx sdk.Context, key PoolKey, state PoolState) error
	BeforeSwap(ctx sdk.Context, key PoolKey, params SwapParams) error
	AfterSwap(ctx sdk.Context, key PoolKey, params SwapParams, result SwapResult) error
	BeforeUpdatePosition(ctx sdk.Context, key PoolKey, id PositionID, liquidityDelta sdkmath.Int) error
	AfterUpdatePosition(ctx sdk.Context, key PoolKey, id PositionID, delta BalanceDelta) error
	BeforeCollectFees(ctx sdk.Context, key PoolKey, id PositionID) error
	AfterCollectFees(ctx sdk.Context, key PoolKey, id PositionID, amount0, amount1 sdkmath.Int) error
}

// BaseExtension is a no-op implementation meant for embedding so extensions
// only override the hooks they declare.
type BaseExtension struct{}

func (BaseExtension) BeforeInitializePool(sdk.Context, PoolKey, int32) error { return nil }
func (BaseExtension) AfterInitializePool(sdk.Context, PoolKey, PoolState) error {
	return nil
}
func (BaseExtension) BeforeSwap(sdk.Context, PoolKey, SwapParams) error { return nil }
func (BaseExtension) AfterSwap(sdk.Context, PoolKey, SwapParams, SwapResult) error {
	return nil
}
func (BaseExtension) BeforeUpdatePosition(sdk.Context, PoolKey, PositionID, sdkmath.Int) error {
	return nil
}
func (BaseExtension) AfterUpdatePosition(sdk.Context, PoolKey, PositionID, BalanceDelta) error {
	return nil
}
func (BaseExtension) BeforeCollectFees(sdk.Context, PoolKey, PositionID) error { return nil }
func (BaseExtension) AfterCollectFees(sdk.Context, PoolKey, PositionID, sdkmath.Int, sdkmath.Int) error {
	return nil
}
