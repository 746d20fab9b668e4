package types

// Event types emitted by the AMM module
const (
	EventTypePoolInitialized = "pool_initialized"
	EventTypePositionUpdated = "position_updated"
	EventTypeFeesCollected   = "fees_collected"
	EventTypeSwap            = "swap"
	EventTypeFeesAccumulated = "fees_accumulated"
	EventTypeLockAcquired    = "lock_acquired"
	EventTypeLockReleased    = "lock_released"
	EventTypePositionTagged  = "position_tagged"
	EventTypeSavedBalance    = "saved_balance_updated"
	EventTypeExtensionSet    = "extension_registered"
)

// Event attribute keys
const (
	AttributeKeyPoolID    = "pool_id"
	AttributeKeyToken0    = "token0"
	AttributeKeyToken1    = "token1"
	AttributeKeyOwner     = "owner"
	AttributeKeyLocker    = "locker"
	AttributeKeySessionID = "session_id"
	AttributeKeyTick      = "tick"
	AttributeKeySqrtRatio = "sqrt_ratio"
	AttributeKeyLiquidity = "liquidity"
	AttributeKeyAmount0   = "amount0"
	AttributeKeyAmount1   = "amount1"
	AttributeKeyFeesPaid  = "fees_paid"
	AttributeKeyExtension = "extension"
)
