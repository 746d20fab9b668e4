package types

import (
	"cosmossdk.io/errors"
)

// AMM module sentinel errors.
//
// The codes are grouped by failure class: 1-19 input validation, 20-39
// state preconditions, 40-59 invariant violations, 60-79 authorization.
// Every class is fatal to the triggering operation; nothing is retried.
var (
	// Input validation
	ErrInvalidPoolKey     = errors.Register(ModuleName, 2, "invalid pool key")
	ErrTokensNotSorted    = errors.Register(ModuleName, 3, "token pair must be sorted and distinct")
	ErrInvalidFeeRate     = errors.Register(ModuleName, 4, "fee rate out of range")
	ErrInvalidTickSpacing = errors.Register(ModuleName, 5, "tick spacing out of range")
	ErrInvalidTick        = errors.Register(ModuleName, 6, "tick out of range")
	ErrInvalidBounds      = errors.Register(ModuleName, 7, "invalid position bounds")
	ErrInvalidPriceLimit  = errors.Register(ModuleName, 8, "price limit on wrong side of current price")
	ErrInvalidSqrtRatio   = errors.Register(ModuleName, 9, "sqrt ratio out of range")
	ErrInvalidAmount      = errors.Register(ModuleName, 10, "invalid amount")
	ErrInvalidStableRange = errors.Register(ModuleName, 11, "invalid stableswap range config")

	// State preconditions
	ErrPoolAlreadyInitialized     = errors.Register(ModuleName, 20, "pool already initialized")
	ErrPoolNotInitialized         = errors.Register(ModuleName, 21, "pool not initialized")
	ErrExtensionNotRegistered     = errors.Register(ModuleName, 22, "extension not registered")
	ErrExtensionAlreadyRegistered = errors.Register(ModuleName, 23, "extension already registered")
	ErrEmptyCallPoints            = errors.Register(ModuleName, 24, "extension call points must not be empty")
	ErrCallPointsMismatch         = errors.Register(ModuleName, 25, "expected call points do not match extension")
	ErrLockActive                 = errors.Register(ModuleName, 26, "a lock session is already active")
	ErrNoActiveLock               = errors.Register(ModuleName, 27, "no active lock session")
	ErrPositionNotFound           = errors.Register(ModuleName, 28, "position not found")
	ErrPaymentNotStarted          = errors.Register(ModuleName, 29, "no payment in progress for token")
	ErrPaymentInProgress          = errors.Register(ModuleName, 30, "payment already in progress for token")

	// Invariant violations
	ErrTickLiquidityOverflow = errors.Register(ModuleName, 40, "net liquidity at tick exceeds per-tick maximum")
	ErrAmountOverflow        = errors.Register(ModuleName, 41, "amount exceeds fixed-width container")
	ErrLiquidityUnderflow    = errors.Register(ModuleName, 42, "liquidity underflow")
	ErrDebtsNotZeroed        = errors.Register(ModuleName, 43, "lock session closed with nonzero debts")
	ErrSavedBalanceOverflow  = errors.Register(ModuleName, 44, "saved balance update out of bounds")
	ErrSwapStepStuck         = errors.Register(ModuleName, 45, "swap price failed to move with amount remaining")

	// Authorization
	ErrNotLocker            = errors.Register(ModuleName, 60, "caller does not hold the active lock")
	ErrNotPoolExtension     = errors.Register(ModuleName, 61, "caller is not the pool's extension")
	ErrNotPositionOwner     = errors.Register(ModuleName, 62, "caller is not the position owner")
	ErrForwardDepthExceeded = errors.Register(ModuleName, 63, "forward delegation already active")
)
