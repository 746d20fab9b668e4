package types

import (
	sdkmath "cosmossdk.io/math"
)

// BalanceDelta is a signed pair of token amounts from the pool's point of
// view: positive means the pool is owed the amount, negative means the pool
// owes it.
type BalanceDelta struct {
	Amount0 sdkmath.Int
	Amount1 sdkmath.Int
}

// ZeroBalanceDelta returns a delta with both amounts zero.
func ZeroBalanceDelta() BalanceDelta {
	return BalanceDelta{Amount0: sdkmath.ZeroInt(), Amount1: sdkmath.ZeroInt()}
}

// Add returns the element-wise sum.
func (d BalanceDelta) Add(other BalanceDelta) BalanceDelta {
	return BalanceDelta{
		Amount0: d.Amount0.Add(other.Amount0),
		Amount1: d.Amount1.Add(other.Amount1),
	}
}

// IsZero reports whether both amounts are zero.
func (d BalanceDelta) IsZero() bool {
	return d.Amount0.IsZero() && d.Amount1.IsZero()
}

// SavedBalance is credit a user left custodied with the module, keyed by
// owner, token pair and salt. Amounts are unsigned.
type SavedBalance struct {
	Amount0 sdkmath.Int
	Amount1 sdkmath.Int
}

// IsZero reports whether nothing is saved.
func (s SavedBalance) IsZero() bool {
	return s.Amount0.IsZero() && s.Amount1.IsZero()
}

// SavedBalanceID identifies a saved balance entry.
type SavedBalanceID struct {
	Owner  string
	Token0 string
	Token1 string
	Salt   []byte
}

// Validate checks the token pair ordering shared with pool keys.
func (id SavedBalanceID) Validate() error {
	if id.Owner == "" {
		return ErrInvalidPoolKey.Wrap("empty owner")
	}
	if id.Token0 == "" || id.Token1 == "" {
		return ErrInvalidPoolKey.Wrap("empty token")
	}
	if id.Token0 >= id.Token1 {
		return ErrTokensNotSorted.Wrapf("%s >= %s", id.Token0, id.Token1)
	}
	return nil
}
