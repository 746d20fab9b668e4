// Package math implements the fixed-point price representation, tick
// conversions, curve amount formulas and fee arithmetic for the AMM core.
//
// Square-root prices are handled in two forms: a full-width Q64.128 fraction
// (*big.Int, "fixed" form) used inside computations, and the compact SqrtRatio
// encoding stored in pool state and passed across component boundaries.
// All 512-bit intermediate products use math/big.
package math

import (
	"errors"
	"math/big"
)

var (
	// ErrRatioOutOfRange is returned for prices outside the representable
	// sqrt-ratio window.
	ErrRatioOutOfRange = errors.New("sqrt ratio out of range")

	// ErrTickOutOfRange is returned for ticks outside [MinTick, MaxTick].
	ErrTickOutOfRange = errors.New("tick out of range")

	// ErrAmountOverflow is returned when a computed amount exceeds the
	// u128 container.
	ErrAmountOverflow = errors.New("amount overflows u128")

	// ErrInsufficientLiquidity is returned when a price move would exhaust
	// the step's liquidity.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for amount")

	// ErrPriceNotMoved reports the exact-output invariant violation: the
	// price failed to advance by at least one representable increment.
	ErrPriceNotMoved = errors.New("price not moved by exact-output step")
)

// SqrtRatio is the compact self-describing encoding of a square-root price.
//
// Bits 62-63 select one of four precision bands, bits 0-61 hold a normalized
// mantissa in [2^30, 2^62). Band b covers fixed Q64.128 values in
// [2^(64+32b), 2^(64+32(b+1))), decoded as mantissa << (34 + 32b). The
// representable grid has relative step ~2^-30, about 1/500 of a tick, which
// is the source of the documented ~0.002-tick conversion error envelope.
//
// The encoding is order-preserving: comparing two SqrtRatio values as
// integers compares the prices they represent. Zero is never a valid ratio
// and doubles as the "unset" sentinel.
type SqrtRatio uint64

const (
	sqrtRatioBandShift    = 62
	sqrtRatioMantissaMask = (uint64(1) << sqrtRatioBandShift) - 1
	sqrtRatioMantissaMin  = uint64(1) << 30
)

// Fixed returns the full-width Q64.128 fraction the ratio encodes.
func (r SqrtRatio) Fixed() *big.Int {
	band := uint(r >> sqrtRatioBandShift)
	mantissa := new(big.Int).SetUint64(uint64(r) & sqrtRatioMantissaMask)
	return mantissa.Lsh(mantissa, 34+32*band)
}

// IsZero reports whether the ratio is the unset sentinel.
func (r SqrtRatio) IsZero() bool {
	return r == 0
}

// SqrtRatioFromFixedDown encodes a Q64.128 fixed fraction, rounding down to
// the nearest representable ratio.
func SqrtRatioFromFixedDown(fixed *big.Int) (SqrtRatio, error) {
	bl := fixed.BitLen()
	if bl < 65 || bl > 192 {
		return 0, ErrRatioOutOfRange
	}
	band := uint(bl-65) / 32
	mantissa := new(big.Int).Rsh(fixed, 34+32*band)
	return SqrtRatio(uint64(band)<<sqrtRatioBandShift | mantissa.Uint64()), nil
}

// SqrtRatioFromFixedUp encodes a Q64.128 fixed fraction, rounding up to the
// nearest representable ratio.
func SqrtRatioFromFixedUp(fixed *big.Int) (SqrtRatio, error) {
	down, err := SqrtRatioFromFixedDown(fixed)
	if err != nil {
		return 0, err
	}
	if down.Fixed().Cmp(fixed) == 0 {
		return down, nil
	}
	band := uint64(down) >> sqrtRatioBandShift
	mantissa := uint64(down)&sqrtRatioMantissaMask + 1
	if mantissa > sqrtRatioMantissaMask {
		// Mantissa rolls over into the next band's lowest value.
		band++
		mantissa = sqrtRatioMantissaMin
		if band > 3 {
			return 0, ErrRatioOutOfRange
		}
	}
	return SqrtRatio(band<<sqrtRatioBandShift | mantissa), nil
}
