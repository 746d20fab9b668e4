package types

import (
	"encoding/binary"

	sdkmath "cosmossdk.io/math"
	"github.com/zeebo/blake3"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
)

// Bounds is a half-open tick range [Lower, Upper).
type Bounds struct {
	Lower int32
	Upper int32
}

// Validate checks ordering, range and spacing alignment for the pool the
// bounds belong to.
func (b Bounds) Validate(cfg PoolConfig) error {
	if b.Lower >= b.Upper {
		return ErrInvalidBounds.Wrapf("lower %d not below upper %d", b.Lower, b.Upper)
	}
	if b.Lower < ammmath.MinTick || b.Upper > ammmath.MaxTick {
		return ErrInvalidBounds.Wrapf("bounds [%d, %d) outside tick range", b.Lower, b.Upper)
	}
	if cfg.IsStable() {
		// Stableswap pools accept exactly the configured window.
		window := cfg.ActiveRange()
		if b != window {
			return ErrInvalidBounds.Wrapf(
				"stableswap position must cover [%d, %d), got [%d, %d)",
				window.Lower, window.Upper, b.Lower, b.Upper)
		}
		return nil
	}
	spacing := int32(cfg.TickSpacing)
	if b.Lower%spacing != 0 || b.Upper%spacing != 0 {
		return ErrInvalidBounds.Wrapf("bounds [%d, %d) not aligned to spacing %d", b.Lower, b.Upper, spacing)
	}
	return nil
}

// Contains reports whether the tick lies inside the half-open range.
func (b Bounds) Contains(tick int32) bool {
	return tick >= b.Lower && tick < b.Upper
}

// PositionID identifies a position within a pool. Distinct salts let one
// owner hold several positions over the same bounds.
type PositionID struct {
	Owner string
	Salt  []byte
	Bounds
}

// Hash returns the store sub-key for the position record.
func (id PositionID) Hash() []byte {
	h := blake3.New()
	h.Write(lengthPrefixed(id.Owner))
	h.Write(lengthPrefixed(string(id.Salt)))
	var ticks [8]byte
	binary.BigEndian.PutUint32(ticks[0:4], uint32(id.Lower))
	binary.BigEndian.PutUint32(ticks[4:8], uint32(id.Upper))
	h.Write(ticks[:])
	return h.Sum(nil)[:32]
}

// Position is the stored liquidity record. FeesSnapshot holds the
// fees-inside accumulators observed at the last liquidity change or fee
// collection; the difference against the current value prices pending fees.
// Tag is opaque to the module and settable only by the owner.
type Position struct {
	PositionID
	Liquidity    sdkmath.Int
	FeesSnapshot FeesPerLiquidity
	Tag          [32]byte
}

// PendingFees returns the uncollected fee amounts given the current
// fees-inside accumulators for the position's bounds. Accumulator deltas are
// taken with wrapping arithmetic, amounts truncate toward zero.
func (p Position) PendingFees(inside FeesPerLiquidity) (amount0, amount1 sdkmath.Int) {
	diff := inside.Sub(p.FeesSnapshot)
	liq := p.Liquidity.BigInt()

	v0 := diff.Value0.ToBig()
	v0.Mul(v0, liq).Rsh(v0, 128)
	v1 := diff.Value1.ToBig()
	v1.Mul(v1, liq).Rsh(v1, 128)
	return sdkmath.NewIntFromBigInt(v0), sdkmath.NewIntFromBigInt(v1)
}
