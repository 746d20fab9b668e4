package types

import (
	"encoding/binary"

	sdkmath "cosmossdk.io/math"
	"github.com/zeebo/blake3"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
)

// MaxTickSpacing bounds concentrated-pool tick spacing so that every pool has
// a usable number of liquidity boundaries.
const MaxTickSpacing = 698605

// MaxAmplification bounds the stableswap amplification exponent; beyond it the
// active window would collapse to a single tick.
const MaxAmplification = 26

// PoolID is the content hash of a pool key.
type PoolID [32]byte

// PoolConfig carries the immutable per-pool parameters.
//
// TickSpacing > 0 selects a concentrated pool. TickSpacing == 0 selects a
// stableswap pool whose active-liquidity window is centered on CenterTick
// with half-width MaxTick >> Amplification; Amplification == 0 is the
// full-range special case.
type PoolConfig struct {
	// Fee is the swap fee rate in Q0.64 fixed point.
	Fee uint64

	// TickSpacing is the alignment unit for concentrated position bounds.
	TickSpacing uint32

	// Amplification is the stableswap window-narrowing exponent.
	Amplification uint32

	// CenterTick is the stableswap window center.
	CenterTick int32

	// Extension is the address of the pool's registered extension, or empty.
	Extension string
}

// IsStable reports whether the config selects a stableswap pool.
func (c PoolConfig) IsStable() bool {
	return c.TickSpacing == 0
}

// IsFullRange reports whether the config is the zero-amplification
// stableswap special case spanning the whole tick range.
func (c PoolConfig) IsFullRange() bool {
	return c.IsStable() && c.Amplification == 0
}

// ActiveRange returns the tick window in which a stableswap pool's liquidity
// participates in price movement. Only meaningful for stableswap configs.
func (c PoolConfig) ActiveRange() Bounds {
	halfWidth := int32(ammmath.MaxTick >> c.Amplification)
	return Bounds{Lower: c.CenterTick - halfWidth, Upper: c.CenterTick + halfWidth}
}

// PoolKey identifies a pool: an ordered token pair plus its config.
type PoolKey struct {
	Token0 string
	Token1 string
	Config PoolConfig
}

// MaxFeeRate caps the swap fee at 50% in Q0.64.
const MaxFeeRate = uint64(1) << 63

// Validate checks the key against the constraints enforced before any use:
// sorted distinct tokens and an in-range config.
func (k PoolKey) Validate() error {
	if k.Token0 == "" || k.Token1 == "" {
		return ErrInvalidPoolKey.Wrap("token identifiers cannot be empty")
	}
	if k.Token0 >= k.Token1 {
		return ErrTokensNotSorted.Wrapf("%q must sort strictly before %q", k.Token0, k.Token1)
	}
	if k.Config.Fee > MaxFeeRate {
		return ErrInvalidFeeRate.Wrapf("fee %d exceeds maximum %d", k.Config.Fee, MaxFeeRate)
	}
	if k.Config.IsStable() {
		if k.Config.Amplification > MaxAmplification {
			return ErrInvalidStableRange.Wrapf("amplification %d exceeds maximum %d", k.Config.Amplification, MaxAmplification)
		}
		window := k.Config.ActiveRange()
		if window.Lower < ammmath.MinTick || window.Upper > ammmath.MaxTick {
			return ErrInvalidStableRange.Wrapf("active range [%d, %d] outside tick bounds", window.Lower, window.Upper)
		}
		return nil
	}
	if k.Config.TickSpacing > MaxTickSpacing {
		return ErrInvalidTickSpacing.Wrapf("tick spacing %d exceeds maximum %d", k.Config.TickSpacing, MaxTickSpacing)
	}
	if k.Config.Amplification != 0 || k.Config.CenterTick != 0 {
		return ErrInvalidPoolKey.Wrap("amplification and center tick are stableswap-only fields")
	}
	return nil
}

// ID derives the pool identifier by content hashing the canonical key
// encoding.
func (k PoolKey) ID() PoolID {
	h := blake3.New()
	h.Write(lengthPrefixed(k.Token0))
	h.Write(lengthPrefixed(k.Token1))
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, k.Config.Fee)
	h.Write(buf)
	binary.BigEndian.PutUint32(buf[:4], k.Config.TickSpacing)
	h.Write(buf[:4])
	binary.BigEndian.PutUint32(buf[:4], k.Config.Amplification)
	h.Write(buf[:4])
	binary.BigEndian.PutUint32(buf[:4], uint32(k.Config.CenterTick))
	h.Write(buf[:4])
	h.Write(lengthPrefixed(k.Config.Extension))

	var id PoolID
	h.Digest().Read(id[:])
	return id
}

// MaxLiquidityPerTick returns the cap on net liquidity referencing any one
// tick, derived from the number of usable ticks at the pool's spacing so the
// sum over all ticks cannot overflow the u128 liquidity container.
func (k PoolKey) MaxLiquidityPerTick() sdkmath.Int {
	maxLiquidity := sdkmath.NewIntFromBigInt(ammmath.MaxU128())
	if k.Config.IsStable() {
		return maxLiquidity
	}
	spacing := int64(k.Config.TickSpacing)
	numTicks := (int64(ammmath.MaxTick)/spacing)*2 + 1
	return maxLiquidity.QuoRaw(numTicks)
}

// PoolState is the mutable per-pool record. The zero value means
// "uninitialized"; once initialized the sqrt ratio is always nonzero.
type PoolState struct {
	// SqrtRatio is the current price in compact fixed-ratio form.
	SqrtRatio ammmath.SqrtRatio

	// Tick is the current tick, consistent with SqrtRatio.
	Tick int32

	// Liquidity is the pool's current active liquidity. For stableswap
	// pools this is the whole pool's liquidity regardless of the window.
	Liquidity sdkmath.Int
}

// IsInitialized reports whether the pool has been initialized.
func (s PoolState) IsInitialized() bool {
	return s.SqrtRatio != 0
}
