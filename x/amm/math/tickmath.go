package math

import (
	"math/big"
)

// Ticks index discrete price buckets: price = 1.000001^tick, and the stored
// ratio is the square root, 1.000001^(tick/2). MaxTick is the largest tick
// whose square-root ratio stays below 2^64.
const (
	MaxTick = 88722883
	MinTick = -MaxTick
)

// tickLadderBits is the number of per-bit correction factors needed to cover
// |tick| <= MaxTick (MaxTick < 2^27).
const tickLadderBits = 27

var (
	oneQ128  = new(big.Int).Lsh(big.NewInt(1), 128)
	oneQ192  = new(big.Int).Lsh(big.NewInt(1), 192)
	oneQ320  = new(big.Int).Lsh(big.NewInt(1), 320)
	maxU128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxI128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	bigThree = big.NewInt(3)

	// tickLadder[i] holds sqrt(1/1.000001)^(2^i) in Q192 fixed point.
	tickLadder [tickLadderBits]*big.Int

	// ln2Q128 and tickPerLog2Q128 drive the logarithm side of the
	// conversion: tick = log2(ratio) * 2*ln(2)/ln(1.000001).
	ln2Q128         *big.Int
	tickPerLog2Q128 *big.Int

	// MinSqrtRatio and MaxSqrtRatio bound every representable price.
	MinSqrtRatio SqrtRatio
	MaxSqrtRatio SqrtRatio
)

// The ladder factors and logarithm constants are exact to better than
// 2^-160 relative error, far below the 2^-30 resolution of the compact
// ratio grid, so they never perturb which grid point a tick maps to.
func init() {
	// sqrt(1/1.000001) in Q192: the integer square root of
	// 2^384 * 10^6 / 1000001.
	base := new(big.Int).Lsh(big.NewInt(1), 384)
	base.Mul(base, big.NewInt(1_000_000))
	base.Quo(base, big.NewInt(1_000_001))
	tickLadder[0] = new(big.Int).Sqrt(base)
	for i := 1; i < tickLadderBits; i++ {
		sq := new(big.Int).Mul(tickLadder[i-1], tickLadder[i-1])
		tickLadder[i] = sq.Rsh(sq, 192)
	}

	// ln(2) = 2*atanh(1/3), ln(1.000001) = 2*atanh(1/2000001), both via
	// the odd-power series in Q192.
	ln2Q192 := atanhSeriesQ192(new(big.Int).Quo(oneQ192, bigThree))
	ln2Q192.Lsh(ln2Q192, 1)
	lnBaseQ192 := atanhSeriesQ192(new(big.Int).Quo(oneQ192, big.NewInt(2_000_001)))
	lnBaseQ192.Lsh(lnBaseQ192, 1)

	ln2Q128 = new(big.Int).Rsh(ln2Q192, 64)

	// 2*ln(2)/ln(1.000001) in Q128.
	num := new(big.Int).Lsh(ln2Q192, 129)
	tickPerLog2Q128 = num.Quo(num, lnBaseQ192)

	var err error
	if MinSqrtRatio, err = TickToRatio(MinTick); err != nil {
		panic(err)
	}
	if MaxSqrtRatio, err = TickToRatio(MaxTick); err != nil {
		panic(err)
	}
}

// atanhSeriesQ192 evaluates atanh(z) = z + z^3/3 + z^5/5 + ... for a Q192
// argument in [0, 1/3].
func atanhSeriesQ192(z *big.Int) *big.Int {
	sum := new(big.Int).Set(z)
	term := new(big.Int).Set(z)
	zsq := new(big.Int).Mul(z, z)
	zsq.Rsh(zsq, 192)
	for k := int64(3); ; k += 2 {
		term.Mul(term, zsq)
		term.Rsh(term, 192)
		if term.Sign() == 0 {
			break
		}
		contrib := new(big.Int).Quo(term, big.NewInt(k))
		if contrib.Sign() == 0 {
			break
		}
		sum.Add(sum, contrib)
	}
	return sum
}

// TickToRatio converts a tick to its square-root price via the precomputed
// bit ladder: multiply the per-bit factors of |tick| together and invert the
// result for positive ticks. The result is quantized down to the compact
// ratio grid, so every tick boundary is exactly representable.
func TickToRatio(tick int32) (SqrtRatio, error) {
	if tick < MinTick || tick > MaxTick {
		return 0, ErrTickOutOfRange
	}
	if tick == 0 {
		return SqrtRatioFromFixedDown(oneQ128)
	}

	abs := uint32(tick)
	if tick < 0 {
		abs = uint32(-int64(tick))
	}

	acc := new(big.Int).Set(oneQ192)
	for i := 0; i < tickLadderBits; i++ {
		if abs&(1<<uint(i)) != 0 {
			acc.Mul(acc, tickLadder[i])
			acc.Rsh(acc, 192)
		}
	}

	var fixed *big.Int
	if tick < 0 {
		fixed = acc.Rsh(acc, 64)
	} else {
		fixed = new(big.Int).Quo(oneQ320, acc)
	}
	return SqrtRatioFromFixedDown(fixed)
}

// RatioToTick converts a square-root price to the greatest tick whose ratio
// does not exceed it. The logarithm is approximated by normalizing the ratio
// into [1, 2) and running the odd-power atanh series; because the
// approximation and the ratio grid together carry a ~0.002-tick error
// envelope, the result is verified against the forward conversion, trying
// one tick higher and never overshooting the input.
func RatioToTick(r SqrtRatio) (int32, error) {
	if r < MinSqrtRatio || r > MaxSqrtRatio {
		return 0, ErrRatioOutOfRange
	}
	fixed := r.Fixed()

	// Normalize: fixed = 2^exp * m with m in [2^128, 2^129).
	exp := fixed.BitLen() - 1 - 128
	m := new(big.Int)
	if exp >= 0 {
		m.Rsh(fixed, uint(exp))
	} else {
		m.Lsh(fixed, uint(-exp))
	}

	// ln(m/2^128) = 2*atanh((m - 1)/(m + 1)) in Q128.
	num := new(big.Int).Sub(m, oneQ128)
	num.Lsh(num, 128)
	den := new(big.Int).Add(m, oneQ128)
	z := num.Quo(num, den)
	lnM := atanhSeriesQ128(z)
	lnM.Lsh(lnM, 1)

	// log2 of the full ratio in Q128, then scale into tick units.
	log2 := new(big.Int).Lsh(lnM, 128)
	log2.Quo(log2, ln2Q128)
	log2.Add(log2, new(big.Int).Lsh(big.NewInt(int64(exp)), 128))

	tickQ128 := new(big.Int).Mul(log2, tickPerLog2Q128)
	tickQ128.Div(tickQ128, oneQ128)
	tickBig := tickQ128.Div(tickQ128, oneQ128)
	tick := int32(tickBig.Int64())

	// The approximation may land one tick low or high; pick the greatest
	// tick whose forward conversion does not exceed the input. Swap
	// correctness depends on never overshooting the true price.
	if tick < MaxTick {
		if next, err := TickToRatio(tick + 1); err == nil && next <= r {
			tick++
		}
	}
	for tick > MinTick {
		cur, err := TickToRatio(tick)
		if err != nil {
			return 0, err
		}
		if cur <= r {
			break
		}
		tick--
	}
	return tick, nil
}

// atanhSeriesQ128 evaluates the atanh odd-power series for a Q128 argument
// in [0, 1/3].
func atanhSeriesQ128(z *big.Int) *big.Int {
	sum := new(big.Int).Set(z)
	term := new(big.Int).Set(z)
	zsq := new(big.Int).Mul(z, z)
	zsq.Rsh(zsq, 128)
	for k := int64(3); ; k += 2 {
		term.Mul(term, zsq)
		term.Rsh(term, 128)
		if term.Sign() == 0 {
			break
		}
		contrib := new(big.Int).Quo(term, big.NewInt(k))
		if contrib.Sign() == 0 {
			break
		}
		sum.Add(sum, contrib)
	}
	return sum
}
