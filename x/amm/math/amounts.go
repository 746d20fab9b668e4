package math

import (
	"math/big"
)

// MaxU128 returns the largest value of the unsigned amount container.
func MaxU128() *big.Int {
	return new(big.Int).Set(maxU128)
}

// MaxI128 returns the largest value of the signed amount container.
func MaxI128() *big.Int {
	return new(big.Int).Set(maxI128)
}

// MinI128 returns the smallest value of the signed amount container.
func MinI128() *big.Int {
	return new(big.Int).Set(minI128)
}

// FitsU128 reports whether v fits the unsigned amount container.
func FitsU128(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(maxU128) <= 0
}

// FitsI128 reports whether v fits the signed amount container.
func FitsI128(v *big.Int) bool {
	return v.Cmp(minI128) >= 0 && v.Cmp(maxI128) <= 0
}

// ClampI128 saturates v to the signed amount container, never wrapping.
func ClampI128(v *big.Int) *big.Int {
	if v.Cmp(maxI128) > 0 {
		return MaxI128()
	}
	if v.Cmp(minI128) < 0 {
		return MinI128()
	}
	return v
}

// Amount0Delta returns the token0 amount that corresponds to the given
// liquidity between two square-root prices:
//
//	amount0 = liquidity * 2^128 * (ratioHigh - ratioLow) / (ratioHigh * ratioLow)
//
// in the requested rounding direction. Errors if the result overflows u128.
func Amount0Delta(ratioA, ratioB *big.Int, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	lo, hi := sortFixed(ratioA, ratioB)
	num := new(big.Int).Lsh(liquidity, 128)
	num.Mul(num, new(big.Int).Sub(hi, lo))
	den := new(big.Int).Mul(hi, lo)
	out := divRound(num, den, roundUp)
	if !FitsU128(out) {
		return nil, ErrAmountOverflow
	}
	return out, nil
}

// Amount1Delta returns the token1 amount that corresponds to the given
// liquidity between two square-root prices:
//
//	amount1 = liquidity * (ratioHigh - ratioLow) / 2^128
//
// in the requested rounding direction. Errors if the result overflows u128.
func Amount1Delta(ratioA, ratioB *big.Int, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	lo, hi := sortFixed(ratioA, ratioB)
	num := new(big.Int).Mul(liquidity, new(big.Int).Sub(hi, lo))
	out := divRound(num, oneQ128, roundUp)
	if !FitsU128(out) {
		return nil, ErrAmountOverflow
	}
	return out, nil
}

// NextRatioFromAmount0 returns the square-root price after moving the given
// token0 amount into (add) or out of (remove) the position at the current
// price, rounding so the pool is never short.
func NextRatioFromAmount0(ratio, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(ratio), nil
	}
	num := new(big.Int).Lsh(liquidity, 128)
	product := new(big.Int).Mul(amount, ratio)

	var den *big.Int
	if add {
		den = new(big.Int).Add(num, product)
	} else {
		den = new(big.Int).Sub(num, product)
		if den.Sign() <= 0 {
			return nil, ErrInsufficientLiquidity
		}
	}
	next := new(big.Int).Mul(num, ratio)
	return divRound(next, den, true), nil
}

// NextRatioFromAmount1 returns the square-root price after moving the given
// token1 amount into (add) or out of (remove) the position at the current
// price, rounding so the pool is never short.
func NextRatioFromAmount1(ratio, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	quotient := new(big.Int).Lsh(amount, 128)
	if add {
		quotient.Quo(quotient, liquidity)
		return new(big.Int).Add(ratio, quotient), nil
	}
	quotient = divRound(quotient, liquidity, true)
	next := new(big.Int).Sub(ratio, quotient)
	if next.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	return next, nil
}

func sortFixed(a, b *big.Int) (lo, hi *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// divRound divides num by den, rounding up when requested. Both operands
// must be non-negative and den nonzero.
func divRound(num, den *big.Int, roundUp bool) *big.Int {
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if roundUp && rem.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
