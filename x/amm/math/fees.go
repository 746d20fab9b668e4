package math

import (
	"math/big"
)

// Fee rates are 0.64 fixed-point fractions of the input amount. A rate of
// 1<<63 is exactly 50%, the configured ceiling.
const feeShift = 64

// ComputeFee returns the fee charged on amount at the given rate, rounded up
// so the pool never undercollects:
//
//	fee = ceil(amount * rate / 2^64)
func ComputeFee(amount *big.Int, rate uint64) *big.Int {
	if rate == 0 || amount.Sign() == 0 {
		return new(big.Int)
	}
	num := new(big.Int).Mul(amount, new(big.Int).SetUint64(rate))
	rem := new(big.Int)
	num.QuoRem(num, twoPow64, rem)
	if rem.Sign() != 0 {
		num.Add(num, big.NewInt(1))
	}
	return num
}

// AmountBeforeFee returns the smallest gross amount whose net portion, after
// deducting the fee at the given rate, is at least afterFee:
//
//	gross = ceil(afterFee * 2^64 / (2^64 - rate))
//
// Errors when the result overflows u128.
func AmountBeforeFee(afterFee *big.Int, rate uint64) (*big.Int, error) {
	if rate == 0 {
		return new(big.Int).Set(afterFee), nil
	}
	num := new(big.Int).Lsh(afterFee, feeShift)
	den := new(big.Int).Sub(twoPow64, new(big.Int).SetUint64(rate))
	gross := divRound(num, den, true)
	if !FitsU128(gross) {
		return nil, ErrAmountOverflow
	}
	return gross, nil
}

var twoPow64 = new(big.Int).Lsh(big.NewInt(1), 64)
