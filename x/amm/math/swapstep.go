package math

import (
	"math/big"
)

// SwapStepResult is the outcome of moving the price within a single
// constant-liquidity region. AmountIn excludes the fee.
type SwapStepResult struct {
	NextRatio SqrtRatio
	AmountIn  *big.Int
	AmountOut *big.Int
	Fee       *big.Int
}

// ComputeSwapStep advances the price from current toward target, consuming at
// most amountRemaining of the specified token. The price direction determines
// the token roles: an increasing price takes token1 and pays token0, a
// decreasing price takes token0 and pays token1. The returned price is always
// a representable grid value, rounded toward the current price for exact
// input and away from it for exact output so the pool is never short.
func ComputeSwapStep(current, target SqrtRatio, liquidity, amountRemaining *big.Int, isExactIn bool, feeRate uint64) (SwapStepResult, error) {
	if liquidity.Sign() == 0 || amountRemaining.Sign() == 0 || current == target {
		return SwapStepResult{
			NextRatio: target,
			AmountIn:  new(big.Int),
			AmountOut: new(big.Int),
			Fee:       new(big.Int),
		}, nil
	}
	if isExactIn {
		return swapStepExactIn(current, target, liquidity, amountRemaining, feeRate)
	}
	return swapStepExactOut(current, target, liquidity, amountRemaining, feeRate)
}

func swapStepExactIn(current, target SqrtRatio, liquidity, remaining *big.Int, feeRate uint64) (SwapStepResult, error) {
	increasing := target > current
	curF := current.Fixed()
	tgtF := target.Fixed()

	// Net input available after the fee, rounded down against the trader.
	remLessFee := new(big.Int).Mul(remaining, new(big.Int).Sub(twoPow64, new(big.Int).SetUint64(feeRate)))
	remLessFee.Rsh(remLessFee, feeShift)

	var amountToTarget *big.Int
	var err error
	if increasing {
		amountToTarget, err = Amount1Delta(curF, tgtF, liquidity, true)
	} else {
		amountToTarget, err = Amount0Delta(curF, tgtF, liquidity, true)
	}
	// An input overflow means the target is unreachable with any amount the
	// caller can hold, which degrades to a partial step.
	reached := err == nil && remLessFee.Cmp(amountToTarget) >= 0

	var next SqrtRatio
	var amountIn, fee *big.Int
	if reached {
		next = target
		amountIn = amountToTarget
		gross, err := AmountBeforeFee(amountIn, feeRate)
		if err != nil {
			return SwapStepResult{}, err
		}
		fee = gross.Sub(gross, amountIn)
	} else {
		amountIn = remLessFee
		fee = new(big.Int).Sub(remaining, remLessFee)
		var nextF *big.Int
		if increasing {
			nextF, err = NextRatioFromAmount1(curF, liquidity, remLessFee, true)
			if err != nil {
				return SwapStepResult{}, err
			}
			next, err = SqrtRatioFromFixedDown(nextF)
		} else {
			nextF, err = NextRatioFromAmount0(curF, liquidity, remLessFee, true)
			if err != nil {
				return SwapStepResult{}, err
			}
			next, err = SqrtRatioFromFixedUp(nextF)
		}
		if err != nil {
			return SwapStepResult{}, err
		}
	}

	amountOut, err := stepAmountOut(curF, next.Fixed(), liquidity, increasing)
	if err != nil {
		return SwapStepResult{}, err
	}
	return SwapStepResult{NextRatio: next, AmountIn: amountIn, AmountOut: amountOut, Fee: fee}, nil
}

func swapStepExactOut(current, target SqrtRatio, liquidity, remaining *big.Int, feeRate uint64) (SwapStepResult, error) {
	increasing := target > current
	curF := current.Fixed()
	tgtF := target.Fixed()

	var availableOut *big.Int
	var err error
	if increasing {
		availableOut, err = Amount0Delta(curF, tgtF, liquidity, false)
	} else {
		availableOut, err = Amount1Delta(curF, tgtF, liquidity, false)
	}
	reached := err == nil && remaining.Cmp(availableOut) >= 0

	var next SqrtRatio
	if reached {
		next = target
	} else {
		var nextF *big.Int
		if increasing {
			nextF, err = NextRatioFromAmount0(curF, liquidity, remaining, false)
		} else {
			nextF, err = NextRatioFromAmount1(curF, liquidity, remaining, false)
		}
		if err != nil {
			return SwapStepResult{}, err
		}
		// Never overshoot the target, then snap away from the current price
		// so the pool owes no more output than it computes.
		if increasing {
			if nextF.Cmp(tgtF) > 0 {
				nextF = tgtF
			}
			next, err = SqrtRatioFromFixedUp(nextF)
		} else {
			if nextF.Cmp(tgtF) < 0 {
				nextF = tgtF
			}
			next, err = SqrtRatioFromFixedDown(nextF)
		}
		if err != nil {
			return SwapStepResult{}, err
		}
	}

	nextF := next.Fixed()
	amountOut, err := stepAmountOut(curF, nextF, liquidity, increasing)
	if err != nil {
		return SwapStepResult{}, err
	}
	if amountOut.Cmp(remaining) > 0 {
		amountOut = new(big.Int).Set(remaining)
	}
	if amountOut.Sign() == 0 {
		return SwapStepResult{}, ErrPriceNotMoved
	}

	var amountIn *big.Int
	if increasing {
		amountIn, err = Amount1Delta(curF, nextF, liquidity, true)
	} else {
		amountIn, err = Amount0Delta(curF, nextF, liquidity, true)
	}
	if err != nil {
		return SwapStepResult{}, err
	}
	gross, err := AmountBeforeFee(amountIn, feeRate)
	if err != nil {
		return SwapStepResult{}, err
	}
	fee := gross.Sub(gross, amountIn)
	return SwapStepResult{NextRatio: next, AmountIn: amountIn, AmountOut: amountOut, Fee: fee}, nil
}

// stepAmountOut is the output owed over the traversed range, rounded down.
func stepAmountOut(curF, nextF, liquidity *big.Int, increasing bool) (*big.Int, error) {
	if increasing {
		return Amount0Delta(curF, nextF, liquidity, false)
	}
	return Amount1Delta(curF, nextF, liquidity, false)
}
