package keeper

import (
	sdkmath "cosmossdk.io/math"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// checkU128 rejects amounts outside the unsigned container.
func checkU128(v sdkmath.Int) error {
	if !ammmath.FitsU128(v.BigInt()) {
		return types.ErrAmountOverflow.Wrapf("%s exceeds u128", v)
	}
	return nil
}

// checkI128 rejects amounts outside the signed container.
func checkI128(v sdkmath.Int) error {
	if !ammmath.FitsI128(v.BigInt()) {
		return types.ErrAmountOverflow.Wrapf("%s exceeds i128", v)
	}
	return nil
}

// clampI128 saturates a calculated amount to the signed container. Swap
// output amounts saturate rather than error so an extreme price limit still
// produces a settleable delta.
func clampI128(v sdkmath.Int) sdkmath.Int {
	return sdkmath.NewIntFromBigInt(ammmath.ClampI128(v.BigInt()))
}
