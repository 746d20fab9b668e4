package math

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	feeRate50Pct = uint64(1) << 63
	feeRate25Pct = uint64(1) << 62
)

func TestComputeFee(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		rate   uint64
		want   int64
	}{
		{"zero rate", 1000, 0, 0},
		{"zero amount", 0, feeRate50Pct, 0},
		{"half", 1000, feeRate50Pct, 500},
		{"quarter", 1000, feeRate25Pct, 250},
		{"rounds up", 1, feeRate25Pct, 1},
		{"odd amount half", 999, feeRate50Pct, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeFee(big.NewInt(tc.amount), tc.rate)
			require.Equal(t, tc.want, got.Int64())
		})
	}
}

func TestAmountBeforeFeeInvertsComputeFee(t *testing.T) {
	rates := []uint64{1, 1 << 32, 1 << 48, feeRate25Pct, feeRate50Pct}
	amounts := []int64{1, 2, 999, 1_000_000, 123_456_789}
	for _, rate := range rates {
		for _, after := range amounts {
			gross, err := AmountBeforeFee(big.NewInt(after), rate)
			require.NoError(t, err)

			net := new(big.Int).Sub(gross, ComputeFee(gross, rate))
			require.True(t, net.Cmp(big.NewInt(after)) >= 0,
				"rate %d after %d: gross %s nets %s", rate, after, gross, net)

			// Gross is the smallest such amount.
			smaller := new(big.Int).Sub(gross, big.NewInt(1))
			if smaller.Sign() > 0 {
				netSmaller := new(big.Int).Sub(smaller, ComputeFee(smaller, rate))
				require.True(t, netSmaller.Cmp(big.NewInt(after)) < 0,
					"rate %d after %d: %s already nets enough", rate, after, smaller)
			}
		}
	}
}

func TestAmountBeforeFeeZeroRate(t *testing.T) {
	gross, err := AmountBeforeFee(big.NewInt(777), 0)
	require.NoError(t, err)
	require.Equal(t, int64(777), gross.Int64())
}

func TestAmountBeforeFeeOverflow(t *testing.T) {
	_, err := AmountBeforeFee(MaxU128(), feeRate50Pct)
	require.ErrorIs(t, err, ErrAmountOverflow)
}
