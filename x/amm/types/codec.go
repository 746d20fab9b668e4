package types

import (
	"encoding/binary"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/holiman/uint256"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
)

// Store records use fixed-width big-endian encodings. Amounts and liquidity
// occupy 16 bytes (unsigned, or two's complement where signed), fee
// accumulators one 32-byte word each. Marshal panics on container overflow
// since the keeper range-checks every value before it is stored.

const (
	poolStateLen    = 8 + 4 + 16
	feesPerLiqLen   = 32 + 32
	tickInfoLen     = 16 + 16
	savedBalanceLen = 16 + 16
)

// MarshalPoolState encodes a pool state record.
func MarshalPoolState(s PoolState) []byte {
	out := make([]byte, 0, poolStateLen)
	out = binary.BigEndian.AppendUint64(out, uint64(s.SqrtRatio))
	out = binary.BigEndian.AppendUint32(out, uint32(s.Tick))
	return appendU128(out, s.Liquidity)
}

// UnmarshalPoolState decodes a pool state record.
func UnmarshalPoolState(bz []byte) (PoolState, error) {
	if len(bz) != poolStateLen {
		return PoolState{}, fmt.Errorf("pool state: invalid length %d", len(bz))
	}
	return PoolState{
		SqrtRatio: ammmath.SqrtRatio(binary.BigEndian.Uint64(bz[0:8])),
		Tick:      int32(binary.BigEndian.Uint32(bz[8:12])),
		Liquidity: readU128(bz[12:28]),
	}, nil
}

// MarshalFeesPerLiquidity encodes a fee accumulator pair.
func MarshalFeesPerLiquidity(f FeesPerLiquidity) []byte {
	out := make([]byte, 0, feesPerLiqLen)
	b0 := f.Value0.Bytes32()
	b1 := f.Value1.Bytes32()
	out = append(out, b0[:]...)
	return append(out, b1[:]...)
}

// UnmarshalFeesPerLiquidity decodes a fee accumulator pair.
func UnmarshalFeesPerLiquidity(bz []byte) (FeesPerLiquidity, error) {
	if len(bz) != feesPerLiqLen {
		return FeesPerLiquidity{}, fmt.Errorf("fees per liquidity: invalid length %d", len(bz))
	}
	var f FeesPerLiquidity
	f.Value0.SetBytes32(bz[0:32])
	f.Value1.SetBytes32(bz[32:64])
	return f, nil
}

// MarshalTickInfo encodes a tick liquidity record.
func MarshalTickInfo(t TickInfo) []byte {
	out := make([]byte, 0, tickInfoLen)
	out = appendI128(out, t.LiquidityDelta)
	return appendU128(out, t.LiquidityNet)
}

// UnmarshalTickInfo decodes a tick liquidity record.
func UnmarshalTickInfo(bz []byte) (TickInfo, error) {
	if len(bz) != tickInfoLen {
		return TickInfo{}, fmt.Errorf("tick info: invalid length %d", len(bz))
	}
	return TickInfo{
		LiquidityDelta: readI128(bz[0:16]),
		LiquidityNet:   readU128(bz[16:32]),
	}, nil
}

// MarshalBitmapWord encodes one bitmap word.
func MarshalBitmapWord(w *uint256.Int) []byte {
	b := w.Bytes32()
	return b[:]
}

// UnmarshalBitmapWord decodes one bitmap word.
func UnmarshalBitmapWord(bz []byte) (*uint256.Int, error) {
	if len(bz) != 32 {
		return nil, fmt.Errorf("bitmap word: invalid length %d", len(bz))
	}
	return new(uint256.Int).SetBytes32(bz), nil
}

// MarshalPosition encodes a position record. The identity fields are stored
// alongside the amounts so prefix iteration can reconstruct positions
// without reversing the hashed key.
func MarshalPosition(p Position) []byte {
	out := lengthPrefixed(p.Owner)
	out = append(out, lengthPrefixed(string(p.Salt))...)
	out = binary.BigEndian.AppendUint32(out, uint32(p.Lower))
	out = binary.BigEndian.AppendUint32(out, uint32(p.Upper))
	out = appendU128(out, p.Liquidity)
	out = append(out, MarshalFeesPerLiquidity(p.FeesSnapshot)...)
	return append(out, p.Tag[:]...)
}

// UnmarshalPosition decodes a position record.
func UnmarshalPosition(bz []byte) (Position, error) {
	owner, rest, err := readLengthPrefixed(bz)
	if err != nil {
		return Position{}, fmt.Errorf("position owner: %w", err)
	}
	salt, rest, err := readLengthPrefixed(rest)
	if err != nil {
		return Position{}, fmt.Errorf("position salt: %w", err)
	}
	if len(rest) != 4+4+16+feesPerLiqLen+32 {
		return Position{}, fmt.Errorf("position: invalid length %d", len(bz))
	}
	snapshot, err := UnmarshalFeesPerLiquidity(rest[24 : 24+feesPerLiqLen])
	if err != nil {
		return Position{}, err
	}
	p := Position{
		PositionID: PositionID{
			Owner: owner,
			Salt:  []byte(salt),
			Bounds: Bounds{
				Lower: int32(binary.BigEndian.Uint32(rest[0:4])),
				Upper: int32(binary.BigEndian.Uint32(rest[4:8])),
			},
		},
		Liquidity:    readU128(rest[8:24]),
		FeesSnapshot: snapshot,
	}
	copy(p.Tag[:], rest[24+feesPerLiqLen:])
	if len(p.Salt) == 0 {
		p.Salt = nil
	}
	return p, nil
}

// MarshalSavedBalance encodes a saved balance pair.
func MarshalSavedBalance(s SavedBalance) []byte {
	out := make([]byte, 0, savedBalanceLen)
	out = appendU128(out, s.Amount0)
	return appendU128(out, s.Amount1)
}

// UnmarshalSavedBalance decodes a saved balance pair.
func UnmarshalSavedBalance(bz []byte) (SavedBalance, error) {
	if len(bz) != savedBalanceLen {
		return SavedBalance{}, fmt.Errorf("saved balance: invalid length %d", len(bz))
	}
	return SavedBalance{
		Amount0: readU128(bz[0:16]),
		Amount1: readU128(bz[16:32]),
	}, nil
}

// MarshalCallPoints encodes a registered extension's call points as a bitmask.
func MarshalCallPoints(c CallPoints) []byte {
	var mask byte
	flags := []bool{
		c.BeforeInitializePool, c.AfterInitializePool,
		c.BeforeSwap, c.AfterSwap,
		c.BeforeUpdatePosition, c.AfterUpdatePosition,
		c.BeforeCollectFees, c.AfterCollectFees,
	}
	for i, set := range flags {
		if set {
			mask |= 1 << i
		}
	}
	return []byte{mask}
}

// UnmarshalCallPoints decodes an extension registration record.
func UnmarshalCallPoints(bz []byte) (CallPoints, error) {
	if len(bz) != 1 {
		return CallPoints{}, fmt.Errorf("call points: invalid length %d", len(bz))
	}
	mask := bz[0]
	return CallPoints{
		BeforeInitializePool: mask&(1<<0) != 0,
		AfterInitializePool:  mask&(1<<1) != 0,
		BeforeSwap:           mask&(1<<2) != 0,
		AfterSwap:            mask&(1<<3) != 0,
		BeforeUpdatePosition: mask&(1<<4) != 0,
		AfterUpdatePosition:  mask&(1<<5) != 0,
		BeforeCollectFees:    mask&(1<<6) != 0,
		AfterCollectFees:     mask&(1<<7) != 0,
	}, nil
}

func appendU128(out []byte, v sdkmath.Int) []byte {
	b := v.BigInt()
	if !ammmath.FitsU128(b) {
		panic(fmt.Sprintf("value %s out of u128 range", v))
	}
	var buf [16]byte
	b.FillBytes(buf[:])
	return append(out, buf[:]...)
}

func readU128(bz []byte) sdkmath.Int {
	return sdkmath.NewIntFromBigInt(new(big.Int).SetBytes(bz))
}

func appendI128(out []byte, v sdkmath.Int) []byte {
	b := v.BigInt()
	if !ammmath.FitsI128(b) {
		panic(fmt.Sprintf("value %s out of i128 range", v))
	}
	if b.Sign() < 0 {
		b.Add(b, i128Modulus)
	}
	var buf [16]byte
	b.FillBytes(buf[:])
	return append(out, buf[:]...)
}

func readI128(bz []byte) sdkmath.Int {
	b := new(big.Int).SetBytes(bz)
	if bz[0]&0x80 != 0 {
		b.Sub(b, i128Modulus)
	}
	return sdkmath.NewIntFromBigInt(b)
}

var i128Modulus = new(big.Int).Lsh(big.NewInt(1), 128)

func readLengthPrefixed(bz []byte) (string, []byte, error) {
	if len(bz) == 0 {
		return "", nil, fmt.Errorf("truncated record")
	}
	n := int(bz[0])
	if len(bz) < 1+n {
		return "", nil, fmt.Errorf("truncated record")
	}
	return string(bz[1 : 1+n]), bz[1+n:], nil
}
