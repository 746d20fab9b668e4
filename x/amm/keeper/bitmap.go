package keeper

import (
	"github.com/holiman/uint256"

	sdk "github.com/cosmos/cosmos-sdk/types"

	ammmath "github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/math"
	"github.com/zhenyu-captain/2025-11-ekubo-sub001/x/amm/types"
)

// The tick bitmap stores one bit per spacing-aligned tick, packed into
// 256-bit words. Tick positions are biased so the word index is unsigned and
// store iteration order matches tick order.
const bitmapPosBias = int64(1) << 27

func (k *Keeper) getBitmapWord(ctx sdk.Context, poolID types.PoolID, word uint32) (*uint256.Int, error) {
	bz := k.getStore(ctx).Get(types.BitmapWordKey(poolID, word))
	if bz == nil {
		return new(uint256.Int), nil
	}
	return types.UnmarshalBitmapWord(bz)
}

// flipTick toggles the initialized bit for a spacing-aligned tick. Empty
// words are removed from the store.
func (k *Keeper) flipTick(ctx sdk.Context, poolID types.PoolID, tick int32, spacing uint32) error {
	pos := tickPosition(tick, spacing)
	word := uint32(pos >> 8)
	bit := uint(pos & 255)

	w, err := k.getBitmapWord(ctx, poolID, word)
	if err != nil {
		return err
	}
	var mask uint256.Int
	mask.Lsh(uint256.NewInt(1), bit)
	w.Xor(w, &mask)

	store := k.getStore(ctx)
	if w.IsZero() {
		store.Delete(types.BitmapWordKey(poolID, word))
		return nil
	}
	store.Set(types.BitmapWordKey(poolID, word), types.MarshalBitmapWord(w))
	return nil
}

// NextInitializedTick returns the nearest initialized tick strictly above
// from, or the search horizon when none is found within the skipAhead word
// budget. The boolean reports whether the returned tick is initialized.
func (k *Keeper) NextInitializedTick(
	ctx sdk.Context,
	poolID types.PoolID,
	spacing uint32,
	from int32,
	skipAhead uint32,
) (int32, bool, error) {
	start := tickPosition(from, spacing) + 1
	maxPos := tickPosition(maxAlignedTick(spacing), spacing)
	if start > maxPos {
		return ammmath.MaxTick, false, nil
	}

	word := uint32(start >> 8)
	bit := uint(start & 255)
	lastWord := uint32(maxPos >> 8)
	if horizon := word + skipAhead; horizon < lastWord {
		lastWord = horizon
	}

	for ; word <= lastWord; word++ {
		w, err := k.getBitmapWord(ctx, poolID, word)
		if err != nil {
			return 0, false, err
		}
		if found, ok := ammmath.LowestSetBitFrom(w, bit); ok {
			return positionTick(int64(word)<<8+int64(found), spacing), true, nil
		}
		bit = 0
	}

	horizonPos := int64(lastWord)<<8 + 255
	if horizonPos > maxPos {
		horizonPos = maxPos
	}
	tick := positionTick(horizonPos, spacing)
	if tick > ammmath.MaxTick {
		tick = ammmath.MaxTick
	}
	return tick, false, nil
}

// PrevInitializedTick returns the nearest initialized tick at or below from,
// or the search horizon when none is found within the skipAhead word budget.
func (k *Keeper) PrevInitializedTick(
	ctx sdk.Context,
	poolID types.PoolID,
	spacing uint32,
	from int32,
	skipAhead uint32,
) (int32, bool, error) {
	start := tickPosition(from, spacing)
	minPos := tickPosition(minAlignedTick(spacing), spacing)
	if start < minPos {
		return ammmath.MinTick, false, nil
	}

	word := uint32(start >> 8)
	bit := uint(start & 255)
	firstWord := uint32(minPos >> 8)
	if skipAhead < word-firstWord {
		firstWord = word - skipAhead
	}

	for ; ; word-- {
		w, err := k.getBitmapWord(ctx, poolID, word)
		if err != nil {
			return 0, false, err
		}
		if found, ok := ammmath.HighestSetBitThrough(w, bit); ok {
			return positionTick(int64(word)<<8+int64(found), spacing), true, nil
		}
		bit = 255
		if word == firstWord {
			break
		}
	}

	horizonPos := int64(firstWord) << 8
	if horizonPos < minPos {
		horizonPos = minPos
	}
	tick := positionTick(horizonPos, spacing)
	if tick < ammmath.MinTick {
		tick = ammmath.MinTick
	}
	return tick, false, nil
}

// tickPosition maps a tick to its biased bitmap position. Ticks between
// aligned values floor toward negative infinity so a search from any tick
// starts in the right word.
func tickPosition(tick int32, spacing uint32) int64 {
	s := int64(spacing)
	t := int64(tick)
	q := t / s
	if t%s != 0 && t < 0 {
		q--
	}
	return q + bitmapPosBias
}

func positionTick(pos int64, spacing uint32) int32 {
	return int32((pos - bitmapPosBias) * int64(spacing))
}

func maxAlignedTick(spacing uint32) int32 {
	s := int32(spacing)
	return (ammmath.MaxTick / s) * s
}

func minAlignedTick(spacing uint32) int32 {
	s := int32(spacing)
	return -((ammmath.MaxTick / s) * s)
}
