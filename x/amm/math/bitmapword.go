package math

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// LowestSetBitFrom returns the index of the lowest set bit in word at or
// above from, and whether one exists. Bit 0 is the least significant.
func LowestSetBitFrom(word *uint256.Int, from uint) (uint, bool) {
	if from > 255 {
		return 0, false
	}
	limb := from / 64
	offset := from % 64
	for i := limb; i < 4; i++ {
		w := word[i]
		if i == limb {
			w &= ^uint64(0) << offset
		}
		if w != 0 {
			return i*64 + uint(bits.TrailingZeros64(w)), true
		}
	}
	return 0, false
}

// HighestSetBitThrough returns the index of the highest set bit in word at or
// below through, and whether one exists.
func HighestSetBitThrough(word *uint256.Int, through uint) (uint, bool) {
	if through > 255 {
		through = 255
	}
	limb := through / 64
	offset := through % 64
	for i := int(limb); i >= 0; i-- {
		w := word[i]
		if uint(i) == limb && offset < 63 {
			w &= ^uint64(0) >> (63 - offset)
		}
		if w != 0 {
			return uint(i)*64 + uint(63-bits.LeadingZeros64(w)), true
		}
	}
	return 0, false
}
