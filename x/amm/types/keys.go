package types

import (
	"encoding/binary"
)

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Store key prefixes
var (
	PoolStateKeyPrefix    = []byte{0x01} // pool id -> pool state
	PoolFeesKeyPrefix     = []byte{0x02} // pool id -> global fees per liquidity
	TickInfoKeyPrefix     = []byte{0x03} // pool id ++ tick -> tick liquidity record
	TickFeesKeyPrefix     = []byte{0x04} // pool id ++ tick -> fees-outside snapshot
	BitmapWordKeyPrefix   = []byte{0x05} // pool id ++ word index -> 256-bit bitmap word
	PositionKeyPrefix     = []byte{0x06} // pool id ++ position hash -> position record
	ExtensionKeyPrefix    = []byte{0x07} // extension address -> registered call points
	SavedBalanceKeyPrefix = []byte{0x08} // owner ++ token pair ++ salt -> balance pair
	LockCounterKey        = []byte{0x09} // next lock session id
)

// tickKeyBias shifts signed ticks into an order-preserving unsigned range.
const tickKeyBias = uint32(1) << 31

// PoolStateKey returns the store key for a pool's state record.
func PoolStateKey(poolID PoolID) []byte {
	return append(PoolStateKeyPrefix, poolID[:]...)
}

// PoolFeesKey returns the store key for a pool's global fee accumulators.
func PoolFeesKey(poolID PoolID) []byte {
	return append(PoolFeesKeyPrefix, poolID[:]...)
}

// TickInfoKey returns the store key for a pool tick's liquidity record.
func TickInfoKey(poolID PoolID, tick int32) []byte {
	key := append(TickInfoKeyPrefix, poolID[:]...)
	return appendTick(key, tick)
}

// TickFeesKey returns the store key for a pool tick's fees-outside record.
func TickFeesKey(poolID PoolID, tick int32) []byte {
	key := append(TickFeesKeyPrefix, poolID[:]...)
	return appendTick(key, tick)
}

// BitmapWordKey returns the store key for one word of a pool's tick bitmap.
func BitmapWordKey(poolID PoolID, word uint32) []byte {
	key := append(BitmapWordKeyPrefix, poolID[:]...)
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, word)
	return append(key, buf...)
}

// PositionStoreKey returns the store key for a position record.
func PositionStoreKey(poolID PoolID, id PositionID) []byte {
	h := id.Hash()
	key := append(PositionKeyPrefix, poolID[:]...)
	return append(key, h[:]...)
}

// PositionIterationPrefix returns the prefix under which all of a pool's
// positions are stored.
func PositionIterationPrefix(poolID PoolID) []byte {
	return append(PositionKeyPrefix, poolID[:]...)
}

// ExtensionKey returns the store key for an extension registration record.
func ExtensionKey(addr string) []byte {
	return append(ExtensionKeyPrefix, []byte(addr)...)
}

// SavedBalanceKey returns the store key for a saved balance pair.
func SavedBalanceKey(id SavedBalanceID) []byte {
	key := append(SavedBalanceKeyPrefix, lengthPrefixed(id.Owner)...)
	key = append(key, lengthPrefixed(id.Token0)...)
	key = append(key, lengthPrefixed(id.Token1)...)
	return append(key, id.Salt...)
}

// appendTick appends an order-preserving big-endian encoding of a tick.
func appendTick(key []byte, tick int32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(tick)+tickKeyBias)
	return append(key, buf...)
}

func lengthPrefixed(s string) []byte {
	out := make([]byte, 0, len(s)+1)
	out = append(out, byte(len(s)))
	return append(out, s...)
}
