package types

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// HashPrime is the multiplier used to fold field hashes together.
const HashPrime = 31

// HashString returns a stable 64-bit hash of s.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashCombine folds a field hash into an accumulated hash. The result depends
// on the order in which fields are combined.
func HashCombine(h, field uint64) uint64 {
	return h*HashPrime + field
}

// HashFields combines field hashes in order, starting from 1.
func HashFields(fields ...uint64) uint64 {
	h := uint64(1)
	for _, f := range fields {
		h = HashCombine(h, f)
	}
	return h
}

// HashBool returns distinct non-zero hashes for true and false.
func HashBool(b bool) uint64 {
	if b {
		return 1231
	}
	return 1237
}

func hashComparable[T comparable](v T) uint64 {
	var zero T
	if v == zero {
		// -0.0 == 0.0 but formats differently; hash every zero alike.
		v = zero
	}
	return HashString(fmt.Sprintf("%T:%v", v, v))
}
