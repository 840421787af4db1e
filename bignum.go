package cbor

import "math/big"

// maxSafeInteger is 2^53-1, the largest magnitude an IEEE-754 double can
// represent as an exact integer. Values up to this are decoded as native
// Go numbers; larger magnitudes are promoted to *big.Int.
const maxSafeInteger = 1<<53 - 1

// unsignedBEBytes returns v's big-endian magnitude, padded to a non-empty,
// non-zero-length slice: big.Int.Bytes strips leading zero bytes entirely
// and returns an empty slice for zero, but tags 2/3 still need at least
// one content byte for that case.
func unsignedBEBytes(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	return b
}

func bigFromUnsignedBEBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// bigFitsUint64 reports whether the non-negative v fits in 64 bits.
func bigFitsUint64(v *big.Int) (uint64, bool) {
	if v.Sign() < 0 || v.BitLen() > 64 {
		return 0, false
	}
	return v.Uint64(), true
}
