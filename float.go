package cbor

import (
	"math"

	"github.com/x448/float16"
)

func decodeHalfBits(bits uint16) float64 {
	return float64(float16.Frombits(bits).Float32())
}

func decodeSingleBits(bits uint32) float64 {
	return float64(math.Float32frombits(bits))
}

func decodeDoubleBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}

// tryWriteHalf reports whether f32 narrows to half precision without any
// loss, returning the half-precision bit pattern when it does. The default
// encoder never calls this (canonical/shortest-form selection is part of
// the unimplemented canonical mode), but the routine is kept as a building
// block for it and is exercised directly by float_test.go.
func tryWriteHalf(f32 float32) (uint16, bool) {
	if float16.PrecisionFromfloat32(f32) != float16.PrecisionExact {
		return 0, false
	}
	return float16.Fromfloat32(f32).Bits(), true
}

var (
	canonicalNaN     = [3]byte{0xf9, 0x7e, 0x00}
	canonicalPosInf  = [3]byte{0xf9, 0x7c, 0x00}
	canonicalNegInf  = [3]byte{0xf9, 0xfc, 0x00}
	canonicalNegZero = [3]byte{0xf9, 0x80, 0x00}
)

// encodeFloat appends the CBOR encoding of f, using the canonical
// half-precision form for NaN/±Inf/-0.0 and otherwise the narrowest of
// single/double precision that round-trips f exactly.
func encodeFloat(buf *outputBuffer, f float64) {
	switch {
	case math.IsNaN(f):
		buf.write(canonicalNaN[:])
	case math.IsInf(f, 1):
		buf.write(canonicalPosInf[:])
	case math.IsInf(f, -1):
		buf.write(canonicalNegInf[:])
	case f == 0 && math.Signbit(f):
		buf.write(canonicalNegZero[:])
	default:
		if f32 := float32(f); float64(f32) == f {
			buf.writeByte(byte(mtSimpleFloat) | aiFourBytes)
			buf.writeUint32(math.Float32bits(f32))
		} else {
			buf.writeByte(byte(mtSimpleFloat) | aiEightBytes)
			buf.writeUint64(math.Float64bits(f))
		}
	}
}
