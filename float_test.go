package cbor

import (
	"math"
	"testing"
)

func TestEncodeFloatSpecialCases(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		want string
	}{
		{"NaN", math.NaN(), "f97e00"},
		{"+Inf", math.Inf(1), "f97c00"},
		{"-Inf", math.Inf(-1), "f9fc00"},
		{"-0.0", math.Copysign(0, -1), "f98000"},
	}
	for _, tt := range tests {
		buf := newOutputBuffer()
		encodeFloat(buf, tt.f)
		got := toHexBytes(buf.bytes())
		if got != tt.want {
			t.Errorf("%s: encodeFloat = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestEncodeFloatNarrowsToSingle(t *testing.T) {
	buf := newOutputBuffer()
	encodeFloat(buf, 100000.0)
	got := toHexBytes(buf.bytes())
	want := "fa47c35000"
	if got != want {
		t.Errorf("encodeFloat(100000.0) = %s, want %s", got, want)
	}
}

func TestEncodeFloatKeepsDoubleWhenNeeded(t *testing.T) {
	buf := newOutputBuffer()
	encodeFloat(buf, 1.1)
	got := toHexBytes(buf.bytes())
	want := "fb3ff199999999999a"
	if got != want {
		t.Errorf("encodeFloat(1.1) = %s, want %s", got, want)
	}
}

func TestDecodeHalfBits(t *testing.T) {
	tests := []struct {
		bits uint16
		want float64
	}{
		{0x3c00, 1.0},
		{0xbc00, -1.0},
		{0x7c00, math.Inf(1)},
		{0xfc00, math.Inf(-1)},
	}
	for _, tt := range tests {
		got := decodeHalfBits(tt.bits)
		if math.IsInf(tt.want, 0) {
			if !math.IsInf(got, int(math.Copysign(1, tt.want))) {
				t.Errorf("decodeHalfBits(%#x) = %v, want Inf", tt.bits, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("decodeHalfBits(%#x) = %v, want %v", tt.bits, got, tt.want)
		}
	}
}

func TestTryWriteHalf(t *testing.T) {
	if bits, ok := tryWriteHalf(1.0); !ok || bits != 0x3c00 {
		t.Errorf("tryWriteHalf(1.0) = (%#x, %v), want (0x3c00, true)", bits, ok)
	}
	if _, ok := tryWriteHalf(100000.0); ok {
		t.Error("tryWriteHalf(100000.0) should not be exact")
	}
}
