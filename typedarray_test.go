package cbor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbazaar/cbor"
)

func TestTypedArrayRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"uint16", []uint16{1, 2, 65535}},
		{"uint32", []uint32{1, 2, 4294967295}},
		{"int32", []int32{-1, 0, 1}},
		{"float32", []float32{1.5, -2.5}},
		{"float64", []float64{1.5, -2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := cbor.Encode(tt.in)
			require.NoError(t, err)

			got, err := cbor.DecodeFirstSync(data, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestByteSliceStaysUntagged(t *testing.T) {
	data, err := cbor.Encode([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "43010203", toHex(data))
}
