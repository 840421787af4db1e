package cbor_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbazaar/cbor"
)

func TestDecimalFractionRoundTrip(t *testing.T) {
	// 273.15 represented as 27315 * 10^-2 (tag 4 [-2, 27315]).
	d := cbor.NewDecimalFraction(-2, big.NewInt(27315))
	data, err := cbor.Encode(d)
	require.NoError(t, err)
	assert.Equal(t, "c48221196ab3", toHex(data))

	v, err := cbor.DecodeFirstSync(data, nil)
	require.NoError(t, err)
	got, ok := v.(cbor.DecimalFraction)
	require.True(t, ok)
	assert.Equal(t, "273.15", got.String())
}

func TestBigFloatEncodeDecode(t *testing.T) {
	bf := cbor.BigFloat{Mantissa: big.NewInt(3), Exponent: -1}
	data, err := cbor.Encode(bf)
	require.NoError(t, err)

	v, err := cbor.DecodeFirstSync(data, nil)
	require.NoError(t, err)
	got, ok := v.(cbor.BigFloat)
	require.True(t, ok)
	assert.Equal(t, int64(-1), got.Exponent)
	assert.Equal(t, 0, got.Mantissa.Cmp(big.NewInt(3)))
}

func TestCollapseBigIntegers(t *testing.T) {
	small := big.NewInt(100)
	data, err := cbor.EncodeOne(small, &cbor.EncodeOptions{CollapseBigIntegers: true})
	require.NoError(t, err)
	assert.Equal(t, "1864", toHex(data))

	data, err = cbor.EncodeOne(small, nil)
	require.NoError(t, err)
	assert.Equal(t, "c24164", toHex(data)) // still tag-2 wrapped
}
