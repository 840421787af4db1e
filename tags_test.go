package cbor_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbazaar/cbor"
)

func TestDecodeTagDateTimeString(t *testing.T) {
	v, err := cbor.DecodeFirstSync(fromHex("c074323031332d30332d32315432303a30343a30305a"), nil)
	require.NoError(t, err)
	tm, ok := v.(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2013, tm.Year())
	assert.Equal(t, time.Month(3), tm.Month())
}

func TestDecodeTagUnsignedBignum(t *testing.T) {
	// tag 2, byte string 0x010000000000000000 (2^64)
	v, err := cbor.DecodeFirstSync(fromHex("c249010000000000000000"), nil)
	require.NoError(t, err)
	big1, ok := v.(*big.Int)
	require.True(t, ok)
	want := new(big.Int).Lsh(big.NewInt(1), 64)
	assert.Equal(t, 0, big1.Cmp(want))
}

func TestDecodeTagSet(t *testing.T) {
	// tag 258 wrapping array [1,2,3]
	v, err := cbor.DecodeFirstSync(fromHex("d9010283010203"), nil)
	require.NoError(t, err)
	set, ok := v.(cbor.Set)
	require.True(t, ok)
	assert.Equal(t, []any{uint64(1), uint64(2), uint64(3)}, set.Elements)
}

func TestDecodeUnknownTagWraps(t *testing.T) {
	// tag 100 wrapping integer 1
	v, err := cbor.DecodeFirstSync(fromHex("d86401"), nil)
	require.NoError(t, err)
	tag, ok := v.(cbor.Tag)
	require.True(t, ok)
	assert.Equal(t, uint64(100), tag.Number)
	assert.Equal(t, uint64(1), tag.Content)
}

func TestTagConverterOverrideAndRemoval(t *testing.T) {
	// Removing the built-in tag-0 interpreter should yield a bare Tag.
	opts := &cbor.DecodeOptions{
		TagConverters: map[uint64]cbor.TagInterpreter{
			0: nil,
		},
	}
	v, err := cbor.DecodeFirstSync(fromHex("c074323031332d30332d32315432303a30343a30305a"), opts)
	require.NoError(t, err)
	tag, ok := v.(cbor.Tag)
	require.True(t, ok)
	assert.Equal(t, uint64(0), tag.Number)

	// A custom override replaces the built-in entirely.
	called := false
	opts = &cbor.DecodeOptions{
		TagConverters: map[uint64]cbor.TagInterpreter{
			0: func(tagNumber uint64, content any) (any, error) {
				called = true
				return content, nil
			},
		},
	}
	v, err = cbor.DecodeFirstSync(fromHex("c074323031332d30332d32315432303a30343a30305a"), opts)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "2013-03-21T20:04:00Z", v)
}

func TestDecodeTagBase64URLRejectsNonZeroTailBits(t *testing.T) {
	// tag 33, text string "AC" (2 bytes): a base64url quantum whose unused
	// trailing bits are non-zero, which strict decoding must reject. The
	// rejection is isolated to the returned Tag's Err; the decode succeeds.
	v, err := cbor.DecodeFirstSync(fromHex("d821624143"), nil)
	require.NoError(t, err)
	tag, ok := v.(cbor.Tag)
	require.True(t, ok)
	require.Error(t, tag.Err)
}

func TestDecodeTagBase64URLAcceptsValidText(t *testing.T) {
	// tag 33, text string "AQI" (base64url for bytes {1,2}).
	v, err := cbor.DecodeFirstSync(fromHex("d82163415149"), nil)
	require.NoError(t, err)
	tag, ok := v.(cbor.Tag)
	require.True(t, ok)
	assert.Equal(t, "AQI", tag.Content)
}

func TestRegexpTagRoundTrip(t *testing.T) {
	data, err := cbor.Encode(regexp2.MustCompile(`^\d+(?=px)`, regexp2.None))
	require.NoError(t, err)

	v, err := cbor.DecodeFirstSync(data, nil)
	require.NoError(t, err)
	re, ok := v.(*regexp2.Regexp)
	require.True(t, ok)

	matched, err := re.MatchString("123px")
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestEncodingHintJSONView(t *testing.T) {
	// tag 21 (expected base64url) wrapping a byte string.
	v, err := cbor.DecodeFirstSync(fromHex("d5420102"), nil)
	require.NoError(t, err)
	hinted, ok := v.(cbor.EncodingHinted)
	require.True(t, ok)
	view, err := hinted.JSONView()
	require.NoError(t, err)
	assert.Equal(t, "AQI", view)
}
