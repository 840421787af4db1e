package cbor_test

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbazaar/cbor"
)

type person struct {
	Name     string `cbor:"name"`
	Age      uint64 `cbor:"age"`
	Internal string `cbor:"-"`
}

func TestEncodeStructUsesCBORTags(t *testing.T) {
	p := person{Name: "Ada", Age: 36, Internal: "dropped"}
	data, err := cbor.Encode(p)
	require.NoError(t, err)

	v, err := cbor.DecodeFirstSync(data, nil)
	require.NoError(t, err)

	m, ok := v.(cbor.Map)
	require.True(t, ok)
	strMap, ok := m.ToStringMap()
	require.True(t, ok)
	assert.Equal(t, "Ada", strMap["name"])
	assert.Equal(t, uint64(36), strMap["age"])
	_, hasInternal := strMap["Internal"]
	assert.False(t, hasInternal)
}

func TestToStringMapRejectsNonStringKeys(t *testing.T) {
	m := cbor.NewMap(cbor.MapEntry{Key: uint64(1), Value: "x"})
	_, ok := m.ToStringMap()
	assert.False(t, ok)
}

func TestOmitUndefinedProperties(t *testing.T) {
	m := map[string]any{"a": uint64(1), "b": cbor.Undefined}
	data, err := cbor.EncodeOne(m, &cbor.EncodeOptions{OmitUndefinedProperties: true})
	require.NoError(t, err)

	v, err := cbor.DecodeFirstSync(data, nil)
	require.NoError(t, err)
	decoded, ok := v.(cbor.Map)
	require.True(t, ok)
	assert.Len(t, decoded.Entries, 1)
	assert.Equal(t, "a", decoded.Entries[0].Key)
}

func TestDisallowUndefinedKeys(t *testing.T) {
	m := cbor.NewMap(cbor.MapEntry{Key: cbor.Undefined, Value: uint64(1)})
	_, err := cbor.EncodeOne(m, &cbor.EncodeOptions{DisallowUndefinedKeys: true})
	require.Error(t, err)
}

func TestGenTypesCustomEncoder(t *testing.T) {
	type celsius float64
	called := false
	opts := &cbor.EncodeOptions{
		GenTypes: map[reflect.Type]cbor.EncodeFunc{
			reflect.TypeOf(celsius(0)): func(enc *cbor.Encoder, v reflect.Value) error {
				called = true
				return enc.EncodeValue(reflect.ValueOf("custom"))
			},
		},
	}
	data, err := cbor.EncodeOne(celsius(20.5), opts)
	require.NoError(t, err)
	assert.True(t, called)

	v, err := cbor.DecodeFirstSync(data, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", v)
}

func TestURIRoundTrip(t *testing.T) {
	u, err := url.Parse("https://example.com/a?b=c")
	require.NoError(t, err)
	data, err := cbor.Encode(u)
	require.NoError(t, err)

	v, err := cbor.DecodeFirstSync(data, nil)
	require.NoError(t, err)
	got, ok := v.(*url.URL)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a?b=c", got.String())
}

func TestDiagnoseRendersScalarsAndContainers(t *testing.T) {
	data, err := cbor.Encode([]any{uint64(1), "two", true, nil})
	require.NoError(t, err)

	out, err := cbor.Diagnose(data)
	require.NoError(t, err)
	assert.Equal(t, `[1, "two", true, null]`, out)
}

func TestDiagnoseFirstReturnsTrailingBytes(t *testing.T) {
	first, err := cbor.Encode(uint64(7))
	require.NoError(t, err)
	second, err := cbor.Encode("rest")
	require.NoError(t, err)

	out, trailing, err := cbor.DiagnoseFirst(append(first, second...))
	require.NoError(t, err)
	assert.Equal(t, "7", out)
	assert.Equal(t, second, trailing)
}
