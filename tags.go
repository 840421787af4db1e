package cbor

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/samber/lo"
)

// TagInterpreter converts a tag's decoded inner item into a semantic Go
// value. Returning an error causes the decoder to fall back to a Tag
// wrapper carrying that error, rather than failing the whole decode.
type TagInterpreter func(tagNumber uint64, content any) (any, error)

type tagEntry struct {
	number uint64
	fn     TagInterpreter
}

var defaultTagInterpreters = lo.Associate(
	[]tagEntry{
		{0, interpretDateTimeString},
		{1, interpretDateTimeEpoch},
		{2, interpretUnsignedBignum},
		{3, interpretNegativeBignum},
		{4, interpretDecimalFraction},
		{5, interpretBigFloat},
		{21, interpretEncodingHint(HintBase64URL)},
		{22, interpretEncodingHint(HintBase64)},
		{23, interpretEncodingHint(HintBase16)},
		{32, interpretURI},
		{33, interpretBase64URLText},
		{34, interpretBase64Text},
		{35, interpretRegexp},
		{258, interpretSet},
	},
	func(e tagEntry) (uint64, TagInterpreter) { return e.number, e.fn },
)

func init() {
	for tag := uint64(taBase); tag <= taBase+0x17; tag++ {
		if _, ok := parseTypedArrayTag(tag); ok {
			defaultTagInterpreters[tag] = interpretTypedArray
		}
	}
}

// resolveTagInterpreter merges the default registry with the caller's
// overrides: a present-but-nil entry in opts.TagConverters removes the
// corresponding built-in interpreter.
func resolveTagInterpreter(tagNumber uint64, opts *DecodeOptions) (TagInterpreter, bool) {
	if opts != nil && opts.TagConverters != nil {
		if fn, overridden := opts.TagConverters[tagNumber]; overridden {
			if fn == nil {
				return nil, false
			}
			return fn, true
		}
	}
	fn, ok := defaultTagInterpreters[tagNumber]
	return fn, ok
}

func interpretDateTimeString(_ uint64, content any) (any, error) {
	text, ok := content.(string)
	if !ok {
		return nil, fmt.Errorf("cbor: tag 0 expects a text string, got %T", content)
	}
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return nil, fmt.Errorf("cbor: tag 0: %w", err)
	}
	return t, nil
}

func interpretDateTimeEpoch(_ uint64, content any) (any, error) {
	switch v := content.(type) {
	case uint64:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case float64:
		sec := math.Floor(v)
		nsec := (v - sec) * 1e9
		return time.Unix(int64(sec), int64(nsec)).UTC(), nil
	case *big.Int:
		return time.Unix(v.Int64(), 0).UTC(), nil
	default:
		return nil, fmt.Errorf("cbor: tag 1 expects a number, got %T", content)
	}
}

func interpretUnsignedBignum(_ uint64, content any) (any, error) {
	b, ok := content.([]byte)
	if !ok {
		return nil, fmt.Errorf("cbor: tag 2 expects a byte string, got %T", content)
	}
	return bigFromUnsignedBEBytes(b), nil
}

func interpretNegativeBignum(_ uint64, content any) (any, error) {
	b, ok := content.([]byte)
	if !ok {
		return nil, fmt.Errorf("cbor: tag 3 expects a byte string, got %T", content)
	}
	u := bigFromUnsignedBEBytes(b)
	v := new(big.Int).Neg(u)
	v.Sub(v, big.NewInt(1))
	return v, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case uint64:
		return int64(n), nil
	case int64:
		return n, nil
	case *big.Int:
		return n.Int64(), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case int64:
		return big.NewInt(n), nil
	case *big.Int:
		return n, nil
	default:
		return nil, fmt.Errorf("expected an integer, got %T", v)
	}
}

func decimalComponents(content any) (int64, *big.Int, error) {
	arr, ok := content.([]any)
	if !ok || len(arr) != 2 {
		return 0, nil, fmt.Errorf("expected a 2-element array [exponent, mantissa], got %T", content)
	}
	exp, err := toInt64(arr[0])
	if err != nil {
		return 0, nil, fmt.Errorf("exponent: %w", err)
	}
	mant, err := toBigInt(arr[1])
	if err != nil {
		return 0, nil, fmt.Errorf("mantissa: %w", err)
	}
	return exp, mant, nil
}

func interpretDecimalFraction(_ uint64, content any) (any, error) {
	exp, mant, err := decimalComponents(content)
	if err != nil {
		return nil, fmt.Errorf("cbor: tag 4: %w", err)
	}
	return NewDecimalFraction(exp, mant), nil
}

func interpretBigFloat(_ uint64, content any) (any, error) {
	exp, mant, err := decimalComponents(content)
	if err != nil {
		return nil, fmt.Errorf("cbor: tag 5: %w", err)
	}
	return BigFloat{Mantissa: mant, Exponent: exp}, nil
}

// EncodingHint names one of the base64url/base64/base16 "expected
// encoding" tags (21/22/23), which mark contained byte strings for a later
// text rendering without altering the decoded value itself.
type EncodingHint int

const (
	HintBase64URL EncodingHint = 21
	HintBase64    EncodingHint = 22
	HintBase16    EncodingHint = 23
)

// EncodingHinted wraps a tag-21/22/23 item. JSONView renders its nested
// byte strings using the hinted encoding; Value itself is untouched.
type EncodingHinted struct {
	Hint  EncodingHint
	Value any
}

func interpretEncodingHint(hint EncodingHint) TagInterpreter {
	return func(_ uint64, content any) (any, error) {
		return EncodingHinted{Hint: hint, Value: content}, nil
	}
}

// JSONView renders e's nested byte strings as text using the hinted
// base-N encoding, recursively, without mutating e.Value.
func (e EncodingHinted) JSONView() (any, error) {
	return jsonViewOf(e.Hint, e.Value)
}

func jsonViewOf(hint EncodingHint, v any) (any, error) {
	switch value := v.(type) {
	case []byte:
		switch hint {
		case HintBase64URL:
			return base64.RawURLEncoding.EncodeToString(value), nil
		case HintBase64:
			return base64.StdEncoding.EncodeToString(value), nil
		case HintBase16:
			return hex.EncodeToString(value), nil
		default:
			return nil, fmt.Errorf("cbor: unknown encoding hint %d", hint)
		}
	case []any:
		out := make([]any, len(value))
		for i, elem := range value {
			v, err := jsonViewOf(hint, elem)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case Map:
		out := make([]MapEntry, len(value.Entries))
		for i, entry := range value.Entries {
			v, err := jsonViewOf(hint, entry.Value)
			if err != nil {
				return nil, err
			}
			out[i] = MapEntry{Key: entry.Key, Value: v}
		}
		return Map{Entries: out}, nil
	default:
		return v, nil
	}
}

func interpretURI(_ uint64, content any) (any, error) {
	text, ok := content.(string)
	if !ok {
		return nil, fmt.Errorf("cbor: tag 32 expects a text string, got %T", content)
	}
	u, err := url.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("cbor: tag 32: %w", err)
	}
	return u, nil
}

func isBase64URLRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return true
	default:
		return false
	}
}

func interpretBase64URLText(_ uint64, content any) (any, error) {
	text, ok := content.(string)
	if !ok {
		return nil, fmt.Errorf("cbor: tag 33 expects a text string, got %T", content)
	}
	if len(text)%4 == 1 {
		return nil, fmt.Errorf("cbor: tag 33: invalid base64url length %d", len(text))
	}
	for _, r := range text {
		if !isBase64URLRune(r) {
			return nil, fmt.Errorf("cbor: tag 33: invalid base64url character %q", r)
		}
	}
	if _, err := base64.RawURLEncoding.Strict().DecodeString(text); err != nil {
		return nil, fmt.Errorf("cbor: tag 33: %w", err)
	}
	return Tag{Number: 33, Content: text}, nil
}

func interpretBase64Text(_ uint64, content any) (any, error) {
	text, ok := content.(string)
	if !ok {
		return nil, fmt.Errorf("cbor: tag 34 expects a text string, got %T", content)
	}
	if len(text)%4 != 0 {
		return nil, fmt.Errorf("cbor: tag 34: invalid base64 length %d", len(text))
	}
	if _, err := base64.StdEncoding.Strict().DecodeString(text); err != nil {
		return nil, fmt.Errorf("cbor: tag 34: %w", err)
	}
	return Tag{Number: 34, Content: text}, nil
}

func interpretRegexp(_ uint64, content any) (any, error) {
	pattern, ok := content.(string)
	if !ok {
		return nil, fmt.Errorf("cbor: tag 35 expects a text string, got %T", content)
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("cbor: tag 35: %w", err)
	}
	return re, nil
}

func interpretSet(_ uint64, content any) (any, error) {
	elems, ok := content.([]any)
	if !ok {
		return nil, fmt.Errorf("cbor: tag 258 expects an array, got %T", content)
	}
	return Set{Elements: elems}, nil
}

func interpretTypedArray(tagNumber uint64, content any) (any, error) {
	raw, ok := content.([]byte)
	if !ok {
		return nil, fmt.Errorf("cbor: typed array tag %d expects a byte string, got %T", tagNumber, content)
	}
	kind, ok := parseTypedArrayTag(tagNumber)
	if !ok {
		return nil, fmt.Errorf("cbor: tag %d is not a typed array tag", tagNumber)
	}
	words, err := decodeTypedArrayWords(kind, raw)
	if err != nil {
		return nil, fmt.Errorf("cbor: tag %d: %w", tagNumber, err)
	}

	switch {
	case kind.float && kind.width == 4:
		out := make([]float32, len(words))
		for i, w := range words {
			out[i] = math.Float32frombits(uint32(w))
		}
		return out, nil
	case kind.float && kind.width == 8:
		out := make([]float64, len(words))
		for i, w := range words {
			out[i] = math.Float64frombits(w)
		}
		return out, nil
	case kind.signed && kind.width == 1:
		out := make([]int8, len(words))
		for i, w := range words {
			out[i] = int8(w)
		}
		return out, nil
	case kind.signed && kind.width == 2:
		out := make([]int16, len(words))
		for i, w := range words {
			out[i] = int16(w)
		}
		return out, nil
	case kind.signed && kind.width == 4:
		out := make([]int32, len(words))
		for i, w := range words {
			out[i] = int32(w)
		}
		return out, nil
	case kind.signed && kind.width == 8:
		out := make([]int64, len(words))
		for i, w := range words {
			out[i] = int64(w)
		}
		return out, nil
	case !kind.signed && kind.width == 2:
		out := make([]uint16, len(words))
		for i, w := range words {
			out[i] = uint16(w)
		}
		return out, nil
	case !kind.signed && kind.width == 4:
		out := make([]uint32, len(words))
		for i, w := range words {
			out[i] = uint32(w)
		}
		return out, nil
	default:
		// Covers unsigned 64-bit and unsigned 8-bit (tags 64/68). Unsigned
		// 8-bit has no dedicated case on purpose: []uint8 is indistinguishable
		// from a plain byte string, so this package's encoder never emits
		// tags 64/68 for a []byte value; a tag 64/68 item arriving on the
		// wire still decodes here, just as []uint64 rather than []uint8.
		out := make([]uint64, len(words))
		copy(out, words)
		return out, nil
	}
}
