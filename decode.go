package cbor

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a text string's content is not
// well-formed UTF-8.
var ErrInvalidUTF8 = errors.New("cbor: invalid UTF-8 in text string")

type decodeState struct {
	r    *inputReader
	opts *DecodeOptions
}

// DecodeFirstSync decodes exactly one CBOR item from data, returning an
// "Unexpected data" error if bytes remain afterward.
func DecodeFirstSync(data []byte, opts *DecodeOptions) (any, error) {
	d := &decodeState{r: newInputReader(data), opts: opts}
	v, err := d.decodeItem()
	if err != nil {
		return nil, err
	}
	if !d.r.atEnd() {
		return nil, fmt.Errorf("cbor: Unexpected data: %d trailing byte(s)", d.r.length())
	}
	return v, nil
}

// DecodeAllSync decodes data to end of input, returning every top-level
// item in order.
func DecodeAllSync(data []byte, opts *DecodeOptions) ([]any, error) {
	d := &decodeState{r: newInputReader(data), opts: opts}
	var items []any
	for !d.r.atEnd() {
		v, err := d.decodeItem()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (d *decodeState) decodeItem() (any, error) {
	h, err := readHead(d.r)
	if err != nil {
		return nil, err
	}
	return d.decodeWithHead(h)
}

func (d *decodeState) decodeWithHead(h header) (any, error) {
	switch h.major {
	case mtUnsigned:
		return d.finishUnsigned(h)
	case mtNegative:
		return d.finishNegative(h)
	case mtByteString:
		return d.decodeByteOrTextString(h, false)
	case mtTextString:
		return d.decodeByteOrTextString(h, true)
	case mtArray:
		return d.decodeArray(h)
	case mtMap:
		return d.decodeMap(h)
	case mtTag:
		return d.decodeTag(h)
	case mtSimpleFloat:
		return d.decodeSimpleOrFloat(h)
	default:
		return nil, fmt.Errorf("cbor: unreachable major type %d", h.major)
	}
}

func (d *decodeState) finishUnsigned(h header) (any, error) {
	if h.indefinite {
		return nil, fmt.Errorf("cbor: Invalid major type in indefinite encoding: major type %d cannot be indefinite", h.major)
	}
	if h.ai == aiEightBytes && h.arg > maxSafeInteger {
		return new(big.Int).SetUint64(h.arg), nil
	}
	return h.arg, nil
}

func (d *decodeState) finishNegative(h header) (any, error) {
	if h.indefinite {
		return nil, fmt.Errorf("cbor: Invalid major type in indefinite encoding: major type %d cannot be indefinite", h.major)
	}
	if h.ai == aiEightBytes && h.arg > maxSafeInteger {
		u := new(big.Int).SetUint64(h.arg)
		v := new(big.Int).Neg(u)
		return v.Sub(v, big.NewInt(1)), nil
	}
	return int64(-1) - int64(h.arg), nil
}

func (d *decodeState) decodeByteOrTextString(h header, text bool) (any, error) {
	if !h.indefinite {
		data, err := d.r.read(int(h.arg))
		if err != nil {
			return nil, err
		}
		if text {
			if !utf8.Valid(data) {
				return nil, ErrInvalidUTF8
			}
			return string(data), nil
		}
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}

	var chunks [][]byte
	total := 0
	for {
		b, err := d.r.readByte()
		if err != nil {
			return nil, err
		}
		if b == breakByte {
			break
		}
		d.r.rewind(1)
		childHead, err := readHead(d.r)
		if err != nil {
			return nil, err
		}
		if childHead.major != h.major || childHead.indefinite {
			return nil, fmt.Errorf("cbor: Invalid indefinite encoding: chunk is not a definite-length string of the enclosing major type")
		}
		data, err := d.r.read(int(childHead.arg))
		if err != nil {
			return nil, err
		}
		chunk := make([]byte, len(data))
		copy(chunk, data)
		chunks = append(chunks, chunk)
		total += len(chunk)
	}

	joined := make([]byte, 0, total)
	for _, c := range chunks {
		joined = append(joined, c...)
	}

	if text {
		if !utf8.Valid(joined) {
			return nil, ErrInvalidUTF8
		}
		return string(joined), nil
	}
	return joined, nil
}

func (d *decodeState) decodeArray(h header) (any, error) {
	if !h.indefinite {
		n := int(h.arg)
		items := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := d.decodeItem()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	}

	var items []any
	for {
		b, err := d.r.readByte()
		if err != nil {
			return nil, err
		}
		if b == breakByte {
			break
		}
		d.r.rewind(1)
		v, err := d.decodeItem()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (d *decodeState) decodeMap(h header) (any, error) {
	var entries []MapEntry

	if !h.indefinite {
		n := int(h.arg)
		entries = make([]MapEntry, 0, n)
		for i := 0; i < n; i++ {
			k, err := d.decodeItem()
			if err != nil {
				return nil, err
			}
			v, err := d.decodeItem()
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: k, Value: v})
		}
		return Map{Entries: entries}, nil
	}

	for {
		b, err := d.r.readByte()
		if err != nil {
			return nil, err
		}
		if b == breakByte {
			break
		}
		d.r.rewind(1)
		k, err := d.decodeItem()
		if err != nil {
			return nil, err
		}

		b2, err := d.r.readByte()
		if err != nil {
			return nil, err
		}
		if b2 == breakByte {
			return nil, fmt.Errorf("cbor: Invalid map length: BREAK encountered in value position")
		}
		d.r.rewind(1)
		v, err := d.decodeItem()
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: k, Value: v})
	}
	return Map{Entries: entries}, nil
}

func (d *decodeState) decodeTag(h header) (any, error) {
	if h.indefinite {
		return nil, fmt.Errorf("cbor: Invalid major type in indefinite encoding: tag cannot be indefinite")
	}
	tagNumber := h.arg
	inner, err := d.decodeItem()
	if err != nil {
		return nil, err
	}
	if fn, ok := resolveTagInterpreter(tagNumber, d.opts); ok {
		v, err := fn(tagNumber, inner)
		if err != nil {
			return Tag{Number: tagNumber, Content: inner, Err: err}, nil
		}
		return v, nil
	}
	return Tag{Number: tagNumber, Content: inner}, nil
}

func (d *decodeState) decodeSimpleOrFloat(h header) (any, error) {
	if h.indefinite {
		return nil, fmt.Errorf("cbor: Invalid BREAK: encountered outside an indefinite-length container")
	}

	switch h.ai {
	case simpleFalse:
		return false, nil
	case simpleTrue:
		return true, nil
	case simpleNull:
		return nil, nil
	case simpleUndefined:
		return Undefined, nil
	case aiOneByte:
		if h.arg < 32 {
			return nil, fmt.Errorf("cbor: Invalid two-byte encoding of simple value: %d", h.arg)
		}
		return Simple(h.arg), nil
	case aiTwoBytes:
		return decodeHalfBits(uint16(h.arg)), nil
	case aiFourBytes:
		return decodeSingleBits(uint32(h.arg)), nil
	case aiEightBytes:
		return decodeDoubleBits(h.arg), nil
	default:
		// ai 0-19: an opaque simple value with no dedicated Go type.
		return Simple(h.arg), nil
	}
}
