package cbor

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// RFC 8746 typed-array tag bit layout: tag = 0b0100_0000 | float | signed
// | little-endian | size-code, size-code giving element width 2^code.
const (
	taFloatBit  = 1 << 4
	taSignedBit = 1 << 3
	taLEBit     = 1 << 2
	taBase      = 0x40
)

type typedArrayKind struct {
	signed, float, littleEndian bool
	width                       int
}

func typedArrayTag(kind typedArrayKind) (uint64, error) {
	var sizeCode int
	switch kind.width {
	case 1:
		sizeCode = 0
	case 2:
		sizeCode = 1
	case 4:
		sizeCode = 2
	case 8:
		sizeCode = 3
	default:
		return 0, fmt.Errorf("cbor: unsupported typed array element width: %d", kind.width)
	}
	tag := uint64(taBase | sizeCode)
	if kind.float {
		tag |= taFloatBit
	}
	if kind.signed {
		tag |= taSignedBit
	}
	if kind.littleEndian && kind.width > 1 {
		tag |= taLEBit
	}
	return tag, nil
}

func parseTypedArrayTag(tag uint64) (typedArrayKind, bool) {
	if tag < taBase || tag > taBase+0x17 {
		return typedArrayKind{}, false
	}
	n := tag - taBase
	width := 1 << (n & 0x3)
	return typedArrayKind{
		signed:       n&taSignedBit != 0,
		float:        n&taFloatBit != 0,
		littleEndian: n&taLEBit != 0,
		width:        width,
	}, true
}

// typedArrayElemKind maps a Go slice element type to the RFC 8746 kind it
// encodes as. []uint8/[]byte is deliberately excluded: it is emitted as a
// plain untagged byte string, since it is the one Go type that cannot be
// disambiguated from a "raw buffer".
func typedArrayElemKind(elem reflect.Type) (typedArrayKind, bool) {
	switch elem.Kind() {
	case reflect.Uint16:
		return typedArrayKind{signed: false, float: false, littleEndian: true, width: 2}, true
	case reflect.Uint32:
		return typedArrayKind{signed: false, float: false, littleEndian: true, width: 4}, true
	case reflect.Uint64:
		return typedArrayKind{signed: false, float: false, littleEndian: true, width: 8}, true
	case reflect.Int8:
		return typedArrayKind{signed: true, float: false, littleEndian: false, width: 1}, true
	case reflect.Int16:
		return typedArrayKind{signed: true, float: false, littleEndian: true, width: 2}, true
	case reflect.Int32:
		return typedArrayKind{signed: true, float: false, littleEndian: true, width: 4}, true
	case reflect.Int64:
		return typedArrayKind{signed: true, float: false, littleEndian: true, width: 8}, true
	case reflect.Float32:
		return typedArrayKind{signed: false, float: true, littleEndian: true, width: 4}, true
	case reflect.Float64:
		return typedArrayKind{signed: false, float: true, littleEndian: true, width: 8}, true
	default:
		return typedArrayKind{}, false
	}
}

func byteOrderFor(kind typedArrayKind) binary.ByteOrder {
	if kind.littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func encodeTypedArrayBytes(kind typedArrayKind, n int, wordAt func(i int) uint64) []byte {
	out := make([]byte, n*kind.width)
	order := byteOrderFor(kind)
	for i := 0; i < n; i++ {
		v := wordAt(i)
		switch kind.width {
		case 1:
			out[i] = byte(v)
		case 2:
			order.PutUint16(out[i*2:], uint16(v))
		case 4:
			order.PutUint32(out[i*4:], uint32(v))
		case 8:
			order.PutUint64(out[i*8:], v)
		}
	}
	return out
}

func decodeTypedArrayWords(kind typedArrayKind, data []byte) ([]uint64, error) {
	if kind.width == 0 || len(data)%kind.width != 0 {
		return nil, fmt.Errorf("cbor: typed array byte length %d is not a multiple of element width %d", len(data), kind.width)
	}
	order := byteOrderFor(kind)
	n := len(data) / kind.width
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		chunk := data[i*kind.width : (i+1)*kind.width]
		switch kind.width {
		case 1:
			out[i] = uint64(chunk[0])
		case 2:
			out[i] = uint64(order.Uint16(chunk))
		case 4:
			out[i] = uint64(order.Uint32(chunk))
		case 8:
			out[i] = order.Uint64(chunk)
		}
	}
	return out, nil
}
