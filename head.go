package cbor

import (
	"encoding/binary"
	"fmt"
)

// majorType is the top 3 bits of a CBOR item's initial byte.
type majorType byte

const (
	mtUnsigned    majorType = 0 << 5
	mtNegative    majorType = 1 << 5
	mtByteString  majorType = 2 << 5
	mtTextString  majorType = 3 << 5
	mtArray       majorType = 4 << 5
	mtMap         majorType = 5 << 5
	mtTag         majorType = 6 << 5
	mtSimpleFloat majorType = 7 << 5
)

const (
	aiOneByte    byte = 24
	aiTwoBytes   byte = 25
	aiFourBytes  byte = 26
	aiEightBytes byte = 27
	aiIndefinite byte = 31

	breakByte byte = 0xff
)

// header is one decoded CBOR item head: the major type, the raw
// additional-info nibble, the resolved argument (valid when !indefinite),
// and whether the additional-info nibble signalled an indefinite-length
// container/string or the BREAK sentinel.
type header struct {
	major      majorType
	ai         byte
	arg        uint64
	indefinite bool
}

// writeHead appends the header for a value of major type mt carrying
// argument n, always choosing the narrowest additional-info encoding.
func writeHead(buf *outputBuffer, mt majorType, n uint64) {
	switch {
	case n < 24:
		buf.writeByte(byte(mt) | byte(n))
	case n <= 0xff:
		buf.writeByte(byte(mt) | aiOneByte)
		buf.writeByte(byte(n))
	case n <= 0xffff:
		buf.writeByte(byte(mt) | aiTwoBytes)
		buf.writeUint16(uint16(n))
	case n <= 0xffffffff:
		buf.writeByte(byte(mt) | aiFourBytes)
		buf.writeUint32(uint32(n))
	default:
		buf.writeByte(byte(mt) | aiEightBytes)
		buf.writeUint64(n)
	}
}

func writeIndefiniteHead(buf *outputBuffer, mt majorType) {
	buf.writeByte(byte(mt) | aiIndefinite)
}

func writeBreak(buf *outputBuffer) {
	buf.writeByte(breakByte)
}

// readHead decodes one item head, resolving ai 24-27 against however many
// extra bytes they call for and flagging ai 31 as indefinite/BREAK for the
// caller to interpret in context (legal for major types 2-5 and 7, an
// error everywhere else).
func readHead(r *inputReader) (header, error) {
	b, err := r.readByte()
	if err != nil {
		return header{}, err
	}
	mt := majorType(b & 0xe0)
	ai := b & 0x1f

	switch {
	case ai < aiOneByte:
		return header{major: mt, ai: ai, arg: uint64(ai)}, nil
	case ai == aiOneByte:
		v, err := r.readByte()
		if err != nil {
			return header{}, err
		}
		return header{major: mt, ai: ai, arg: uint64(v)}, nil
	case ai == aiTwoBytes:
		v, err := r.read(2)
		if err != nil {
			return header{}, err
		}
		return header{major: mt, ai: ai, arg: uint64(binary.BigEndian.Uint16(v))}, nil
	case ai == aiFourBytes:
		v, err := r.read(4)
		if err != nil {
			return header{}, err
		}
		return header{major: mt, ai: ai, arg: uint64(binary.BigEndian.Uint32(v))}, nil
	case ai == aiEightBytes:
		v, err := r.read(8)
		if err != nil {
			return header{}, err
		}
		return header{major: mt, ai: ai, arg: binary.BigEndian.Uint64(v)}, nil
	case ai == aiIndefinite:
		return header{major: mt, ai: ai, indefinite: true}, nil
	default:
		return header{}, fmt.Errorf("cbor: Additional info not implemented: %d", ai)
	}
}
