package cbor

import (
	"encoding/binary"
	"fmt"

	"github.com/dustin/go-humanize"
)

// outputBuffer is an append-only byte sink used while encoding,
// accumulating in memory rather than wrapping an io.Writer, since Encode
// returns a []byte rather than streaming to a destination.
type outputBuffer struct {
	buf []byte
}

func newOutputBuffer() *outputBuffer {
	return &outputBuffer{buf: make([]byte, 0, 64)}
}

func (o *outputBuffer) writeByte(b byte) { o.buf = append(o.buf, b) }
func (o *outputBuffer) write(p []byte)   { o.buf = append(o.buf, p...) }

func (o *outputBuffer) writeUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	o.buf = append(o.buf, b[:]...)
}

func (o *outputBuffer) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	o.buf = append(o.buf, b[:]...)
}

func (o *outputBuffer) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	o.buf = append(o.buf, b[:]...)
}

func (o *outputBuffer) bytes() []byte { return o.buf }

// inputReader is a cursor over a decode-time byte slice. rewind lets a
// container's decode loop peek one byte to check for BREAK and, finding
// none, put it back for the next item header to consume.
type inputReader struct {
	data []byte
	pos  int
}

func newInputReader(data []byte) *inputReader {
	return &inputReader{data: data}
}

func (r *inputReader) length() int { return len(r.data) - r.pos }

func (r *inputReader) atEnd() bool { return r.pos == len(r.data) }

func (r *inputReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errInsufficientData(1, r.length())
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *inputReader) read(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, errInsufficientData(n, r.length())
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *inputReader) rewind(n int) {
	r.pos -= n
	if r.pos < 0 {
		r.pos = 0
	}
}

func errInsufficientData(want, have int) error {
	if have < 0 {
		have = 0
	}
	return fmt.Errorf("cbor: Insufficient data: need %s, have %s",
		humanize.Bytes(uint64(want)), humanize.Bytes(uint64(have)))
}
