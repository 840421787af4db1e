package cbor

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Marshaler lets a type supply its own CBOR encoding, checked before the
// generic struct/map fallback.
type Marshaler interface {
	MarshalCBOR() ([]byte, error)
}

// ErrCanonicalNotImplemented is returned by EncodeCanonical: this codec
// does not implement RFC 8949 §4.2 Core Deterministic Encoding.
var ErrCanonicalNotImplemented = errors.New("cbor: canonical mode not implemented")

type encodeState struct {
	buf   *outputBuffer
	opts  EncodeOptions
	loops *CycleDetector
}

// Encoder is the handle a GenTypes custom encoder uses to recurse back
// into the generic encoding machinery for nested values.
type Encoder struct {
	e *encodeState
}

// EncodeValue encodes rv using the same rules Encode/EncodeOne apply,
// including any GenTypes overrides in effect for this call.
func (enc *Encoder) EncodeValue(rv reflect.Value) error {
	return enc.e.encodeValue(rv)
}

// Encode returns the concatenation of each value's CBOR encoding, using
// default options.
func Encode(values ...any) ([]byte, error) {
	buf := newOutputBuffer()
	e := &encodeState{buf: buf}
	for _, v := range values {
		if err := e.encodeValue(reflect.ValueOf(v)); err != nil {
			return nil, err
		}
	}
	return buf.bytes(), nil
}

// EncodeOne encodes a single value under the given options.
func EncodeOne(value any, opts *EncodeOptions) ([]byte, error) {
	e := &encodeState{buf: newOutputBuffer()}
	if opts != nil {
		e.opts = *opts
		if opts.DetectLoops {
			if opts.Loops != nil {
				e.loops = opts.Loops
			} else {
				e.loops = NewCycleDetector()
			}
		}
	}
	if err := e.encodeValue(reflect.ValueOf(value)); err != nil {
		return nil, err
	}
	return e.buf.bytes(), nil
}

// EncodeCanonical always fails: see ErrCanonicalNotImplemented.
func EncodeCanonical(values ...any) ([]byte, error) {
	return nil, ErrCanonicalNotImplemented
}

// defaultChunkSize is EncodeIndefinite's default maximum chunk length.
const defaultChunkSize = 4096

// EncodeIndefinite encodes value using indefinite-length containers and
// strings, each terminated by BREAK. Strings and byte strings are split
// into definite-length chunks of at most opts.ChunkSize bytes; arrays,
// maps and structs get an indefinite head followed by every child in its
// normal definite-length encoding (ChunkSize does not apply to them).
// Typed numeric arrays have no indefinite form and are encoded normally.
func EncodeIndefinite(value any, opts *IndefiniteOptions) ([]byte, error) {
	chunkSize := defaultChunkSize
	if opts != nil && opts.ChunkSize > 0 {
		chunkSize = opts.ChunkSize
	}
	e := &encodeState{buf: newOutputBuffer()}
	if err := e.encodeIndefiniteValue(reflect.ValueOf(value), chunkSize); err != nil {
		return nil, err
	}
	return e.buf.bytes(), nil
}

func (e *encodeState) encodeValue(rv reflect.Value) error {
	if !rv.IsValid() {
		e.buf.writeByte(byte(mtSimpleFloat) | simpleNull)
		return nil
	}

	if e.opts.GenTypes != nil {
		if fn, ok := e.opts.GenTypes[rv.Type()]; ok {
			return fn(&Encoder{e: e}, rv)
		}
	}

	switch value := rv.Interface().(type) {
	case nil:
		e.buf.writeByte(byte(mtSimpleFloat) | simpleNull)
		return nil
	case undefinedType:
		return e.encodeUndefined()
	case bool:
		ai := byte(simpleFalse)
		if value {
			ai = simpleTrue
		}
		e.buf.writeByte(byte(mtSimpleFloat) | ai)
		return nil
	case string:
		data := []byte(value)
		writeHead(e.buf, mtTextString, uint64(len(data)))
		e.buf.write(data)
		return nil
	case []byte:
		writeHead(e.buf, mtByteString, uint64(len(value)))
		e.buf.write(value)
		return nil
	case Simple:
		return e.encodeSimple(value)
	case Tag:
		writeHead(e.buf, mtTag, value.Number)
		return e.encodeValue(reflect.ValueOf(value.Content))
	case *big.Int:
		return e.encodeBigInt(value)
	case DecimalFraction:
		return e.encodeDecimalFraction(value)
	case BigFloat:
		return e.encodeBigFloat(value)
	case time.Time:
		return e.encodeTime(value)
	case *url.URL:
		writeHead(e.buf, mtTag, 32)
		return e.encodeValue(reflect.ValueOf(value.String()))
	case *regexp2.Regexp:
		writeHead(e.buf, mtTag, 35)
		return e.encodeValue(reflect.ValueOf(value.String()))
	case Set:
		writeHead(e.buf, mtTag, 258)
		return e.encodeArray(reflect.ValueOf(value.Elements))
	case Map:
		return e.encodeOrderedMap(value)
	case Marshaler:
		raw, err := value.MarshalCBOR()
		if err != nil {
			return fmt.Errorf("cbor: MarshalCBOR: %w", err)
		}
		e.buf.write(raw)
		return nil
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.encodeSignedInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		writeHead(e.buf, mtUnsigned, rv.Uint())
		return nil
	case reflect.Float32, reflect.Float64:
		return e.encodeNumber(rv.Float())
	case reflect.Slice, reflect.Array:
		if kind, ok := typedArrayElemKind(rv.Type().Elem()); ok {
			return e.encodeTypedArraySlice(rv, kind)
		}
		return e.encodeArray(rv)
	case reflect.Map:
		return e.encodeGoMap(rv)
	case reflect.Struct:
		return e.encodeStruct(rv)
	case reflect.Interface:
		if rv.IsNil() {
			e.buf.writeByte(byte(mtSimpleFloat) | simpleNull)
			return nil
		}
		return e.encodeValue(rv.Elem())
	case reflect.Ptr:
		if rv.IsNil() {
			e.buf.writeByte(byte(mtSimpleFloat) | simpleNull)
			return nil
		}
		if e.loops != nil {
			if err := e.loops.enter(rv); err != nil {
				return err
			}
			defer e.loops.exit(rv)
		}
		return e.encodeValue(rv.Elem())
	default:
		return fmt.Errorf("cbor: Unknown type: %s", rv.Type())
	}
}

func (e *encodeState) encodeSimple(s Simple) error {
	n := byte(s)
	switch {
	case n < 24:
		e.buf.writeByte(byte(mtSimpleFloat) | n)
	case n >= 32:
		e.buf.writeByte(byte(mtSimpleFloat) | aiOneByte)
		e.buf.writeByte(n)
	default:
		return fmt.Errorf("cbor: simple value %d is reserved and cannot be encoded", n)
	}
	return nil
}

func (e *encodeState) encodeUndefined() error {
	if e.opts.EncodeUndefined == nil {
		e.buf.writeByte(byte(mtSimpleFloat) | simpleUndefined)
		return nil
	}
	switch ov := e.opts.EncodeUndefined.(type) {
	case []byte:
		e.buf.write(ov)
		return nil
	case func() any:
		return e.encodeValue(reflect.ValueOf(ov()))
	default:
		return e.encodeValue(reflect.ValueOf(ov))
	}
}

func (e *encodeState) encodeSignedInt(n int64) error {
	if n >= 0 {
		writeHead(e.buf, mtUnsigned, uint64(n))
		return nil
	}
	writeHead(e.buf, mtNegative, uint64(-(n+1)))
	return nil
}

// encodeNumber implements the integer-valued-float promotion: a float
// that holds a whole number within the safe-integer range is emitted as
// an ordinary CBOR integer rather than a float, matching the source value
// model's single numeric type.
func (e *encodeState) encodeNumber(f float64) error {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		encodeFloat(e.buf, f)
	case f == 0 && math.Signbit(f):
		encodeFloat(e.buf, f)
	case f == math.Trunc(f) && math.Abs(f) <= maxSafeInteger:
		if f >= 0 {
			writeHead(e.buf, mtUnsigned, uint64(f))
		} else {
			writeHead(e.buf, mtNegative, uint64(-f)-1)
		}
	default:
		encodeFloat(e.buf, f)
	}
	return nil
}

func (e *encodeState) encodeBigInt(v *big.Int) error {
	tagNumber := uint64(2)
	mt := mtUnsigned
	magnitude := v
	if v.Sign() < 0 {
		tagNumber = 3
		mt = mtNegative
		magnitude = new(big.Int).Neg(v)
		magnitude.Sub(magnitude, big.NewInt(1))
	}

	if e.opts.CollapseBigIntegers {
		if u, ok := bigFitsUint64(magnitude); ok {
			writeHead(e.buf, mt, u)
			return nil
		}
	}

	writeHead(e.buf, mtTag, tagNumber)
	payload := unsignedBEBytes(magnitude)
	writeHead(e.buf, mtByteString, uint64(len(payload)))
	e.buf.write(payload)
	return nil
}

func (e *encodeState) encodeDecimalFraction(d DecimalFraction) error {
	writeHead(e.buf, mtTag, 4)
	writeHead(e.buf, mtArray, 2)
	if err := e.encodeSignedInt(int64(d.Value.Exponent)); err != nil {
		return err
	}
	return e.encodeMantissa(d.signedMantissa())
}

func (e *encodeState) encodeBigFloat(b BigFloat) error {
	writeHead(e.buf, mtTag, 5)
	writeHead(e.buf, mtArray, 2)
	if err := e.encodeSignedInt(b.Exponent); err != nil {
		return err
	}
	return e.encodeMantissa(b.Mantissa)
}

// encodeMantissa emits a decimal-fraction/bigfloat mantissa as a plain
// CBOR integer whenever it fits in 64 bits (the common case), falling
// back to the tag 2/3 bignum form only for magnitudes that don't.
func (e *encodeState) encodeMantissa(m *big.Int) error {
	if m.Sign() >= 0 {
		if u, ok := bigFitsUint64(m); ok {
			writeHead(e.buf, mtUnsigned, u)
			return nil
		}
	} else {
		neg := new(big.Int).Neg(m)
		neg.Sub(neg, big.NewInt(1))
		if u, ok := bigFitsUint64(neg); ok {
			writeHead(e.buf, mtNegative, u)
			return nil
		}
	}
	return e.encodeBigInt(m)
}

func (e *encodeState) encodeTime(t time.Time) error {
	if e.opts.DateType == DateAsString {
		writeHead(e.buf, mtTag, 0)
		return e.encodeValue(reflect.ValueOf(t.UTC().Format(time.RFC3339Nano)))
	}

	writeHead(e.buf, mtTag, 1)
	sec := t.Unix()
	nsec := t.Nanosecond()

	switch e.opts.DateType {
	case DateAsInt:
		return e.encodeSignedInt(sec)
	case DateAsFloat:
		// encodeFloat directly: encodeNumber would turn whole seconds into
		// an integer.
		encodeFloat(e.buf, float64(sec)+float64(nsec)/1e9)
		return nil
	default: // DateAsNumber
		if nsec == 0 {
			return e.encodeSignedInt(sec)
		}
		return e.encodeValue(reflect.ValueOf(float64(sec) + float64(nsec)/1e9))
	}
}

func (e *encodeState) encodeArray(rv reflect.Value) error {
	if e.loops != nil {
		if err := e.loops.enter(rv); err != nil {
			return err
		}
		defer e.loops.exit(rv)
	}
	n := rv.Len()
	writeHead(e.buf, mtArray, uint64(n))
	for i := 0; i < n; i++ {
		if err := e.encodeValue(rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func isUndefinedValue(rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return false
	}
	_, ok := rv.Interface().(undefinedType)
	return ok
}

func (e *encodeState) encodeGoMap(rv reflect.Value) error {
	if e.loops != nil {
		if err := e.loops.enter(rv); err != nil {
			return err
		}
		defer e.loops.exit(rv)
	}

	keys := rv.MapKeys()
	if e.opts.OmitUndefinedProperties {
		filtered := keys[:0]
		for _, k := range keys {
			if !isUndefinedValue(rv.MapIndex(k)) {
				filtered = append(filtered, k)
			}
		}
		keys = filtered
	}

	writeHead(e.buf, mtMap, uint64(len(keys)))
	for _, k := range keys {
		if e.opts.DisallowUndefinedKeys && isUndefinedValue(k) {
			return fmt.Errorf("cbor: Invalid Map key: undefined")
		}
		if err := e.encodeValue(k); err != nil {
			return err
		}
		if err := e.encodeValue(rv.MapIndex(k)); err != nil {
			return err
		}
	}
	return nil
}

func (e *encodeState) encodeOrderedMap(m Map) error {
	entriesVal := reflect.ValueOf(m.Entries)
	if e.loops != nil {
		if err := e.loops.enter(entriesVal); err != nil {
			return err
		}
		defer e.loops.exit(entriesVal)
	}

	entries := m.Entries
	if e.opts.OmitUndefinedProperties {
		filtered := make([]MapEntry, 0, len(entries))
		for _, entry := range entries {
			if _, ok := entry.Value.(undefinedType); ok {
				continue
			}
			filtered = append(filtered, entry)
		}
		entries = filtered
	}

	writeHead(e.buf, mtMap, uint64(len(entries)))
	for _, entry := range entries {
		if e.opts.DisallowUndefinedKeys {
			if _, ok := entry.Key.(undefinedType); ok {
				return fmt.Errorf("cbor: Invalid Map key: undefined")
			}
		}
		if err := e.encodeValue(reflect.ValueOf(entry.Key)); err != nil {
			return err
		}
		if err := e.encodeValue(reflect.ValueOf(entry.Value)); err != nil {
			return err
		}
	}
	return nil
}

type structField struct {
	name string
	val  reflect.Value
}

func (e *encodeState) structFields(rv reflect.Value) []structField {
	t := rv.Type()
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" || sf.Type.Kind() == reflect.Func {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("cbor"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fv := rv.Field(i)
		if e.opts.OmitUndefinedProperties && isUndefinedValue(fv) {
			continue
		}
		fields = append(fields, structField{name, fv})
	}
	return fields
}

func (e *encodeState) encodeStruct(rv reflect.Value) error {
	fields := e.structFields(rv)
	writeHead(e.buf, mtMap, uint64(len(fields)))
	for _, f := range fields {
		if err := e.encodeValue(reflect.ValueOf(f.name)); err != nil {
			return err
		}
		if err := e.encodeValue(f.val); err != nil {
			return err
		}
	}
	return nil
}

func typedArrayWordAt(rv reflect.Value, i int, kind typedArrayKind) uint64 {
	v := rv.Index(i)
	if kind.float {
		if kind.width == 4 {
			return uint64(math.Float32bits(float32(v.Float())))
		}
		return math.Float64bits(v.Float())
	}
	if kind.signed {
		return uint64(v.Int())
	}
	return v.Uint()
}

func (e *encodeState) encodeTypedArraySlice(rv reflect.Value, kind typedArrayKind) error {
	tag, err := typedArrayTag(kind)
	if err != nil {
		return err
	}
	n := rv.Len()
	payload := encodeTypedArrayBytes(kind, n, func(i int) uint64 {
		return typedArrayWordAt(rv, i, kind)
	})

	writeHead(e.buf, mtTag, tag)
	writeHead(e.buf, mtByteString, uint64(len(payload)))
	e.buf.write(payload)
	return nil
}

func (e *encodeState) encodeIndefiniteValue(rv reflect.Value, chunkSize int) error {
	if !rv.IsValid() {
		e.buf.writeByte(byte(mtSimpleFloat) | simpleNull)
		return nil
	}

	switch v := rv.Interface().(type) {
	case string:
		return e.encodeIndefiniteText(v, chunkSize)
	case []byte:
		return e.encodeIndefiniteBytes(v, chunkSize)
	case Map:
		writeIndefiniteHead(e.buf, mtMap)
		for _, entry := range v.Entries {
			if err := e.encodeValue(reflect.ValueOf(entry.Key)); err != nil {
				return err
			}
			if err := e.encodeValue(reflect.ValueOf(entry.Value)); err != nil {
				return err
			}
		}
		writeBreak(e.buf)
		return nil
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, ok := typedArrayElemKind(rv.Type().Elem()); ok {
			return e.encodeValue(rv)
		}
		writeIndefiniteHead(e.buf, mtArray)
		for i := 0; i < rv.Len(); i++ {
			if err := e.encodeValue(rv.Index(i)); err != nil {
				return err
			}
		}
		writeBreak(e.buf)
		return nil
	case reflect.Map:
		writeIndefiniteHead(e.buf, mtMap)
		for _, k := range rv.MapKeys() {
			if err := e.encodeValue(k); err != nil {
				return err
			}
			if err := e.encodeValue(rv.MapIndex(k)); err != nil {
				return err
			}
		}
		writeBreak(e.buf)
		return nil
	case reflect.Struct:
		fields := e.structFields(rv)
		writeIndefiniteHead(e.buf, mtMap)
		for _, f := range fields {
			if err := e.encodeValue(reflect.ValueOf(f.name)); err != nil {
				return err
			}
			if err := e.encodeValue(f.val); err != nil {
				return err
			}
		}
		writeBreak(e.buf)
		return nil
	default:
		return e.encodeValue(rv)
	}
}

func (e *encodeState) encodeIndefiniteText(s string, chunkSize int) error {
	writeIndefiniteHead(e.buf, mtTextString)
	data := []byte(s)
	for len(data) > 0 {
		n := chunkSize
		if n > len(data) {
			n = len(data)
		}
		for n < len(data) && !utf8.RuneStart(data[n]) {
			n--
		}
		if n == 0 {
			n = len(data)
		}
		writeHead(e.buf, mtTextString, uint64(n))
		e.buf.write(data[:n])
		data = data[n:]
	}
	writeBreak(e.buf)
	return nil
}

func (e *encodeState) encodeIndefiniteBytes(b []byte, chunkSize int) error {
	writeIndefiniteHead(e.buf, mtByteString)
	for len(b) > 0 {
		n := chunkSize
		if n > len(b) {
			n = len(b)
		}
		writeHead(e.buf, mtByteString, uint64(n))
		e.buf.write(b[:n])
		b = b[n:]
	}
	writeBreak(e.buf)
	return nil
}
