package cbor

import "reflect"

// DateType selects how a time.Time value is encoded when no more specific
// representation was requested.
type DateType int

const (
	// DateAsNumber emits tag 1 with an integer epoch-seconds value when
	// the time has no sub-second component, or a float when it does.
	DateAsNumber DateType = iota
	// DateAsFloat always emits tag 1 with a float epoch-seconds value.
	DateAsFloat
	// DateAsInt always emits tag 1 with an integer epoch-seconds value,
	// truncating any sub-second component.
	DateAsInt
	// DateAsString emits tag 0 with an RFC 3339 text representation.
	DateAsString
)

// EncodeFunc lets a caller register a custom encoder for a concrete Go
// type via EncodeOptions.GenTypes, bypassing the generic struct/map
// fallback for that type.
type EncodeFunc func(enc *Encoder, v reflect.Value) error

// EncodeOptions configures EncodeOne.
type EncodeOptions struct {
	// EncodeUndefined overrides what Undefined encodes as. nil keeps the
	// default (the CBOR `undefined` simple value); a []byte is written
	// verbatim; a func() any is called and its result encoded instead;
	// any other value is encoded in Undefined's place.
	EncodeUndefined any

	// DisallowUndefinedKeys makes encoding a map or Map with an Undefined
	// key fail instead of silently emitting it.
	DisallowUndefinedKeys bool

	// DateType selects the wire representation for time.Time values.
	DateType DateType

	// CollapseBigIntegers emits a *big.Int as a plain CBOR integer,
	// skipping the tag 2/3 + byte-string wrapper, whenever its magnitude
	// fits in 64 bits.
	CollapseBigIntegers bool

	// OmitUndefinedProperties skips map entries and struct fields whose
	// value is Undefined instead of encoding them.
	OmitUndefinedProperties bool

	// GenTypes maps a concrete Go type to a custom encoder, checked
	// before any built-in dispatch rule.
	GenTypes map[reflect.Type]EncodeFunc

	// DetectLoops enables cycle detection. Loops, if non-nil, is reused
	// across calls instead of allocating a fresh CycleDetector.
	DetectLoops bool
	Loops       *CycleDetector
}

// IndefiniteOptions configures EncodeIndefinite.
type IndefiniteOptions struct {
	// ChunkSize is the maximum number of bytes per chunk when splitting a
	// string/byte-string into an indefinite-length sequence. Defaults to
	// 4096 when zero. Text chunks end on a UTF-8 rune boundary; when no
	// boundary falls within ChunkSize bytes, the whole rest of the text is
	// written as one chunk.
	ChunkSize int
}

// DecodeOptions configures DecodeFirstSync/DecodeAllSync.
type DecodeOptions struct {
	// TagConverters overrides the built-in tag registry. A present entry
	// with a nil function removes the corresponding built-in interpreter,
	// leaving that tag number decoded as a bare Tag.
	TagConverters map[uint64]TagInterpreter
}
