package cbor

import "fmt"

// Simple is a CBOR major-type-7 simple value outside the four values with
// dedicated Go representations (false/true/nil/Undefined). Decoding simple
// values 0-19 and 32-255 produces a Simple.
type Simple byte

func (s Simple) String() string { return fmt.Sprintf("simple(%d)", byte(s)) }

const (
	simpleFalse     byte = 20
	simpleTrue      byte = 21
	simpleNull      byte = 22
	simpleUndefined byte = 23
)

// undefinedType is the sole inhabitant of Undefined.
type undefinedType struct{}

func (undefinedType) String() string { return "undefined" }

// Undefined is the decoded and encoded representation of the CBOR
// `undefined` simple value. Go's nil already stands in for CBOR null, so
// undefined needs its own sentinel to round-trip distinctly from it.
var Undefined = undefinedType{}

// Tag is a CBOR tagged item (major type 6) whose tag number has no
// registered interpreter, or whose interpreter returned an error. In the
// latter case Err is set and Content holds the tag's raw inner item: a
// failing tag interpreter is isolated to its own wrapper rather than
// failing the whole decode. The tag-33/34 (base64url/base64 text)
// interpreters also return a Tag, with Err nil, once their text validates.
type Tag struct {
	Number  uint64
	Content any
	Err     error
}

func (t Tag) String() string { return fmt.Sprintf("tag(%d)", t.Number) }

// Set is the decoded form of a CBOR tag-258 item: an ordered collection
// with insertion order preserved and no deduplication, matching this
// package's map-key policy.
type Set struct {
	Elements []any
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map is the decoded form of a CBOR major-type-5 item. CBOR permits map
// keys of any type, including arrays and maps, which are not comparable
// Go values and so cannot back a native Go map; Map instead keeps entries
// in an ordered slice, preserving both insertion order and duplicate keys
// exactly as they appeared on the wire.
type Map struct {
	Entries []MapEntry
}

// NewMap builds a Map from the given entries, in order.
func NewMap(entries ...MapEntry) Map {
	return Map{Entries: entries}
}

// ToStringMap converts m to a map[string]any, returning ok=false if any
// key is not a string or if m contains duplicate keys.
func (m Map) ToStringMap() (result map[string]any, ok bool) {
	out := make(map[string]any, len(m.Entries))
	for _, entry := range m.Entries {
		k, isString := entry.Key.(string)
		if !isString {
			return nil, false
		}
		if _, exists := out[k]; exists {
			return nil, false
		}
		out[k] = entry.Value
	}
	return out, true
}
