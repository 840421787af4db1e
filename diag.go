package cbor

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Diagnose renders every item in data in a notation modelled on RFC 8949
// §8 diagnostic notation, joined by ", ". Items are decoded with the
// built-in tag interpreters first, so most interpreted tags render from
// their Go value (a tag-0 date as bare RFC 3339 text, a URI as its bare
// string) rather than as number(content), and floats use Go's shortest
// formatting, so a whole-number float renders like an integer ("1" for
// 1.0). Grounded on bureau-foundation-bureau's
// lib/codec.Diagnose wrapper around fxamacker/cbor's diagnostic-notation
// support, reimplemented here over this package's own decoder.
func Diagnose(data []byte) (string, error) {
	items, err := DecodeAllSync(data, nil)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = diagnoseValue(item)
	}
	return strings.Join(parts, ", "), nil
}

// DiagnoseFirst renders data's first item in diagnostic notation, along
// with the remaining unconsumed bytes, mirroring bureau's DiagnoseFirst.
func DiagnoseFirst(data []byte) (string, []byte, error) {
	d := &decodeState{r: newInputReader(data)}
	v, err := d.decodeItem()
	if err != nil {
		return "", nil, err
	}
	return diagnoseValue(v), data[d.r.pos:], nil
}

func diagnoseValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case undefinedType:
		return "undefined"
	case bool:
		return strconv.FormatBool(value)
	case uint64:
		return strconv.FormatUint(value, 10)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case string:
		return strconv.Quote(value)
	case []byte:
		return "h'" + hex.EncodeToString(value) + "'"
	case []any:
		parts := make([]string, len(value))
		for i, elem := range value {
			parts[i] = diagnoseValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Map:
		parts := make([]string, len(value.Entries))
		for i, entry := range value.Entries {
			parts[i] = diagnoseValue(entry.Key) + ": " + diagnoseValue(entry.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Simple:
		return fmt.Sprintf("simple(%d)", byte(value))
	case Tag:
		return fmt.Sprintf("%d(%s)", value.Number, diagnoseValue(value.Content))
	case *big.Int:
		return value.String()
	case DecimalFraction:
		return value.String()
	case BigFloat:
		return value.String()
	case time.Time:
		return value.Format(time.RFC3339Nano)
	case *url.URL:
		return value.String()
	case *regexp2.Regexp:
		return "/" + value.String() + "/"
	case Set:
		parts := make([]string, len(value.Elements))
		for i, elem := range value.Elements {
			parts[i] = diagnoseValue(elem)
		}
		return "258([" + strings.Join(parts, ", ") + "])"
	default:
		return fmt.Sprintf("%v", value)
	}
}
