package jsonfilter

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/icdbms/icdbms/value"
)

// Parse decodes raw canonical JSON text into the generic tree Extract and
// Contains operate over: nil, bool, json.Number, string, []any, or
// map[string]any. json.Number (not float64) is used throughout so an
// integer-valued number round-trips exactly, mirroring OPA util's
// UseNumber-based decoder.
func Parse(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Extract walks segments over tree, returning (node, true) on a
// successful walk or (nil, false) if a Key segment hits a non-object, an
// Index segment hits a non-array, a key is missing, or an index is out
// of bounds.
func Extract(tree any, path Path) (any, bool) {
	cur := tree
	for _, seg := range path {
		switch seg.Kind {
		case SegmentKey:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := obj[seg.Key]
			if !ok {
				return nil, false
			}
			cur = v
		case SegmentIndex:
			arr, ok := cur.([]any)
			if !ok || seg.Index < 0 || seg.Index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.Index]
		}
	}
	return cur, true
}

// ToValue converts a successfully extracted JSON node into a
// value.Value: null -> Null, bool -> Bool, an integer-fitting number ->
// Int64, else -> Decimal, string -> Text, array/object -> Json (its
// compact re-encoding).
func ToValue(node any) (value.Value, error) {
	switch n := node.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return value.Int64(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		return decimalFromFloat(f), nil
	case string:
		return value.Text(n), nil
	case []any, map[string]any:
		enc, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		return value.Json(enc), nil
	default:
		return nil, &InvalidPathError{Reason: "unrecognized JSON node type"}
	}
}

// decimalFromFloat converts a float64 to a Decimal with a fixed scale of
// 6, enough precision for filter comparisons without pulling in an
// arbitrary-precision library (see value/decimal.go and DESIGN.md).
func decimalFromFloat(f float64) value.Decimal {
	const scale = 6
	scaled := f * math.Pow10(scale)
	return value.Decimal{Mantissa: int64(math.Round(scaled)), Scale: scale}
}
