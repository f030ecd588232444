package mapper

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// truthy reports JavaScript-style truthiness: nil, false, zero numbers, and
// empty strings are falsy, everything else (including empty containers) truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if n, ok := toNumber(v); ok {
			return n != 0
		}
		return true
	}
}

// toNumber converts the numeric Go types the YAML and JSON decoders produce.
// Strings are not coerced; see coerceNumber for the explicit "as" coercion.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// coerceNumber additionally parses numeric strings, matching the loose
// coercion the "as": "number" stage and the integer type check require.
func coerceNumber(v any) (float64, bool) {
	if n, ok := toNumber(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// toString renders a value the way it would appear inside a JSON document,
// without quotes for scalars. nil renders as the empty string.
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		if n, ok := toNumber(v); ok {
			return formatNumber(n)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// formatNumber renders integers without a decimal point.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// looseEqual compares two values the way descriptor constraints expect:
// numbers compare by value across int/float representations, everything else
// by deep equality.
func looseEqual(a, b any) bool {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		return an == bn
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// lengthOf returns the length of a string (in runes) or array, and whether the
// value has a length at all.
func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len([]rune(t)), true
	case []any:
		return len(t), true
	default:
		return 0, false
	}
}

// asObject normalizes descriptor shapes: *Object passes through and plain maps
// are deep-converted. Data values that are not objects report false.
func asObject(v any) (*Object, bool) {
	switch t := v.(type) {
	case *Object:
		return t, t != nil
	case map[string]any:
		return FromMap(t), true
	default:
		return nil, false
	}
}
