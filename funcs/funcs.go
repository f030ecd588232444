// Package funcs bundles the builtin initializer, transformer, and plugin
// registries.
//
// Host applications merge these with their own functions when constructing a
// Mapper:
//
//	m, err := mapper.New(doc, mapper.Options{
//	    Initializers: funcs.Initializers(),
//	    Transformers: funcs.Transformers(),
//	    Plugins:      funcs.Plugins(),
//	})
//
// Every registry call returns a fresh map, so callers can add or replace
// entries without affecting other Mappers.
package funcs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/maptools/maptools/jsonpointer"
	"github.com/maptools/maptools/mapper"
)

// Initializers returns the builtin initializer registry:
//
//	now          - the current time in RFC 3339 format
//	uuid         - a random RFC 4122 version 4 UUID string
//	empty_object - a fresh empty object
//	empty_array  - a fresh empty array
func Initializers() map[string]mapper.Initializer {
	return map[string]mapper.Initializer{
		"now": func(_ context.Context, _ any, _ *mapper.Context) (any, error) {
			return time.Now().UTC().Format(time.RFC3339), nil
		},
		"uuid": func(_ context.Context, _ any, _ *mapper.Context) (any, error) {
			return newUUID()
		},
		"empty_object": func(_ context.Context, _ any, _ *mapper.Context) (any, error) {
			return map[string]any{}, nil
		},
		"empty_array": func(_ context.Context, _ any, _ *mapper.Context) (any, error) {
			return []any{}, nil
		},
	}
}

// newUUID generates a version 4 UUID from crypto/rand. Kept local to avoid a
// dependency for sixteen random bytes.
func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10
	h := hex.EncodeToString(b[:])
	return h[:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:], nil
}

// Transformers returns the builtin transformer registry:
//
//	trim    - strip surrounding whitespace
//	lower   - lowercase
//	upper   - uppercase
//	title   - English title case
//	split   - split a string into an array; options: separator (default ",")
//	join    - join an array into a string; options: separator (default ",")
//	replace - replace occurrences; options: {"old": ..., "new": ...}
//	prefix  - prepend the options string
//	suffix  - append the options string
//	number  - parse a numeric string
//	string  - format any value as a string
func Transformers() map[string]mapper.Transformer {
	return map[string]mapper.Transformer{
		"trim": func(_ context.Context, value any, _ *mapper.Context, _ any) (any, error) {
			return strings.TrimSpace(stringify(value)), nil
		},
		"lower": func(_ context.Context, value any, _ *mapper.Context, _ any) (any, error) {
			return strings.ToLower(stringify(value)), nil
		},
		"upper": func(_ context.Context, value any, _ *mapper.Context, _ any) (any, error) {
			return strings.ToUpper(stringify(value)), nil
		},
		"title": func(_ context.Context, value any, _ *mapper.Context, _ any) (any, error) {
			// cases.Caser carries state, so each call gets its own.
			return cases.Title(language.English).String(stringify(value)), nil
		},
		"split": func(_ context.Context, value any, _ *mapper.Context, options any) (any, error) {
			parts := strings.Split(stringify(value), optionString(options, "separator", ","))
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = p
			}
			return out, nil
		},
		"join": func(_ context.Context, value any, _ *mapper.Context, options any) (any, error) {
			arr, ok := value.([]any)
			if !ok {
				return value, nil
			}
			parts := make([]string, len(arr))
			for i, el := range arr {
				parts[i] = stringify(el)
			}
			return strings.Join(parts, optionString(options, "separator", ",")), nil
		},
		"replace": func(_ context.Context, value any, _ *mapper.Context, options any) (any, error) {
			return strings.ReplaceAll(stringify(value),
				optionString(options, "old", ""),
				optionString(options, "new", "")), nil
		},
		"prefix": func(_ context.Context, value any, _ *mapper.Context, options any) (any, error) {
			return stringify(options) + stringify(value), nil
		},
		"suffix": func(_ context.Context, value any, _ *mapper.Context, options any) (any, error) {
			return stringify(value) + stringify(options), nil
		},
		"number": func(_ context.Context, value any, _ *mapper.Context, _ any) (any, error) {
			switch v := value.(type) {
			case string:
				n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return nil, nil
				}
				return n, nil
			default:
				return value, nil
			}
		},
		"string": func(_ context.Context, value any, _ *mapper.Context, _ any) (any, error) {
			return stringify(value), nil
		},
	}
}

// Plugins returns the builtin plugin registry:
//
//	lookup - map a value through the plugin descriptor's "table" object;
//	         unmapped values pass through unchanged
func Plugins() map[string]mapper.Plugin {
	return map[string]mapper.Plugin{
		"lookup": func(_ context.Context, descriptor any, value any, _ *mapper.Context) (any, error) {
			table := jsonpointer.Get(descriptor, "/table")
			if table == nil {
				return value, nil
			}
			if mapped := jsonpointer.Get(table, "/"+jsonpointer.EscapeSegment(stringify(value))); mapped != nil {
				return mapped, nil
			}
			return value, nil
		},
	}
}

// stringify renders scalars the way they appear in a JSON document, without
// quotes. Non-scalar values format with fmt.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// optionString reads a string option from a transform step's options, which
// may be a bare string or an object carrying the named key.
func optionString(options any, key, fallback string) string {
	switch o := options.(type) {
	case nil:
		return fallback
	case string:
		return o
	default:
		if v := jsonpointer.Get(o, "/"+key); v != nil {
			return stringify(v)
		}
		return fallback
	}
}
