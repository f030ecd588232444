// Package jsonpointer implements RFC 6901 JSON Pointers over untyped JSON trees.
//
// A JSON Pointer is a path that refers to one JSON value within another. If the
// path is empty or "/", it refers to the root value. Otherwise it is a sequence
// of slash-prefixed segments, like "/points/1/x", selecting successive properties
// (for JSON objects) or items (for JSON arrays).
//
// Get never fails: missing segments resolve to nil. Set creates intermediate
// containers on demand, inferring the container type from the next path segment:
// a numeric segment creates an array, anything else an object. This inference is
// part of the package contract and is what lets mapping descriptors address
// not-yet-existing structure in the output document.
//
// See the spec at https://datatracker.ietf.org/doc/html/rfc6901.
package jsonpointer

import (
	"strconv"
	"strings"
)

var (
	segmentEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	segmentUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapeSegment escapes a single reference token per RFC 6901 ("~" -> "~0", "/" -> "~1").
func EscapeSegment(s string) string {
	return segmentEscaper.Replace(s)
}

// UnescapeSegment reverses EscapeSegment.
func UnescapeSegment(s string) string {
	return segmentUnescaper.Replace(s)
}

// Split breaks a pointer into its unescaped segments. The empty pointer and "/"
// both address the root and yield no segments. A missing leading slash is
// tolerated: "a/b" splits the same as "/a/b".
func Split(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	segments := strings.Split(pointer, "/")
	if strings.Contains(pointer, "~") {
		for i := range segments {
			segments[i] = UnescapeSegment(segments[i])
		}
	}
	return segments
}

// KeyGetter is implemented by ordered object types that want to be traversable
// by Get without depending on this package's concrete containers.
type KeyGetter interface {
	Get(key string) (any, bool)
}

// Get reads the value at pointer inside root. Missing segments, out-of-range
// indexes, and type mismatches all resolve to nil; Get never fails.
func Get(root any, pointer string) any {
	node := root
	for _, seg := range Split(pointer) {
		switch v := node.(type) {
		case map[string]any:
			node = v[seg]
		case KeyGetter:
			node, _ = v.Get(seg)
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil
			}
			node = v[i]
		default:
			// Scalars and nil have no children.
			return nil
		}
	}
	return node
}

// Set writes value at pointer inside root, creating intermediate containers on
// demand, and returns the updated root. The root itself is replaced when the
// pointer is empty or when root is not a container of the required kind; callers
// must use the returned value.
func Set(root any, pointer string, value any) any {
	segments := Split(pointer)
	if len(segments) == 0 {
		return value
	}
	return setSegments(root, segments, value)
}

func setSegments(node any, segments []string, value any) any {
	seg := segments[0]
	rest := segments[1:]

	if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 {
		arr, ok := node.([]any)
		if !ok {
			arr = nil
		}
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		if len(rest) == 0 {
			arr[idx] = value
		} else {
			arr[idx] = setSegments(childContainer(arr[idx], rest[0]), rest, value)
		}
		return arr
	}

	// "-" appends to an array per RFC 6901 section 4.
	if seg == "-" {
		if arr, ok := node.([]any); ok || node == nil {
			if len(rest) == 0 {
				return append(arr, value)
			}
			return append(arr, setSegments(childContainer(nil, rest[0]), rest, value))
		}
	}

	obj, ok := node.(map[string]any)
	if !ok || obj == nil {
		obj = make(map[string]any)
	}
	if len(rest) == 0 {
		obj[seg] = value
	} else {
		obj[seg] = setSegments(childContainer(obj[seg], rest[0]), rest, value)
	}
	return obj
}

// childContainer picks the container an intermediate segment should descend
// into: the existing child when it is already a container, otherwise a fresh one
// whose kind is inferred from the next segment.
func childContainer(existing any, nextSeg string) any {
	switch existing.(type) {
	case map[string]any, []any:
		return existing
	}
	if _, err := strconv.Atoi(nextSeg); err == nil || nextSeg == "-" {
		return []any(nil)
	}
	return map[string]any{}
}
