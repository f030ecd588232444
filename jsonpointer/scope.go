package jsonpointer

import "path"

// Resolve composes pointer scopes the way POSIX paths compose: segments are
// joined with "/" and the result is cleaned, normalizing ".", "..", and repeated
// separators. The result is always absolute; empty segments are skipped.
//
// The evaluator uses this to stack descriptor scopes: entering an each pairing
// at index i resolves the element scope as
//
//	Resolve(current, "/2", descriptor.source)
//
// inserting the index segment between the enclosing scope and the descriptor's
// own offset. Relative pointers ("../sibling") escape the current scope the way
// a relative file path escapes a directory.
func Resolve(base string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	if base == "" {
		base = "/"
	}
	parts = append(parts, base)
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		parts = append(parts, seg)
	}
	resolved := path.Join(parts...)
	if resolved == "" || resolved[0] != '/' {
		resolved = "/" + resolved
	}
	return path.Clean(resolved)
}
