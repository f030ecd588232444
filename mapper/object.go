package mapper

import (
	"bytes"
	"encoding/json"
	"sort"

	"go.yaml.in/yaml/v4"

	"github.com/maptools/maptools/maperrors"
)

// Object is a JSON object that preserves key insertion order.
//
// Descriptor semantics depend on key order twice: mapping pairings evaluate in
// source order, and the plugin chain dispatches in descriptor key order. Plain
// Go maps cannot carry that order, so every descriptor object the engine sees
// is an *Object. Data documents (input and output) stay plain map[string]any.
//
// Object unmarshals from YAML and JSON, keeping the source document's key
// order, and marshals back to JSON in the same order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// FromMap deep-converts a plain map into an Object. Nested maps become nested
// Objects and nested slices are converted element-wise. Keys are sorted for
// determinism; callers that need a specific order should build the Object with
// Set or unmarshal it from a document.
func FromMap(m map[string]any) *Object {
	o := NewObject()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.Set(k, fromAny(m[k]))
	}
	return o
}

func fromAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = fromAny(el)
		}
		return out
	default:
		return v
	}
}

// Set inserts or replaces a key, appending new keys at the end. It returns the
// receiver so construction can be chained.
func (o *Object) Set(key string, value any) *Object {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the value stored at key and whether the key is present.
func (o *Object) Get(key string) (any, bool) {
	if o == nil || o.values == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// str returns the value at key when it is a string.
func (o *Object) str(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ParseObject parses a YAML or JSON document into an Object, preserving key
// order. JSON is a subset of YAML, so both formats go through the same decoder.
func ParseObject(data []byte) (*Object, error) {
	o := NewObject()
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, &maperrors.ParseError{Message: "invalid mapping document", Cause: err}
	}
	return o, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, decoding a mapping node with key
// order intact.
func (o *Object) UnmarshalYAML(node *yaml.Node) error {
	for node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return &maperrors.ParseError{
			Line:    node.Line,
			Column:  node.Column,
			Message: "expected a mapping node",
		}
	}
	o.keys = o.keys[:0]
	o.values = make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return &maperrors.ParseError{
				Line:    node.Content[i].Line,
				Column:  node.Content[i].Column,
				Message: "object keys must be strings",
				Cause:   err,
			}
		}
		value, err := nodeValue(node.Content[i+1])
		if err != nil {
			return err
		}
		o.Set(key, value)
	}
	return nil
}

// nodeValue converts a YAML node into the engine's value model: mappings become
// *Object, sequences []any, scalars their decoded Go value.
func nodeValue(node *yaml.Node) (any, error) {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.MappingNode:
		obj := NewObject()
		if err := obj.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := nodeValue(child)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, &maperrors.ParseError{
				Line:    node.Line,
				Column:  node.Column,
				Message: "cannot decode scalar",
				Cause:   err,
			}
		}
		return v, nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. JSON parses as YAML, which keeps
// the one decode path that preserves key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	return yaml.Unmarshal(data, o)
}

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
