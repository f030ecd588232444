package mapper

import (
	"errors"

	"github.com/maptools/maptools/maperrors"
)

// flattenAll eagerly resolves $extend for every registered mapping, so $ref
// lookups at evaluation time never recurse through inheritance chains.
func (m *Mapper) flattenAll() error {
	for id := range m.mappings {
		flattened, err := m.flatten(id, make(map[string]bool))
		if err != nil {
			return err
		}
		m.mappings[id] = flattened
	}
	return nil
}

// flatten resolves the $extend chain of one registered mapping, depth first.
// visiting tracks the ids on the current resolution stack; revisiting one
// means the chain is cyclic, which is an unusable configuration.
func (m *Mapper) flatten(id string, visiting map[string]bool) (*Object, error) {
	desc, ok := m.mappings[id]
	if !ok {
		return nil, &maperrors.ExtendError{Parent: id, Message: "mapping is not registered"}
	}
	parentName, ok := desc.str("$extend")
	if !ok {
		return desc, nil
	}
	if visiting[id] {
		return nil, &maperrors.ExtendError{Mapping: id, Parent: parentName, IsCycle: true}
	}
	visiting[id] = true

	parent, err := m.flatten(parentName, visiting)
	if err != nil {
		var extErr *maperrors.ExtendError
		if errors.As(err, &extErr) && extErr.Mapping == "" {
			extErr.Mapping = id
		}
		return nil, err
	}
	delete(visiting, id)

	merged := merge(parent, desc)
	m.log().Debug("flattened mapping", "id", id, "parent", parentName)
	return merged, nil
}

// merge flattens a child mapping over its resolved parent. Identity keys
// ($id, $extend, description) come from the child; the merged pairing keys are
// the union of parent and child keys, each placed at its last occurrence in the
// parent-then-child key sequence, and the child's value wins wherever both
// define a key.
func merge(parent, child *Object) *Object {
	out := NewObject()
	for _, key := range []string{"$id", "$extend", "description"} {
		if v, ok := child.Get(key); ok {
			out.Set(key, v)
		}
	}

	parentBody := mappingBody(parent)
	childBody := mappingBody(child)

	// Key-order discipline: concatenate parent keys then child keys and keep
	// the LAST occurrence of each, preserving relative order. Child-defined
	// keys land at their child positions, parent-only keys keep theirs.
	combined := append(parentBody.Keys(), childBody.Keys()...)
	seen := make(map[string]bool, len(combined))
	ordered := make([]string, 0, len(combined))
	for i := len(combined) - 1; i >= 0; i-- {
		if seen[combined[i]] {
			continue
		}
		seen[combined[i]] = true
		ordered = append(ordered, combined[i])
	}

	mergedBody := NewObject()
	for i := len(ordered) - 1; i >= 0; i-- {
		key := ordered[i]
		if v, ok := childBody.Get(key); ok {
			mergedBody.Set(key, v)
			continue
		}
		v, _ := parentBody.Get(key)
		mergedBody.Set(key, v)
	}
	out.Set("mapping", mergedBody)
	return out
}

// mappingBody returns a mapping descriptor's pairs container, tolerating both
// the nested form ({$id, mapping: {...}}) and a bare pairs object.
func mappingBody(desc *Object) *Object {
	if desc == nil {
		return NewObject()
	}
	if inner, ok := desc.Get("mapping"); ok {
		if io, isObj := asObject(inner); isObj {
			return io
		}
	}
	return NewObject()
}
