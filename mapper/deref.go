package mapper

// deref resolves a descriptor reference into a concrete descriptor:
//
//   - a string naming a registered mapping resolves to that mapping; any other
//     string passes through unchanged and is treated downstream as a pointer
//   - an object carrying "$ref" resolves the named mapping; a missing target
//     resolves to nil, which downstream treats as a no-op
//   - everything else passes through unchanged
//
// Registered-name lookup deliberately wins over pointer interpretation only
// when the name is actually registered, so bare pointers keep working even
// when they collide with nothing.
func (m *Mapper) deref(d any) any {
	if m == nil {
		return d
	}
	switch v := d.(type) {
	case string:
		if mapping, ok := m.mappings[v]; ok {
			return mapping
		}
	case *Object:
		if ref, ok := v.Get("$ref"); ok {
			name, _ := ref.(string)
			mapping, found := m.mappings[name]
			if !found {
				m.log().Debug("unresolved $ref", "name", name)
				return nil
			}
			return mapping
		}
	case map[string]any:
		return m.deref(FromMap(v))
	}
	return d
}
