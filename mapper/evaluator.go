package mapper

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/maptools/maptools/jsonpointer"
)

// evalMapping evaluates a mapping descriptor: it shifts into a fresh frame,
// derives the mapping's seed value through the pipeline (mappings reuse the
// leaf source-selection keys), then walks the pairings in order, deriving each
// value and writing it at the pairing's target pointer.
//
// Pairings are strictly sequential because each one may observe accumulated
// issues: any issue present after a pairing completes aborts the mapping,
// which returns nil. Fan-outs inside a single pairing run concurrently.
func (m *Mapper) evalMapping(ctx context.Context, desc any, parent *Context, ch shiftChanges) (any, error) {
	resolved := m.deref(desc)
	o, ok := asObject(resolved)
	if !ok {
		return nil, nil
	}
	ec := shift(o, parent, ch)

	seed, err := m.pipeline(ctx, o, ec)
	if err != nil {
		return nil, err
	}

	for _, p := range ec.pairings {
		value, pairErr := m.evalPairing(ctx, p.descriptor, seed, ec)
		if pairErr != nil {
			return nil, pairErr
		}
		if value != nil {
			ec.Target = jsonpointer.Set(ec.Target, p.pointer, value)
		}
		if ec.issues.len() > 0 {
			return nil, nil
		}
	}

	if err := m.emitStdout(o, ec.Target); err != nil {
		return nil, err
	}
	return ec.Target, nil
}

// evalPairing derives the value for one pairing's right-hand descriptor with
// the mapping's seed value as source.
func (m *Mapper) evalPairing(ctx context.Context, right any, seed any, ec *Context) (any, error) {
	resolved := m.deref(right)
	if resolved == nil {
		// An unresolved $ref derives nothing.
		return nil, nil
	}
	seedChange := shiftChanges{source: seed, hasSource: true}

	// Array right sides are disjunction lists: evaluate every variant and
	// keep the first truthy result, in declaration order.
	if variants, isArr := resolved.([]any); isArr {
		results, err := m.readAll(ctx, variants, ec)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			if truthy(r) {
				return r, nil
			}
		}
		return nil, nil
	}

	rObj, isObj := asObject(resolved)
	if !isObj || (!isMappingNode(rObj) && !rObj.Has("switch")) {
		pc := shift(rObj, ec, seedChange)
		return m.pipeline(ctx, resolved, pc)
	}

	// Mapping or switch node: derive its value, then project scalars
	// directly, arrays element-wise, and objects through one nested
	// evaluation.
	pc := shift(rObj, ec, seedChange)
	value, err := m.pipeline(ctx, rObj, pc)
	if err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case []any:
		results := make([]any, len(v))
		errs := make([]error, len(v))
		var wg sync.WaitGroup
		for i, item := range v {
			wg.Add(1)
			go func(i int, item any) {
				defer wg.Done()
				results[i], errs[i] = m.nest(ctx, rObj, pc, shiftChanges{
					source: item, hasSource: true,
					index: i, hasIndex: true,
				})
			}(i, item)
		}
		wg.Wait()
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return results, nil
	case map[string]any, *Object:
		return m.nest(ctx, rObj, pc, shiftChanges{source: v, hasSource: true})
	default:
		// Scalars and nil write through unchanged.
		return v, nil
	}
}

// nest evaluates a descriptor's sub-mapping against a single source value in a
// fresh target. Descriptors without a sub-mapping pass the source through.
func (m *Mapper) nest(ctx context.Context, desc *Object, parent *Context, ch shiftChanges) (any, error) {
	body, ok := desc.Get("mapping")
	if !ok {
		body, ok = desc.Get("each")
	}
	sub, isObj := asObject(m.deref(body))
	if !ok || !isObj {
		return ch.source, nil
	}
	wrapper := NewObject().Set("source", "/").Set("mapping", sub)
	ch.target = map[string]any{}
	ch.hasTarget = true
	return m.evalMapping(ctx, wrapper, parent, ch)
}

// read dispatches a reference: mapping descriptors evaluate through
// evalMapping into a fresh target, everything else through the pipeline.
// Registered mapping names win over pointer interpretation only when the name
// is actually registered.
func (m *Mapper) read(ctx context.Context, ref any, parent *Context, ch shiftChanges) (any, error) {
	resolved := m.deref(ref)
	if resolved == nil {
		return nil, nil
	}
	if o, ok := asObject(resolved); ok && isMappingNode(o) {
		ch.target = map[string]any{}
		ch.hasTarget = true
		return m.evalMapping(ctx, o, parent, ch)
	}
	var descObj *Object
	if o, ok := asObject(resolved); ok {
		descObj = o
	}
	pc := shift(descObj, parent, ch)
	return m.pipeline(ctx, resolved, pc)
}

// readAll evaluates a descriptor list concurrently and joins, preserving
// declaration order in the result slice.
func (m *Mapper) readAll(ctx context.Context, items []any, ec *Context) ([]any, error) {
	results := make([]any, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item any) {
			defer wg.Done()
			results[i], errs[i] = m.read(ctx, item, ec, shiftChanges{})
		}(i, item)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return results, nil
}

// isMappingNode reports whether a descriptor is a mapping node, discriminated
// by key presence.
func isMappingNode(o *Object) bool {
	return o != nil && (o.Has("mapping") || o.Has("each"))
}

// emitStdout writes the descriptor's stdout side channel: a pointer selects a
// slice of the target, any other truthy value dumps the whole target.
func (m *Mapper) emitStdout(o *Object, target any) error {
	s, isString := o.str("stdout")
	if isString {
		b, err := json.MarshalIndent(jsonpointer.Get(target, s), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(m.stdout(), string(b))
		return err
	}
	if truthyKey(o, "stdout") {
		b, err := json.MarshalIndent(target, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(m.stdout(), string(b))
		return err
	}
	return nil
}
