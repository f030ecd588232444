package mapper

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/maptools/maptools/jsonpointer"
)

// pipeline derives a leaf descriptor's value: source selection first, then the
// fixed stage order switch -> plugins -> find -> concat -> init -> constant ->
// random -> template -> transform -> validate -> default -> regexp_i -> as.
// String descriptors stop after source selection; only objects carry stages.
func (m *Mapper) pipeline(ctx context.Context, desc any, ec *Context) (any, error) {
	value, err := m.selectSource(ctx, desc, ec)
	if err != nil {
		return nil, err
	}
	o, ok := desc.(*Object)
	if !ok {
		return value, nil
	}

	if sw, found := o.Get("switch"); found {
		value, err = m.applySwitch(ctx, sw, value, ec)
		if err != nil {
			return nil, err
		}
	}

	for _, key := range o.Keys() {
		plugin, registered := m.plugins[key]
		if !registered {
			continue
		}
		arg, _ := o.Get(key)
		result, pluginErr := plugin(ctx, arg, value, ec)
		if pluginErr != nil {
			return nil, pluginErr
		}
		if argObj, isObj := asObject(arg); isObj {
			if ptr, hasPtr := argObj.str("pointer"); hasPtr {
				value = jsonpointer.Get(result, ptr)
				continue
			}
		}
		value = result
	}

	if f, found := o.Get("find"); found {
		value = applyFind(f, value)
	}

	if truthyKey(o, "concat") {
		if arr, isArr := value.([]any); isArr {
			value = flattenOnce(arr)
		}
	}

	if name, found := o.str("init"); found {
		if fn := m.initializers[name]; fn != nil {
			value, err = fn(ctx, value, ec)
			if err != nil {
				return nil, err
			}
		}
	}

	if c, found := o.Get("constant"); found {
		value = c
	}

	if count, found := o.Get("random"); found {
		if n, isNum := toNumber(count); isNum {
			value = pickRandom(value, int(n), truthyKey(o, "unique"))
		}
	}

	if tpl, found := o.str("template"); found {
		value, err = m.renderTemplate(ctx, tpl, o, value, ec)
		if err != nil {
			return nil, err
		}
	}

	if tr, found := o.Get("transform"); found {
		value, err = m.applyTransform(ctx, tr, value, ec)
		if err != nil {
			return nil, err
		}
	}

	validate(o, value, ec)

	if value == nil {
		if d, found := o.Get("default"); found {
			value = d
		}
	}

	if truthyKey(o, "regexp_i") {
		value = "/" + toString(value) + "/i"
	}

	if as, found := o.str("as"); found {
		value = coerce(value, as)
	}

	return value, nil
}

func truthyKey(o *Object, key string) bool {
	v, _ := o.Get(key)
	return truthy(v)
}

// selectSource resolves the descriptor's read root into an initial value.
// First match wins: pointer string, relative string, source/target/input/
// output offsets, then first/last/all selection, else the current source.
func (m *Mapper) selectSource(ctx context.Context, desc any, ec *Context) (any, error) {
	switch d := desc.(type) {
	case string:
		if strings.HasPrefix(d, "/") {
			return jsonpointer.Get(ec.Source, d), nil
		}
		if strings.Contains(d, "../") {
			// Relative pointers escape the current scope and re-read
			// from the root input.
			return jsonpointer.Get(ec.Input, jsonpointer.Resolve(ec.Paths.Source, d)), nil
		}
		return ec.Source, nil
	case *Object:
		if ptr, ok := d.str("source"); ok {
			return jsonpointer.Get(ec.Source, ptr), nil
		}
		if ptr, ok := d.str("target"); ok {
			return jsonpointer.Get(ec.Target, ptr), nil
		}
		if ptr, ok := d.str("input"); ok {
			return jsonpointer.Get(ec.Input, ptr), nil
		}
		if ptr, ok := d.str("output"); ok {
			return jsonpointer.Get(ec.Output, ptr), nil
		}
		if list, ok := d.Get("first"); ok {
			return m.pickVariant(ctx, list, ec, pickFirst)
		}
		if list, ok := d.Get("last"); ok {
			return m.pickVariant(ctx, list, ec, pickLast)
		}
		if list, ok := d.Get("all"); ok {
			return m.pickVariant(ctx, list, ec, pickAll)
		}
	}
	return ec.Source, nil
}

type pickMode int

const (
	pickFirst pickMode = iota
	pickLast
	pickAll
)

// pickVariant evaluates each sub-descriptor concurrently and joins before
// selecting, so the choice is deterministic regardless of completion order.
func (m *Mapper) pickVariant(ctx context.Context, list any, ec *Context, mode pickMode) (any, error) {
	items, ok := list.([]any)
	if !ok {
		return nil, nil
	}
	results, err := m.readAll(ctx, items, ec)
	if err != nil {
		return nil, err
	}
	switch mode {
	case pickFirst:
		for _, r := range results {
			if r != nil {
				return r, nil
			}
		}
		return nil, nil
	case pickLast:
		for i := len(results) - 1; i >= 0; i-- {
			if results[i] != nil {
				return results[i], nil
			}
		}
		return nil, nil
	default:
		collected := make([]any, 0, len(results))
		for _, r := range results {
			if r != nil {
				collected = append(collected, r)
			}
		}
		return collected, nil
	}
}

// applySwitch selects a branch descriptor by reading the branch key out of the
// just-computed value, then evaluates the branch with that value as source.
// No matching case and no default yields nil.
func (m *Mapper) applySwitch(ctx context.Context, sw, value any, ec *Context) (any, error) {
	swObj, ok := asObject(sw)
	if !ok {
		return value, nil
	}
	ptr, ok := swObj.str("source")
	if !ok {
		if ptr, ok = swObj.str("input"); !ok {
			ptr, _ = swObj.str("output")
		}
	}
	branch := jsonpointer.Get(value, ptr)
	casesAny, _ := swObj.Get("cases")
	cases, ok := asObject(casesAny)
	if !ok {
		return nil, nil
	}
	selected, found := cases.Get(toString(branch))
	if !found {
		selected, found = cases.Get("default")
	}
	if !found {
		return nil, nil
	}
	return m.read(ctx, selected, ec, shiftChanges{source: value, hasSource: true})
}

// applyFind selects the first element of an array (singletons are wrapped)
// matching every key/value pair of the descriptor's eq object, optionally
// projected through a pointer.
func applyFind(f, value any) any {
	fObj, ok := asObject(f)
	if !ok {
		return value
	}
	eqAny, _ := fObj.Get("eq")
	eq, ok := asObject(eqAny)
	if !ok {
		return value
	}
	arr, isArr := value.([]any)
	if !isArr {
		arr = []any{value}
	}
	for _, elem := range arr {
		if matchesAll(elem, eq) {
			if ptr, hasPtr := fObj.str("pointer"); hasPtr {
				return jsonpointer.Get(elem, ptr)
			}
			return elem
		}
	}
	return nil
}

func matchesAll(elem any, eq *Object) bool {
	for _, key := range eq.Keys() {
		expected, _ := eq.Get(key)
		if !looseEqual(jsonpointer.Get(elem, "/"+jsonpointer.EscapeSegment(key)), expected) {
			return false
		}
	}
	return true
}

// flattenOnce flattens one nesting level, leaving deeper nesting intact.
func flattenOnce(arr []any) []any {
	out := make([]any, 0, len(arr))
	for _, el := range arr {
		if inner, ok := el.([]any); ok {
			out = append(out, inner...)
			continue
		}
		out = append(out, el)
	}
	return out
}

// pickRandom picks count elements from an array value. unique selections are
// capped at the array length so over-asking cannot loop forever.
func pickRandom(value any, count int, unique bool) any {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 || count < 1 {
		return value
	}
	if count == 1 {
		return arr[rand.IntN(len(arr))]
	}
	if unique {
		if count > len(arr) {
			count = len(arr)
		}
		picked := rand.Perm(len(arr))[:count]
		out := make([]any, count)
		for i, idx := range picked {
			out[i] = arr[idx]
		}
		return out
	}
	out := make([]any, count)
	for i := range out {
		out[i] = arr[rand.IntN(len(arr))]
	}
	return out
}

var templateVarPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// renderTemplate evaluates the descriptor's sub-mapping against the current
// value to build a parameter object, then substitutes {{name}} occurrences.
// Parameters that did not derive substitute as the empty string.
func (m *Mapper) renderTemplate(ctx context.Context, tpl string, o *Object, value any, ec *Context) (any, error) {
	if !o.Has("mapping") && !o.Has("each") {
		return value, nil
	}
	params, err := m.nest(ctx, o, ec, shiftChanges{source: value, hasSource: true})
	if err != nil {
		return nil, err
	}
	rendered := templateVarPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		name := match[2 : len(match)-2]
		return toString(jsonpointer.Get(params, "/"+name))
	})
	return rendered, nil
}

// applyTransform folds the value through the descriptor's transform chain.
// A string names a single transformer; an array folds left to right, each step
// either a bare name or a {name: options} object. Unknown names are no-ops.
func (m *Mapper) applyTransform(ctx context.Context, tr, value any, ec *Context) (any, error) {
	switch t := tr.(type) {
	case string:
		if fn := m.transformers[t]; fn != nil {
			return fn(ctx, value, ec, nil)
		}
		return value, nil
	case []any:
		result := value
		for _, step := range t {
			switch s := step.(type) {
			case string:
				if fn := m.transformers[s]; fn != nil {
					var err error
					result, err = fn(ctx, result, ec, nil)
					if err != nil {
						return nil, err
					}
				}
			default:
				stepObj, isObj := asObject(s)
				if !isObj {
					continue
				}
				for _, name := range stepObj.Keys() {
					fn := m.transformers[name]
					if fn == nil {
						continue
					}
					options, _ := stepObj.Get(name)
					var err error
					result, err = fn(ctx, result, ec, options)
					if err != nil {
						return nil, err
					}
				}
			}
		}
		return result, nil
	default:
		return value, nil
	}
}

// coerce applies the "as" coercion: string formatting, loose number parsing,
// JavaScript-style boolean truthiness, or JSON serialization.
func coerce(value any, as string) any {
	switch as {
	case "string":
		return toString(value)
	case "number":
		if n, ok := coerceNumber(value); ok {
			return n
		}
		return nil
	case "boolean":
		return truthy(value)
	case "json":
		b, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		return string(b)
	default:
		return value
	}
}
