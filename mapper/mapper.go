package mapper

import (
	"context"
	"io"
	"os"

	"github.com/maptools/maptools/maperrors"
)

// Mapper registers mapping descriptors and evaluates them against input
// documents. Construct with New; the zero value is not usable.
//
// Concurrent Map calls are safe when none of them passes a "mappings"
// container: registries are fixed at construction and each evaluation carries
// its own context and output. A "mappings" container registers its entries,
// so such a Map call, like Add, is not safe to run concurrently with other
// Map calls.
type Mapper struct {
	// Stdout is the sink for the "stdout" descriptor side channel.
	// Defaults to os.Stdout.
	Stdout io.Writer
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger

	mappings map[string]*Object
	lastID   string

	initializers map[string]Initializer
	transformers map[string]Transformer
	plugins      map[string]Plugin
}

// Result is the evaluation envelope: the produced output document, whether the
// validation suite recorded any issues, and the issues themselves.
type Result struct {
	// Output is the produced document.
	Output map[string]any
	// Valid is true if no issues were recorded.
	Valid bool
	// Errors contains all recorded validation issues.
	Errors []ValidationIssue
}

// New creates a Mapper, registering and eagerly flattening every mapping in
// doc (which may be nil). Flattening resolves $extend chains up front, so an
// unknown or cyclic parent fails construction with a *maperrors.ExtendError.
func New(doc *Object, opts Options) (*Mapper, error) {
	m := &Mapper{
		Stdout:       opts.Stdout,
		Logger:       opts.Logger,
		mappings:     make(map[string]*Object),
		initializers: opts.Initializers,
		transformers: opts.Transformers,
		plugins:      opts.Plugins,
	}
	if m.initializers == nil {
		m.initializers = map[string]Initializer{}
	}
	if m.transformers == nil {
		m.transformers = map[string]Transformer{}
	}
	if m.plugins == nil {
		m.plugins = map[string]Plugin{}
	}
	if doc != nil {
		if _, err := m.add(doc); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add registers the mappings of a descriptor document: every entry of its
// "mappings" collection plus the document itself when it carries an $id.
// Newly registered mappings are flattened immediately.
func (m *Mapper) Add(doc any) error {
	o, ok := asObject(normalizeDescriptor(doc))
	if !ok {
		return &maperrors.ConfigError{Option: "descriptor", Message: "must be an object"}
	}
	_, err := m.add(o)
	return err
}

// add registers doc's mappings and returns the $id of the last one registered.
func (m *Mapper) add(doc *Object) (string, error) {
	last := ""
	register := func(entry *Object) {
		id, ok := entry.str("$id")
		if !ok {
			return
		}
		m.mappings[id] = entry
		m.lastID = id
		last = id
		m.log().Debug("registered mapping", "id", id)
	}

	if collection, ok := doc.Get("mappings"); ok {
		switch entries := collection.(type) {
		case []any:
			for _, e := range entries {
				if eo, isObj := asObject(e); isObj {
					register(eo)
				}
			}
		default:
			if eo, isObj := asObject(collection); isObj {
				for _, key := range eo.Keys() {
					v, _ := eo.Get(key)
					if vo, isEntry := asObject(v); isEntry {
						register(vo)
					}
				}
			}
		}
	}
	if doc.Has("$id") {
		register(doc)
	}
	if err := m.flattenAll(); err != nil {
		return "", err
	}
	return last, nil
}

// Map evaluates a mapping descriptor against input and returns the result
// envelope. descriptor may be:
//
//   - nil: evaluate the most recently registered mapping
//   - a registered mapping name
//   - a container of "mappings": register them all, evaluate the last
//   - a mapping descriptor ({"mapping": {...}} or {"each": {...}})
//   - a bare pairs object, which wraps as {"mapping": descriptor}
//
// An array input is rewrapped as {"items": input} with the mapping applied to
// each element, so array roots map without special descriptors. initial seeds
// the output document.
func (m *Mapper) Map(ctx context.Context, descriptor any, input any, initial map[string]any) (*Result, error) {
	root, err := m.rootDescriptor(descriptor)
	if err != nil {
		return nil, err
	}

	if arr, isArr := input.([]any); isArr {
		input = map[string]any{"items": arr}
		root = NewObject().Set("mapping", NewObject().Set("/items",
			NewObject().Set("source", "/items").Set("each", root)))
	}

	output := make(map[string]any, len(initial)+4)
	for k, v := range initial {
		output[k] = v
	}
	ec := &Context{
		Input:  input,
		Output: output,
		Paths:  Paths{Source: "/", Target: "/"},
		issues: &issueList{},
		mapper: m,
	}

	m.log().Debug("evaluating mapping", "root", root)
	evaluated, err := m.evalMapping(ctx, root, ec, shiftChanges{})
	if err != nil {
		return nil, err
	}
	if final, isMap := evaluated.(map[string]any); isMap {
		output = final
	}

	recorded := ec.issues.all()
	return &Result{
		Output: output,
		Valid:  len(recorded) == 0,
		Errors: recorded,
	}, nil
}

// rootDescriptor normalizes the Map argument into an evaluatable mapping node.
func (m *Mapper) rootDescriptor(descriptor any) (*Object, error) {
	switch d := normalizeDescriptor(descriptor).(type) {
	case nil:
		if m.lastID == "" {
			return nil, &maperrors.ConfigError{Option: "descriptor", Message: "no mapping registered"}
		}
		return m.mappings[m.lastID], nil
	case string:
		mapping, ok := m.mappings[d]
		if !ok {
			return nil, &maperrors.ConfigError{Option: "descriptor", Value: d, Message: "unknown mapping name"}
		}
		return mapping, nil
	case *Object:
		if d.Has("mappings") {
			last, err := m.add(d)
			if err != nil {
				return nil, err
			}
			if last == "" {
				return nil, &maperrors.ConfigError{Option: "descriptor", Message: "mappings container holds no $id-carrying mapping"}
			}
			return m.mappings[last], nil
		}
		if !isMappingNode(d) {
			return NewObject().Set("mapping", d), nil
		}
		return d, nil
	default:
		return nil, &maperrors.ConfigError{Option: "descriptor", Message: "must be an object, a name, or nil"}
	}
}

// normalizeDescriptor deep-converts plain maps into ordered Objects so the
// rest of the engine only ever sees *Object descriptors.
func normalizeDescriptor(d any) any {
	switch t := d.(type) {
	case map[string]any:
		return FromMap(t)
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = normalizeDescriptor(el)
		}
		return out
	default:
		return d
	}
}

func (m *Mapper) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// log returns the configured logger, or a no-op logger if none is set.
func (m *Mapper) log() Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return NopLogger{}
}

// Mappings returns the ids of every registered mapping.
func (m *Mapper) Mappings() []string {
	ids := make([]string, 0, len(m.mappings))
	for id := range m.mappings {
		ids = append(ids, id)
	}
	return ids
}

// Mapping returns the flattened descriptor registered under id.
func (m *Mapper) Mapping(id string) (*Object, bool) {
	o, ok := m.mappings[id]
	return o, ok
}
