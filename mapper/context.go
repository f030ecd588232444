package mapper

import (
	"strconv"
	"sync"

	"github.com/maptools/maptools/internal/issues"
	"github.com/maptools/maptools/jsonpointer"
)

// ValidationIssue represents a single constraint violation recorded while
// evaluating a descriptor.
type ValidationIssue = issues.Issue

// Paths is the pointer scope accumulated as the evaluator descends: the
// absolute JSON Pointers currently addressed on the source and target side.
type Paths struct {
	Source string
	Target string
}

// Context is the ambient evaluation state passed down the descriptor tree.
//
// Input, the registries, and the issue list are shared across the whole
// evaluation; Source, Target, and Paths are recomputed per descriptor by
// shift. Output is the root output document and is mutated in place through
// the pairing writes of the top-level mapping.
type Context struct {
	// Input is the root input document, immutable across the evaluation.
	Input any
	// Output is the root output document.
	Output map[string]any
	// Source is the current read root, defaulting to Input.
	Source any
	// Target is the current write root, defaulting to Output.
	Target any
	// Paths is the current pointer scope. Both pointers are always absolute.
	Paths Paths

	// mapping is the resolved mapping descriptor for this frame, when the
	// frame's descriptor is a mapping node.
	mapping *Object
	// pairings are the mapping's ordered (targetPointer, descriptor) entries.
	pairings []pairing

	issues *issueList
	mapper *Mapper
}

// pairing is one entry of a mapping: the target pointer the derived value will
// be written to, and the source-side descriptor that derives it.
type pairing struct {
	pointer    string
	descriptor any
}

// AddIssue appends a validation issue to the evaluation's shared accumulator.
// Plugins and transformers may call this to surface their own constraint
// violations; like builtin validation issues, they abort the enclosing mapping
// after the current pairing completes.
func (c *Context) AddIssue(issue ValidationIssue) {
	if issue.SourcePath == "" {
		issue.SourcePath = c.Paths.Source
	}
	if issue.TargetPath == "" {
		issue.TargetPath = c.Paths.Target
	}
	c.issues.append(issue)
}

// Issues returns a snapshot of the issues recorded so far.
func (c *Context) Issues() []ValidationIssue {
	return c.issues.all()
}

// issueList is the evaluation-wide issue accumulator. Fan-out branches run on
// separate goroutines, so appends are mutex-guarded; the design stays
// append-only, mirroring the append-only writes into the output document.
type issueList struct {
	mu    sync.Mutex
	items []ValidationIssue
}

func (l *issueList) append(issue ValidationIssue) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, issue)
}

func (l *issueList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *issueList) all() []ValidationIssue {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ValidationIssue, len(l.items))
	copy(out, l.items)
	return out
}

// shiftChanges carries the per-descent overrides shift applies on top of the
// parent frame: a new source value (an each element or a seed value), a fresh
// target, and the element index when iterating.
type shiftChanges struct {
	source    any
	hasSource bool
	target    any
	hasTarget bool
	index     int
	hasIndex  bool
}

// shift produces the child context for descending into desc. The child
// inherits Input, Output, the issue list, and the registries by reference;
// Source, Target, and Paths are computed fresh:
//
//  1. Source is the override when given, else the parent's Source, else Input.
//  2. Target is the override when given, else the parent's Target, else Output.
//  3. The descriptor's own "source" offset (plus the element index, when
//     iterating) extends Paths.Source; "target" extends Paths.Target.
//  4. The descriptor's mapping ("mapping" or "each") is dereferenced and its
//     ordered entries become the frame's pairings.
func shift(desc *Object, parent *Context, ch shiftChanges) *Context {
	c := &Context{
		Input:  parent.Input,
		Output: parent.Output,
		Paths:  parent.Paths,
		issues: parent.issues,
		mapper: parent.mapper,
	}
	if c.Paths.Source == "" {
		c.Paths.Source = "/"
	}
	if c.Paths.Target == "" {
		c.Paths.Target = "/"
	}

	c.Source = parent.Source
	if c.Source == nil {
		c.Source = parent.Input
	}
	if ch.hasSource {
		c.Source = ch.source
	}

	c.Target = parent.Target
	if c.Target == nil {
		c.Target = any(parent.Output)
	}
	if ch.hasTarget {
		c.Target = ch.target
	}

	if desc == nil {
		return c
	}

	var indexSegment string
	if ch.hasIndex {
		indexSegment = "/" + strconv.Itoa(ch.index)
	}
	if src, ok := desc.str("source"); ok {
		c.Paths.Source = jsonpointer.Resolve(c.Paths.Source, indexSegment, src)
	} else if ch.hasIndex {
		c.Paths.Source = jsonpointer.Resolve(c.Paths.Source, indexSegment)
	}
	if tgt, ok := desc.str("target"); ok {
		c.Paths.Target = jsonpointer.Resolve(c.Paths.Target, tgt)
	}

	body, ok := desc.Get("mapping")
	if !ok {
		body, _ = desc.Get("each")
	}
	if body != nil {
		resolved := c.mapper.deref(body)
		if mo, isObj := asObject(resolved); isObj {
			// A registered mapping nests its pairings under its own
			// "mapping" key; a bare pairs object is the pairings itself.
			if inner, found := mo.Get("mapping"); found {
				if io, innerObj := asObject(inner); innerObj {
					mo = io
				}
			}
			c.mapping = mo
			c.pairings = make([]pairing, 0, mo.Len())
			for _, key := range mo.Keys() {
				v, _ := mo.Get(key)
				c.pairings = append(c.pairings, pairing{pointer: key, descriptor: v})
			}
		}
	}
	return c
}
