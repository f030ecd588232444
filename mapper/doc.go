// Package mapper evaluates declarative, JSON-driven mapping descriptors.
//
// Import path: github.com/maptools/maptools/mapper
//
// A mapping descriptor pairs target JSON Pointers with source-side descriptors.
// Evaluating a mapping against an input document derives one value per pairing
// through a fixed pipeline and writes it into the output document:
//
//	source selection -> switch -> plugins -> find -> concat -> init ->
//	constant -> random -> template -> transform -> validate -> default ->
//	regexp_i -> as
//
// Descriptors are an open sum over shapes, discriminated by key presence:
// an object with a "mapping" or "each" key is a mapping node, "$ref" is a
// reference, an array is a disjunction list, and a string is a pointer or a
// registered mapping name.
//
// # Quick Start
//
//	doc, err := mapper.ParseObject([]byte(`{
//	    "mapping": {"/name": "/user/name"}
//	}`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := mapper.New(nil, mapper.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := m.Map(context.Background(), doc, input, nil)
//
// result.Output holds the produced document, result.Valid reports whether the
// validation suite recorded any issues, and result.Errors holds the issues
// themselves.
//
// # Registries
//
// Host applications extend the pipeline through three named-function
// registries supplied via [Options]: initializers, transformers, and plugins.
// Missing registry entries are silent no-ops, so descriptors remain portable
// across hosts with different registries.
//
// # Inheritance
//
// A mapping carrying "$extend" is flattened eagerly when it is registered:
// the parent's pairings and the child's pairings merge, each key keeping the
// position of its last occurrence in the parent-then-child key sequence, child
// values winning. Unknown parents and
// inheritance cycles fail registration with a [maperrors.ExtendError].
//
// # Errors
//
// Constraint violations never fail evaluation; they accumulate as
// [ValidationIssue] records in the result, and their presence aborts the
// pairings of the enclosing mapping. Go errors come from structural problems
// (a broken $extend chain, an unusable top-level descriptor), from errors
// returned by host initializers, transformers, and plugins, and from failed
// writes to the stdout sink.
package mapper
