// Package maptools provides a declarative, JSON-driven data transformation engine.
//
// maptools evaluates tree-shaped mapping descriptors that specify how to produce a
// target JSON document from a source JSON document, accumulating structured
// validation issues along the way.
//
// # Overview
//
// The library consists of four primary packages:
//
//   - mapper: Evaluate mapping descriptors against input documents
//   - jsonpointer: Read and write values at RFC 6901 paths inside a JSON tree
//   - loader: Load mapping documents from YAML or JSON sources
//   - funcs: Builtin initializer, transformer, and plugin registries
//
// # Quick Start
//
// Apply a mapping to an input document:
//
//	import "github.com/maptools/maptools/mapper"
//
//	doc, _ := mapper.ParseObject([]byte(`{"mapping": {"/name": "/user/name"}}`))
//	m, err := mapper.New(nil, mapper.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := m.Map(context.Background(), doc, input, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Valid {
//		fmt.Printf("Found %d issues\n", len(result.Errors))
//	}
//
// Load a mapping document from disk:
//
//	import "github.com/maptools/maptools/loader"
//
//	doc, err := loader.LoadFile("mapping.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Mapper Package
//
// The mapper package is the descriptor evaluator. A mapping descriptor pairs
// target JSON Pointers with source-side descriptors; each pairing derives a value
// through a fixed pipeline (source selection, plugins, initialization,
// transformation, validation, coercion) and writes it into the output document.
// Mappings compose through $ref references, $extend inheritance, and each/mapping
// projections over arrays and objects.
//
// Key features:
//   - Pointer-scoped source and target addressing
//   - Mapping inheritance via $extend with stable key ordering
//   - Iteration and selection constructs (each, first, last, all, switch, find)
//   - User-supplied initializer, transformer, and plugin registries
//   - Per-value validation with structured issue accumulation
//
// # JSON Pointer Package
//
// The jsonpointer package implements RFC 6901 reads and writes over untyped JSON
// trees. Writes create intermediate containers on demand, inferring arrays from
// numeric path segments. It also provides POSIX-style pointer composition used
// for descriptor scoping.
//
// # Loader Package
//
// The loader package reads mapping documents from files or byte slices in YAML
// or JSON format, preserving descriptor key order.
//
// # Funcs Package
//
// The funcs package bundles the builtin registries: string and number
// transformers, stamp initializers, and a lookup plugin. Host applications merge
// these with their own functions when constructing a Mapper.
package maptools
