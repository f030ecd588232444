package mapper

import (
	"context"
	"io"
)

// Initializer seeds or reshapes a value before constants and transforms apply.
// Registered by name and invoked by a descriptor's "init" key.
type Initializer func(ctx context.Context, value any, ec *Context) (any, error)

// Transformer rewrites a value. Registered by name and invoked by a
// descriptor's "transform" key, either alone or as a step in a transform
// chain. options carries the step's configuration when the chain entry is an
// object ({"name": options}); it is nil for bare string steps.
type Transformer func(ctx context.Context, value any, ec *Context, options any) (any, error)

// Plugin extends the descriptor language itself: any descriptor key that names
// a registered plugin invokes it with that key's sub-descriptor. Plugins run
// early in the pipeline, before find/init/constant, in descriptor key order,
// and may perform I/O.
type Plugin func(ctx context.Context, descriptor any, value any, ec *Context) (any, error)

// Options configures a Mapper at construction.
//
// The three registries are host-supplied named function maps. Descriptors that
// reference a name missing from its registry are silent no-ops; the engine
// never requires a registry entry to exist.
type Options struct {
	// Initializers is the named initializer registry.
	Initializers map[string]Initializer
	// Transformers is the named transformer registry.
	Transformers map[string]Transformer
	// Plugins is the named plugin registry.
	Plugins map[string]Plugin
	// Logger receives structured debug output. Defaults to NopLogger.
	Logger Logger
	// Stdout is the sink for the "stdout" descriptor side channel.
	// Defaults to os.Stdout; tests inject a buffer here.
	Stdout io.Writer
}
