package filter

import (
	"fmt"
	"sync"

	"github.com/pixelforge/imagegraph/engerr"
)

// Factory builds an immutable Filter from a parameter record. A parameter
// the factory reads whose value has the wrong type fails construction;
// parameter names the factory does not read are ignored, not rejected.
type Factory func(params map[string]any) (*Filter, error)

// Registry is a thread-safe kind-tag -> Factory lookup, grounded on the
// teacher's core.DefaultRegistry (sync.RWMutex-guarded map), generalized
// from a fixed core.Format key to an open string kind tag.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register installs (or replaces) the factory for kind. First-writer-wins
// is not assumed here — unlike kernel.LUTCache, registry mutation is an
// explicit setup-time action, not a concurrent race.
func (r *Registry) Register(kind string, f Factory) {
	r.mu.Lock()
	r.factories[kind] = f
	r.mu.Unlock()
}

// Build constructs a Filter of the given kind from params. Unknown kinds
// fail with engerr.InvalidArgument.
func (r *Registry) Build(kind string, params map[string]any) (*Filter, error) {
	r.mu.RLock()
	f, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, engerr.New(engerr.InvalidArgument, "filter.registry.build",
			fmt.Errorf("unknown filter kind %q", kind))
	}
	return f(params)
}

// Kinds returns every registered kind tag, for DSL/serialization validation
// and diagnostics.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	return out
}

// NewDefaultRegistry returns a Registry with every builtin filter kind
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerPointFilters(r)
	registerBlurFilters(r)
	registerEdgeFilters(r)
	registerMorphologyFilters(r)
	registerGeometryFilters(r)
	registerHistogramFilters(r)
	registerAlphaFilters(r)
	registerBlendFilters(r)
	registerEffectFilters(r)
	return r
}
