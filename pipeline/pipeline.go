// Package pipeline wires Filters together into an ordered sequence, runs
// hooks around each step, and handles retries — grounded on the
// teacher's pipeline.Pipeline (Use/AddHook/WithRetry/Run/Clone), with
// core.Step/core.ImageData generalized to filter.Filter/rimage.Image and
// a layout-conversion pass inserted between adjacent filters.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/hooks"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// Pipeline executes an ordered, possibly empty sequence of Filters with
// hook and retry support.
type Pipeline struct {
	filters    []*filter.Filter
	hooks      []hooks.Hook
	maxRetries int
	retryDelay time.Duration
}

// New returns an empty Pipeline.
func New() *Pipeline { return &Pipeline{} }

// Use appends filters to the pipeline. Returns the same Pipeline for
// chaining.
func (p *Pipeline) Use(f ...*filter.Filter) *Pipeline {
	p.filters = append(p.filters, f...)
	return p
}

// AddHook registers an observer.
func (p *Pipeline) AddHook(h hooks.Hook) *Pipeline {
	p.hooks = append(p.hooks, h)
	return p
}

// WithRetry sets the maximum retry count and delay for transient failures.
func (p *Pipeline) WithRetry(maxRetries int, delay time.Duration) *Pipeline {
	p.maxRetries = maxRetries
	p.retryDelay = delay
	return p
}

// Run feeds img into the first filter, then threads the result into the
// next, and so on, inserting the cheapest layout conversion the
// downstream filter's native set requires between adjacent filters.
// Returns the final image and a map of per-filter timing observations.
func (p *Pipeline) Run(ctx context.Context, img *rimage.Image) (*rimage.Image, map[string]time.Duration, error) {
	timings := make(map[string]time.Duration, len(p.filters))
	current := img

	for i, f := range p.filters {
		if err := ctx.Err(); err != nil {
			return nil, timings, engerr.Wrap(engerr.Cancelled, f.Kind, err)
		}
		name := fmt.Sprintf("%d:%s", i, f.Kind)
		result, elapsed, err := p.runStep(ctx, name, f, current)
		timings[name] = elapsed
		if err != nil {
			return nil, timings, err
		}
		current = result
	}
	return current, timings, nil
}

// Apply satisfies the single-input/single-output Filter contract, discarding
// timings.
func (p *Pipeline) Apply(ctx context.Context, img *rimage.Image) (*rimage.Image, error) {
	out, _, err := p.Run(ctx, img)
	return out, err
}

// AsFilter wraps the Pipeline as a *filter.Filter with one input and one
// output port, permitting nesting inside another Pipeline or a Graph
// node.
func (p *Pipeline) AsFilter(kind string) *filter.Filter {
	native := []raster.Format{}
	if len(p.filters) > 0 {
		native = p.filters[0].Native
	}
	f := &filter.Filter{
		Kind:   kind,
		Native: native,
		Ports: filter.PortSchema{
			Inputs:  []filter.PortDef{{Name: filter.DefaultInputPort, Kind: filter.ValueImage, Required: true}},
			Outputs: []filter.PortDef{{Name: filter.DefaultOutputPort, Kind: filter.ValueImage}},
		},
	}
	pipe := p
	return f.WithApplyMulti(func(ctx context.Context, inputs map[string]filter.Value) (map[string]filter.Value, error) {
		out, err := pipe.Apply(ctx, inputs[filter.DefaultInputPort].Image)
		if err != nil {
			return nil, err
		}
		return map[string]filter.Value{filter.DefaultOutputPort: filter.ImageValue(out)}, nil
	})
}

// runStep executes a single filter, calling hooks and retrying transient
// errors.
func (p *Pipeline) runStep(ctx context.Context, name string, f *filter.Filter, img *rimage.Image) (*rimage.Image, time.Duration, error) {
	p.callHooksBefore(ctx, name)

	var (
		result  *rimage.Image
		elapsed time.Duration
		err     error
	)

	attempts := p.maxRetries + 1
	for i := 0; i < attempts; i++ {
		start := time.Now()
		result, err = f.Apply(ctx, img)
		elapsed = time.Since(start)

		if err == nil {
			break
		}
		if !engerr.IsRetryable(err) || i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			err = engerr.Wrap(engerr.Cancelled, name, ctx.Err())
			goto done
		case <-time.After(p.retryDelay):
		}
	}

done:
	p.callHooksAfter(ctx, name, elapsed, err)
	return result, elapsed, err
}

func (p *Pipeline) callHooksBefore(ctx context.Context, name string) {
	for _, h := range p.hooks {
		h.BeforeNode(ctx, name)
	}
}

func (p *Pipeline) callHooksAfter(ctx context.Context, name string, d time.Duration, err error) {
	for _, h := range p.hooks {
		h.AfterNode(ctx, name, d, err)
	}
}

// Filters returns the pipeline's filter sequence, used by
// executor.StageParallel to build one worker per stage.
func (p *Pipeline) Filters() []*filter.Filter { return p.filters }

// Clone returns a shallow copy of the pipeline so templates can be reused
// safely across goroutines.
func (p *Pipeline) Clone() *Pipeline {
	cp := &Pipeline{
		filters:    make([]*filter.Filter, len(p.filters)),
		hooks:      make([]hooks.Hook, len(p.hooks)),
		maxRetries: p.maxRetries,
		retryDelay: p.retryDelay,
	}
	copy(cp.filters, p.filters)
	copy(cp.hooks, p.hooks)
	return cp
}
