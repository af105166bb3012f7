// Package imagegraph is the facade an embedder constructs against: it wires
// codec.Registry, filter.Registry, pipeline.Pipeline, graph.Graph, the
// executor package, and the dsl parser into one entry point, grounded on the
// teacher's root imageprocessor.Processor facade — generalized from a fixed
// Step-list pipeline over core.ImageData to the full
// Filter/Pipeline/Graph/Executor/DSL surface.
package imagegraph

import (
	"context"
	"fmt"

	"github.com/pixelforge/imagegraph/codec"
	"github.com/pixelforge/imagegraph/config"
	"github.com/pixelforge/imagegraph/dsl"
	"github.com/pixelforge/imagegraph/executor"
	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/graph"
	"github.com/pixelforge/imagegraph/pipeline"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// Engine is the primary entry point: a fully wired codec registry and
// filter registry, plus constructors for every composition level above
// them (Pipeline, Graph, Executor, DSL).
type Engine struct {
	cfg     config.Config
	codecs  *codec.Registry
	filters *filter.Registry
}

// New creates an Engine with every builtin codec and filter kind
// registered. Pass a custom config.Config to override defaults.
func New(cfg config.Config) *Engine {
	return &Engine{
		cfg:     cfg,
		codecs:  codec.NewDefaultRegistry(),
		filters: filter.NewDefaultRegistry(),
	}
}

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() config.Config { return config.Default() }

// Codecs returns the Engine's codec registry, for RegisterDecoder/
// RegisterEncoder customization (e.g. installing codec/vipscodec's
// accelerated backends ahead of the stdlib fallbacks).
func (e *Engine) Codecs() *codec.Registry { return e.codecs }

// Filters returns the Engine's filter registry, for Register-ing custom
// filter kinds alongside the builtins.
func (e *Engine) Filters() *filter.Registry { return e.filters }

// Decode constructs a lazily-decoded Image from compressed bytes and their
// codec. Pixels are not materialized until the image first crosses a
// filter boundary.
func (e *Engine) Decode(data []byte, c rimage.Codec) *rimage.Image {
	return rimage.NewCompressed(data, c, e.codecs.DecodeFunc)
}

// FromBuffer constructs an Image directly from a raw pixel buffer.
func (e *Engine) FromBuffer(buf *raster.Buffer) *rimage.Image { return rimage.NewRaw(buf) }

// Encode materializes img's pixels and compresses them with codec c.
func (e *Engine) Encode(ctx context.Context, img *rimage.Image, c rimage.Codec, opts codec.EncodeOptions) ([]byte, error) {
	buf, err := img.Pixels()
	if err != nil {
		return nil, err
	}
	return e.codecs.Encode(ctx, buf, c, opts)
}

// AdaptiveCompress materializes img's pixels and iteratively steps encode
// quality down until out fits within acfg's target byte budget (a
// supplemented feature grounded on the teacher's
// pipeline.AdaptiveCompressStep).
func (e *Engine) AdaptiveCompress(ctx context.Context, img *rimage.Image, c rimage.Codec, acfg codec.AdaptiveConfig) ([]byte, error) {
	buf, err := img.Pixels()
	if err != nil {
		return nil, err
	}
	return e.codecs.AdaptiveCompress(ctx, buf, c, acfg)
}

// BuildFilter constructs a Filter of the given kind.
func (e *Engine) BuildFilter(kind string, params map[string]any) (*filter.Filter, error) {
	return e.filters.Build(kind, params)
}

// NewPipeline returns an empty, reusable Pipeline.
func (e *Engine) NewPipeline() *pipeline.Pipeline { return pipeline.New() }

// NewGraph returns an empty Graph.
func (e *Engine) NewGraph() *graph.Graph { return graph.New() }

// ParseDSL parses the compact textual surface into a Program.
func (e *Engine) ParseDSL(src string) (*dsl.Program, error) { return dsl.Parse(src) }

// BuildGraph compiles a parsed DSL Program into a Graph against the
// Engine's filter registry.
func (e *Engine) BuildGraph(prog *dsl.Program) (*graph.Graph, error) {
	return dsl.Build(prog, e.filters)
}

// ParseGraph is the one-call convenience of ParseDSL+BuildGraph.
func (e *Engine) ParseGraph(src string) (*graph.Graph, error) {
	prog, err := e.ParseDSL(src)
	if err != nil {
		return nil, err
	}
	return e.BuildGraph(prog)
}

// NewExecutor builds the executor strategy named by ecfg.Kind over
// target. filters is consulted only by stage-parallel, which needs the
// underlying filter sequence to assign one worker per stage; pass nil (or
// the zero value) when target is not a Pipeline.
func NewExecutor(ecfg config.ExecutorConfig, target executor.Runnable, filters []*filter.Filter) (interface {
	Run(ctx context.Context, inputs <-chan executor.Input) <-chan executor.Result
}, error) {
	switch ecfg.Kind {
	case "", config.ExecutorSequential:
		return &executor.Sequential{Target: target}, nil
	case config.ExecutorDataParallel:
		return executor.NewDataParallel(target, ecfg.WorkerCount), nil
	case config.ExecutorStageParallel:
		return executor.NewStageParallel(filters, ecfg.QueueCapacity), nil
	default:
		return nil, fmt.Errorf("imagegraph: unknown executor kind %q", ecfg.Kind)
	}
}
