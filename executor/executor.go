// Package executor implements the three interchangeable execution
// strategies: Sequential, DataParallel, and StageParallel. Sequential and
// DataParallel consume a Runnable (a Pipeline, a graph.SingleIO, or a bare
// Filter — anything satisfying the single-input/single-output contract);
// StageParallel consumes a filter sequence. Each takes a stream of inputs
// and emits a stream of outputs in input order. Grounded on
// core/processor.go's jobQueue/worker()/sync.WaitGroup pool.
package executor

import (
	"context"

	"github.com/pixelforge/imagegraph/rimage"
)

// Runnable is satisfied by *filter.Filter, *pipeline.Pipeline, and
// graph.SingleIO alike — every value the engine threads an image
// through exposes this one shape.
type Runnable interface {
	Apply(ctx context.Context, img *rimage.Image) (*rimage.Image, error)
}

// Result pairs a processed image with its originating sequence number,
// preserving identity through workers that may finish out of order.
type Result struct {
	Seq   int
	Image *rimage.Image
	Err   error
}

// Input pairs a submitted image with a sequence number assigned at
// submission time, establishing the order guarantee: outputs are emitted
// in strict input order, regardless of executor choice.
type Input struct {
	Seq   int
	Image *rimage.Image
	err   error // set by executor.StageParallel once an upstream stage fails
}

// Seq tags a stream of images with monotonically increasing sequence
// numbers as they are submitted, the shared first step for all three
// executors.
func Seq(ctx context.Context, images <-chan *rimage.Image) <-chan Input {
	out := make(chan Input)
	go func() {
		defer close(out)
		n := 0
		for img := range images {
			select {
			case <-ctx.Done():
				return
			case out <- Input{Seq: n, Image: img}:
			}
			n++
		}
	}()
	return out
}
