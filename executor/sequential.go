package executor

import (
	"context"

	"github.com/pixelforge/imagegraph/engerr"
)

// Sequential runs the target Runnable on one input at a time, on the
// calling goroutine. It is the deterministic reference implementation
// every other executor must match bit-for-bit.
type Sequential struct {
	Target Runnable
}

// Run consumes inputs in order and emits one Result per input, in the
// same order — trivially true for Sequential since nothing runs
// concurrently.
func (s *Sequential) Run(ctx context.Context, inputs <-chan Input) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		for in := range inputs {
			if err := ctx.Err(); err != nil {
				out <- Result{Seq: in.Seq, Err: engerr.Wrap(engerr.Cancelled, "executor.sequential", err)}
				return
			}
			img, err := s.Target.Apply(ctx, in.Image)
			select {
			case out <- Result{Seq: in.Seq, Image: img, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
