package executor

import (
	"context"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/filter"
)

// StageParallel assigns one worker per pipeline filter; adjacent workers
// communicate through bounded FIFO queues. A full downstream queue blocks
// the upstream worker (backpressure); cancellation is propagated by closing
// queues from the head, and each worker drains and exits. Because exactly
// one worker serves each stage and every inter-stage queue is single-
// producer/single-consumer FIFO, input order is preserved without a reorder
// buffer — unlike DataParallel.
type StageParallel struct {
	Filters       []*filter.Filter
	QueueCapacity int // default 1
}

// NewStageParallel returns a StageParallel over a fixed filter sequence
// (typically pipeline.Pipeline.Filters()).
func NewStageParallel(filters []*filter.Filter, queueCapacity int) *StageParallel {
	if queueCapacity <= 0 {
		queueCapacity = 1
	}
	return &StageParallel{Filters: filters, QueueCapacity: queueCapacity}
}

// Run wires one bounded channel per edge and one goroutine per stage,
// and returns the final stage's output channel.
func (s *StageParallel) Run(ctx context.Context, inputs <-chan Input) <-chan Result {
	if len(s.Filters) == 0 {
		out := make(chan Result)
		go func() {
			defer close(out)
			for in := range inputs {
				select {
				case out <- Result{Seq: in.Seq, Image: in.Image}:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}

	stage := make(chan Input, s.QueueCapacity)
	go pump(ctx, inputs, stage)

	for _, f := range s.Filters {
		next := make(chan Input, s.QueueCapacity)
		go worker(ctx, f, stage, next)
		stage = next
	}

	out := make(chan Result, s.QueueCapacity)
	go func() {
		defer close(out)
		for in := range stage {
			select {
			case out <- Result{Seq: in.Seq, Image: in.Image, Err: in.err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// pump forwards the tagged input stream into the first stage's queue.
func pump(ctx context.Context, in <-chan Input, out chan<- Input) {
	defer close(out)
	for i := range in {
		select {
		case out <- i:
		case <-ctx.Done():
			return
		}
	}
}

func worker(ctx context.Context, f *filter.Filter, in <-chan Input, out chan<- Input) {
	defer close(out)
	for i := range in {
		if i.err != nil {
			select {
			case out <- i:
			case <-ctx.Done():
				return
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			i.err = engerr.Wrap(engerr.Cancelled, f.Kind, err)
			select {
			case out <- i:
			case <-ctx.Done():
			}
			return
		}
		img, err := f.Apply(ctx, i.Image)
		i.Image, i.err = img, err
		select {
		case out <- i:
		case <-ctx.Done():
			return
		}
	}
}
