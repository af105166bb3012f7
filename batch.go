package imagegraph

import (
	"context"
	"sync"

	"github.com/pixelforge/imagegraph/executor"
	"github.com/pixelforge/imagegraph/rimage"
)

// Batch runs target over every image in images concurrently, returning
// results in the same order images were given (a supplemented
// convenience grounded on the teacher's core.Processor.Batch — a thin
// wrapper over executor.DataParallel rather than a new concurrency
// primitive).
func (e *Engine) Batch(ctx context.Context, target executor.Runnable, images []*rimage.Image) ([]*rimage.Image, []error) {
	in := make(chan *rimage.Image)
	go func() {
		defer close(in)
		for _, img := range images {
			select {
			case in <- img:
			case <-ctx.Done():
				return
			}
		}
	}()

	dp := executor.NewDataParallel(target, e.cfg.Executor.WorkerCount)
	results := dp.Run(ctx, executor.Seq(ctx, in))

	out := make([]*rimage.Image, len(images))
	errs := make([]error, len(images))
	for r := range results {
		if r.Seq < len(images) {
			out[r.Seq] = r.Image
			errs[r.Seq] = r.Err
		}
	}
	return out, errs
}

// Variants runs a distinct Runnable per named variant over the same
// source image concurrently, returning each variant's output or error by
// name (a supplemented convenience grounded on the teacher's
// core.Processor.ProcessVariants — fan-out over sibling pipelines rather
// than over sibling sources).
func (e *Engine) Variants(ctx context.Context, img *rimage.Image, variants map[string]executor.Runnable) (map[string]*rimage.Image, map[string]error) {
	out := make(map[string]*rimage.Image, len(variants))
	errs := make(map[string]error, len(variants))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, target := range variants {
		wg.Add(1)
		go func(name string, target executor.Runnable) {
			defer wg.Done()
			result, err := target.Apply(ctx, img)
			mu.Lock()
			if err != nil {
				errs[name] = err
			} else {
				out[name] = result
			}
			mu.Unlock()
		}(name, target)
	}
	wg.Wait()
	return out, errs
}
