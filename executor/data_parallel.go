package executor

import (
	"container/heap"
	"context"
	"runtime"
	"sync"

	"github.com/pixelforge/imagegraph/engerr"
)

// DataParallel runs the whole target Runnable to completion on one of a
// fixed-size worker pool for each input, grounded 1:1 on core/processor.go's
// jobQueue/worker()/sync.WaitGroup pool. A reorder buffer restores
// submission order before results reach the caller, since workers may finish
// out of order — core.Processor never promised that ordering on its async
// Submit/ResultCh path, so this buffer is new relative to the teacher.
type DataParallel struct {
	Target      Runnable
	WorkerCount int // default: runtime.NumCPU(), resolved by New
}

// NewDataParallel returns a DataParallel with workerCount resolved to
// runtime.NumCPU() when <= 0.
func NewDataParallel(target Runnable, workerCount int) *DataParallel {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount()
	}
	return &DataParallel{Target: target, WorkerCount: workerCount}
}

// Run consumes inputs (in any arrival order from the Seq stage), fans
// them out across the worker pool, and emits Results in strict input
// order.
func (d *DataParallel) Run(ctx context.Context, inputs <-chan Input) <-chan Result {
	raw := make(chan Result, d.WorkerCount)
	out := make(chan Result)

	var wg sync.WaitGroup
	wg.Add(d.WorkerCount)
	for i := 0; i < d.WorkerCount; i++ {
		go func() {
			defer wg.Done()
			for in := range inputs {
				if err := ctx.Err(); err != nil {
					raw <- Result{Seq: in.Seq, Err: engerr.Wrap(engerr.Cancelled, "executor.data_parallel", err)}
					continue
				}
				img, err := d.Target.Apply(ctx, in.Image)
				raw <- Result{Seq: in.Seq, Image: img, Err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(raw)
	}()

	go reorder(ctx, raw, out)
	return out
}

func defaultWorkerCount() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// reorder buffers out-of-order Results in a min-heap keyed by Seq and
// releases them to out only in strictly increasing sequence order,
// implementing "outputs are emitted in strict input order" guarantee for a
// worker pool that completes work out of order.
func reorder(ctx context.Context, raw <-chan Result, out chan<- Result) {
	defer close(out)
	h := &resultHeap{}
	next := 0
	for {
		for h.Len() > 0 && (*h)[0].Seq == next {
			r := heap.Pop(h).(Result)
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
			next++
		}
		r, ok := <-raw
		if !ok {
			break
		}
		heap.Push(h, r)
	}
	for h.Len() > 0 {
		r := heap.Pop(h).(Result)
		select {
		case out <- r:
		case <-ctx.Done():
			return
		}
	}
}

// resultHeap is a container/heap min-heap over Result.Seq.
type resultHeap []Result

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].Seq < h[j].Seq }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(Result)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
