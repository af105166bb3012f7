package executor_test

import (
	"context"
	"testing"

	"github.com/pixelforge/imagegraph/executor"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// incrementRunnable adds delta to every sample, used to verify ordering
// and data integrity across executors without depending on filter/.
type incrementRunnable struct{ delta int }

func (r incrementRunnable) Apply(ctx context.Context, img *rimage.Image) (*rimage.Image, error) {
	buf, err := img.Pixels()
	if err != nil {
		return nil, err
	}
	out := buf.Clone()
	px := out.U8()
	for i := range px {
		v := int(px[i]) + r.delta
		if v > 255 {
			v = 255
		}
		px[i] = uint8(v)
	}
	return rimage.NewRaw(out), nil
}

func imgWithVal(val uint8) *rimage.Image {
	b := raster.NewU8(1, 1, raster.GRAY)
	b.U8()[0] = val
	return rimage.NewRaw(b)
}

func feedInputs(t *testing.T, n int) <-chan executor.Input {
	t.Helper()
	imgs := make(chan *rimage.Image)
	go func() {
		defer close(imgs)
		for i := 0; i < n; i++ {
			imgs <- imgWithVal(uint8(i))
		}
	}()
	return executor.Seq(context.Background(), imgs)
}

func collect(out <-chan executor.Result) []executor.Result {
	var results []executor.Result
	for r := range out {
		results = append(results, r)
	}
	return results
}

func TestSequential_PreservesOrderAndValues(t *testing.T) {
	s := &executor.Sequential{Target: incrementRunnable{delta: 1}}
	results := collect(s.Run(context.Background(), feedInputs(t, 5)))

	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for i, r := range results {
		if r.Seq != i {
			t.Errorf("result %d has Seq=%d, want %d", i, r.Seq, i)
		}
		buf, err := r.Image.Pixels()
		if err != nil {
			t.Fatalf("Pixels: %v", err)
		}
		if int(buf.U8()[0]) != i+1 {
			t.Errorf("result %d: got %d, want %d", i, buf.U8()[0], i+1)
		}
	}
}

func TestDataParallel_PreservesOrderDespiteConcurrency(t *testing.T) {
	d := executor.NewDataParallel(incrementRunnable{delta: 10}, 4)
	results := collect(d.Run(context.Background(), feedInputs(t, 20)))

	if len(results) != 20 {
		t.Fatalf("got %d results, want 20", len(results))
	}
	for i, r := range results {
		if r.Seq != i {
			t.Fatalf("result at position %d has Seq=%d; results must arrive in strict input order", i, r.Seq)
		}
	}
}

func TestDataParallel_DefaultsWorkerCount(t *testing.T) {
	d := executor.NewDataParallel(incrementRunnable{delta: 0}, 0)
	if d.WorkerCount < 1 {
		t.Errorf("expected WorkerCount to default to >= 1, got %d", d.WorkerCount)
	}
}

func TestSequential_StopsOnCancelledContext(t *testing.T) {
	s := &executor.Sequential{Target: incrementRunnable{delta: 1}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := collect(s.Run(ctx, feedInputs(t, 3)))
	if len(results) == 0 {
		t.Fatal("expected at least one result reporting cancellation")
	}
	if results[0].Err == nil {
		t.Error("expected the first result to carry a cancellation error")
	}
}
