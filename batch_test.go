package imagegraph

import (
	"context"
	"testing"

	"github.com/pixelforge/imagegraph/executor"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

type constRunnable struct{ val uint8 }

func (r constRunnable) Apply(ctx context.Context, img *rimage.Image) (*rimage.Image, error) {
	b := raster.NewU8(1, 1, raster.GRAY)
	b.U8()[0] = r.val
	return rimage.NewRaw(b), nil
}

func TestBatch_PreservesInputOrder(t *testing.T) {
	e := New(DefaultConfig())
	images := make([]*rimage.Image, 5)
	for i := range images {
		images[i] = e.FromBuffer(raster.NewU8(1, 1, raster.GRAY))
	}
	out, errs := e.Batch(context.Background(), constRunnable{val: 42}, images)
	if len(out) != len(images) {
		t.Fatalf("got %d outputs, want %d", len(out), len(images))
	}
	for i, img := range out {
		if errs[i] != nil {
			t.Fatalf("result %d: unexpected error %v", i, errs[i])
		}
		buf, err := img.Pixels()
		if err != nil {
			t.Fatalf("Pixels: %v", err)
		}
		if buf.U8()[0] != 42 {
			t.Errorf("result %d: got %d, want 42", i, buf.U8()[0])
		}
	}
}

func TestVariants_RunsEachNamedVariant(t *testing.T) {
	e := New(DefaultConfig())
	img := e.FromBuffer(raster.NewU8(1, 1, raster.GRAY))

	out, errs := e.Variants(context.Background(), img, map[string]executor.Runnable{
		"thumb": constRunnable{val: 1},
		"full":  constRunnable{val: 2},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	for name, want := range map[string]uint8{"thumb": 1, "full": 2} {
		buf, err := out[name].Pixels()
		if err != nil {
			t.Fatalf("%s: Pixels: %v", name, err)
		}
		if buf.U8()[0] != want {
			t.Errorf("variant %s: got %d, want %d", name, buf.U8()[0], want)
		}
	}
}
