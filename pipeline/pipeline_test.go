package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/pipeline"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

func testImage(val uint8) *rimage.Image {
	b := raster.NewU8(2, 2, raster.RGBA)
	px := b.U8()
	for i := range px {
		px[i] = val
	}
	return rimage.NewRaw(b)
}

func addDeltaFilter(kind string, delta int) *filter.Filter {
	f := &filter.Filter{
		Kind: kind,
		Ports: filter.PortSchema{
			Inputs:  []filter.PortDef{{Name: filter.DefaultInputPort, Kind: filter.ValueImage, Required: true}},
			Outputs: []filter.PortDef{{Name: filter.DefaultOutputPort, Kind: filter.ValueImage}},
		},
	}
	return f.WithApplyMulti(func(ctx context.Context, inputs map[string]filter.Value) (map[string]filter.Value, error) {
		img := inputs[filter.DefaultInputPort].Image
		buf, err := img.Pixels()
		if err != nil {
			return nil, err
		}
		out := buf.Clone()
		px := out.U8()
		for i := range px {
			v := int(px[i]) + delta
			if v > 255 {
				v = 255
			}
			if v < 0 {
				v = 0
			}
			px[i] = uint8(v)
		}
		return map[string]filter.Value{filter.DefaultOutputPort: filter.ImageValue(rimage.NewRaw(out))}, nil
	})
}

func failingFilter(kind string, retryable bool) *filter.Filter {
	f := &filter.Filter{
		Kind: kind,
		Ports: filter.PortSchema{
			Inputs:  []filter.PortDef{{Name: filter.DefaultInputPort, Kind: filter.ValueImage, Required: true}},
			Outputs: []filter.PortDef{{Name: filter.DefaultOutputPort, Kind: filter.ValueImage}},
		},
	}
	return f.WithApplyMulti(func(ctx context.Context, inputs map[string]filter.Value) (map[string]filter.Value, error) {
		if retryable {
			return nil, engerr.Transient(kind, context.DeadlineExceeded)
		}
		return nil, engerr.New(engerr.InvalidArgument, kind, engerr.ErrInvalidDimensions)
	})
}

func TestPipeline_RunThreadsOutputToInput(t *testing.T) {
	p := pipeline.New().Use(addDeltaFilter("add10", 10), addDeltaFilter("add5", 5))
	out, timings, err := p.Run(context.Background(), testImage(100))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	buf, _ := out.Pixels()
	if buf.U8()[0] != 115 {
		t.Errorf("got %d, want 115", buf.U8()[0])
	}
	if len(timings) != 2 {
		t.Errorf("expected 2 timing entries, got %d", len(timings))
	}
}

func TestPipeline_EmptyIsIdentity(t *testing.T) {
	p := pipeline.New()
	img := testImage(42)
	out, _, err := p.Run(context.Background(), img)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != img {
		t.Error("empty pipeline should return the input image unchanged")
	}
}

func TestPipeline_PropagatesNonRetryableError(t *testing.T) {
	p := pipeline.New().Use(failingFilter("bad", false))
	if _, _, err := p.Run(context.Background(), testImage(1)); err == nil {
		t.Error("expected error to propagate")
	}
}

func TestPipeline_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	f := &filter.Filter{
		Kind: "flaky",
		Ports: filter.PortSchema{
			Inputs:  []filter.PortDef{{Name: filter.DefaultInputPort, Kind: filter.ValueImage, Required: true}},
			Outputs: []filter.PortDef{{Name: filter.DefaultOutputPort, Kind: filter.ValueImage}},
		},
	}
	f.WithApplyMulti(func(ctx context.Context, inputs map[string]filter.Value) (map[string]filter.Value, error) {
		attempts++
		if attempts < 3 {
			return nil, engerr.Transient("flaky", context.DeadlineExceeded)
		}
		return map[string]filter.Value{filter.DefaultOutputPort: inputs[filter.DefaultInputPort]}, nil
	})

	p := pipeline.New().Use(f).WithRetry(3, time.Millisecond)
	if _, _, err := p.Run(context.Background(), testImage(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

type countingHook struct {
	before, after int
}

func (h *countingHook) BeforeNode(ctx context.Context, name string) { h.before++ }
func (h *countingHook) AfterNode(ctx context.Context, name string, d time.Duration, err error) {
	h.after++
}

func TestPipeline_HooksFireAroundEachStep(t *testing.T) {
	h := &countingHook{}
	p := pipeline.New().Use(addDeltaFilter("a", 1), addDeltaFilter("b", 1)).AddHook(h)
	if _, _, err := p.Run(context.Background(), testImage(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.before != 2 || h.after != 2 {
		t.Errorf("expected 2 before/after calls each, got before=%d after=%d", h.before, h.after)
	}
}

func TestPipeline_AsFilterNests(t *testing.T) {
	inner := pipeline.New().Use(addDeltaFilter("add20", 20))
	nested := inner.AsFilter("nested")
	out, err := nested.Apply(context.Background(), testImage(10))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	buf, _ := out.Pixels()
	if buf.U8()[0] != 30 {
		t.Errorf("got %d, want 30", buf.U8()[0])
	}
}

func TestPipeline_CloneIsIndependent(t *testing.T) {
	p := pipeline.New().Use(addDeltaFilter("a", 1))
	clone := p.Clone()
	clone.Use(addDeltaFilter("b", 1))
	if len(p.Filters()) != 1 {
		t.Errorf("mutating clone affected original: got %d filters, want 1", len(p.Filters()))
	}
	if len(clone.Filters()) != 2 {
		t.Errorf("clone should have 2 filters, got %d", len(clone.Filters()))
	}
}
