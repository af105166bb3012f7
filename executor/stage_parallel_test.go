package executor_test

import (
	"context"
	"testing"

	"github.com/pixelforge/imagegraph/executor"
	"github.com/pixelforge/imagegraph/filter"
)

func incrementFilter(delta int) *filter.Filter {
	f := &filter.Filter{
		Kind: "increment",
		Ports: filter.PortSchema{
			Inputs:  []filter.PortDef{{Name: filter.DefaultInputPort, Kind: filter.ValueImage, Required: true}},
			Outputs: []filter.PortDef{{Name: filter.DefaultOutputPort, Kind: filter.ValueImage}},
		},
	}
	return f.WithApplyMulti(func(ctx context.Context, inputs map[string]filter.Value) (map[string]filter.Value, error) {
		r := incrementRunnable{delta: delta}
		out, err := r.Apply(ctx, inputs[filter.DefaultInputPort].Image)
		if err != nil {
			return nil, err
		}
		return map[string]filter.Value{filter.DefaultOutputPort: filter.ImageValue(out)}, nil
	})
}

func TestStageParallel_PreservesOrderAcrossStages(t *testing.T) {
	sp := executor.NewStageParallel([]*filter.Filter{incrementFilter(1), incrementFilter(2)}, 2)
	results := collect(sp.Run(context.Background(), feedInputs(t, 10)))

	if len(results) != 10 {
		t.Fatalf("got %d results, want 10", len(results))
	}
	for i, r := range results {
		if r.Seq != i {
			t.Fatalf("result at position %d has Seq=%d, want %d", i, r.Seq, i)
		}
		if r.Err != nil {
			t.Fatalf("result %d: unexpected error %v", i, r.Err)
		}
		buf, err := r.Image.Pixels()
		if err != nil {
			t.Fatalf("Pixels: %v", err)
		}
		if int(buf.U8()[0]) != i+3 {
			t.Errorf("result %d: got %d, want %d", i, buf.U8()[0], i+3)
		}
	}
}

func TestStageParallel_EmptyFiltersIsPassthrough(t *testing.T) {
	sp := executor.NewStageParallel(nil, 1)
	results := collect(sp.Run(context.Background(), feedInputs(t, 3)))
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Seq != i {
			t.Errorf("result %d has Seq=%d, want %d", i, r.Seq, i)
		}
	}
}

func TestStageParallel_DefaultsQueueCapacity(t *testing.T) {
	sp := executor.NewStageParallel([]*filter.Filter{incrementFilter(1)}, 0)
	if sp.QueueCapacity != 1 {
		t.Errorf("got QueueCapacity=%d, want 1", sp.QueueCapacity)
	}
}
