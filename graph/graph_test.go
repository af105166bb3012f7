package graph_test

import (
	"context"
	"testing"

	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/graph"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

func passthroughFilter(kind string, delta int) *filter.Filter {
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
			px[i] = uint8(v)
		}
		return map[string]filter.Value{filter.DefaultOutputPort: filter.ImageValue(rimage.NewRaw(out))}, nil
	})
}

func testImg(val uint8) *rimage.Image {
	b := raster.NewU8(2, 2, raster.RGBA)
	px := b.U8()
	for i := range px {
		px[i] = val
	}
	return rimage.NewRaw(b)
}

func TestGraph_LinearRun(t *testing.T) {
	g := graph.New().
		AddSource("in").
		AddFilter("f1", passthroughFilter("f1", 10)).
		AddSink("out")
	g.Connect("in", filter.DefaultOutputPort, "f1", filter.DefaultInputPort)
	g.Connect("f1", filter.DefaultOutputPort, "out", filter.DefaultInputPort)

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	out, err := g.Run(context.Background(), map[string]*rimage.Image{"in": testImg(100)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	buf, _ := out["out"].Pixels()
	if buf.U8()[0] != 110 {
		t.Errorf("got %d, want 110", buf.U8()[0])
	}
}

func TestGraph_DetectsCycle(t *testing.T) {
	g := graph.New().
		AddFilter("a", passthroughFilter("a", 1)).
		AddFilter("b", passthroughFilter("b", 1))
	g.Connect("a", filter.DefaultOutputPort, "b", filter.DefaultInputPort)
	g.Connect("b", filter.DefaultOutputPort, "a", filter.DefaultInputPort)

	if err := g.Validate(); err == nil {
		t.Error("expected validation error for a cyclic graph")
	}
}

func TestGraph_DetectsUnboundRequiredPort(t *testing.T) {
	g := graph.New().
		AddSource("in").
		AddFilter("f1", passthroughFilter("f1", 1)).
		AddSink("out")
	// f1's input port is never connected.
	g.Connect("f1", filter.DefaultOutputPort, "out", filter.DefaultInputPort)

	if err := g.Validate(); err == nil {
		t.Error("expected validation error for an unbound required input port")
	}
}

func TestGraph_DetectsDuplicateBinding(t *testing.T) {
	g := graph.New().
		AddSource("a").
		AddSource("b").
		AddSink("out")
	g.Connect("a", filter.DefaultOutputPort, "out", filter.DefaultInputPort)
	g.Connect("b", filter.DefaultOutputPort, "out", filter.DefaultInputPort)

	if err := g.Validate(); err == nil {
		t.Error("expected validation error for a doubly-bound input port")
	}
}

func TestGraph_RequiresSourceAndSink(t *testing.T) {
	g := graph.New().AddFilter("f1", passthroughFilter("f1", 1))
	if err := g.Validate(); err == nil {
		t.Error("expected validation error for a graph with no source/sink")
	}
}

func TestGraph_FanOutToTwoSinks(t *testing.T) {
	g := graph.New().
		AddSource("in").
		AddFilter("f1", passthroughFilter("f1", 5)).
		AddFilter("f2", passthroughFilter("f2", 20)).
		AddSink("out1").
		AddSink("out2")
	g.Connect("in", filter.DefaultOutputPort, "f1", filter.DefaultInputPort)
	g.Connect("in", filter.DefaultOutputPort, "f2", filter.DefaultInputPort)
	g.Connect("f1", filter.DefaultOutputPort, "out1", filter.DefaultInputPort)
	g.Connect("f2", filter.DefaultOutputPort, "out2", filter.DefaultInputPort)

	out, err := g.Run(context.Background(), map[string]*rimage.Image{"in": testImg(10)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b1, _ := out["out1"].Pixels()
	b2, _ := out["out2"].Pixels()
	if b1.U8()[0] != 15 {
		t.Errorf("out1: got %d, want 15", b1.U8()[0])
	}
	if b2.U8()[0] != 30 {
		t.Errorf("out2: got %d, want 30", b2.U8()[0])
	}
}

func TestGraph_MissingSourceBindingAtRunTime(t *testing.T) {
	g := graph.New().AddSource("in").AddSink("out")
	g.Connect("in", filter.DefaultOutputPort, "out", filter.DefaultInputPort)

	if _, err := g.Run(context.Background(), map[string]*rimage.Image{}); err == nil {
		t.Error("expected error when the declared source has no bound image")
	}
}

func TestSingleIO_Apply(t *testing.T) {
	g := graph.New().
		AddSource("in").
		AddFilter("f1", passthroughFilter("f1", 7)).
		AddSink("out")
	g.Connect("in", filter.DefaultOutputPort, "f1", filter.DefaultInputPort)
	g.Connect("f1", filter.DefaultOutputPort, "out", filter.DefaultInputPort)

	sio := graph.SingleIO{Graph: g, Source: "in", Sink: "out"}
	out, err := sio.Apply(context.Background(), testImg(1))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	buf, _ := out.Pixels()
	if buf.U8()[0] != 8 {
		t.Errorf("got %d, want 8", buf.U8()[0])
	}
}
