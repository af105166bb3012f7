package imagegraph

import (
	"testing"

	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/pipeline"
)

func TestSerializeFilter_RoundTrip(t *testing.T) {
	reg := filter.NewDefaultRegistry()
	f, err := reg.Build("threshold", map[string]any{"value": 128.0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := SerializeFilter(f)
	if err != nil {
		t.Fatalf("SerializeFilter: %v", err)
	}
	back, err := DeserializeFilter(data, reg)
	if err != nil {
		t.Fatalf("DeserializeFilter: %v", err)
	}
	if back.Kind != "threshold" {
		t.Errorf("got Kind %q, want %q", back.Kind, "threshold")
	}
}

func TestSerializePipeline_RoundTrip(t *testing.T) {
	reg := filter.NewDefaultRegistry()
	f1, _ := reg.Build("grayscale", nil)
	f2, _ := reg.Build("invert", nil)
	p := pipeline.New().Use(f1, f2)

	data, err := SerializePipeline(p)
	if err != nil {
		t.Fatalf("SerializePipeline: %v", err)
	}
	back, err := DeserializePipeline(data, reg)
	if err != nil {
		t.Fatalf("DeserializePipeline: %v", err)
	}
	if len(back.Filters()) != 2 {
		t.Fatalf("got %d filters, want 2", len(back.Filters()))
	}
	if back.Filters()[0].Kind != "grayscale" || back.Filters()[1].Kind != "invert" {
		t.Errorf("got kinds %q, %q", back.Filters()[0].Kind, back.Filters()[1].Kind)
	}
}

func TestSerializeGraph_RoundTrip(t *testing.T) {
	e := New(DefaultConfig())
	g, err := e.ParseGraph("invert source")
	if err != nil {
		t.Fatalf("ParseGraph: %v", err)
	}
	data, err := SerializeGraph(g)
	if err != nil {
		t.Fatalf("SerializeGraph: %v", err)
	}
	back, err := DeserializeGraph(data, e.filters)
	if err != nil {
		t.Fatalf("DeserializeGraph: %v", err)
	}
	if len(back.Nodes()) != len(g.Nodes()) {
		t.Errorf("got %d nodes, want %d", len(back.Nodes()), len(g.Nodes()))
	}
}

func TestDeserializeFilter_UnknownKindErrors(t *testing.T) {
	reg := filter.NewDefaultRegistry()
	if _, err := DeserializeFilter([]byte(`{"type":"nonexistent","params":{}}`), reg); err == nil {
		t.Error("expected error deserializing an unknown filter kind")
	}
}
