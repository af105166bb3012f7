package dsl

import (
	"testing"

	"github.com/pixelforge/imagegraph/filter"
	"github.com/pixelforge/imagegraph/graph"
)

func TestBuild_ImplicitSourceAndAutoSink(t *testing.T) {
	prog, err := Parse("grayscale source")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, err := Build(prog, filter.NewDefaultRegistry())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	var haveSource, haveSink bool
	for _, n := range g.Nodes() {
		if n.Name == "source" && n.Kind == graph.KindSource {
			haveSource = true
		}
	}
	if !haveSource {
		t.Error("expected an implicit 'source' node")
	}
	for _, c := range g.Connections() {
		if c.ToNode == "_stmt0.out" {
			haveSink = true
		}
	}
	if !haveSink {
		t.Error("expected an auto-generated sink for the unconsumed filter output")
	}
}

func TestBuild_RejectsUndeclaredNonSourceReference(t *testing.T) {
	prog, err := Parse("grayscale nonexistent")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Build(prog, filter.NewDefaultRegistry()); err == nil {
		t.Error("expected error referencing an undeclared, non-implicit-source node")
	}
}

func TestBuild_RejectsDuplicateNodeName(t *testing.T) {
	prog, err := Parse("[a: grayscale source]; [a: invert source]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Build(prog, filter.NewDefaultRegistry()); err == nil {
		t.Error("expected error for a node name declared twice")
	}
}

func TestBuild_RejectsExcessPositionalRefs(t *testing.T) {
	prog, err := Parse("grayscale source source_a")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Build(prog, filter.NewDefaultRegistry()); err == nil {
		t.Error("expected error for more positional refs than input ports")
	}
}

func TestBuild_TwoStageChainViaExplicitRef(t *testing.T) {
	prog, err := Parse("[g: grayscale source]; invert g")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, err := Build(prog, filter.NewDefaultRegistry())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuild_UnknownFilterKindErrors(t *testing.T) {
	prog, err := Parse("nonexistent_kind source")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Build(prog, filter.NewDefaultRegistry()); err == nil {
		t.Error("expected error building an unregistered filter kind")
	}
}
