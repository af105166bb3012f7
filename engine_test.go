package imagegraph

import (
	"context"
	"testing"

	"github.com/pixelforge/imagegraph/codec"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

func sampleBuffer() *raster.Buffer {
	b := raster.NewU8(4, 4, raster.RGBA)
	px := b.U8()
	for i := range px {
		px[i] = uint8(i % 256)
	}
	return b
}

func TestEngine_EncodeDecodeRoundTrip(t *testing.T) {
	e := New(DefaultConfig())
	img := e.FromBuffer(sampleBuffer())

	data, err := e.Encode(context.Background(), img, rimage.CodecPNG, codec.EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded := e.Decode(data, rimage.CodecPNG)
	buf, err := decoded.Pixels()
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	if buf.W != 4 || buf.H != 4 {
		t.Errorf("got %dx%d, want 4x4", buf.W, buf.H)
	}
}

func TestEngine_BuildFilterAndApply(t *testing.T) {
	e := New(DefaultConfig())
	f, err := e.BuildFilter("invert", nil)
	if err != nil {
		t.Fatalf("BuildFilter: %v", err)
	}
	img := e.FromBuffer(sampleBuffer())
	if _, err := f.Apply(context.Background(), img); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func TestEngine_ParseGraphRunsEndToEnd(t *testing.T) {
	e := New(DefaultConfig())
	g, err := e.ParseGraph("invert source")
	if err != nil {
		t.Fatalf("ParseGraph: %v", err)
	}
	out, err := g.Run(context.Background(), map[string]*rimage.Image{"source": e.FromBuffer(sampleBuffer())})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d sink outputs, want 1", len(out))
	}
}

func TestEngine_BuildFilterUnknownKind(t *testing.T) {
	e := New(DefaultConfig())
	if _, err := e.BuildFilter("nonexistent", nil); err == nil {
		t.Error("expected error building an unregistered filter kind")
	}
}
