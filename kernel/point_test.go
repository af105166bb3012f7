package kernel_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func rgbaBuf(t *testing.T, px ...uint8) *raster.Buffer {
	t.Helper()
	n := len(px) / 4
	b := raster.NewU8(n, 1, raster.RGBA)
	copy(b.U8(), px)
	return b
}

func TestThresholdU8(t *testing.T) {
	b := rgbaBuf(t, 100, 200, 50, 255)
	out := kernel.ThresholdU8(b, 128)
	got := out.PixelU8(0, 0)
	want := []uint8{0, 255, 0, 255} // alpha untouched
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("channel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInvertU8_LeavesAlpha(t *testing.T) {
	b := rgbaBuf(t, 0, 128, 255, 200)
	out := kernel.InvertU8(b)
	got := out.PixelU8(0, 0)
	want := []uint8{255, 127, 0, 200}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("channel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBrightnessU8_Clamps(t *testing.T) {
	b := rgbaBuf(t, 250, 5, 128, 255)
	out := kernel.BrightnessU8(b, 20)
	got := out.PixelU8(0, 0)
	if got[0] != 255 {
		t.Errorf("channel 0 should clamp to 255, got %d", got[0])
	}
	if got[1] != 25 {
		t.Errorf("channel 1: got %d, want 25", got[1])
	}
}

func TestGammaU8_IdentityAtOne(t *testing.T) {
	b := rgbaBuf(t, 0, 64, 128, 255)
	out, err := kernel.GammaU8(b, 1.0)
	if err != nil {
		t.Fatalf("GammaU8: %v", err)
	}
	got, want := out.PixelU8(0, 0), b.PixelU8(0, 0)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("channel %d: got %d, want %d (gamma=1 should be identity)", i, got[i], want[i])
		}
	}
}

func TestGammaU8_RejectsNonPositive(t *testing.T) {
	b := rgbaBuf(t, 0, 0, 0, 255)
	if _, err := kernel.GammaU8(b, 0); err == nil {
		t.Error("expected error for gamma=0")
	}
}

func TestPosterizeU8_LevelsBound(t *testing.T) {
	b := rgbaBuf(t, 0, 128, 255, 255)
	out, err := kernel.PosterizeU8(b, 2)
	if err != nil {
		t.Fatalf("PosterizeU8: %v", err)
	}
	seen := map[uint8]bool{}
	for _, v := range out.PixelU8(0, 0)[:3] {
		seen[v] = true
	}
	if len(seen) > 2 {
		t.Errorf("posterize(levels=2) produced %d distinct color values, want <= 2", len(seen))
	}
}

func TestGrayscaleU8_EqualChannels(t *testing.T) {
	b := rgbaBuf(t, 10, 20, 30, 255)
	out, err := kernel.GrayscaleU8(b, kernel.GrayAverage)
	if err != nil {
		t.Fatalf("GrayscaleU8: %v", err)
	}
	if out.Layout != raster.GRAY {
		t.Fatalf("expected GRAY layout, got %s", out.Layout)
	}
	px := out.PixelU8(0, 0)
	if len(px) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(px))
	}
}
