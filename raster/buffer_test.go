package raster_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/raster"
)

func TestNewU8_InvalidDimensions(t *testing.T) {
	if _, err := raster.NewU8Checked(0, 4, raster.RGBA); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := raster.NewU8Checked(4, 4, raster.Layout(99)); err == nil {
		t.Error("expected error for unrecognized layout")
	}
}

func TestBuffer_CloneIsIndependent(t *testing.T) {
	b := raster.NewU8(2, 2, raster.GRAY)
	b.U8()[0] = 200
	clone := b.Clone()
	clone.U8()[0] = 10
	if b.U8()[0] != 200 {
		t.Fatalf("mutating clone affected original: got %d, want 200", b.U8()[0])
	}
}

func TestBuffer_Equal(t *testing.T) {
	a := raster.NewU8(2, 2, raster.RGB)
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("identical clones should be Equal")
	}
	b.U8()[0] = 1
	if a.Equal(b) {
		t.Fatal("buffers differing by one sample should not be Equal")
	}

	var nilBuf *raster.Buffer
	if !nilBuf.Equal(nil) {
		t.Error("two nil buffers should be Equal")
	}
	if nilBuf.Equal(a) {
		t.Error("nil vs non-nil should not be Equal")
	}
}

func TestBuffer_ConvertRoundTrip(t *testing.T) {
	b := raster.NewU8(2, 2, raster.RGBA)
	px := b.PixelU8(0, 0)
	px[0], px[1], px[2], px[3] = 100, 150, 200, 255

	f32, err := b.Convert(raster.Format{Element: raster.F32, Layout: raster.RGBA})
	if err != nil {
		t.Fatalf("Convert to F32: %v", err)
	}
	back, err := f32.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		t.Fatalf("Convert back to U8: %v", err)
	}
	got := back.PixelU8(0, 0)
	want := []uint8{100, 150, 200, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("channel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBuffer_ConvertSameFormatClones(t *testing.T) {
	b := raster.NewU8(2, 2, raster.RGB)
	out, err := b.Convert(b.Format())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	out.U8()[0] = 255
	if b.U8()[0] == 255 {
		t.Error("same-format Convert should still return an independent copy")
	}
}

func TestLayout_Channels(t *testing.T) {
	tests := []struct {
		l    raster.Layout
		want int
	}{
		{raster.RGB, 3}, {raster.RGBA, 4}, {raster.BGR, 3},
		{raster.BGRA, 4}, {raster.GRAY, 1}, {raster.HSV, 3},
	}
	for _, tc := range tests {
		if got := tc.l.Channels(); got != tc.want {
			t.Errorf("%s.Channels() = %d, want %d", tc.l, got, tc.want)
		}
	}
}

func TestLayout_HasAlpha(t *testing.T) {
	if !raster.RGBA.HasAlpha() || !raster.BGRA.HasAlpha() {
		t.Error("RGBA/BGRA should report HasAlpha")
	}
	if raster.RGB.HasAlpha() || raster.GRAY.HasAlpha() {
		t.Error("RGB/GRAY should not report HasAlpha")
	}
}
