package kernel_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func rgbaPair(t *testing.T, base, src [4]uint8) (*raster.Buffer, *raster.Buffer) {
	t.Helper()
	b := raster.NewU8(1, 1, raster.RGBA)
	copy(b.U8(), base[:])
	s := raster.NewU8(1, 1, raster.RGBA)
	copy(s.U8(), src[:])
	return b, s
}

func TestParseBlendMode_Unknown(t *testing.T) {
	if _, err := kernel.ParseBlendMode("not-a-mode"); err == nil {
		t.Error("expected error for unknown blend mode name")
	}
}

func TestBlendU8_NormalFullOpacityIsSrc(t *testing.T) {
	base, src := rgbaPair(t, [4]uint8{10, 10, 10, 255}, [4]uint8{200, 100, 50, 255})
	out, err := kernel.BlendU8(base, src, kernel.BlendNormal, 1.0)
	if err != nil {
		t.Fatalf("BlendU8: %v", err)
	}
	got := out.PixelU8(0, 0)
	want := []uint8{200, 100, 50, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("channel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBlendU8_ZeroOpacityIsBase(t *testing.T) {
	base, src := rgbaPair(t, [4]uint8{10, 20, 30, 255}, [4]uint8{200, 100, 50, 255})
	out, err := kernel.BlendU8(base, src, kernel.BlendNormal, 0.0)
	if err != nil {
		t.Fatalf("BlendU8: %v", err)
	}
	got := out.PixelU8(0, 0)
	want := []uint8{10, 20, 30, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("channel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBlendU8_MultiplyBlack(t *testing.T) {
	base, src := rgbaPair(t, [4]uint8{200, 200, 200, 255}, [4]uint8{0, 0, 0, 255})
	out, err := kernel.BlendU8(base, src, kernel.BlendMultiply, 1.0)
	if err != nil {
		t.Fatalf("BlendU8: %v", err)
	}
	got := out.PixelU8(0, 0)
	for i := 0; i < 3; i++ {
		if got[i] != 0 {
			t.Errorf("multiply with black source should yield 0, got %d at channel %d", got[i], i)
		}
	}
}
