package kernel_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func checkerboardGray(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	b := raster.NewU8(w, h, raster.GRAY)
	px := b.U8()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				px[y*w+x] = 255
			}
		}
	}
	return b
}

func TestGaussianBlurU8_SmoothsHighFrequency(t *testing.T) {
	b := checkerboardGray(t, 8, 8)
	out, err := kernel.GaussianBlurU8(b, 2.0, kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("GaussianBlurU8: %v", err)
	}
	if out.W != b.W || out.H != b.H {
		t.Fatalf("dimensions changed: got %dx%d, want %dx%d", out.W, out.H, b.W, b.H)
	}
	// A heavily blurred checkerboard should have far less variance at its
	// center than the sharp original (no single sample stays at 0 or 255).
	center := out.PixelU8(4, 4)[0]
	if center == 0 || center == 255 {
		t.Errorf("center sample %d looks unblurred", center)
	}
}

func TestGaussianBlurU8_RejectsNonPositiveSigma(t *testing.T) {
	b := checkerboardGray(t, 4, 4)
	if _, err := kernel.GaussianBlurU8(b, 0, kernel.EdgeClamp); err == nil {
		t.Error("expected error for sigma=0")
	}
	if _, err := kernel.GaussianBlurU8(b, -1, kernel.EdgeClamp); err == nil {
		t.Error("expected error for negative sigma")
	}
}

func TestBoxBlurU8_RejectsNegativeRadius(t *testing.T) {
	b := checkerboardGray(t, 4, 4)
	if _, err := kernel.BoxBlurU8(b, -1, kernel.EdgeClamp); err == nil {
		t.Error("expected error for negative radius")
	}
}

func TestMedianBlurU8_RemovesSaltPepper(t *testing.T) {
	b := raster.NewU8(5, 5, raster.GRAY)
	px := b.U8()
	for i := range px {
		px[i] = 128
	}
	px[2*5+2] = 255 // single spike at the center
	out, err := kernel.MedianBlurU8(b, 1, kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("MedianBlurU8: %v", err)
	}
	if got := out.PixelU8(2, 2)[0]; got != 128 {
		t.Errorf("median blur should remove an isolated spike: got %d, want 128", got)
	}
}

func TestGaussianBlurF32_MatchesU8Structure(t *testing.T) {
	b := checkerboardGray(t, 8, 8)
	f32, err := b.Convert(raster.Format{Element: raster.F32, Layout: raster.GRAY})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	u8Out, err := kernel.GaussianBlurU8(b, 2.0, kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("GaussianBlurU8: %v", err)
	}
	f32Out, err := kernel.GaussianBlurF32(f32, 2.0, kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("GaussianBlurF32: %v", err)
	}
	back, err := f32Out.Convert(raster.Format{Element: raster.U8, Layout: raster.GRAY})
	if err != nil {
		t.Fatalf("Convert back: %v", err)
	}
	// U8 and F32 paths should agree within rounding error at every sample.
	for i := range u8Out.U8() {
		d := int(u8Out.U8()[i]) - int(back.U8()[i])
		if d < -2 || d > 2 {
			t.Fatalf("sample %d diverges: u8=%d f32-path=%d", i, u8Out.U8()[i], back.U8()[i])
		}
	}
}
