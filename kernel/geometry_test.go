package kernel_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func TestResizeU8_ScalesDimensions(t *testing.T) {
	b := raster.NewU8(8, 4, raster.RGBA)
	out, err := kernel.ResizeU8(b, 4, 2, kernel.ResizeBilinear, kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("ResizeU8: %v", err)
	}
	if out.W != 4 || out.H != 2 {
		t.Errorf("got %dx%d, want 4x2", out.W, out.H)
	}
}

func TestFlip_HorizontalReversesColumns(t *testing.T) {
	b := raster.NewU8(2, 1, raster.GRAY)
	b.U8()[0], b.U8()[1] = 10, 20
	out := kernel.Flip(b, true, false)
	if out.PixelU8(0, 0)[0] != 20 || out.PixelU8(1, 0)[0] != 10 {
		t.Errorf("got [%d,%d], want [20,10]", out.PixelU8(0, 0)[0], out.PixelU8(1, 0)[0])
	}
}

func TestCrop_ExtractsSubregion(t *testing.T) {
	b := raster.NewU8(4, 4, raster.GRAY)
	px := b.U8()
	for i := range px {
		px[i] = uint8(i)
	}
	out, err := kernel.Crop(b, 1, 1, 2, 2)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if out.W != 2 || out.H != 2 {
		t.Fatalf("got %dx%d, want 2x2", out.W, out.H)
	}
	if out.PixelU8(0, 0)[0] != b.PixelU8(1, 1)[0] {
		t.Error("cropped origin does not match source offset")
	}
}

func TestCrop_RejectsOutOfBounds(t *testing.T) {
	b := raster.NewU8(4, 4, raster.GRAY)
	if _, err := kernel.Crop(b, 3, 3, 4, 4); err == nil {
		t.Error("expected error for a crop region exceeding bounds")
	}
}

func TestRotateU8_90DegreesSwapsDimensions(t *testing.T) {
	b := raster.NewU8(4, 2, raster.GRAY)
	out, err := kernel.RotateU8(b, 90, nil, kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("RotateU8: %v", err)
	}
	if out.W != 2 || out.H != 4 {
		t.Errorf("got %dx%d, want 2x4", out.W, out.H)
	}
}

func TestCenterCrop_CentersRegion(t *testing.T) {
	b := raster.NewU8(10, 10, raster.GRAY)
	out, err := kernel.CenterCrop(b, 4, 4)
	if err != nil {
		t.Fatalf("CenterCrop: %v", err)
	}
	if out.W != 4 || out.H != 4 {
		t.Errorf("got %dx%d, want 4x4", out.W, out.H)
	}
}
