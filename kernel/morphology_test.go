package kernel_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func TestDilateU8_GrowsBrightRegion(t *testing.T) {
	b := raster.NewU8(5, 5, raster.GRAY)
	b.U8()[2*5+2] = 255 // single bright pixel at center

	out, err := kernel.DilateU8(b, kernel.RectStruct(1), kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("DilateU8: %v", err)
	}
	if out.PixelU8(1, 2)[0] != 255 {
		t.Error("dilate should spread the bright pixel into its neighbors")
	}
}

func TestErodeU8_ShrinksBrightRegion(t *testing.T) {
	b := raster.NewU8(5, 5, raster.GRAY)
	px := b.U8()
	for i := range px {
		px[i] = 255
	}
	px[2*5+2] = 0 // single dark pixel at center

	out, err := kernel.ErodeU8(b, kernel.RectStruct(1), kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("ErodeU8: %v", err)
	}
	if out.PixelU8(1, 2)[0] != 0 {
		t.Error("erode should spread the dark pixel into its neighbors")
	}
}

func TestOpenU8_RemovesIsolatedSpeck(t *testing.T) {
	b := raster.NewU8(7, 7, raster.GRAY)
	b.U8()[3*7+3] = 255

	out, err := kernel.OpenU8(b, kernel.RectStruct(1), kernel.EdgeClamp)
	if err != nil {
		t.Fatalf("OpenU8: %v", err)
	}
	if out.PixelU8(3, 3)[0] != 0 {
		t.Error("opening should remove a speck smaller than the structuring element")
	}
}

func countTrue(mask [][]bool) int {
	n := 0
	for _, row := range mask {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

func TestCrossStruct_SmallerThanRect(t *testing.T) {
	rect := countTrue(kernel.RectStruct(1).Mask)
	cross := countTrue(kernel.CrossStruct(1).Mask)
	if cross >= rect {
		t.Errorf("cross struct (%d set cells) should be sparser than rect (%d set cells)", cross, rect)
	}
}
