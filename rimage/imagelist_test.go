package rimage_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

func opaqueImage(w, h int, r, g, b uint8) *rimage.Image {
	buf := raster.NewU8(w, h, raster.RGBA)
	px := buf.U8()
	for i := 0; i < w*h; i++ {
		px[i*4], px[i*4+1], px[i*4+2], px[i*4+3] = r, g, b, 255
	}
	return rimage.NewRaw(buf)
}

func TestMerge_PlacesEntriesAtOrigin(t *testing.T) {
	list := rimage.ImageList{Entries: []rimage.ImageListEntry{
		{Image: opaqueImage(2, 2, 255, 0, 0), OriginX: 0, OriginY: 0},
		{Image: opaqueImage(2, 2, 0, 255, 0), OriginX: 2, OriginY: 0},
	}}
	canvas, err := rimage.Merge(list, rimage.MergeOptions{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if canvas.W != 4 || canvas.H != 2 {
		t.Fatalf("got canvas %dx%d, want 4x2", canvas.W, canvas.H)
	}
	left := canvas.PixelU8(0, 0)
	if left[0] != 255 || left[1] != 0 {
		t.Errorf("left region got %v, want red", left)
	}
	right := canvas.PixelU8(2, 0)
	if right[1] != 255 || right[0] != 0 {
		t.Errorf("right region got %v, want green", right)
	}
}

func TestMerge_ExplicitCanvasSize(t *testing.T) {
	list := rimage.ImageList{Entries: []rimage.ImageListEntry{
		{Image: opaqueImage(2, 2, 10, 20, 30), OriginX: 0, OriginY: 0},
	}}
	canvas, err := rimage.Merge(list, rimage.MergeOptions{CanvasW: 10, CanvasH: 10})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if canvas.W != 10 || canvas.H != 10 {
		t.Errorf("got %dx%d, want 10x10", canvas.W, canvas.H)
	}
}

func TestMerge_OutOfBoundsEntryIsClipped(t *testing.T) {
	list := rimage.ImageList{Entries: []rimage.ImageListEntry{
		{Image: opaqueImage(4, 4, 255, 255, 255), OriginX: -2, OriginY: -2},
	}}
	canvas, err := rimage.Merge(list, rimage.MergeOptions{CanvasW: 4, CanvasH: 4})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	// Only the bottom-right 2x2 quadrant of the source should land on-canvas.
	if canvas.PixelU8(0, 0)[0] != 255 {
		t.Error("expected the clipped-in region to be painted")
	}
}
