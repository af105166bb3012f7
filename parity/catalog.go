// Package parity implements the bit-exact cross-target comparator of
// a fixed catalog of golden raw-RGBA inputs, a harness that runs a kernel
// under each registered Target and stores its output through a
// storage.Adapter using the "{kernel}_{input_id}_{target}_{bitdepth}"
// convention, and a comparator that treats any pixel difference as a
// failure. Grounded on the teacher's adapters/storage (now storage/) file-
// per-key + ".meta.json" sidecar convention, repurposed here as the fixture
// persistence layer rather than processed-image storage.
package parity

import "github.com/pixelforge/imagegraph/raster"

// Input is one fixed entry of the golden-input catalog: a small raw RGBA
// buffer at fixed dimensions, named by ID.
type Input struct {
	ID     string
	Buffer *raster.Buffer
}

// DefaultCatalog returns the fixed set of golden inputs exercised by
// every registered kernel. The catalog is deliberately small, deliberately
// fixed (no test may mutate it at runtime), and deliberately synthetic
// (checkerboard, ramp, flat, sharp per-pixel edges) rather than
// photographic, so every kernel exercises extreme per-pixel transitions
// without shipping binary test fixtures.
func DefaultCatalog() []Input {
	return []Input{
		{ID: "flat_mid_gray", Buffer: flatU8(16, 16, 128, 128, 128, 255)},
		{ID: "checkerboard", Buffer: checkerboardU8(16, 16)},
		{ID: "horizontal_ramp", Buffer: rampU8(32, 8)},
		{ID: "single_pixel_edges", Buffer: edgeSpikesU8(16, 16)},
	}
}

func flatU8(w, h int, r, g, b, a uint8) *raster.Buffer {
	buf := raster.NewU8(w, h, raster.RGBA)
	px := buf.U8()
	for i := 0; i < w*h; i++ {
		px[i*4+0], px[i*4+1], px[i*4+2], px[i*4+3] = r, g, b, a
	}
	return buf
}

func checkerboardU8(w, h int) *raster.Buffer {
	buf := raster.NewU8(w, h, raster.RGBA)
	px := buf.U8()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if (x/2+y/2)%2 == 0 {
				px[i], px[i+1], px[i+2], px[i+3] = 255, 255, 255, 255
			} else {
				px[i], px[i+1], px[i+2], px[i+3] = 0, 0, 0, 255
			}
		}
	}
	return buf
}

func rampU8(w, h int) *raster.Buffer {
	buf := raster.NewU8(w, h, raster.RGBA)
	px := buf.U8()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			v := uint8(x * 255 / (w - 1))
			px[i], px[i+1], px[i+2], px[i+3] = v, v, v, 255
		}
	}
	return buf
}

func edgeSpikesU8(w, h int) *raster.Buffer {
	buf := flatU8(w, h, 0, 0, 0, 255)
	px := buf.U8()
	spike := func(x, y int) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		i := (y*w + x) * 4
		px[i], px[i+1], px[i+2], px[i+3] = 255, 255, 255, 255
	}
	spike(0, 0)
	spike(w-1, 0)
	spike(0, h-1)
	spike(w-1, h-1)
	spike(w/2, h/2)
	return buf
}
