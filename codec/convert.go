package codec

import (
	"image"
	"image/color"

	"github.com/pixelforge/imagegraph/raster"
)

// ImageToBuffer converts a decoded stdlib/x-image image.Image into a U8
// raster.Buffer, preferring GRAY for grayscale sources and RGBA otherwise
// (the teacher's colorSpace/hasAlpha classification, generalized into an
// actual pixel copy rather than metadata-only classification).
func ImageToBuffer(img image.Image) *raster.Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if isGray(img) {
		out := raster.NewU8(w, h, raster.GRAY)
		dst := out.U8()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
				dst[y*w+x] = c.Y
			}
		}
		return out
	}
	out := raster.NewU8(w, h, raster.RGBA)
	dst := out.U8()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			base := (y*w + x) * 4
			dst[base] = uint8(r >> 8)
			dst[base+1] = uint8(g >> 8)
			dst[base+2] = uint8(b >> 8)
			dst[base+3] = uint8(a >> 8)
		}
	}
	return out
}

func isGray(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	default:
		return false
	}
}

// BufferToImage converts a raster.Buffer (any format) into a standard
// image.Image for handoff to a stdlib/x-image encoder.
func BufferToImage(buf *raster.Buffer) (image.Image, error) {
	rgba, err := buf.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := image.NewNRGBA(image.Rect(0, 0, rgba.W, rgba.H))
	src := rgba.U8()
	for y := 0; y < rgba.H; y++ {
		for x := 0; x < rgba.W; x++ {
			base := (y*rgba.W + x) * 4
			out.SetNRGBA(x, y, color.NRGBA{R: src[base], G: src[base+1], B: src[base+2], A: src[base+3]})
		}
	}
	return out, nil
}
