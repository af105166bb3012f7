package rimage

import "github.com/pixelforge/imagegraph/raster"

// ImageListEntry is one element of an ImageList: an Image plus the
// position it occupies in the source image space.
type ImageListEntry struct {
	Image   *Image
	OriginX int
	OriginY int
}

// ImageList is an ordered sequence of Images with a position header per
// entry — produced by region-extraction, consumed by region-merge.
// Entries never overlap except where explicitly declared.
type ImageList struct {
	Entries []ImageListEntry
}

// MergeOptions controls region-merge's additive compositing.
type MergeOptions struct {
	// FeatherPx is the width, in pixels, of the linear alpha feather
	// applied at entry edges before compositing. 0 disables feathering.
	FeatherPx int
	// CanvasW/CanvasH size the output canvas. If zero, the bounding box
	// of all entries is used.
	CanvasW, CanvasH int
}

// Merge composites every entry of an ImageList onto one RGBA U8 canvas at
// its declared origin, additively, with optional edge feathering.
func Merge(list ImageList, opts MergeOptions) (*raster.Buffer, error) {
	w, h := opts.CanvasW, opts.CanvasH
	if w == 0 || h == 0 {
		for _, e := range list.Entries {
			buf, err := e.Image.Pixels()
			if err != nil {
				return nil, err
			}
			if right := e.OriginX + buf.W; right > w {
				w = right
			}
			if bottom := e.OriginY + buf.H; bottom > h {
				h = bottom
			}
		}
	}
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	canvas := raster.NewU8(w, h, raster.RGBA)

	for _, e := range list.Entries {
		buf, err := e.Image.Pixels()
		if err != nil {
			return nil, err
		}
		src := buf
		if src.Format() != (raster.Format{Element: raster.U8, Layout: raster.RGBA}) {
			conv, err := src.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
			if err != nil {
				return nil, err
			}
			src = conv
		}
		for y := 0; y < src.H; y++ {
			dy := e.OriginY + y
			if dy < 0 || dy >= h {
				continue
			}
			for x := 0; x < src.W; x++ {
				dx := e.OriginX + x
				if dx < 0 || dx >= w {
					continue
				}
				sp := src.PixelU8(x, y)
				alpha := float64(sp[3]) / 255.0
				if opts.FeatherPx > 0 {
					alpha *= featherFactor(x, y, src.W, src.H, opts.FeatherPx)
				}
				dp := canvas.PixelU8(dx, dy)
				compositeOver(dp, sp, alpha)
			}
		}
	}
	return canvas, nil
}

// featherFactor returns a [0,1] multiplier that ramps from 0 at the entry
// edge to 1 at featherPx pixels inward, additive merge's edge feathering.
func featherFactor(x, y, w, h, featherPx int) float64 {
	distLeft, distRight := x, w-1-x
	distTop, distBottom := y, h-1-y
	d := distLeft
	if distRight < d {
		d = distRight
	}
	if distTop < d {
		d = distTop
	}
	if distBottom < d {
		d = distBottom
	}
	if d >= featherPx {
		return 1
	}
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(featherPx)
}

// compositeOver applies Porter-Duff "over" (out = src + dst*(1-src_a)) to
// one RGBA pixel, with the source premultiplied by alpha on the fly.
func compositeOver(dst, src []uint8, alpha float64) {
	for c := 0; c < 3; c++ {
		s := float64(src[c]) * alpha
		d := float64(dst[c]) * (1 - alpha)
		dst[c] = clampByteFloat(s + d)
	}
	dst[3] = clampByteFloat(float64(dst[3]) + 255*alpha*(1-float64(dst[3])/255))
}

func clampByteFloat(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
