package raster

import (
	"fmt"

	"github.com/pixelforge/imagegraph/engerr"
)

// Convert returns a new Buffer in the requested Format. Converting between
// layouts of the same element type is lossless except where channels are
// dropped (RGBA→RGB discards alpha) or reconstructed (GRAY→RGB replicates),
// per Converting the element type maps U8 [0,255] to F32 [0,1] and back with
// the obvious round-trip (not clamped on the way out, per the F32-clamping
// Open Question — only the final U8 write clamps, since U8 storage is
// inherently bounded).
func (b *Buffer) Convert(target Format) (*Buffer, error) {
	if b.Format() == target {
		return b.Clone(), nil
	}
	cur := b
	if cur.Elem != target.Element {
		conv, err := cur.convertElement(target.Element)
		if err != nil {
			return nil, err
		}
		cur = conv
	}
	if cur.Layout != target.Layout {
		conv, err := cur.convertLayout(target.Layout)
		if err != nil {
			return nil, err
		}
		cur = conv
	}
	return cur, nil
}

func (b *Buffer) convertElement(target Element) (*Buffer, error) {
	switch {
	case b.Elem == U8 && target == F32:
		out := NewF32(b.W, b.H, b.Layout)
		for i, v := range b.u8 {
			out.f32[i] = float32(v) / 255.0
		}
		return out, nil
	case b.Elem == F32 && target == U8:
		out := NewU8(b.W, b.H, b.Layout)
		for i, v := range b.f32 {
			out.u8[i] = clampToU8(v)
		}
		return out, nil
	default:
		return b, nil
	}
}

// clampToU8 rounds and saturates a F32 sample into the [0,255] U8 range.
// This is the one clamp point the engine performs: every other F32
// arithmetic step is left unclamped.
func clampToU8(v float32) uint8 {
	x := v*255.0 + 0.5
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}

func (b *Buffer) convertLayout(target Layout) (*Buffer, error) {
	if b.Layout == target {
		return b, nil
	}
	switch b.Elem {
	case U8:
		return convertLayoutU8(b, target)
	default:
		return convertLayoutF32(b, target)
	}
}

// rgbOf extracts an (r,g,b[,a]) tuple from a pixel of any supported layout,
// in that canonical channel order, plus a hasAlpha flag and the alpha value
// (1.0/255 when the source has no alpha).
func rgbOfU8(layout Layout, px []uint8) (r, g, bch, a uint8, hasAlpha bool) {
	switch layout {
	case RGB:
		return px[0], px[1], px[2], 255, false
	case RGBA:
		return px[0], px[1], px[2], px[3], true
	case BGR:
		return px[2], px[1], px[0], 255, false
	case BGRA:
		return px[2], px[1], px[0], px[3], true
	case GRAY:
		return px[0], px[0], px[0], 255, false
	case HSV:
		rr, gg, bb := hsvToRGBu8(px[0], px[1], px[2])
		return rr, gg, bb, 255, false
	}
	return 0, 0, 0, 255, false
}

func writeLayoutU8(layout Layout, dst []uint8, r, g, bch, a uint8) {
	switch layout {
	case RGB:
		dst[0], dst[1], dst[2] = r, g, bch
	case RGBA:
		dst[0], dst[1], dst[2], dst[3] = r, g, bch, a
	case BGR:
		dst[0], dst[1], dst[2] = bch, g, r
	case BGRA:
		dst[0], dst[1], dst[2], dst[3] = bch, g, r, a
	case GRAY:
		dst[0] = grayLuminosityU8(r, g, bch)
	case HSV:
		dst[0], dst[1], dst[2] = rgbToHSVu8(r, g, bch)
	}
}

func convertLayoutU8(b *Buffer, target Layout) (*Buffer, error) {
	out, err := NewU8Checked(b.W, b.H, target)
	if err != nil {
		return nil, err
	}
	n := b.W * b.H
	srcC, dstC := b.Layout.Channels(), target.Channels()
	for i := 0; i < n; i++ {
		src := b.u8[i*srcC : i*srcC+srcC]
		r, g, bch, a, _ := rgbOfU8(b.Layout, src)
		dst := out.u8[i*dstC : i*dstC+dstC]
		writeLayoutU8(target, dst, r, g, bch, a)
	}
	return out, nil
}

func rgbOfF32(layout Layout, px []float32) (r, g, bch, a float32) {
	switch layout {
	case RGB:
		return px[0], px[1], px[2], 1
	case RGBA:
		return px[0], px[1], px[2], px[3]
	case BGR:
		return px[2], px[1], px[0], 1
	case BGRA:
		return px[2], px[1], px[0], px[3]
	case GRAY:
		return px[0], px[0], px[0], 1
	case HSV:
		rr, gg, bb := hsvToRGBf32(px[0], px[1], px[2])
		return rr, gg, bb, 1
	}
	return 0, 0, 0, 1
}

func writeLayoutF32(layout Layout, dst []float32, r, g, bch, a float32) {
	switch layout {
	case RGB:
		dst[0], dst[1], dst[2] = r, g, bch
	case RGBA:
		dst[0], dst[1], dst[2], dst[3] = r, g, bch, a
	case BGR:
		dst[0], dst[1], dst[2] = bch, g, r
	case BGRA:
		dst[0], dst[1], dst[2], dst[3] = bch, g, r, a
	case GRAY:
		dst[0] = grayLuminosityF32(r, g, bch)
	case HSV:
		dst[0], dst[1], dst[2] = rgbToHSVf32(r, g, bch)
	}
}

func convertLayoutF32(b *Buffer, target Layout) (*Buffer, error) {
	out, err := NewF32Checked(b.W, b.H, target)
	if err != nil {
		return nil, err
	}
	n := b.W * b.H
	srcC, dstC := b.Layout.Channels(), target.Channels()
	for i := 0; i < n; i++ {
		src := b.f32[i*srcC : i*srcC+srcC]
		r, g, bch, a := rgbOfF32(b.Layout, src)
		dst := out.f32[i*dstC : i*dstC+dstC]
		writeLayoutF32(target, dst, r, g, bch, a)
	}
	return out, nil
}

// CheapestConversion picks, among a filter's native layouts, the one the
// Pipeline/Graph engine should convert to: prefer element-preserving
// conversions, then prefer layouts that keep alpha when the source has it.
func CheapestConversion(srcFmt Format, native []Format) (Format, error) {
	if len(native) == 0 {
		return Format{}, engerr.New(engerr.LayoutMismatch, "raster.CheapestConversion",
			fmt.Errorf("filter declares no native layouts"))
	}
	for _, f := range native {
		if f == srcFmt {
			return f, nil
		}
	}
	best := native[0]
	bestScore := -1
	for _, f := range native {
		score := 0
		if f.Element == srcFmt.Element {
			score += 2
		}
		if srcFmt.Layout.HasAlpha() && f.Layout.HasAlpha() {
			score++
		}
		if score > bestScore {
			bestScore = score
			best = f
		}
	}
	return best, nil
}
