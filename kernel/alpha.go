package kernel

import (
	"fmt"
	"math"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

func requireAlpha(buf *raster.Buffer, op string) error {
	if !buf.Layout.HasAlpha() {
		return engerr.New(engerr.LayoutMismatch, op, fmt.Errorf("operation requires an alpha channel"))
	}
	return nil
}

// PremultiplyU8 scales each color channel by its pixel's alpha.
func PremultiplyU8(buf *raster.Buffer) (*raster.Buffer, error) {
	if err := requireAlpha(buf, "kernel.premultiply"); err != nil {
		return nil, err
	}
	out := buf.Clone()
	c := buf.Layout.Channels()
	cc := colorChannels(buf.Layout)
	px := out.U8()
	for i := 0; i < out.W*out.H; i++ {
		base := i * c
		a := float64(px[base+cc]) / 255.0
		for k := 0; k < cc; k++ {
			px[base+k] = clampU8Float64(float64(px[base+k]) * a)
		}
	}
	return out, nil
}

// PremultiplyF32 is the F32 counterpart.
func PremultiplyF32(buf *raster.Buffer) (*raster.Buffer, error) {
	if err := requireAlpha(buf, "kernel.premultiply"); err != nil {
		return nil, err
	}
	out := buf.Clone()
	c := buf.Layout.Channels()
	cc := colorChannels(buf.Layout)
	px := out.F32()
	for i := 0; i < out.W*out.H; i++ {
		base := i * c
		a := px[base+cc]
		for k := 0; k < cc; k++ {
			px[base+k] *= a
		}
	}
	return out, nil
}

// UnpremultiplyU8 reverses PremultiplyU8; pixels with zero alpha are left
// at zero rather than divided.
func UnpremultiplyU8(buf *raster.Buffer) (*raster.Buffer, error) {
	if err := requireAlpha(buf, "kernel.unpremultiply"); err != nil {
		return nil, err
	}
	out := buf.Clone()
	c := buf.Layout.Channels()
	cc := colorChannels(buf.Layout)
	px := out.U8()
	for i := 0; i < out.W*out.H; i++ {
		base := i * c
		a := px[base+cc]
		if a == 0 {
			continue
		}
		af := float64(a) / 255.0
		for k := 0; k < cc; k++ {
			px[base+k] = clampU8Float64(float64(px[base+k]) / af)
		}
	}
	return out, nil
}

// UnpremultiplyF32 is the F32 counterpart.
func UnpremultiplyF32(buf *raster.Buffer) (*raster.Buffer, error) {
	if err := requireAlpha(buf, "kernel.unpremultiply"); err != nil {
		return nil, err
	}
	out := buf.Clone()
	c := buf.Layout.Channels()
	cc := colorChannels(buf.Layout)
	px := out.F32()
	for i := 0; i < out.W*out.H; i++ {
		base := i * c
		a := px[base+cc]
		if a == 0 {
			continue
		}
		for k := 0; k < cc; k++ {
			px[base+k] /= a
		}
	}
	return out, nil
}

// ExtractAlphaU8 returns the alpha channel as a standalone GRAY image.
func ExtractAlphaU8(buf *raster.Buffer) (*raster.Buffer, error) {
	if err := requireAlpha(buf, "kernel.extract_alpha"); err != nil {
		return nil, err
	}
	c := buf.Layout.Channels()
	cc := colorChannels(buf.Layout)
	src := buf.U8()
	out := raster.NewU8(buf.W, buf.H, raster.GRAY)
	dst := out.U8()
	for i := 0; i < buf.W*buf.H; i++ {
		dst[i] = src[i*c+cc]
	}
	return out, nil
}

// ExtractAlphaF32 is the F32 counterpart.
func ExtractAlphaF32(buf *raster.Buffer) (*raster.Buffer, error) {
	if err := requireAlpha(buf, "kernel.extract_alpha"); err != nil {
		return nil, err
	}
	c := buf.Layout.Channels()
	cc := colorChannels(buf.Layout)
	src := buf.F32()
	out := raster.NewF32(buf.W, buf.H, raster.GRAY)
	dst := out.F32()
	for i := 0; i < buf.W*buf.H; i++ {
		dst[i] = src[i*c+cc]
	}
	return out, nil
}

// AlphaDilateU8 dilates a standalone GRAY alpha mask by radius using a
// circular structuring element.
func AlphaDilateU8(alpha *raster.Buffer, radius int, edge EdgeMode) (*raster.Buffer, error) {
	return DilateU8(alpha, EllipseStruct(radius), edge)
}

// AlphaErodeU8 erodes a standalone GRAY alpha mask by radius.
func AlphaErodeU8(alpha *raster.Buffer, radius int, edge EdgeMode) (*raster.Buffer, error) {
	return ErodeU8(alpha, EllipseStruct(radius), edge)
}

// AlphaDilateF32 is the F32 counterpart.
func AlphaDilateF32(alpha *raster.Buffer, radius int, edge EdgeMode) (*raster.Buffer, error) {
	return DilateF32(alpha, EllipseStruct(radius), edge)
}

// AlphaErodeF32 is the F32 counterpart.
func AlphaErodeF32(alpha *raster.Buffer, radius int, edge EdgeMode) (*raster.Buffer, error) {
	return ErodeF32(alpha, EllipseStruct(radius), edge)
}

// SignedDistanceFieldU8 computes an approximate SDF from a GRAY alpha mask
// (threshold at 128) via brute-force nearest-boundary search, clamped to
// maxDist and encoded back into U8 as 128 + distance/maxDist*127 (inside
// positive, outside negative).
func SignedDistanceFieldU8(alpha *raster.Buffer, maxDist int) (*raster.Buffer, error) {
	if alpha.Layout != raster.GRAY {
		return nil, engerr.New(engerr.LayoutMismatch, "kernel.sdf", fmt.Errorf("signed distance field requires GRAY layout"))
	}
	w, h := alpha.W, alpha.H
	px := alpha.U8()
	inside := func(x, y int) bool { return px[y*w+x] >= 128 }

	var boundary [][2]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			in := inside(x, y)
			isBoundary := false
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h || inside(nx, ny) != in {
					isBoundary = true
					break
				}
			}
			if isBoundary {
				boundary = append(boundary, [2]int{x, y})
			}
		}
	}

	out := raster.NewU8(w, h, raster.GRAY)
	dst := out.U8()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := math.Inf(1)
			for _, b := range boundary {
				dx, dy := float64(x-b[0]), float64(y-b[1])
				d := math.Hypot(dx, dy)
				if d < best {
					best = d
				}
			}
			if best > float64(maxDist) {
				best = float64(maxDist)
			}
			sign := 1.0
			if !inside(x, y) {
				sign = -1.0
			}
			dst[y*w+x] = clampU8Float64(128 + sign*best/float64(maxDist)*127)
		}
	}
	return out, nil
}

// SignedDistanceFieldF32 is the F32 counterpart, encoding distance directly
// in [-1,1] rather than through a U8 offset-and-scale.
func SignedDistanceFieldF32(alpha *raster.Buffer, maxDist int) (*raster.Buffer, error) {
	if alpha.Layout != raster.GRAY {
		return nil, engerr.New(engerr.LayoutMismatch, "kernel.sdf", fmt.Errorf("signed distance field requires GRAY layout"))
	}
	w, h := alpha.W, alpha.H
	px := alpha.F32()
	inside := func(x, y int) bool { return px[y*w+x] >= 0.5 }

	var boundary [][2]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			in := inside(x, y)
			isBoundary := false
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h || inside(nx, ny) != in {
					isBoundary = true
					break
				}
			}
			if isBoundary {
				boundary = append(boundary, [2]int{x, y})
			}
		}
	}

	out := raster.NewF32(w, h, raster.GRAY)
	dst := out.F32()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := math.Inf(1)
			for _, b := range boundary {
				dx, dy := float64(x-b[0]), float64(y-b[1])
				d := math.Hypot(dx, dy)
				if d < best {
					best = d
				}
			}
			if best > float64(maxDist) {
				best = float64(maxDist)
			}
			sign := 1.0
			if !inside(x, y) {
				sign = -1.0
			}
			dst[y*w+x] = float32(sign * best / float64(maxDist))
		}
	}
	return out, nil
}
