package kernel

import (
	"fmt"
	"math"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

func grayChannelU8(buf *raster.Buffer) ([]uint8, error) {
	if buf.Layout != raster.GRAY {
		return nil, engerr.New(engerr.LayoutMismatch, "kernel.histogram", fmt.Errorf("histogram ops require GRAY layout"))
	}
	return buf.U8(), nil
}

// EqualizeU8 applies global histogram equalization to a GRAY image.
func EqualizeU8(buf *raster.Buffer) (*raster.Buffer, error) {
	px, err := grayChannelU8(buf)
	if err != nil {
		return nil, err
	}
	var hist [256]int
	for _, v := range px {
		hist[v]++
	}
	var cdf [256]int
	sum := 0
	for i, c := range hist {
		sum += c
		cdf[i] = sum
	}
	cdfMin := 0
	for _, v := range cdf {
		if v > 0 {
			cdfMin = v
			break
		}
	}
	total := buf.W * buf.H
	lut := [256]uint8{}
	denom := total - cdfMin
	for i := range lut {
		if denom <= 0 {
			lut[i] = uint8(i)
			continue
		}
		lut[i] = uint8(math.Round(float64(cdf[i]-cdfMin) / float64(denom) * 255))
	}
	out := buf.Clone()
	dst := out.U8()
	for i, v := range px {
		dst[i] = lut[v]
	}
	return out, nil
}

// EqualizeF32 equalizes an F32 GRAY image by operating on its 8-bit
// quantization, then mapping back through the same LUT in [0,1] space.
func EqualizeF32(buf *raster.Buffer) (*raster.Buffer, error) {
	if buf.Layout != raster.GRAY {
		return nil, engerr.New(engerr.LayoutMismatch, "kernel.histogram", fmt.Errorf("histogram ops require GRAY layout"))
	}
	u8, err := buf.Convert(raster.Format{Element: raster.U8, Layout: raster.GRAY})
	if err != nil {
		return nil, err
	}
	eq, err := EqualizeU8(u8)
	if err != nil {
		return nil, err
	}
	return eq.Convert(raster.Format{Element: raster.F32, Layout: raster.GRAY})
}

// CLAHEParams controls contrast-limited adaptive histogram equalization.
type CLAHEParams struct {
	TileW, TileH int
	ClipLimit    float64
}

// CLAHEU8 applies tile-grid contrast-limited adaptive histogram
// equalization to a GRAY image, bilinearly interpolating tile LUTs across
// pixel positions to avoid tile-boundary artifacts.
func CLAHEU8(buf *raster.Buffer, p CLAHEParams) (*raster.Buffer, error) {
	px, err := grayChannelU8(buf)
	if err != nil {
		return nil, err
	}
	if p.TileW < 1 || p.TileH < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.clahe", fmt.Errorf("tile dimensions must be >= 1"))
	}
	tilesX := (buf.W + p.TileW - 1) / p.TileW
	tilesY := (buf.H + p.TileH - 1) / p.TileH
	luts := make([][256]uint8, tilesX*tilesY)

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*p.TileW, ty*p.TileH
			x1, y1 := min(x0+p.TileW, buf.W), min(y0+p.TileH, buf.H)
			var hist [256]int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[px[y*buf.W+x]]++
				}
			}
			if p.ClipLimit > 0 {
				clipHistogram(&hist, p.ClipLimit)
			}
			var cdf [256]int
			sum := 0
			for i, c := range hist {
				sum += c
				cdf[i] = sum
			}
			n := (x1 - x0) * (y1 - y0)
			lut := &luts[ty*tilesX+tx]
			for i := range lut {
				if n == 0 {
					lut[i] = uint8(i)
					continue
				}
				lut[i] = uint8(math.Round(float64(cdf[i]) / float64(n) * 255))
			}
		}
	}

	out := buf.Clone()
	dst := out.U8()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			dst[y*buf.W+x] = claheInterpolate(luts, tilesX, tilesY, p.TileW, p.TileH, x, y, px[y*buf.W+x])
		}
	}
	return out, nil
}

func clipHistogram(hist *[256]int, clipLimit float64) {
	limit := int(clipLimit)
	if limit < 1 {
		limit = 1
	}
	excess := 0
	for i, c := range hist {
		if c > limit {
			excess += c - limit
			hist[i] = limit
		}
	}
	redist := excess / 256
	rem := excess % 256
	for i := range hist {
		hist[i] += redist
		if i < rem {
			hist[i]++
		}
	}
}

func claheInterpolate(luts [][256]uint8, tilesX, tilesY, tileW, tileH, x, y int, v uint8) uint8 {
	fx := float64(x)/float64(tileW) - 0.5
	fy := float64(y)/float64(tileH) - 0.5
	tx0 := int(math.Floor(fx))
	ty0 := int(math.Floor(fy))
	wx := fx - float64(tx0)
	wy := fy - float64(ty0)
	clampTile := func(t, max int) int {
		if t < 0 {
			return 0
		}
		if t >= max {
			return max - 1
		}
		return t
	}
	tx0c, tx1c := clampTile(tx0, tilesX), clampTile(tx0+1, tilesX)
	ty0c, ty1c := clampTile(ty0, tilesY), clampTile(ty0+1, tilesY)
	v00 := float64(luts[ty0c*tilesX+tx0c][v])
	v10 := float64(luts[ty0c*tilesX+tx1c][v])
	v01 := float64(luts[ty1c*tilesX+tx0c][v])
	v11 := float64(luts[ty1c*tilesX+tx1c][v])
	top := v00*(1-wx) + v10*wx
	bot := v01*(1-wx) + v11*wx
	return clampU8Float64(top*(1-wy) + bot*wy)
}

// AdaptiveMethod selects the local-threshold statistic.
type AdaptiveMethod int

const (
	AdaptiveMean AdaptiveMethod = iota
	AdaptiveGaussian
)

// AdaptiveThresholdU8 thresholds a GRAY image against a local mean or
// Gaussian-weighted mean over a (2*radius+1) window, minus a constant C.
func AdaptiveThresholdU8(buf *raster.Buffer, radius int, method AdaptiveMethod, c float64, edge EdgeMode) (*raster.Buffer, error) {
	px, err := grayChannelU8(buf)
	if err != nil {
		return nil, err
	}
	if radius < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.adaptive_threshold", fmt.Errorf("radius must be >= 1"))
	}
	var weights []float64
	if method == AdaptiveGaussian {
		sigma := float64(radius) / 3.0
		if sigma <= 0 {
			sigma = 1
		}
		weights, _, err = GaussianWeights(sigma)
		if err != nil {
			return nil, err
		}
	}
	out := buf.Clone()
	dst := out.U8()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			var acc, wsum float64
			idx := 0
			for dy := -radius; dy <= radius; dy++ {
				sy, ok := clampIndex(y+dy, buf.H, edge)
				if !ok {
					idx += 2*radius + 1
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					sx, ok := clampIndex(x+dx, buf.W, edge)
					w := 1.0
					if method == AdaptiveGaussian {
						w = weights[dy+radius] * weights[dx+radius]
					}
					if ok {
						acc += w * float64(px[sy*buf.W+sx])
						wsum += w
					}
					idx++
				}
			}
			mean := acc / wsum
			if float64(px[y*buf.W+x]) > mean-c {
				dst[y*buf.W+x] = 255
			} else {
				dst[y*buf.W+x] = 0
			}
		}
	}
	return out, nil
}

// AdaptiveThresholdF32 is the F32 counterpart, operating over [0,1].
func AdaptiveThresholdF32(buf *raster.Buffer, radius int, method AdaptiveMethod, c float32, edge EdgeMode) (*raster.Buffer, error) {
	if buf.Layout != raster.GRAY {
		return nil, engerr.New(engerr.LayoutMismatch, "kernel.adaptive_threshold", fmt.Errorf("histogram ops require GRAY layout"))
	}
	px := buf.F32()
	if radius < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.adaptive_threshold", fmt.Errorf("radius must be >= 1"))
	}
	var weights []float32
	if method == AdaptiveGaussian {
		sigma := float32(radius) / 3.0
		if sigma <= 0 {
			sigma = 1
		}
		var err error
		weights, _, err = GaussianWeightsF32(sigma)
		if err != nil {
			return nil, err
		}
	}
	out := buf.Clone()
	dst := out.F32()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			var acc, wsum float32
			for dy := -radius; dy <= radius; dy++ {
				sy, ok := clampIndex(y+dy, buf.H, edge)
				if !ok {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					sx, ok := clampIndex(x+dx, buf.W, edge)
					if !ok {
						continue
					}
					w := float32(1.0)
					if method == AdaptiveGaussian {
						w = weights[dy+radius] * weights[dx+radius]
					}
					acc += w * px[sy*buf.W+sx]
					wsum += w
				}
			}
			mean := acc / wsum
			if px[y*buf.W+x] > mean-c {
				dst[y*buf.W+x] = 1
			} else {
				dst[y*buf.W+x] = 0
			}
		}
	}
	return out, nil
}
