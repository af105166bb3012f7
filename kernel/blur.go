package kernel

import (
	"fmt"
	"math"
	"sort"

	"github.com/chewxy/math32"
	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

// GaussianWeights returns the 1-D Gaussian kernel for the given sigma:
// radius = ceil(3*sigma), an odd symmetric sample count of 2*radius+1
// weights normalized to sum to 1.
func GaussianWeights(sigma float64) ([]float64, int, error) {
	if sigma <= 0 {
		return nil, 0, engerr.New(engerr.InvalidArgument, "kernel.gaussian_weights", engerr.ErrNegativeSigma)
	}
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	n := 2*radius + 1
	w := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		x := float64(i - radius)
		v := math.Exp(-(x * x) / (2 * sigma * sigma))
		w[i] = v
		sum += v
	}
	for i := range w {
		w[i] /= sum
	}
	return w, radius, nil
}

// GaussianWeightsF32 is the math32-native counterpart used by the F32
// kernel path so radius/weight computation never touches float64.
func GaussianWeightsF32(sigma float32) ([]float32, int, error) {
	if sigma <= 0 {
		return nil, 0, engerr.New(engerr.InvalidArgument, "kernel.gaussian_weights", engerr.ErrNegativeSigma)
	}
	radius := int(math32.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	n := 2*radius + 1
	w := make([]float32, n)
	var sum float32
	for i := 0; i < n; i++ {
		x := float32(i - radius)
		v := math32.Exp(-(x * x) / (2 * sigma * sigma))
		w[i] = v
		sum += v
	}
	for i := range w {
		w[i] /= sum
	}
	return w, radius, nil
}

// separableConvolveU8 runs a 1-D weighted kernel horizontally then
// vertically over every color channel (alpha passed through unchanged).
func separableConvolveU8(buf *raster.Buffer, weights []float64, radius int, edge EdgeMode) *raster.Buffer {
	cc := colorChannels(buf.Layout)
	c := buf.Layout.Channels()
	tmp := buf.Clone()
	horiz := buf.Clone()
	src := buf.U8()
	dst := horiz.U8()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				var acc float64
				for i, wgt := range weights {
					sx, ok := clampIndex(x+i-radius, buf.W, edge)
					if !ok {
						continue
					}
					acc += wgt * float64(src[(y*buf.W+sx)*c+k])
				}
				dst[(y*buf.W+x)*c+k] = clampU8Float64(acc)
			}
		}
	}
	src = horiz.U8()
	dst = tmp.U8()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				var acc float64
				for i, wgt := range weights {
					sy, ok := clampIndex(y+i-radius, buf.H, edge)
					if !ok {
						continue
					}
					acc += wgt * float64(src[(sy*buf.W+x)*c+k])
				}
				dst[(y*buf.W+x)*c+k] = clampU8Float64(acc)
			}
		}
	}
	return tmp
}

func separableConvolveF32(buf *raster.Buffer, weights []float32, radius int, edge EdgeMode) *raster.Buffer {
	cc := colorChannels(buf.Layout)
	c := buf.Layout.Channels()
	tmp := buf.Clone()
	horiz := buf.Clone()
	src := buf.F32()
	dst := horiz.F32()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				var acc float32
				for i, wgt := range weights {
					sx, ok := clampIndex(x+i-radius, buf.W, edge)
					if !ok {
						continue
					}
					acc += wgt * src[(y*buf.W+sx)*c+k]
				}
				dst[(y*buf.W+x)*c+k] = acc
			}
		}
	}
	src = horiz.F32()
	dst = tmp.F32()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				var acc float32
				for i, wgt := range weights {
					sy, ok := clampIndex(y+i-radius, buf.H, edge)
					if !ok {
						continue
					}
					acc += wgt * src[(sy*buf.W+x)*c+k]
				}
				dst[(y*buf.W+x)*c+k] = acc
			}
		}
	}
	return tmp
}

// GaussianBlurU8 applies a separable Gaussian blur with the given sigma.
func GaussianBlurU8(buf *raster.Buffer, sigma float64, edge EdgeMode) (*raster.Buffer, error) {
	w, r, err := GaussianWeights(sigma)
	if err != nil {
		return nil, err
	}
	return separableConvolveU8(buf, w, r, edge), nil
}

// GaussianBlurF32 is the F32 counterpart.
func GaussianBlurF32(buf *raster.Buffer, sigma float32, edge EdgeMode) (*raster.Buffer, error) {
	w, r, err := GaussianWeightsF32(sigma)
	if err != nil {
		return nil, err
	}
	return separableConvolveF32(buf, w, r, edge), nil
}

// BoxBlurU8 applies a separable box (mean) blur of the given radius.
func BoxBlurU8(buf *raster.Buffer, radius int, edge EdgeMode) (*raster.Buffer, error) {
	if radius < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.box_blur", fmt.Errorf("radius must be >= 1"))
	}
	n := 2*radius + 1
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return separableConvolveU8(buf, weights, radius, edge), nil
}

// BoxBlurF32 is the F32 counterpart.
func BoxBlurF32(buf *raster.Buffer, radius int, edge EdgeMode) (*raster.Buffer, error) {
	if radius < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.box_blur", fmt.Errorf("radius must be >= 1"))
	}
	n := 2*radius + 1
	weights := make([]float32, n)
	for i := range weights {
		weights[i] = 1.0 / float32(n)
	}
	return separableConvolveF32(buf, weights, radius, edge), nil
}

// MedianBlurU8 replaces each color sample with the median of its
// (2r+1)x(2r+1) neighborhood.
func MedianBlurU8(buf *raster.Buffer, radius int, edge EdgeMode) (*raster.Buffer, error) {
	if radius < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.median_blur", fmt.Errorf("radius must be >= 1"))
	}
	cc := colorChannels(buf.Layout)
	c := buf.Layout.Channels()
	out := buf.Clone()
	src := buf.U8()
	dst := out.U8()
	window := make([]uint8, (2*radius+1)*(2*radius+1))
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				idx := 0
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
						window[idx] = src[(sy*buf.W+sx)*c+k]
						idx++
					}
				}
				w := window[:idx]
				sort.Slice(w, func(i, j int) bool { return w[i] < w[j] })
				dst[(y*buf.W+x)*c+k] = w[len(w)/2]
			}
		}
	}
	return out, nil
}

// MedianBlurF32 is the F32 counterpart.
func MedianBlurF32(buf *raster.Buffer, radius int, edge EdgeMode) (*raster.Buffer, error) {
	if radius < 1 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.median_blur", fmt.Errorf("radius must be >= 1"))
	}
	cc := colorChannels(buf.Layout)
	c := buf.Layout.Channels()
	out := buf.Clone()
	src := buf.F32()
	dst := out.F32()
	window := make([]float32, (2*radius+1)*(2*radius+1))
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				idx := 0
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
						window[idx] = src[(sy*buf.W+sx)*c+k]
						idx++
					}
				}
				w := window[:idx]
				sort.Slice(w, func(i, j int) bool { return w[i] < w[j] })
				dst[(y*buf.W+x)*c+k] = w[len(w)/2]
			}
		}
	}
	return out, nil
}

// BilateralU8 applies an edge-preserving bilateral filter: spatial Gaussian
// (sigmaSpace) weighted by a range Gaussian (sigmaColor) over intensity
// difference.
func BilateralU8(buf *raster.Buffer, radius int, sigmaSpace, sigmaColor float64, edge EdgeMode) (*raster.Buffer, error) {
	if radius < 1 || sigmaSpace <= 0 || sigmaColor <= 0 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.bilateral", fmt.Errorf("invalid bilateral parameters"))
	}
	cc := colorChannels(buf.Layout)
	c := buf.Layout.Channels()
	out := buf.Clone()
	src := buf.U8()
	dst := out.U8()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				center := float64(src[(y*buf.W+x)*c+k])
				var acc, wsum float64
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
						v := float64(src[(sy*buf.W+sx)*c+k])
						spatial := math.Exp(-float64(dx*dx+dy*dy) / (2 * sigmaSpace * sigmaSpace))
						rang := math.Exp(-((v - center) * (v - center)) / (2 * sigmaColor * sigmaColor))
						wgt := spatial * rang
						acc += wgt * v
						wsum += wgt
					}
				}
				dst[(y*buf.W+x)*c+k] = clampU8Float64(acc / wsum)
			}
		}
	}
	return out, nil
}

// BilateralF32 is the F32 counterpart, computed with math32.
func BilateralF32(buf *raster.Buffer, radius int, sigmaSpace, sigmaColor float32, edge EdgeMode) (*raster.Buffer, error) {
	if radius < 1 || sigmaSpace <= 0 || sigmaColor <= 0 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.bilateral", fmt.Errorf("invalid bilateral parameters"))
	}
	cc := colorChannels(buf.Layout)
	c := buf.Layout.Channels()
	out := buf.Clone()
	src := buf.F32()
	dst := out.F32()
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				center := src[(y*buf.W+x)*c+k]
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
						v := src[(sy*buf.W+sx)*c+k]
						spatial := math32.Exp(-float32(dx*dx+dy*dy) / (2 * sigmaSpace * sigmaSpace))
						rang := math32.Exp(-((v - center) * (v - center)) / (2 * sigmaColor * sigmaColor))
						wgt := spatial * rang
						acc += wgt * v
						wsum += wgt
					}
				}
				dst[(y*buf.W+x)*c+k] = acc / wsum
			}
		}
	}
	return out, nil
}
