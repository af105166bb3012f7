package kernel

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

// colorChannels returns the number of leading "color" channels a layout
// carries — everything except a trailing alpha channel, which point
// operators leave untouched.
func colorChannels(l raster.Layout) int {
	c := l.Channels()
	if l.HasAlpha() {
		return c - 1
	}
	return c
}

// mapColorU8 applies f to every color sample of a cloned U8 buffer,
// leaving any alpha channel untouched.
func mapColorU8(buf *raster.Buffer, f func(uint8) uint8) *raster.Buffer {
	out := buf.Clone()
	cc := colorChannels(out.Layout)
	c := out.Layout.Channels()
	px := out.U8()
	n := out.W * out.H
	for i := 0; i < n; i++ {
		base := i * c
		for k := 0; k < cc; k++ {
			px[base+k] = f(px[base+k])
		}
	}
	return out
}

func mapColorF32(buf *raster.Buffer, f func(float32) float32) *raster.Buffer {
	out := buf.Clone()
	cc := colorChannels(out.Layout)
	c := out.Layout.Channels()
	px := out.F32()
	n := out.W * out.H
	for i := 0; i < n; i++ {
		base := i * c
		for k := 0; k < cc; k++ {
			px[base+k] = f(px[base+k])
		}
	}
	return out
}

// ── Threshold ─────────────────────────────────────────────────────────────────

// ThresholdU8 sets every color sample to 255 if >= value, else 0.
func ThresholdU8(buf *raster.Buffer, value uint8) *raster.Buffer {
	return mapColorU8(buf, func(v uint8) uint8 {
		if v >= value {
			return 255
		}
		return 0
	})
}

// ThresholdF32 is the F32 counterpart, operating in [0,1].
func ThresholdF32(buf *raster.Buffer, value float32) *raster.Buffer {
	return mapColorF32(buf, func(v float32) float32 {
		if v >= value {
			return 1
		}
		return 0
	})
}

// ── Invert ────────────────────────────────────────────────────────────────────

func InvertU8(buf *raster.Buffer) *raster.Buffer {
	return mapColorU8(buf, func(v uint8) uint8 { return 255 - v })
}

func InvertF32(buf *raster.Buffer) *raster.Buffer {
	return mapColorF32(buf, func(v float32) float32 { return 1 - v })
}

// ── Brightness ────────────────────────────────────────────────────────────────

// BrightnessU8 adds delta (-255..255) to every color sample, saturating.
func BrightnessU8(buf *raster.Buffer, delta int) *raster.Buffer {
	return mapColorU8(buf, func(v uint8) uint8 {
		x := int(v) + delta
		if x < 0 {
			return 0
		}
		if x > 255 {
			return 255
		}
		return uint8(x)
	})
}

// BrightnessF32 adds delta to every color sample.
func BrightnessF32(buf *raster.Buffer, delta float32) *raster.Buffer {
	return mapColorF32(buf, func(v float32) float32 { return v + delta })
}

// ── Contrast ──────────────────────────────────────────────────────────────────

// ContrastU8 scales samples around the mid-gray pivot (128) by factor.
func ContrastU8(buf *raster.Buffer, factor float64) *raster.Buffer {
	return mapColorU8(buf, func(v uint8) uint8 {
		x := (float64(v)-128)*factor + 128
		if x < 0 {
			return 0
		}
		if x > 255 {
			return 255
		}
		return uint8(x + 0.5)
	})
}

// ContrastF32 scales samples around the mid-gray pivot (0.5) by factor.
func ContrastF32(buf *raster.Buffer, factor float32) *raster.Buffer {
	return mapColorF32(buf, func(v float32) float32 { return (v-0.5)*factor + 0.5 })
}

// ── Gamma ─────────────────────────────────────────────────────────────────────

// GammaU8 applies v' = 255*(v/255)^gamma.
func GammaU8(buf *raster.Buffer, gamma float64) (*raster.Buffer, error) {
	if gamma <= 0 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.gamma", fmt.Errorf("gamma must be positive"))
	}
	return mapColorU8(buf, func(v uint8) uint8 {
		x := math.Pow(float64(v)/255.0, gamma) * 255.0
		return clampU8Float64(x)
	}), nil
}

// GammaF32 applies v' = v^gamma using math32 so the F32 path never
// round-trips through float64.
func GammaF32(buf *raster.Buffer, gamma float32) (*raster.Buffer, error) {
	if gamma <= 0 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.gamma", fmt.Errorf("gamma must be positive"))
	}
	return mapColorF32(buf, func(v float32) float32 {
		if v <= 0 {
			return 0
		}
		return math32.Pow(v, gamma)
	}), nil
}

// ── Log ───────────────────────────────────────────────────────────────────────

// LogU8 applies the classic log-transform v' = c*log(1+v) with c chosen so
// the max input value (255) maps to 255.
func LogU8(buf *raster.Buffer) *raster.Buffer {
	c := 255.0 / math.Log(256.0)
	return mapColorU8(buf, func(v uint8) uint8 {
		return clampU8Float64(c * math.Log(1+float64(v)))
	})
}

// LogF32 is the F32 counterpart over the [0,1] domain.
func LogF32(buf *raster.Buffer) *raster.Buffer {
	c := float32(1.0 / math32.Log(2.0))
	return mapColorF32(buf, func(v float32) float32 {
		if v < 0 {
			v = 0
		}
		return c * math32.Log(1+v)
	})
}

// ── Sigmoid ───────────────────────────────────────────────────────────────────

// SigmoidU8 applies a logistic contrast curve with the given gain and
// midpoint cutoff, both in [0,1] (cutoff 0.5 == mid-gray pivot).
func SigmoidU8(buf *raster.Buffer, gain, cutoff float64) *raster.Buffer {
	norm := func(x float64) float64 {
		return 1.0 / (1.0 + math.Exp(gain*(cutoff-x)))
	}
	lo, hi := norm(0), norm(1)
	return mapColorU8(buf, func(v uint8) uint8 {
		x := float64(v) / 255.0
		y := (norm(x) - lo) / (hi - lo)
		return clampU8Float64(y * 255.0)
	})
}

// SigmoidF32 is the F32 counterpart, computed with math32.
func SigmoidF32(buf *raster.Buffer, gain, cutoff float32) *raster.Buffer {
	norm := func(x float32) float32 {
		return 1.0 / (1.0 + math32.Exp(gain*(cutoff-x)))
	}
	lo, hi := norm(0), norm(1)
	return mapColorF32(buf, func(v float32) float32 {
		return (norm(v) - lo) / (hi - lo)
	})
}

// ── Posterize ─────────────────────────────────────────────────────────────────

// PosterizeU8 reduces to `levels` evenly spaced values per channel (2-256).
func PosterizeU8(buf *raster.Buffer, levels int) (*raster.Buffer, error) {
	if levels < 2 || levels > 256 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.posterize", fmt.Errorf("levels must be in [2,256]"))
	}
	step := 255.0 / float64(levels-1)
	return mapColorU8(buf, func(v uint8) uint8 {
		bucket := math.Round(float64(v) / step)
		return clampU8Float64(bucket * step)
	}), nil
}

// PosterizeF32 is the F32 counterpart over [0,1].
func PosterizeF32(buf *raster.Buffer, levels int) (*raster.Buffer, error) {
	if levels < 2 || levels > 256 {
		return nil, engerr.New(engerr.InvalidArgument, "kernel.posterize", fmt.Errorf("levels must be in [2,256]"))
	}
	step := float32(1.0 / float64(levels-1))
	return mapColorF32(buf, func(v float32) float32 {
		return math32.Round(v/step) * step
	}), nil
}

// ── Solarize ──────────────────────────────────────────────────────────────────

// SolarizeU8 inverts samples at or above threshold, leaving the rest.
func SolarizeU8(buf *raster.Buffer, threshold uint8) *raster.Buffer {
	return mapColorU8(buf, func(v uint8) uint8 {
		if v >= threshold {
			return 255 - v
		}
		return v
	})
}

// SolarizeF32 is the F32 counterpart over [0,1].
func SolarizeF32(buf *raster.Buffer, threshold float32) *raster.Buffer {
	return mapColorF32(buf, func(v float32) float32 {
		if v >= threshold {
			return 1 - v
		}
		return v
	})
}

// ── Grayscale ─────────────────────────────────────────────────────────────────

type GrayMethod int

const (
	GrayLuminosity GrayMethod = iota
	GrayAverage
)

// GrayscaleU8 converts to GRAY using the given method.
func GrayscaleU8(buf *raster.Buffer, method GrayMethod) (*raster.Buffer, error) {
	rgba, err := buf.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := raster.NewU8(rgba.W, rgba.H, raster.GRAY)
	n := rgba.W * rgba.H
	src := rgba.U8()
	dst := out.U8()
	for i := 0; i < n; i++ {
		r, g, b := src[i*4], src[i*4+1], src[i*4+2]
		if method == GrayAverage {
			dst[i] = raster.GrayAverageU8(r, g, b)
		} else {
			dst[i] = raster.GrayLuminosityU8(r, g, b)
		}
	}
	return out, nil
}

// GrayscaleF32 is the F32 counterpart.
func GrayscaleF32(buf *raster.Buffer, method GrayMethod) (*raster.Buffer, error) {
	rgba, err := buf.Convert(raster.Format{Element: raster.F32, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := raster.NewF32(rgba.W, rgba.H, raster.GRAY)
	n := rgba.W * rgba.H
	src := rgba.F32()
	dst := out.F32()
	for i := 0; i < n; i++ {
		r, g, b := src[i*4], src[i*4+1], src[i*4+2]
		if method == GrayAverage {
			dst[i] = raster.GrayAverageF32(r, g, b)
		} else {
			dst[i] = raster.GrayLuminosityF32(r, g, b)
		}
	}
	return out, nil
}

// ── Colormap (LUT-indexed) ────────────────────────────────────────────────────

// Colormap is a 256-entry RGB lookup table; index by the GRAY sample.
type Colormap [256][3]uint8

// ColormapU8 expects a GRAY U8 input and produces RGB U8 by LUT lookup.
func ColormapU8(buf *raster.Buffer, cmap Colormap) (*raster.Buffer, error) {
	if buf.Layout != raster.GRAY || buf.Elem != raster.U8 {
		return nil, engerr.New(engerr.LayoutMismatch, "kernel.colormap", engerr.ErrUnsupportedLayout)
	}
	out := raster.NewU8(buf.W, buf.H, raster.RGB)
	src := buf.U8()
	dst := out.U8()
	for i, v := range src {
		rgb := cmap[v]
		dst[i*3], dst[i*3+1], dst[i*3+2] = rgb[0], rgb[1], rgb[2]
	}
	return out, nil
}

// ColormapF32 is the F32 counterpart: input GRAY F32 in [0,1], indexed by
// round(v*255).
func ColormapF32(buf *raster.Buffer, cmap Colormap) (*raster.Buffer, error) {
	if buf.Layout != raster.GRAY || buf.Elem != raster.F32 {
		return nil, engerr.New(engerr.LayoutMismatch, "kernel.colormap", engerr.ErrUnsupportedLayout)
	}
	out := raster.NewF32(buf.W, buf.H, raster.RGB)
	src := buf.F32()
	dst := out.F32()
	for i, v := range src {
		idx := clampU8Float64(float64(v) * 255.0)
		rgb := cmap[idx]
		dst[i*3] = float32(rgb[0]) / 255.0
		dst[i*3+1] = float32(rgb[1]) / 255.0
		dst[i*3+2] = float32(rgb[2]) / 255.0
	}
	return out, nil
}

func clampU8Float64(x float64) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x + 0.5)
}
