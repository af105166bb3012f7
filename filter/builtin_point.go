package filter

import (
	"errors"

	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

var (
	errColormapShape = errors.New("lut must be an array of 256 hex color strings")
	errUnknownPreset  = errors.New("unrecognized colormap preset")
)

func registerPointFilters(r *Registry) {
	r.Register("threshold", func(p map[string]any) (*Filter, error) {
		v, err := getInt(p, "value", 128)
		if err != nil {
			return nil, paramErr("threshold", "value", err)
		}
		return newUnaryFilter("threshold", p, allFormats, true, unaryFn{
			u8:  wrapU8(func(b *raster.Buffer) *raster.Buffer { return kernel.ThresholdU8(b, uint8(v)) }),
			f32: wrapF32(func(b *raster.Buffer) *raster.Buffer { return kernel.ThresholdF32(b, float32(v)/255) }),
		}), nil
	})

	r.Register("invert", func(p map[string]any) (*Filter, error) {
		return newUnaryFilter("invert", p, allFormats, true, unaryFn{
			u8:  wrapU8(kernel.InvertU8),
			f32: wrapF32(kernel.InvertF32),
		}), nil
	})

	r.Register("brightness", func(p map[string]any) (*Filter, error) {
		delta, err := getFloat(p, "delta", 0)
		if err != nil {
			return nil, paramErr("brightness", "delta", err)
		}
		return newUnaryFilter("brightness", p, allFormats, true, unaryFn{
			u8:  wrapU8(func(b *raster.Buffer) *raster.Buffer { return kernel.BrightnessU8(b, int(delta)) }),
			f32: wrapF32(func(b *raster.Buffer) *raster.Buffer { return kernel.BrightnessF32(b, float32(delta)/255) }),
		}), nil
	})

	r.Register("contrast", func(p map[string]any) (*Filter, error) {
		factor, err := getFloat(p, "factor", 1)
		if err != nil {
			return nil, paramErr("contrast", "factor", err)
		}
		return newUnaryFilter("contrast", p, allFormats, true, unaryFn{
			u8:  wrapU8(func(b *raster.Buffer) *raster.Buffer { return kernel.ContrastU8(b, factor) }),
			f32: wrapF32(func(b *raster.Buffer) *raster.Buffer { return kernel.ContrastF32(b, float32(factor)) }),
		}), nil
	})

	r.Register("saturation", func(p map[string]any) (*Filter, error) {
		factor, err := getFloat(p, "factor", 1)
		if err != nil {
			return nil, paramErr("saturation", "factor", err)
		}
		return newUnaryFilter("saturation", p, rgbFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.SaturationU8(b, factor) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.SaturationF32(b, float32(factor)) },
		}), nil
	})

	r.Register("gamma", func(p map[string]any) (*Filter, error) {
		gamma, err := getFloat(p, "gamma", 1)
		if err != nil {
			return nil, paramErr("gamma", "gamma", err)
		}
		return newUnaryFilter("gamma", p, allFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.GammaU8(b, gamma) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.GammaF32(b, float32(gamma)) },
		}), nil
	})

	r.Register("log", func(p map[string]any) (*Filter, error) {
		return newUnaryFilter("log", p, allFormats, true, unaryFn{
			u8:  wrapU8(kernel.LogU8),
			f32: wrapF32(kernel.LogF32),
		}), nil
	})

	r.Register("sigmoid", func(p map[string]any) (*Filter, error) {
		gain, err := getFloat(p, "gain", 10)
		if err != nil {
			return nil, paramErr("sigmoid", "gain", err)
		}
		cutoff, err := getFloat(p, "cutoff", 0.5)
		if err != nil {
			return nil, paramErr("sigmoid", "cutoff", err)
		}
		return newUnaryFilter("sigmoid", p, allFormats, true, unaryFn{
			u8:  wrapU8(func(b *raster.Buffer) *raster.Buffer { return kernel.SigmoidU8(b, gain, cutoff) }),
			f32: wrapF32(func(b *raster.Buffer) *raster.Buffer { return kernel.SigmoidF32(b, float32(gain), float32(cutoff)) }),
		}), nil
	})

	r.Register("posterize", func(p map[string]any) (*Filter, error) {
		levels, err := getInt(p, "levels", 4)
		if err != nil {
			return nil, paramErr("posterize", "levels", err)
		}
		return newUnaryFilter("posterize", p, allFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.PosterizeU8(b, levels) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.PosterizeF32(b, levels) },
		}), nil
	})

	r.Register("solarize", func(p map[string]any) (*Filter, error) {
		threshold, err := getInt(p, "threshold", 128)
		if err != nil {
			return nil, paramErr("solarize", "threshold", err)
		}
		return newUnaryFilter("solarize", p, allFormats, true, unaryFn{
			u8:  wrapU8(func(b *raster.Buffer) *raster.Buffer { return kernel.SolarizeU8(b, uint8(threshold)) }),
			f32: wrapF32(func(b *raster.Buffer) *raster.Buffer { return kernel.SolarizeF32(b, float32(threshold)/255) }),
		}), nil
	})

	r.Register("grayscale", func(p map[string]any) (*Filter, error) {
		method, err := getString(p, "method", "luminosity")
		if err != nil {
			return nil, paramErr("grayscale", "method", err)
		}
		gm := kernel.GrayLuminosity
		if method == "average" {
			gm = kernel.GrayAverage
		}
		return newUnaryFilter("grayscale", p, rgbFormats, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.GrayscaleU8(b, gm) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.GrayscaleF32(b, gm) },
		}), nil
	})

	r.Register("colormap", func(p map[string]any) (*Filter, error) {
		cmap, err := decodeColormap(p)
		if err != nil {
			return nil, err
		}
		native := []raster.Format{{Element: raster.U8, Layout: raster.GRAY}, {Element: raster.F32, Layout: raster.GRAY}}
		return newUnaryFilter("colormap", p, native, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.ColormapU8(b, cmap) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.ColormapF32(b, cmap) },
		}), nil
	})
}

var rgbFormats = []raster.Format{
	{Element: raster.U8, Layout: raster.RGB}, {Element: raster.U8, Layout: raster.RGBA},
	{Element: raster.U8, Layout: raster.BGR}, {Element: raster.U8, Layout: raster.BGRA},
	{Element: raster.F32, Layout: raster.RGB}, {Element: raster.F32, Layout: raster.RGBA},
	{Element: raster.F32, Layout: raster.BGR}, {Element: raster.F32, Layout: raster.BGRA},
}

// wrapU8/wrapF32 lift a kernel func that cannot fail into the
// (*raster.Buffer, error) shape unaryFn expects.
func wrapU8(f func(*raster.Buffer) *raster.Buffer) func(*raster.Buffer) (*raster.Buffer, error) {
	return func(b *raster.Buffer) (*raster.Buffer, error) { return f(b), nil }
}

func wrapF32(f func(*raster.Buffer) *raster.Buffer) func(*raster.Buffer) (*raster.Buffer, error) {
	return func(b *raster.Buffer) (*raster.Buffer, error) { return f(b), nil }
}

// decodeColormap accepts a 256-entry array of hex colors under "lut", or a
// small set of builtin names under "preset".
func decodeColormap(p map[string]any) (kernel.Colormap, error) {
	if preset, err := getString(p, "preset", ""); err == nil && preset != "" {
		return builtinColormap(preset)
	}
	raw, ok := p["lut"]
	if !ok {
		return builtinColormap("grayscale")
	}
	entries, ok := raw.([]any)
	if !ok || len(entries) != 256 {
		return kernel.Colormap{}, paramErr("colormap", "lut", errColormapShape)
	}
	var cmap kernel.Colormap
	for i, e := range entries {
		s, ok := e.(string)
		if !ok {
			return kernel.Colormap{}, paramErr("colormap", "lut", errColormapShape)
		}
		c, _, err := parseHexColor(s)
		if err != nil {
			return kernel.Colormap{}, paramErr("colormap", "lut", err)
		}
		cmap[i] = [3]uint8{uint8(c.R*255 + 0.5), uint8(c.G*255 + 0.5), uint8(c.B*255 + 0.5)}
	}
	return cmap, nil
}

func builtinColormap(name string) (kernel.Colormap, error) {
	var cmap kernel.Colormap
	switch name {
	case "grayscale", "":
		for i := range cmap {
			cmap[i] = [3]uint8{uint8(i), uint8(i), uint8(i)}
		}
	case "hot":
		for i := range cmap {
			t := float64(i) / 255
			cmap[i] = [3]uint8{
				uint8(clamp255(t * 3 * 255)),
				uint8(clamp255((t*3 - 1) * 255)),
				uint8(clamp255((t*3 - 2) * 255)),
			}
		}
	default:
		return cmap, paramErr("colormap", "preset", errUnknownPreset)
	}
	return cmap, nil
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
