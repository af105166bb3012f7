package filter

import (
	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

var grayOnly = []raster.Format{
	{Element: raster.U8, Layout: raster.GRAY},
	{Element: raster.F32, Layout: raster.GRAY},
}

func registerEdgeFilters(r *Registry) {
	r.Register("sobel", func(p map[string]any) (*Filter, error) {
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("sobel", "edge", err)
		}
		return newUnaryFilter("sobel", p, rgbFormats, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.SobelU8(b, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.SobelF32(b, edge) },
		}), nil
	})

	r.Register("scharr", func(p map[string]any) (*Filter, error) {
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("scharr", "edge", err)
		}
		return newUnaryFilter("scharr", p, rgbFormats, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.ScharrU8(b, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.ScharrF32(b, edge) },
		}), nil
	})

	r.Register("laplacian", func(p map[string]any) (*Filter, error) {
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("laplacian", "edge", err)
		}
		return newUnaryFilter("laplacian", p, rgbFormats, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.LaplacianU8(b, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.LaplacianF32(b, edge) },
		}), nil
	})

	r.Register("canny", func(p map[string]any) (*Filter, error) {
		sigma, err := getFloat(p, "sigma", 1.4)
		if err != nil {
			return nil, paramErr("canny", "sigma", err)
		}
		low, err := getFloat(p, "low_threshold", 0.1)
		if err != nil {
			return nil, paramErr("canny", "low_threshold", err)
		}
		high, err := getFloat(p, "high_threshold", 0.3)
		if err != nil {
			return nil, paramErr("canny", "high_threshold", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("canny", "edge", err)
		}
		// Canny is specified only for U8 (dual-threshold hysteresis over an 8-bit
		// gradient magnitude); the F32 variant round-trips through U8 to reuse the
		// same hysteresis implementation, preserving the single-source-of-truth
		// requirement.
		return newUnaryFilter("canny", p, rgbFormats, false, unaryFn{
			u8: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.CannyU8(b, sigma, low, high, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) {
				u8Fmt := raster.Format{Element: raster.U8, Layout: b.Layout}
				asU8, err := b.Convert(u8Fmt)
				if err != nil {
					return nil, err
				}
				out, err := kernel.CannyU8(asU8, sigma, low, high, edge)
				if err != nil {
					return nil, err
				}
				return out.Convert(raster.Format{Element: raster.F32, Layout: out.Layout})
			},
		}), nil
	})
}
