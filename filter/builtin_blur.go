package filter

import (
	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func registerBlurFilters(r *Registry) {
	r.Register("gaussian_blur", func(p map[string]any) (*Filter, error) {
		sigma, err := getFloat(p, "sigma", 1)
		if err != nil {
			return nil, paramErr("gaussian_blur", "sigma", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("gaussian_blur", "edge", err)
		}
		return newUnaryFilter("gaussian_blur", p, rgbFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.GaussianBlurU8(b, sigma, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.GaussianBlurF32(b, float32(sigma), edge) },
		}), nil
	})

	r.Register("box_blur", func(p map[string]any) (*Filter, error) {
		radius, err := getInt(p, "radius", 1)
		if err != nil {
			return nil, paramErr("box_blur", "radius", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("box_blur", "edge", err)
		}
		return newUnaryFilter("box_blur", p, rgbFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.BoxBlurU8(b, radius, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.BoxBlurF32(b, radius, edge) },
		}), nil
	})

	r.Register("median_blur", func(p map[string]any) (*Filter, error) {
		radius, err := getInt(p, "radius", 1)
		if err != nil {
			return nil, paramErr("median_blur", "radius", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("median_blur", "edge", err)
		}
		return newUnaryFilter("median_blur", p, rgbFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.MedianBlurU8(b, radius, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.MedianBlurF32(b, radius, edge) },
		}), nil
	})

	r.Register("bilateral", func(p map[string]any) (*Filter, error) {
		radius, err := getInt(p, "radius", 2)
		if err != nil {
			return nil, paramErr("bilateral", "radius", err)
		}
		sigmaSpace, err := getFloat(p, "sigma_space", 3)
		if err != nil {
			return nil, paramErr("bilateral", "sigma_space", err)
		}
		sigmaColor, err := getFloat(p, "sigma_color", 0.1)
		if err != nil {
			return nil, paramErr("bilateral", "sigma_color", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("bilateral", "edge", err)
		}
		return newUnaryFilter("bilateral", p, rgbFormats, true, unaryFn{
			u8: func(b *raster.Buffer) (*raster.Buffer, error) {
				return kernel.BilateralU8(b, radius, sigmaSpace, sigmaColor*255, edge)
			},
			f32: func(b *raster.Buffer) (*raster.Buffer, error) {
				return kernel.BilateralF32(b, radius, float32(sigmaSpace), float32(sigmaColor), edge)
			},
		}), nil
	})
}
