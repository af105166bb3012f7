package filter

import (
	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func registerAlphaFilters(r *Registry) {
	r.Register("premultiply", func(p map[string]any) (*Filter, error) {
		return newUnaryFilter("premultiply", p, rgbaOnly, true, unaryFn{
			u8:  kernel.PremultiplyU8,
			f32: kernel.PremultiplyF32,
		}), nil
	})

	r.Register("unpremultiply", func(p map[string]any) (*Filter, error) {
		return newUnaryFilter("unpremultiply", p, rgbaOnly, true, unaryFn{
			u8:  kernel.UnpremultiplyU8,
			f32: kernel.UnpremultiplyF32,
		}), nil
	})

	r.Register("alpha_dilate", func(p map[string]any) (*Filter, error) {
		radius, err := getInt(p, "radius", 1)
		if err != nil {
			return nil, paramErr("alpha_dilate", "radius", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("alpha_dilate", "edge", err)
		}
		native := []raster.Format{{Element: raster.U8, Layout: raster.GRAY}, {Element: raster.F32, Layout: raster.GRAY}}
		return newUnaryFilter("alpha_dilate", p, native, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.AlphaDilateU8(b, radius, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.AlphaDilateF32(b, radius, edge) },
		}), nil
	})

	r.Register("alpha_erode", func(p map[string]any) (*Filter, error) {
		radius, err := getInt(p, "radius", 1)
		if err != nil {
			return nil, paramErr("alpha_erode", "radius", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("alpha_erode", "edge", err)
		}
		native := []raster.Format{{Element: raster.U8, Layout: raster.GRAY}, {Element: raster.F32, Layout: raster.GRAY}}
		return newUnaryFilter("alpha_erode", p, native, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.AlphaErodeU8(b, radius, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.AlphaErodeF32(b, radius, edge) },
		}), nil
	})

	r.Register("signed_distance_field", func(p map[string]any) (*Filter, error) {
		maxDist, err := getInt(p, "max_distance", 16)
		if err != nil {
			return nil, paramErr("signed_distance_field", "max_distance", err)
		}
		native := []raster.Format{{Element: raster.U8, Layout: raster.GRAY}, {Element: raster.F32, Layout: raster.GRAY}}
		return newUnaryFilter("signed_distance_field", p, native, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.SignedDistanceFieldU8(b, maxDist) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.SignedDistanceFieldF32(b, maxDist) },
		}), nil
	})
}
