package filter

import (
	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func registerHistogramFilters(r *Registry) {
	r.Register("equalize", func(p map[string]any) (*Filter, error) {
		return newUnaryFilter("equalize", p, grayOnly, false, unaryFn{
			u8:  kernel.EqualizeU8,
			f32: kernel.EqualizeF32,
		}), nil
	})

	r.Register("clahe", func(p map[string]any) (*Filter, error) {
		tileW, err := getInt(p, "tile_width", 8)
		if err != nil {
			return nil, paramErr("clahe", "tile_width", err)
		}
		tileH, err := getInt(p, "tile_height", 8)
		if err != nil {
			return nil, paramErr("clahe", "tile_height", err)
		}
		clip, err := getFloat(p, "clip_limit", 4)
		if err != nil {
			return nil, paramErr("clahe", "clip_limit", err)
		}
		cp := kernel.CLAHEParams{TileW: tileW, TileH: tileH, ClipLimit: clip}
		return newUnaryFilter("clahe", p, grayOnly, false, unaryFn{
			u8: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.CLAHEU8(b, cp) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) {
				asU8, err := b.Convert(raster.Format{Element: raster.U8, Layout: raster.GRAY})
				if err != nil {
					return nil, err
				}
				out, err := kernel.CLAHEU8(asU8, cp)
				if err != nil {
					return nil, err
				}
				return out.Convert(raster.Format{Element: raster.F32, Layout: raster.GRAY})
			},
		}), nil
	})

	r.Register("adaptive_threshold", func(p map[string]any) (*Filter, error) {
		radius, err := getInt(p, "radius", 5)
		if err != nil {
			return nil, paramErr("adaptive_threshold", "radius", err)
		}
		methodStr, err := getString(p, "method", "mean")
		if err != nil {
			return nil, paramErr("adaptive_threshold", "method", err)
		}
		method := kernel.AdaptiveMean
		if methodStr == "gaussian" {
			method = kernel.AdaptiveGaussian
		}
		c, err := getFloat(p, "c", 0)
		if err != nil {
			return nil, paramErr("adaptive_threshold", "c", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("adaptive_threshold", "edge", err)
		}
		return newUnaryFilter("adaptive_threshold", p, grayOnly, false, unaryFn{
			u8: func(b *raster.Buffer) (*raster.Buffer, error) {
				return kernel.AdaptiveThresholdU8(b, radius, method, c, edge)
			},
			f32: func(b *raster.Buffer) (*raster.Buffer, error) {
				return kernel.AdaptiveThresholdF32(b, radius, method, float32(c), edge)
			},
		}), nil
	})
}
