package filter

import (
	"fmt"

	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

func decodeStructElement(p map[string]any) (kernel.StructElement, error) {
	shape, err := getString(p, "shape", "rect")
	if err != nil {
		return kernel.StructElement{}, paramErr("morphology", "shape", err)
	}
	radius, err := getInt(p, "radius", 1)
	if err != nil {
		return kernel.StructElement{}, paramErr("morphology", "radius", err)
	}
	switch shape {
	case "rect":
		return kernel.RectStruct(radius), nil
	case "cross":
		return kernel.CrossStruct(radius), nil
	case "ellipse":
		return kernel.EllipseStruct(radius), nil
	default:
		return kernel.StructElement{}, paramErr("morphology", "shape", fmt.Errorf("unrecognized shape %q", shape))
	}
}

type morphOp func(*raster.Buffer, kernel.StructElement, kernel.EdgeMode) (*raster.Buffer, error)

func registerMorph(r *Registry, kind string, u8fn, f32fn morphOp) {
	r.Register(kind, func(p map[string]any) (*Filter, error) {
		se, err := decodeStructElement(p)
		if err != nil {
			return nil, err
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr(kind, "edge", err)
		}
		return newUnaryFilter(kind, p, grayOnly, false, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return u8fn(b, se, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return f32fn(b, se, edge) },
		}), nil
	})
}

func registerMorphologyFilters(r *Registry) {
	registerMorph(r, "erode", kernel.ErodeU8, kernel.ErodeF32)
	registerMorph(r, "dilate", kernel.DilateU8, kernel.DilateF32)
	registerMorph(r, "morph_open", kernel.OpenU8, kernel.OpenF32)
	registerMorph(r, "morph_close", kernel.CloseU8, kernel.CloseF32)
	registerMorph(r, "morph_gradient", kernel.GradientU8, kernel.GradientF32)
	registerMorph(r, "top_hat", kernel.TopHatU8, kernel.TopHatF32)
	registerMorph(r, "black_hat", kernel.BlackHatU8, kernel.BlackHatF32)
}
