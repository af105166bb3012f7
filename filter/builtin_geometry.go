package filter

import (
	"errors"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
)

var errQuadShape = errors.New(`expected a 4-element array of [x,y] pairs`)

func decodeResizeMethod(p map[string]any) (kernel.ResizeMethod, error) {
	s, err := getString(p, "method", "bilinear")
	if err != nil {
		return 0, err
	}
	switch s {
	case "nearest":
		return kernel.ResizeNearest, nil
	case "bilinear":
		return kernel.ResizeBilinear, nil
	case "bicubic":
		return kernel.ResizeBicubic, nil
	case "lanczos3":
		return kernel.ResizeLanczos3, nil
	default:
		return 0, paramErr("resize", "method", errUnknownPreset)
	}
}

func registerGeometryFilters(r *Registry) {
	r.Register("resize", func(p map[string]any) (*Filter, error) {
		w, err := getInt(p, "width", 0)
		if err != nil {
			return nil, paramErr("resize", "width", err)
		}
		h, err := getInt(p, "height", 0)
		if err != nil {
			return nil, paramErr("resize", "height", err)
		}
		method, err := decodeResizeMethod(p)
		if err != nil {
			return nil, err
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("resize", "edge", err)
		}
		return newUnaryFilter("resize", p, allFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.ResizeU8(b, w, h, method, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.ResizeF32(b, w, h, method, edge) },
		}), nil
	})

	r.Register("rotate", func(p map[string]any) (*Filter, error) {
		degrees, err := getFloat(p, "degrees", 0)
		if err != nil {
			return nil, paramErr("rotate", "degrees", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("rotate", "edge", err)
		}
		return newUnaryFilter("rotate", p, allFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.RotateU8(b, degrees, nil, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.RotateF32(b, degrees, nil, edge) },
		}), nil
	})

	r.Register("flip", func(p map[string]any) (*Filter, error) {
		horizontal, err := getBool(p, "horizontal", false)
		if err != nil {
			return nil, paramErr("flip", "horizontal", err)
		}
		vertical, err := getBool(p, "vertical", false)
		if err != nil {
			return nil, paramErr("flip", "vertical", err)
		}
		return newUnaryFilter("flip", p, allFormats, true, unaryFn{
			u8:  wrapU8(func(b *raster.Buffer) *raster.Buffer { return kernel.Flip(b, horizontal, vertical) }),
			f32: wrapF32(func(b *raster.Buffer) *raster.Buffer { return kernel.Flip(b, horizontal, vertical) }),
		}), nil
	})

	r.Register("crop", func(p map[string]any) (*Filter, error) {
		x, err := getInt(p, "x", 0)
		if err != nil {
			return nil, paramErr("crop", "x", err)
		}
		y, err := getInt(p, "y", 0)
		if err != nil {
			return nil, paramErr("crop", "y", err)
		}
		w, err := getInt(p, "width", 0)
		if err != nil {
			return nil, paramErr("crop", "width", err)
		}
		h, err := getInt(p, "height", 0)
		if err != nil {
			return nil, paramErr("crop", "height", err)
		}
		return newUnaryFilter("crop", p, allFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.Crop(b, x, y, w, h) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.Crop(b, x, y, w, h) },
		}), nil
	})

	r.Register("center_crop", func(p map[string]any) (*Filter, error) {
		w, err := getInt(p, "width", 0)
		if err != nil {
			return nil, paramErr("center_crop", "width", err)
		}
		h, err := getInt(p, "height", 0)
		if err != nil {
			return nil, paramErr("center_crop", "height", err)
		}
		return newUnaryFilter("center_crop", p, allFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.CenterCrop(b, w, h) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.CenterCrop(b, w, h) },
		}), nil
	})

	r.Register("lens_distortion", func(p map[string]any) (*Filter, error) {
		lp := kernel.LensDistortionParams{}
		var err error
		if lp.K1, err = getFloat(p, "k1", 0); err != nil {
			return nil, paramErr("lens_distortion", "k1", err)
		}
		if lp.K2, err = getFloat(p, "k2", 0); err != nil {
			return nil, paramErr("lens_distortion", "k2", err)
		}
		if lp.K3, err = getFloat(p, "k3", 0); err != nil {
			return nil, paramErr("lens_distortion", "k3", err)
		}
		if lp.P1, err = getFloat(p, "p1", 0); err != nil {
			return nil, paramErr("lens_distortion", "p1", err)
		}
		if lp.P2, err = getFloat(p, "p2", 0); err != nil {
			return nil, paramErr("lens_distortion", "p2", err)
		}
		forward, err := getBool(p, "forward", true)
		if err != nil {
			return nil, paramErr("lens_distortion", "forward", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("lens_distortion", "edge", err)
		}
		return newUnaryFilter("lens_distortion", p, allFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.LensDistortU8(b, lp, forward, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.LensDistortF32(b, lp, forward, edge) },
		}), nil
	})

	r.Register("perspective_transform", func(p map[string]any) (*Filter, error) {
		src, err := decodeQuad(p, "src")
		if err != nil {
			return nil, paramErr("perspective_transform", "src", err)
		}
		dst, err := decodeQuad(p, "dst")
		if err != nil {
			return nil, paramErr("perspective_transform", "dst", err)
		}
		outW, err := getInt(p, "width", 0)
		if err != nil {
			return nil, paramErr("perspective_transform", "width", err)
		}
		outH, err := getInt(p, "height", 0)
		if err != nil {
			return nil, paramErr("perspective_transform", "height", err)
		}
		edge, err := getEdgeMode(p, "edge", kernel.EdgeClamp)
		if err != nil {
			return nil, paramErr("perspective_transform", "edge", err)
		}
		h, err := kernel.SolvePerspective(src, dst)
		if err != nil {
			return nil, err
		}
		f := newUnaryFilter("perspective_transform", p, allFormats, true, unaryFn{
			u8:  func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.PerspectiveWarpU8(b, h, outW, outH, edge) },
			f32: func(b *raster.Buffer) (*raster.Buffer, error) { return kernel.PerspectiveWarpF32(b, h, outW, outH, edge) },
		})
		return f, nil
	})
}

func decodeQuad(p map[string]any, key string) ([4][2]float64, error) {
	var out [4][2]float64
	raw, ok := p[key]
	if !ok {
		return out, errMissingQuad
	}
	pts, ok := raw.([]any)
	if !ok || len(pts) != 4 {
		return out, errMissingQuad
	}
	for i, pt := range pts {
		pair, ok := pt.([]any)
		if !ok || len(pair) != 2 {
			return out, errMissingQuad
		}
		x, okx := pair[0].(float64)
		y, oky := pair[1].(float64)
		if !okx || !oky {
			return out, errMissingQuad
		}
		out[i] = [2]float64{x, y}
	}
	return out, nil
}

var errMissingQuad = engerr.New(engerr.InvalidArgument, "perspective_transform.params",
	errQuadShape)
