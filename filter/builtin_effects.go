package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

var errMissingStops = errors.New("gradient_overlay requires a non-empty stops array")

// layerEffectFn wraps a layer-effect kernel, all of which are U8-only.
type layerEffectFn func(*raster.Buffer) (*raster.Buffer, error)

func newLayerEffectFilter(kind string, params map[string]any, fn layerEffectFn) *Filter {
	f := &Filter{
		Kind: kind, Params: params, Native: rgbaOnly, Preserve: false,
		Ports: PortSchema{
			Inputs:  []PortDef{{Name: DefaultInputPort, Kind: ValueImage, Required: true}},
			Outputs: []PortDef{{Name: DefaultOutputPort, Kind: ValueImage}},
		},
	}
	f.applyMulti = func(ctx context.Context, inputs map[string]Value) (map[string]Value, error) {
		buf, err := inputs[DefaultInputPort].Image.Pixels()
		if err != nil {
			return nil, err
		}
		buf, err = adaptToNative(buf, rgbaOnly)
		if err != nil {
			return nil, fmt.Errorf("%s.apply: %w", kind, err)
		}
		out, err := fn(buf)
		if err != nil {
			return nil, err
		}
		return map[string]Value{DefaultOutputPort: ImageValue(rimage.NewRaw(out))}, nil
	}
	return f
}

func decodeColorOpacity(p map[string]any, def kernel.Color) (kernel.Color, float64, error) {
	c, err := getColor(p, "color", def)
	if err != nil {
		return kernel.Color{}, 0, paramErr("layer_effect", "color", err)
	}
	opacity, err := getFloat(p, "opacity", 1)
	if err != nil {
		return kernel.Color{}, 0, paramErr("layer_effect", "opacity", err)
	}
	return c, opacity, nil
}

func registerEffectFilters(r *Registry) {
	r.Register("drop_shadow", func(p map[string]any) (*Filter, error) {
		var dp kernel.DropShadowParams
		var err error
		if dp.Spread, err = getInt(p, "spread", 0); err != nil {
			return nil, paramErr("drop_shadow", "spread", err)
		}
		if dp.Sigma, err = getFloat(p, "sigma", 4); err != nil {
			return nil, paramErr("drop_shadow", "sigma", err)
		}
		if dp.Distance, err = getFloat(p, "distance", 5); err != nil {
			return nil, paramErr("drop_shadow", "distance", err)
		}
		if dp.AngleRad, err = getFloat(p, "angle_rad", 0.785); err != nil {
			return nil, paramErr("drop_shadow", "angle_rad", err)
		}
		if dp.Color, dp.Opacity, err = decodeColorOpacity(p, kernel.Color{}); err != nil {
			return nil, err
		}
		return newLayerEffectFilter("drop_shadow", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.DropShadowU8(b, dp)
		}), nil
	})

	r.Register("inner_shadow", func(p map[string]any) (*Filter, error) {
		var ip kernel.InnerShadowParams
		var err error
		if ip.Choke, err = getInt(p, "choke", 0); err != nil {
			return nil, paramErr("inner_shadow", "choke", err)
		}
		if ip.Sigma, err = getFloat(p, "sigma", 4); err != nil {
			return nil, paramErr("inner_shadow", "sigma", err)
		}
		if ip.Distance, err = getFloat(p, "distance", 5); err != nil {
			return nil, paramErr("inner_shadow", "distance", err)
		}
		if ip.AngleRad, err = getFloat(p, "angle_rad", 0.785); err != nil {
			return nil, paramErr("inner_shadow", "angle_rad", err)
		}
		if ip.Color, ip.Opacity, err = decodeColorOpacity(p, kernel.Color{}); err != nil {
			return nil, err
		}
		return newLayerEffectFilter("inner_shadow", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.InnerShadowU8(b, ip)
		}), nil
	})

	r.Register("outer_glow", func(p map[string]any) (*Filter, error) {
		var op kernel.OuterGlowParams
		var err error
		if op.Spread, err = getInt(p, "spread", 0); err != nil {
			return nil, paramErr("outer_glow", "spread", err)
		}
		if op.Sigma, err = getFloat(p, "sigma", 4); err != nil {
			return nil, paramErr("outer_glow", "sigma", err)
		}
		if op.Color, op.Opacity, err = decodeColorOpacity(p, kernel.Color{R: 1, G: 1, B: 0}); err != nil {
			return nil, err
		}
		return newLayerEffectFilter("outer_glow", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.OuterGlowU8(b, op)
		}), nil
	})

	r.Register("inner_glow", func(p map[string]any) (*Filter, error) {
		var ip kernel.InnerGlowParams
		var err error
		if ip.Choke, err = getInt(p, "choke", 0); err != nil {
			return nil, paramErr("inner_glow", "choke", err)
		}
		if ip.Sigma, err = getFloat(p, "sigma", 4); err != nil {
			return nil, paramErr("inner_glow", "sigma", err)
		}
		if ip.Color, ip.Opacity, err = decodeColorOpacity(p, kernel.Color{R: 1, G: 1, B: 0}); err != nil {
			return nil, err
		}
		return newLayerEffectFilter("inner_glow", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.InnerGlowU8(b, ip)
		}), nil
	})

	r.Register("bevel_emboss", func(p map[string]any) (*Filter, error) {
		var bp kernel.BevelEmbossParams
		var err error
		styleStr, err := getString(p, "style", "inner_bevel")
		if err != nil {
			return nil, paramErr("bevel_emboss", "style", err)
		}
		switch styleStr {
		case "inner_bevel":
			bp.Style = kernel.BevelInner
		case "outer_bevel":
			bp.Style = kernel.BevelOuter
		case "emboss":
			bp.Style = kernel.BevelEmboss
		case "pillow_emboss":
			bp.Style = kernel.BevelPillowEmboss
		default:
			return nil, paramErr("bevel_emboss", "style", errUnknownPreset)
		}
		if bp.Sigma, err = getFloat(p, "sigma", 2); err != nil {
			return nil, paramErr("bevel_emboss", "sigma", err)
		}
		if bp.AngleRad, err = getFloat(p, "angle_rad", 0.785); err != nil {
			return nil, paramErr("bevel_emboss", "angle_rad", err)
		}
		if bp.Altitude, err = getFloat(p, "altitude", 0.6); err != nil {
			return nil, paramErr("bevel_emboss", "altitude", err)
		}
		if bp.Depth, err = getFloat(p, "depth", 1); err != nil {
			return nil, paramErr("bevel_emboss", "depth", err)
		}
		return newLayerEffectFilter("bevel_emboss", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.BevelEmbossU8(b, bp)
		}), nil
	})

	r.Register("satin", func(p map[string]any) (*Filter, error) {
		var sp kernel.SatinParams
		var err error
		if sp.Distance1, err = getFloat(p, "distance1", 5); err != nil {
			return nil, paramErr("satin", "distance1", err)
		}
		if sp.AngleRad1, err = getFloat(p, "angle_rad1", 0.785); err != nil {
			return nil, paramErr("satin", "angle_rad1", err)
		}
		if sp.Sigma1, err = getFloat(p, "sigma1", 4); err != nil {
			return nil, paramErr("satin", "sigma1", err)
		}
		if sp.Distance2, err = getFloat(p, "distance2", 5); err != nil {
			return nil, paramErr("satin", "distance2", err)
		}
		if sp.AngleRad2, err = getFloat(p, "angle_rad2", -0.785); err != nil {
			return nil, paramErr("satin", "angle_rad2", err)
		}
		if sp.Sigma2, err = getFloat(p, "sigma2", 4); err != nil {
			return nil, paramErr("satin", "sigma2", err)
		}
		if sp.Invert, err = getBool(p, "invert", false); err != nil {
			return nil, paramErr("satin", "invert", err)
		}
		if sp.Color, sp.Opacity, err = decodeColorOpacity(p, kernel.Color{}); err != nil {
			return nil, err
		}
		return newLayerEffectFilter("satin", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.SatinU8(b, sp)
		}), nil
	})

	r.Register("stroke", func(p map[string]any) (*Filter, error) {
		var sp kernel.StrokeParams
		var err error
		if sp.Width, err = getInt(p, "width", 1); err != nil {
			return nil, paramErr("stroke", "width", err)
		}
		posStr, err := getString(p, "position", "outside")
		if err != nil {
			return nil, paramErr("stroke", "position", err)
		}
		switch posStr {
		case "outside":
			sp.Position = kernel.StrokeOutside
		case "inside":
			sp.Position = kernel.StrokeInside
		case "center":
			sp.Position = kernel.StrokeCenter
		default:
			return nil, paramErr("stroke", "position", errUnknownPreset)
		}
		if sp.Color, sp.Opacity, err = decodeColorOpacity(p, kernel.Color{}); err != nil {
			return nil, err
		}
		return newLayerEffectFilter("stroke", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.StrokeU8(b, sp)
		}), nil
	})

	r.Register("color_overlay", func(p map[string]any) (*Filter, error) {
		c, opacity, err := decodeColorOpacity(p, kernel.Color{})
		if err != nil {
			return nil, err
		}
		return newLayerEffectFilter("color_overlay", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.ColorOverlayU8(b, c, opacity)
		}), nil
	})

	r.Register("gradient_overlay", func(p map[string]any) (*Filter, error) {
		gp, err := decodeGradientParams(p)
		if err != nil {
			return nil, err
		}
		return newLayerEffectFilter("gradient_overlay", p, func(b *raster.Buffer) (*raster.Buffer, error) {
			return kernel.GradientOverlayU8(b, gp)
		}), nil
	})

	registerPatternOverlay(r)
}

func decodeGradientParams(p map[string]any) (kernel.GradientOverlayParams, error) {
	var gp kernel.GradientOverlayParams
	styleStr, err := getString(p, "style", "linear")
	if err != nil {
		return gp, paramErr("gradient_overlay", "style", err)
	}
	switch styleStr {
	case "linear":
		gp.Style = kernel.GradientLinear
	case "radial":
		gp.Style = kernel.GradientRadial
	case "angle":
		gp.Style = kernel.GradientAngle
	case "reflected":
		gp.Style = kernel.GradientReflected
	case "diamond":
		gp.Style = kernel.GradientDiamond
	default:
		return gp, paramErr("gradient_overlay", "style", errUnknownPreset)
	}
	if gp.Reverse, err = getBool(p, "reverse", false); err != nil {
		return gp, paramErr("gradient_overlay", "reverse", err)
	}
	if gp.AngleRad, err = getFloat(p, "angle_rad", 0); err != nil {
		return gp, paramErr("gradient_overlay", "angle_rad", err)
	}
	if gp.Opacity, err = getFloat(p, "opacity", 1); err != nil {
		return gp, paramErr("gradient_overlay", "opacity", err)
	}
	raw, ok := p["stops"]
	if !ok {
		return gp, paramErr("gradient_overlay", "stops", errMissingStops)
	}
	stops, ok := raw.([]any)
	if !ok || len(stops) == 0 {
		return gp, paramErr("gradient_overlay", "stops", errMissingStops)
	}
	for _, s := range stops {
		m, ok := s.(map[string]any)
		if !ok {
			return gp, paramErr("gradient_overlay", "stops", errMissingStops)
		}
		offset, err := getFloat(m, "offset", 0)
		if err != nil {
			return gp, paramErr("gradient_overlay", "stops.offset", err)
		}
		c, err := getColor(m, "color", kernel.Color{})
		if err != nil {
			return gp, paramErr("gradient_overlay", "stops.color", err)
		}
		gp.Stops = append(gp.Stops, kernel.GradientStop{Offset: offset, Color: c})
	}
	return gp, nil
}

const patternPort = "pattern"

func registerPatternOverlay(r *Registry) {
	r.Register("pattern_overlay", func(p map[string]any) (*Filter, error) {
		offsetX, err := getInt(p, "offset_x", 0)
		if err != nil {
			return nil, paramErr("pattern_overlay", "offset_x", err)
		}
		offsetY, err := getInt(p, "offset_y", 0)
		if err != nil {
			return nil, paramErr("pattern_overlay", "offset_y", err)
		}
		scale, err := getFloat(p, "scale", 1)
		if err != nil {
			return nil, paramErr("pattern_overlay", "scale", err)
		}
		opacity, err := getFloat(p, "opacity", 1)
		if err != nil {
			return nil, paramErr("pattern_overlay", "opacity", err)
		}
		f := &Filter{
			Kind: "pattern_overlay", Params: p, Native: rgbaOnly, Preserve: false,
			Ports: PortSchema{
				Inputs: []PortDef{
					{Name: DefaultInputPort, Kind: ValueImage, Required: true},
					{Name: patternPort, Kind: ValueImage, Required: true},
				},
				Outputs: []PortDef{{Name: DefaultOutputPort, Kind: ValueImage}},
			},
		}
		f.applyMulti = func(ctx context.Context, inputs map[string]Value) (map[string]Value, error) {
			img, err := inputs[DefaultInputPort].Image.Pixels()
			if err != nil {
				return nil, err
			}
			img, err = adaptToNative(img, rgbaOnly)
			if err != nil {
				return nil, fmt.Errorf("pattern_overlay.apply: %w", err)
			}
			pattern, err := inputs[patternPort].Image.Pixels()
			if err != nil {
				return nil, err
			}
			pattern, err = adaptToNative(pattern, rgbaOnly)
			if err != nil {
				return nil, fmt.Errorf("pattern_overlay.apply: %w", err)
			}
			out, err := kernel.PatternOverlayU8(img, pattern, offsetX, offsetY, scale, opacity)
			if err != nil {
				return nil, err
			}
			return map[string]Value{DefaultOutputPort: ImageValue(rimage.NewRaw(out))}, nil
		}
		return f, nil
	})
}
