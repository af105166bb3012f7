package kernel

import (
	"fmt"
	"math"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

// BlendMode names one of the compositing formulas from the blend-mode
// glossary. All formulas operate on normalized [0,1] channel values.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendAdd
	BlendSubtract
	BlendDivide
	BlendDarkerColor
	BlendLighterColor
	BlendLinearBurn
	BlendLinearDodge
	BlendVividLight
	BlendLinearLight
	BlendPinLight
	BlendHardMix
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

var blendModeNames = map[string]BlendMode{
	"normal": BlendNormal, "multiply": BlendMultiply, "screen": BlendScreen,
	"overlay": BlendOverlay, "darken": BlendDarken, "lighten": BlendLighten,
	"color_dodge": BlendColorDodge, "color_burn": BlendColorBurn,
	"hard_light": BlendHardLight, "soft_light": BlendSoftLight,
	"difference": BlendDifference, "exclusion": BlendExclusion,
	"add": BlendAdd, "subtract": BlendSubtract, "divide": BlendDivide,
	"darker_color": BlendDarkerColor, "lighter_color": BlendLighterColor,
	"linear_burn": BlendLinearBurn, "linear_dodge": BlendLinearDodge,
	"vivid_light": BlendVividLight, "linear_light": BlendLinearLight,
	"pin_light": BlendPinLight, "hard_mix": BlendHardMix,
	"hue": BlendHue, "saturation": BlendSaturation, "color": BlendColor,
	"luminosity": BlendLuminosity,
}

// ParseBlendMode resolves the glossary's textual mode name.
func ParseBlendMode(name string) (BlendMode, error) {
	m, ok := blendModeNames[name]
	if !ok {
		return 0, engerr.New(engerr.InvalidArgument, "kernel.parse_blend_mode", engerr.ErrUnknownBlendMode)
	}
	return m, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func blendChannel(mode BlendMode, cb, cs float64) float64 {
	switch mode {
	case BlendNormal:
		return cs
	case BlendMultiply:
		return cb * cs
	case BlendScreen:
		return cb + cs - cb*cs
	case BlendOverlay:
		return blendChannel(BlendHardLight, cs, cb)
	case BlendDarken:
		return math.Min(cb, cs)
	case BlendLighten:
		return math.Max(cb, cs)
	case BlendColorDodge:
		if cb == 0 {
			return 0
		}
		if cs == 1 {
			return 1
		}
		return math.Min(1, cb/(1-cs))
	case BlendColorBurn:
		if cb == 1 {
			return 1
		}
		if cs == 0 {
			return 0
		}
		return 1 - math.Min(1, (1-cb)/cs)
	case BlendHardLight:
		if cs <= 0.5 {
			return blendChannel(BlendMultiply, cb, 2*cs)
		}
		return blendChannel(BlendScreen, cb, 2*cs-1)
	case BlendSoftLight:
		if cs <= 0.5 {
			return cb - (1-2*cs)*cb*(1-cb)
		}
		var d float64
		if cb <= 0.25 {
			d = ((16*cb-12)*cb + 4) * cb
		} else {
			d = math.Sqrt(cb)
		}
		return cb + (2*cs-1)*(d-cb)
	case BlendDifference:
		return math.Abs(cb - cs)
	case BlendExclusion:
		return cb + cs - 2*cb*cs
	case BlendAdd:
		return clamp01(cb + cs)
	case BlendSubtract:
		return clamp01(cb - cs)
	case BlendDivide:
		if cs == 0 {
			return 1
		}
		return clamp01(cb / cs)
	case BlendLinearBurn:
		return clamp01(cb + cs - 1)
	case BlendLinearDodge:
		return clamp01(cb + cs)
	case BlendVividLight:
		if cs <= 0.5 {
			return blendChannel(BlendColorBurn, cb, 2*cs)
		}
		return blendChannel(BlendColorDodge, cb, 2*cs-1)
	case BlendLinearLight:
		return clamp01(cb + 2*cs - 1)
	case BlendPinLight:
		if cs <= 0.5 {
			return math.Min(cb, 2*cs)
		}
		return math.Max(cb, 2*cs-1)
	case BlendHardMix:
		if blendChannel(BlendVividLight, cb, cs) < 0.5 {
			return 0
		}
		return 1
	default:
		return cs
	}
}

// lumaOf and clipColor implement the non-separable HSL blend modes
// (hue, saturation, color, luminosity) per the standard Porter-Duff/PDF
// compositing formulas.
func lumaOf(r, g, b float64) float64 { return 0.3*r + 0.59*g + 0.11*b }

func clipColor(r, g, b float64) (float64, float64, float64) {
	l := lumaOf(r, g, b)
	n := math.Min(r, math.Min(g, b))
	x := math.Max(r, math.Max(g, b))
	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

func setLuma(r, g, b, l float64) (float64, float64, float64) {
	d := l - lumaOf(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

func satOf(r, g, b float64) float64 {
	return math.Max(r, math.Max(g, b)) - math.Min(r, math.Min(g, b))
}

func setSat(r, g, b, s float64) (float64, float64, float64) {
	vals := []float64{r, g, b}
	minI, maxI := 0, 0
	for i, v := range vals {
		if v < vals[minI] {
			minI = i
		}
		if v > vals[maxI] {
			maxI = i
		}
	}
	midI := 3 - minI - maxI
	if minI == maxI {
		return 0, 0, 0
	}
	if vals[maxI] > vals[minI] {
		vals[midI] = (vals[midI] - vals[minI]) * s / (vals[maxI] - vals[minI])
		vals[maxI] = s
	} else {
		vals[midI] = 0
		vals[maxI] = 0
	}
	vals[minI] = 0
	return vals[0], vals[1], vals[2]
}

func blendPixelRGB(mode BlendMode, br, bg, bb, sr, sg, sb float64) (float64, float64, float64) {
	switch mode {
	case BlendDarkerColor:
		if lumaOf(sr, sg, sb) < lumaOf(br, bg, bb) {
			return sr, sg, sb
		}
		return br, bg, bb
	case BlendLighterColor:
		if lumaOf(sr, sg, sb) > lumaOf(br, bg, bb) {
			return sr, sg, sb
		}
		return br, bg, bb
	case BlendHue:
		r, g, b := setSat(sr, sg, sb, satOf(br, bg, bb))
		return setLuma(r, g, b, lumaOf(br, bg, bb))
	case BlendSaturation:
		r, g, b := setSat(br, bg, bb, satOf(sr, sg, sb))
		return setLuma(r, g, b, lumaOf(br, bg, bb))
	case BlendColor:
		return setLuma(sr, sg, sb, lumaOf(br, bg, bb))
	case BlendLuminosity:
		return setLuma(br, bg, bb, lumaOf(sr, sg, sb))
	default:
		return blendChannel(mode, br, sr), blendChannel(mode, bg, sg), blendChannel(mode, bb, sb)
	}
}

func isNonSeparable(mode BlendMode) bool {
	switch mode {
	case BlendDarkerColor, BlendLighterColor, BlendHue, BlendSaturation, BlendColor, BlendLuminosity:
		return true
	default:
		return false
	}
}

// BlendU8 composites src over base using mode, then applies the result
// with Porter-Duff "over" weighted by src's alpha (or opaque if src has no
// alpha channel). base and src must share dimensions.
func BlendU8(base, src *raster.Buffer, mode BlendMode, opacity float64) (*raster.Buffer, error) {
	if base.W != src.W || base.H != src.H {
		return nil, engerr.New(engerr.ShapeMismatch, "kernel.blend", fmt.Errorf("base and src dimensions differ"))
	}
	baseRGBA, err := base.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	srcRGBA, err := src.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := baseRGBA.Clone()
	bp, sp, dp := baseRGBA.U8(), srcRGBA.U8(), out.U8()
	n := out.W * out.H
	for i := 0; i < n; i++ {
		off := i * 4
		br, bg, bb := float64(bp[off])/255, float64(bp[off+1])/255, float64(bp[off+2])/255
		sr, sg, sb := float64(sp[off])/255, float64(sp[off+1])/255, float64(sp[off+2])/255
		sa := float64(sp[off+3]) / 255 * opacity
		var rr, rg, rb float64
		if isNonSeparable(mode) {
			rr, rg, rb = blendPixelRGB(mode, br, bg, bb, sr, sg, sb)
		} else {
			rr = blendChannel(mode, br, sr)
			rg = blendChannel(mode, bg, sg)
			rb = blendChannel(mode, bb, sb)
		}
		dp[off] = clampU8Float64((rr*sa + br*(1-sa)) * 255)
		dp[off+1] = clampU8Float64((rg*sa + bg*(1-sa)) * 255)
		dp[off+2] = clampU8Float64((rb*sa + bb*(1-sa)) * 255)
		dp[off+3] = clampU8Float64((float64(bp[off+3])/255 + sa*(1-float64(bp[off+3])/255)) * 255)
	}
	return out.Convert(base.Format())
}

// BlendF32 is the F32 counterpart.
func BlendF32(base, src *raster.Buffer, mode BlendMode, opacity float32) (*raster.Buffer, error) {
	if base.W != src.W || base.H != src.H {
		return nil, engerr.New(engerr.ShapeMismatch, "kernel.blend", fmt.Errorf("base and src dimensions differ"))
	}
	baseRGBA, err := base.Convert(raster.Format{Element: raster.F32, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	srcRGBA, err := src.Convert(raster.Format{Element: raster.F32, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := baseRGBA.Clone()
	bp, sp, dp := baseRGBA.F32(), srcRGBA.F32(), out.F32()
	n := out.W * out.H
	for i := 0; i < n; i++ {
		off := i * 4
		br, bg, bb := float64(bp[off]), float64(bp[off+1]), float64(bp[off+2])
		sr, sg, sb := float64(sp[off]), float64(sp[off+1]), float64(sp[off+2])
		sa := float64(sp[off+3]) * float64(opacity)
		var rr, rg, rb float64
		if isNonSeparable(mode) {
			rr, rg, rb = blendPixelRGB(mode, br, bg, bb, sr, sg, sb)
		} else {
			rr = blendChannel(mode, br, sr)
			rg = blendChannel(mode, bg, sg)
			rb = blendChannel(mode, bb, sb)
		}
		dp[off] = float32(rr*sa + br*(1-sa))
		dp[off+1] = float32(rg*sa + bg*(1-sa))
		dp[off+2] = float32(rb*sa + bb*(1-sa))
		dp[off+3] = float32(float64(bp[off+3]) + sa*(1-float64(bp[off+3])))
	}
	return out.Convert(base.Format())
}
