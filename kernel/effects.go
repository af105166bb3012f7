package kernel

import (
	"math"

	"github.com/pixelforge/imagegraph/raster"
)

// Color is a straight (non-premultiplied) RGB color in [0,1].
type Color struct{ R, G, B float64 }

// DropShadowParams configures DropShadowU8 per the layer-effects glossary.
type DropShadowParams struct {
	Spread      int
	Sigma       float64
	Distance    float64
	AngleRad    float64
	Color       Color
	Opacity     float64
}

func offsetCanvasU8(alpha *raster.Buffer, dx, dy, padL, padT, outW, outH int) *raster.Buffer {
	out := raster.NewU8(outW, outH, raster.GRAY)
	src := alpha.U8()
	dst := out.U8()
	for y := 0; y < alpha.H; y++ {
		ty := y + dy + padT
		if ty < 0 || ty >= outH {
			continue
		}
		for x := 0; x < alpha.W; x++ {
			tx := x + dx + padL
			if tx < 0 || tx >= outW {
				continue
			}
			dst[ty*outW+tx] = src[y*alpha.W+x]
		}
	}
	return out
}

func expandCanvasRGBA(img *raster.Buffer, padL, padT, outW, outH int) *raster.Buffer {
	out := raster.NewU8(outW, outH, raster.RGBA)
	src := img.U8()
	dst := out.U8()
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			s := (y*img.W + x) * 4
			d := ((y+padT)*outW + (x + padL)) * 4
			copy(dst[d:d+4], src[s:s+4])
		}
	}
	return out
}

func colorLayerFromAlpha(alpha *raster.Buffer, c Color, opacity float64) *raster.Buffer {
	out := raster.NewU8(alpha.W, alpha.H, raster.RGBA)
	a := alpha.U8()
	dst := out.U8()
	for i := 0; i < alpha.W*alpha.H; i++ {
		af := float64(a[i]) / 255 * opacity
		dst[i*4] = clampU8Float64(c.R * 255)
		dst[i*4+1] = clampU8Float64(c.G * 255)
		dst[i*4+2] = clampU8Float64(c.B * 255)
		dst[i*4+3] = clampU8Float64(af * 255)
	}
	return out
}

// DropShadowU8 implements the drop-shadow effect: extract alpha, optional
// dilate by spread, Gaussian blur, offset by (distance*cosθ, distance*sinθ),
// expand the canvas to fit, write color*blurred_alpha*opacity, then
// composite the original on top.
func DropShadowU8(img *raster.Buffer, p DropShadowParams) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	a, err := ExtractAlphaU8(rgba)
	if err != nil {
		return nil, err
	}
	if p.Spread > 0 {
		a, err = AlphaDilateU8(a, p.Spread, EdgeZero)
		if err != nil {
			return nil, err
		}
	}
	blurred, err := GaussianBlurU8(a, p.Sigma, EdgeZero)
	if err != nil {
		return nil, err
	}
	dx := int(math.Round(p.Distance * math.Cos(p.AngleRad)))
	dy := int(math.Round(p.Distance * math.Sin(p.AngleRad)))
	pad := int(math.Ceil(3*p.Sigma)) + int(math.Ceil(math.Abs(p.Distance))) + 2
	outW, outH := rgba.W+2*pad, rgba.H+2*pad
	shifted := offsetCanvasU8(blurred, dx, dy, pad, pad, outW, outH)
	shadow := colorLayerFromAlpha(shifted, p.Color, p.Opacity)
	original := expandCanvasRGBA(rgba, pad, pad, outW, outH)
	return BlendU8(shadow, original, BlendNormal, 1.0)
}

// InnerShadowParams configures InnerShadowU8.
type InnerShadowParams struct {
	Choke    int
	Sigma    float64
	Distance float64
	AngleRad float64
	Color    Color
	Opacity  float64
}

func invertGrayU8(buf *raster.Buffer) *raster.Buffer {
	out := buf.Clone()
	px := out.U8()
	for i := range px {
		px[i] = 255 - px[i]
	}
	return out
}

// InnerShadowU8 implements: invert alpha, dilate by choke, Gaussian blur,
// offset, mask with original alpha, composite color*shadow*opacity.
func InnerShadowU8(img *raster.Buffer, p InnerShadowParams) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	a, err := ExtractAlphaU8(rgba)
	if err != nil {
		return nil, err
	}
	inv := invertGrayU8(a)
	if p.Choke > 0 {
		inv, err = AlphaDilateU8(inv, p.Choke, EdgeClamp)
		if err != nil {
			return nil, err
		}
	}
	blurred, err := GaussianBlurU8(inv, p.Sigma, EdgeClamp)
	if err != nil {
		return nil, err
	}
	dx := int(math.Round(p.Distance * math.Cos(p.AngleRad)))
	dy := int(math.Round(p.Distance * math.Sin(p.AngleRad)))
	shifted := offsetCanvasU8(blurred, dx, dy, 0, 0, rgba.W, rgba.H)
	masked := maskWithAlphaU8(shifted, a)
	shadow := colorLayerFromAlpha(masked, p.Color, p.Opacity)
	return BlendU8(rgba, shadow, BlendNormal, 1.0)
}

func maskWithAlphaU8(mask, alpha *raster.Buffer) *raster.Buffer {
	out := mask.Clone()
	m, a := mask.U8(), alpha.U8()
	dst := out.U8()
	for i := range dst {
		dst[i] = uint8(uint32(m[i]) * uint32(a[i]) / 255)
	}
	return out
}

// OuterGlowParams configures OuterGlowU8.
type OuterGlowParams struct {
	Spread  int
	Sigma   float64
	Color   Color
	Opacity float64
}

// OuterGlowU8 implements: extract alpha, dilate by spread, Gaussian blur,
// subtract original alpha, expand canvas, write color*mask*opacity,
// composite original on top using "screen".
func OuterGlowU8(img *raster.Buffer, p OuterGlowParams) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	a, err := ExtractAlphaU8(rgba)
	if err != nil {
		return nil, err
	}
	dilated := a
	if p.Spread > 0 {
		dilated, err = AlphaDilateU8(a, p.Spread, EdgeZero)
		if err != nil {
			return nil, err
		}
	}
	blurred, err := GaussianBlurU8(dilated, p.Sigma, EdgeZero)
	if err != nil {
		return nil, err
	}
	pad := int(math.Ceil(3*p.Sigma)) + 2
	outW, outH := rgba.W+2*pad, rgba.H+2*pad
	blurredExp := offsetCanvasU8(blurred, 0, 0, pad, pad, outW, outH)
	aExp := offsetCanvasU8(a, 0, 0, pad, pad, outW, outH)
	mask := subtractU8(blurredExp, aExp)
	glow := colorLayerFromAlpha(mask, p.Color, p.Opacity)
	original := expandCanvasRGBA(rgba, pad, pad, outW, outH)
	return BlendU8(glow, original, BlendScreen, 1.0)
}

// InnerGlowParams configures InnerGlowU8.
type InnerGlowParams struct {
	Choke   int
	Sigma   float64
	Color   Color
	Opacity float64
}

// InnerGlowU8 implements: erode alpha by choke, Gaussian blur, compute
// original - blurred, screen-blend color*mask*opacity.
func InnerGlowU8(img *raster.Buffer, p InnerGlowParams) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	a, err := ExtractAlphaU8(rgba)
	if err != nil {
		return nil, err
	}
	eroded := a
	if p.Choke > 0 {
		eroded, err = AlphaErodeU8(a, p.Choke, EdgeClamp)
		if err != nil {
			return nil, err
		}
	}
	blurred, err := GaussianBlurU8(eroded, p.Sigma, EdgeClamp)
	if err != nil {
		return nil, err
	}
	mask := subtractU8(a, blurred)
	glow := colorLayerFromAlpha(mask, p.Color, p.Opacity)
	return BlendU8(rgba, glow, BlendScreen, 1.0)
}

// BevelStyle selects a Bevel & Emboss variant.
type BevelStyle int

const (
	BevelInner BevelStyle = iota
	BevelOuter
	BevelEmboss
	BevelPillowEmboss
)

// BevelEmbossParams configures BevelEmbossU8.
type BevelEmbossParams struct {
	Style    BevelStyle
	Sigma    float64
	AngleRad float64
	Altitude float64
	Depth    float64
}

// BevelEmbossU8 computes an alpha gradient (central differences), blurs
// it, and shades it against light direction L = (cosθcosφ, sinθcosφ,
// sinφ): n·L positive is a highlight, negative a shadow.
func BevelEmbossU8(img *raster.Buffer, p BevelEmbossParams) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	a, err := ExtractAlphaU8(rgba)
	if err != nil {
		return nil, err
	}
	blurred, err := GaussianBlurU8(a, p.Sigma, EdgeClamp)
	if err != nil {
		return nil, err
	}
	w, h := blurred.W, blurred.H
	px := blurred.U8()
	lx := math.Cos(p.AngleRad) * math.Cos(p.Altitude)
	ly := math.Sin(p.AngleRad) * math.Cos(p.Altitude)
	lz := math.Sin(p.Altitude)

	out := raster.NewU8(w, h, raster.GRAY)
	dst := out.U8()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, _ := clampIndex(x-1, w, EdgeClamp)
			x1, _ := clampIndex(x+1, w, EdgeClamp)
			y0, _ := clampIndex(y-1, h, EdgeClamp)
			y1, _ := clampIndex(y+1, h, EdgeClamp)
			gx := (float64(px[y*w+x1]) - float64(px[y*w+x0])) / 255 * p.Depth
			gy := (float64(px[y1*w+x]) - float64(px[y0*w+x])) / 255 * p.Depth
			nlen := math.Sqrt(gx*gx + gy*gy + 1)
			nx, ny, nz := -gx/nlen, -gy/nlen, 1/nlen
			shade := nx*lx + ny*ly + nz*lz
			var v float64
			switch p.Style {
			case BevelEmboss, BevelPillowEmboss:
				v = 128 + shade*127
			default:
				v = 128 + shade*127
			}
			dst[y*w+x] = clampU8Float64(v)
		}
	}
	return out, nil
}

// SatinParams configures SatinU8.
type SatinParams struct {
	Distance1, AngleRad1, Sigma1 float64
	Distance2, AngleRad2, Sigma2 float64
	Invert                       bool
	Color                        Color
	Opacity                      float64
}

// SatinU8 produces two offset-and-blurred copies of alpha, computes
// |A-B|, optionally inverts, masks with original alpha, and composites
// with color.
func SatinU8(img *raster.Buffer, p SatinParams) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	a, err := ExtractAlphaU8(rgba)
	if err != nil {
		return nil, err
	}
	b1, err := GaussianBlurU8(a, p.Sigma1, EdgeClamp)
	if err != nil {
		return nil, err
	}
	dx1 := int(math.Round(p.Distance1 * math.Cos(p.AngleRad1)))
	dy1 := int(math.Round(p.Distance1 * math.Sin(p.AngleRad1)))
	s1 := offsetCanvasU8(b1, dx1, dy1, 0, 0, rgba.W, rgba.H)

	b2, err := GaussianBlurU8(a, p.Sigma2, EdgeClamp)
	if err != nil {
		return nil, err
	}
	dx2 := int(math.Round(p.Distance2 * math.Cos(p.AngleRad2)))
	dy2 := int(math.Round(p.Distance2 * math.Sin(p.AngleRad2)))
	s2 := offsetCanvasU8(b2, dx2, dy2, 0, 0, rgba.W, rgba.H)

	diff := absDiffU8(s1, s2)
	if p.Invert {
		diff = invertGrayU8(diff)
	}
	masked := maskWithAlphaU8(diff, a)
	layer := colorLayerFromAlpha(masked, p.Color, p.Opacity)
	return BlendU8(rgba, layer, BlendNormal, 1.0)
}

func absDiffU8(a, b *raster.Buffer) *raster.Buffer {
	out := a.Clone()
	da, db := a.U8(), b.U8()
	dst := out.U8()
	for i := range dst {
		if da[i] > db[i] {
			dst[i] = da[i] - db[i]
		} else {
			dst[i] = db[i] - da[i]
		}
	}
	return out
}

// StrokePosition selects where a stroke effect's band sits relative to
// the alpha boundary.
type StrokePosition int

const (
	StrokeOutside StrokePosition = iota
	StrokeInside
	StrokeCenter
)

// StrokeParams configures StrokeU8.
type StrokeParams struct {
	Width    int
	Position StrokePosition
	Color    Color
	Opacity  float64
}

// StrokeU8 dilates/erodes alpha to produce a band mask at the requested
// position, expanding the canvas only when the band extends outside the
// original alpha.
func StrokeU8(img *raster.Buffer, p StrokeParams) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	a, err := ExtractAlphaU8(rgba)
	if err != nil {
		return nil, err
	}

	pad := 0
	if p.Position != StrokeInside {
		pad = p.Width + 1
	}
	outW, outH := rgba.W+2*pad, rgba.H+2*pad
	aExp := offsetCanvasU8(a, 0, 0, pad, pad, outW, outH)

	var band *raster.Buffer
	switch p.Position {
	case StrokeOutside:
		dilated, err := AlphaDilateU8(aExp, p.Width, EdgeZero)
		if err != nil {
			return nil, err
		}
		band = subtractU8(dilated, aExp)
	case StrokeInside:
		eroded, err := AlphaErodeU8(aExp, p.Width, EdgeClamp)
		if err != nil {
			return nil, err
		}
		band = subtractU8(aExp, eroded)
	default: // center
		half := p.Width / 2
		dilated, err := AlphaDilateU8(aExp, half, EdgeZero)
		if err != nil {
			return nil, err
		}
		eroded, err := AlphaErodeU8(aExp, p.Width-half, EdgeClamp)
		if err != nil {
			return nil, err
		}
		band = subtractU8(dilated, eroded)
	}

	layer := colorLayerFromAlpha(band, p.Color, p.Opacity)
	original := expandCanvasRGBA(rgba, pad, pad, outW, outH)
	return BlendU8(layer, original, BlendNormal, 1.0)
}

// ColorOverlayU8 replaces RGB within the alpha mask, leaving alpha intact.
func ColorOverlayU8(img *raster.Buffer, c Color, opacity float64) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := rgba.Clone()
	px := out.U8()
	for i := 0; i < out.W*out.H; i++ {
		base := i * 4
		a := float64(px[base+3]) / 255 * opacity
		px[base] = clampU8Float64(c.R*255*a + float64(px[base])*(1-a))
		px[base+1] = clampU8Float64(c.G*255*a + float64(px[base+1])*(1-a))
		px[base+2] = clampU8Float64(c.B*255*a + float64(px[base+2])*(1-a))
	}
	return out, nil
}

// GradientStyle selects a gradient-overlay shape.
type GradientStyle int

const (
	GradientLinear GradientStyle = iota
	GradientRadial
	GradientAngle
	GradientReflected
	GradientDiamond
)

// GradientStop is one color stop in a gradient-overlay ramp.
type GradientStop struct {
	Offset float64 // 0..1
	Color  Color
}

// GradientOverlayParams configures GradientOverlayU8.
type GradientOverlayParams struct {
	Style   GradientStyle
	Stops   []GradientStop
	Reverse bool
	AngleRad float64
	Opacity float64
}

func sampleGradient(stops []GradientStop, t float64, reverse bool) Color {
	if reverse {
		t = 1 - t
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	if t >= stops[len(stops)-1].Offset {
		return stops[len(stops)-1].Color
	}
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if t >= a.Offset && t <= b.Offset {
			f := (t - a.Offset) / (b.Offset - a.Offset)
			return Color{
				R: a.Color.R + (b.Color.R-a.Color.R)*f,
				G: a.Color.G + (b.Color.G-a.Color.G)*f,
				B: a.Color.B + (b.Color.B-a.Color.B)*f,
			}
		}
	}
	return stops[len(stops)-1].Color
}

// GradientOverlayU8 replaces RGB within the alpha mask with a gradient
// ramp sampled per the requested style.
func GradientOverlayU8(img *raster.Buffer, p GradientOverlayParams) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := rgba.Clone()
	px := out.U8()
	w, h := out.W, out.H
	cx, cy := float64(w)/2, float64(h)/2
	maxD := math.Hypot(cx, cy)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			var t float64
			switch p.Style {
			case GradientRadial:
				t = math.Hypot(dx, dy) / maxD
			case GradientAngle:
				t = (math.Atan2(dy, dx) + math.Pi) / (2 * math.Pi)
			case GradientReflected:
				proj := dx*math.Cos(p.AngleRad) + dy*math.Sin(p.AngleRad)
				t = math.Abs(proj) / maxD
			case GradientDiamond:
				t = (math.Abs(dx) + math.Abs(dy)) / (math.Abs(cx) + math.Abs(cy))
			default: // linear
				proj := dx*math.Cos(p.AngleRad) + dy*math.Sin(p.AngleRad)
				t = (proj/maxD + 1) / 2
			}
			t = clamp01(t)
			col := sampleGradient(p.Stops, t, p.Reverse)
			base := (y*w + x) * 4
			af := float64(px[base+3]) / 255 * p.Opacity
			px[base] = clampU8Float64(col.R*255*af + float64(px[base])*(1-af))
			px[base+1] = clampU8Float64(col.G*255*af + float64(px[base+1])*(1-af))
			px[base+2] = clampU8Float64(col.B*255*af + float64(px[base+2])*(1-af))
		}
	}
	return out, nil
}

// PatternOverlayU8 tiles pattern across img's RGBA canvas with an integer
// offset and scale, composited within the alpha mask.
func PatternOverlayU8(img, pattern *raster.Buffer, offsetX, offsetY int, scale float64, opacity float64) (*raster.Buffer, error) {
	rgba, err := img.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	pat, err := pattern.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 1
	}
	out := rgba.Clone()
	dst := out.U8()
	pp := pat.U8()
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			px := int(float64(x-offsetX)/scale) % pat.W
			py := int(float64(y-offsetY)/scale) % pat.H
			if px < 0 {
				px += pat.W
			}
			if py < 0 {
				py += pat.H
			}
			sBase := (py*pat.W + px) * 4
			dBase := (y*out.W + x) * 4
			af := float64(dst[dBase+3]) / 255 * opacity
			dst[dBase] = clampU8Float64(float64(pp[sBase])*af + float64(dst[dBase])*(1-af))
			dst[dBase+1] = clampU8Float64(float64(pp[sBase+1])*af + float64(dst[dBase+1])*(1-af))
			dst[dBase+2] = clampU8Float64(float64(pp[sBase+2])*af + float64(dst[dBase+2])*(1-af))
		}
	}
	return out, nil
}
