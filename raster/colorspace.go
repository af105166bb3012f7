package raster

import "github.com/chewxy/math32"

// Luminosity weights per the ITU-R BT.709 coefficients used throughout the
// kernel library's grayscale and luminance-dependent blend modes.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

func grayLuminosityU8(r, g, b uint8) uint8 {
	v := lumR*float64(r) + lumG*float64(g) + lumB*float64(b)
	return clampToU8(float32(v) / 255.0)
}

func grayLuminosityF32(r, g, b float32) float32 {
	return float32(lumR)*r + float32(lumG)*g + float32(lumB)*b
}

// hsvToRGBu8 converts H (0-255 representing 0-360deg), S (0-255), V (0-255)
// to RGB in the same U8 range.
func hsvToRGBu8(h, s, v uint8) (r, g, b uint8) {
	hf := float64(h) / 255.0 * 360.0
	sf := float64(s) / 255.0
	vf := float64(v) / 255.0
	rf, gf, bf := hsvToRGBFloat(hf, sf, vf)
	return clampToU8(float32(rf)), clampToU8(float32(gf)), clampToU8(float32(bf))
}

func rgbToHSVu8(r, g, b uint8) (h, s, v uint8) {
	hf, sf, vf := rgbToHSVFloat(float64(r)/255.0, float64(g)/255.0, float64(b)/255.0)
	toU8 := func(x float64) uint8 { return clampToU8(float32(x)) }
	return toU8(hf / 360.0), toU8(sf), toU8(vf)
}

func hsvToRGBf32(h, s, v float32) (r, g, b float32) {
	hf, sf, vf := float64(h)*360.0, float64(s), float64(v)
	rf, gf, bf := hsvToRGBFloat(hf, sf, vf)
	return float32(rf), float32(gf), float32(bf)
}

func rgbToHSVf32(r, g, b float32) (h, s, v float32) {
	hf, sf, vf := rgbToHSVFloat(float64(r), float64(g), float64(b))
	return float32(hf / 360.0), float32(sf), float32(vf)
}

// GrayAverageU8 implements the "average" grayscale method: (R+G+B)/3,
// distinct from the luminosity-weighted method used by layout conversion.
func GrayAverageU8(r, g, b uint8) uint8 {
	return uint8((uint16(r) + uint16(g) + uint16(b)) / 3)
}

// GrayAverageF32 is the F32 counterpart of GrayAverageU8.
func GrayAverageF32(r, g, b float32) float32 {
	return (r + g + b) / 3.0
}

// GrayLuminosityU8 exports the luminosity grayscale formula for kernels.
func GrayLuminosityU8(r, g, b uint8) uint8 { return grayLuminosityU8(r, g, b) }

// GrayLuminosityF32 exports the luminosity grayscale formula for kernels.
func GrayLuminosityF32(r, g, b float32) float32 { return grayLuminosityF32(r, g, b) }

// hsvToRGBFloat and rgbToHSVFloat operate in float64 because they back
// only the lossless-layout-conversion path, not a performance-sensitive per-
// pixel kernel — the F32 Gaussian/bilateral blur, edge-magnitude, and
// gamma/log/sigmoid/posterize kernels use github.com/chewxy/math32 instead.
func hsvToRGBFloat(h, s, v float64) (r, g, b float64) {
	if s <= 0 {
		return v, v, v
	}
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	hh := h / 60.0
	i := int(hh)
	f := hh - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch i {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func rgbToHSVFloat(r, g, b float64) (h, s, v float64) {
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	v = max
	delta := max - min
	if max <= 0 {
		return 0, 0, v
	}
	s = delta / max
	if delta == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = 60 * math64Mod((g-b)/delta, 6)
	case g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func math64Mod(a, m float64) float64 {
	r := a
	for r < 0 {
		r += m
	}
	for r >= m {
		r -= m
	}
	return r
}

// f32Mod is the F32-native modulo used by per-pixel F32 kernels (keeps the
// float32 path off math.Mod/float64, protecting u8/f32 consistency).
func f32Mod(a, m float32) float32 {
	return a - math32.Floor(a/m)*m
}
