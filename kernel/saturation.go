package kernel

import "github.com/pixelforge/imagegraph/raster"

// SaturationU8 scales the color saturation of an RGB-family image by
// factor (1.0 = unchanged, 0.0 = grayscale), computed by blending each
// channel toward that pixel's luminosity.
func SaturationU8(buf *raster.Buffer, factor float64) (*raster.Buffer, error) {
	rgba, err := buf.Convert(raster.Format{Element: raster.U8, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := rgba.Clone()
	n := out.W * out.H
	px := out.U8()
	for i := 0; i < n; i++ {
		base := i * 4
		r, g, b := px[base], px[base+1], px[base+2]
		gray := float64(raster.GrayLuminosityU8(r, g, b))
		px[base] = saturate(r, gray, factor)
		px[base+1] = saturate(g, gray, factor)
		px[base+2] = saturate(b, gray, factor)
	}
	return out.Convert(buf.Format())
}

func saturate(v uint8, gray, factor float64) uint8 {
	x := gray + (float64(v)-gray)*factor
	return clampU8Float64(x)
}

// SaturationF32 is the F32 counterpart over [0,1].
func SaturationF32(buf *raster.Buffer, factor float32) (*raster.Buffer, error) {
	rgba, err := buf.Convert(raster.Format{Element: raster.F32, Layout: raster.RGBA})
	if err != nil {
		return nil, err
	}
	out := rgba.Clone()
	n := out.W * out.H
	px := out.F32()
	for i := 0; i < n; i++ {
		base := i * 4
		r, g, b := px[base], px[base+1], px[base+2]
		gray := raster.GrayLuminosityF32(r, g, b)
		px[base] = gray + (r-gray)*factor
		px[base+1] = gray + (g-gray)*factor
		px[base+2] = gray + (b-gray)*factor
	}
	return out.Convert(buf.Format())
}
