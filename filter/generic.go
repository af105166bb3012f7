package filter

import (
	"context"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

var allFormats = []raster.Format{
	{Element: raster.U8, Layout: raster.RGBA}, {Element: raster.U8, Layout: raster.RGB},
	{Element: raster.U8, Layout: raster.BGRA}, {Element: raster.U8, Layout: raster.BGR},
	{Element: raster.U8, Layout: raster.GRAY}, {Element: raster.U8, Layout: raster.HSV},
	{Element: raster.F32, Layout: raster.RGBA}, {Element: raster.F32, Layout: raster.RGB},
	{Element: raster.F32, Layout: raster.BGRA}, {Element: raster.F32, Layout: raster.BGR},
	{Element: raster.F32, Layout: raster.GRAY}, {Element: raster.F32, Layout: raster.HSV},
}

// rgbaOnly is the native-format set for layer effects and alpha ops, which
// require an alpha channel.
var rgbaOnly = []raster.Format{
	{Element: raster.U8, Layout: raster.RGBA},
	{Element: raster.F32, Layout: raster.RGBA},
}

// unaryFn pairs the U8 and F32 kernel entry points for one operation —
// every kernel op class exists in both variants with identical algorithmic
// structure, so every generic filter built from this pair automatically gets
// both.
type unaryFn struct {
	u8  func(*raster.Buffer) (*raster.Buffer, error)
	f32 func(*raster.Buffer) (*raster.Buffer, error)
}

// newUnaryFilter builds a single-input/single-output Filter: adapt to a
// native format, invoke the matching kernel variant, optionally convert the
// result back to the input's original format when Preserve is set.
func newUnaryFilter(kind string, params map[string]any, native []raster.Format, preserve bool, fn unaryFn) *Filter {
	f := &Filter{
		Kind: kind, Params: params, Native: native, Preserve: preserve,
		Ports: PortSchema{
			Inputs:  []PortDef{{Name: DefaultInputPort, Kind: ValueImage, Required: true}},
			Outputs: []PortDef{{Name: DefaultOutputPort, Kind: ValueImage}},
		},
	}
	f.applyMulti = func(ctx context.Context, inputs map[string]Value) (map[string]Value, error) {
		in := inputs[DefaultInputPort]
		buf, err := in.Image.Pixels()
		if err != nil {
			return nil, err
		}
		origFmt := buf.Format()
		adapted, err := adaptToNative(buf, native)
		if err != nil {
			return nil, engerr.Wrap(engerr.LayoutMismatch, kind+".apply", err)
		}
		var result *raster.Buffer
		if adapted.Elem == raster.U8 {
			result, err = fn.u8(adapted)
		} else {
			result, err = fn.f32(adapted)
		}
		if err != nil {
			return nil, err
		}
		result, err = restorePreserved(result, origFmt, preserve)
		if err != nil {
			return nil, err
		}
		return map[string]Value{DefaultOutputPort: ImageValue(rimage.NewRaw(result))}, nil
	}
	return f
}
