package filter

import (
	"context"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/kernel"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

const (
	blendBasePort = "base"
	blendSrcPort  = "src"
)

func registerBlendFilters(r *Registry) {
	r.Register("blend", func(p map[string]any) (*Filter, error) {
		modeStr, err := getString(p, "mode", "normal")
		if err != nil {
			return nil, paramErr("blend", "mode", err)
		}
		mode, err := kernel.ParseBlendMode(modeStr)
		if err != nil {
			return nil, engerr.Wrap(engerr.InvalidArgument, "blend.params", err)
		}
		opacity, err := getFloat(p, "opacity", 1)
		if err != nil {
			return nil, paramErr("blend", "opacity", err)
		}

		f := &Filter{
			Kind: "blend", Params: p, Native: rgbaOnly, Preserve: true,
			Ports: PortSchema{
				Inputs: []PortDef{
					{Name: blendBasePort, Kind: ValueImage, Required: true},
					{Name: blendSrcPort, Kind: ValueImage, Required: true},
				},
				Outputs: []PortDef{{Name: DefaultOutputPort, Kind: ValueImage}},
			},
		}
		f.applyMulti = func(ctx context.Context, inputs map[string]Value) (map[string]Value, error) {
			baseBuf, err := inputs[blendBasePort].Image.Pixels()
			if err != nil {
				return nil, err
			}
			srcBuf, err := inputs[blendSrcPort].Image.Pixels()
			if err != nil {
				return nil, err
			}
			origFmt := baseBuf.Format()
			baseBuf, err = adaptToNative(baseBuf, rgbaOnly)
			if err != nil {
				return nil, engerr.Wrap(engerr.LayoutMismatch, "blend.apply", err)
			}
			srcBuf, err = adaptToNative(srcBuf, rgbaOnly)
			if err != nil {
				return nil, engerr.Wrap(engerr.LayoutMismatch, "blend.apply", err)
			}
			var result *raster.Buffer
			if baseBuf.Elem == raster.U8 {
				result, err = kernel.BlendU8(baseBuf, srcBuf, mode, opacity)
			} else {
				result, err = kernel.BlendF32(baseBuf, srcBuf, mode, float32(opacity))
			}
			if err != nil {
				return nil, err
			}
			result, err = restorePreserved(result, origFmt, true)
			if err != nil {
				return nil, err
			}
			return map[string]Value{DefaultOutputPort: ImageValue(rimage.NewRaw(result))}, nil
		}
		return f, nil
	})
}
