// Package filter implements the Filter value: an immutable descriptor
// pairing a kind tag and parameter record with a native-layout set, a port
// schema, and the apply/apply_multi contract. Grounded on the teacher's
// core.Step contract, generalized from a single fixed
// (core.ImageData)->(core.ImageData) signature to named, typed ports so that
// blend, layer-effect, and detection filters can carry more than one input
// or output.
package filter

import (
	"context"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// PortDef names one input or output port and its expected Value kind.
type PortDef struct {
	Name     string
	Kind     ValueKind
	Required bool // meaningful for inputs only
}

// PortSchema is the ordered input/output port list a Filter declares.
type PortSchema struct {
	Inputs  []PortDef
	Outputs []PortDef
}

// DefaultInputPort/DefaultOutputPort name the single port used by Apply's
// single-image shorthand and by the Pipeline/DSL connection-shorthand rule
// that a bare node reference binds its default port.
const (
	DefaultInputPort  = "input"
	DefaultOutputPort = "output"
)

// ApplyMultiFunc is the per-kind implementation invoked by Filter.ApplyMulti.
// It must not retain or mutate the Filter it was built for; it closes over
// the Filter's immutable params at construction time.
type ApplyMultiFunc func(ctx context.Context, inputs map[string]Value) (map[string]Value, error)

// Filter is an immutable descriptor: a kind tag, a parameter record,
// the (element,layout) pairs it implements natively, a port schema, and a
// preservation flag. Once constructed it never mutates; running it with
// different inputs reuses the same descriptor and any class-level caches it
// closed over.
type Filter struct {
	Kind       string
	Params     map[string]any
	Native     []raster.Format
	Preserve   bool
	Ports      PortSchema
	applyMulti ApplyMultiFunc
}

// WithApplyMulti attaches fn as the Filter's apply_multi implementation
// and returns the same Filter, letting callers outside this package
// (e.g. pipeline.Pipeline.AsFilter) build a *Filter literal without
// reaching into an unexported field.
func (f *Filter) WithApplyMulti(fn ApplyMultiFunc) *Filter {
	f.applyMulti = fn
	return f
}

// Apply is the single-input/single-output shorthand: materialize input
// pixels in a native layout, invoke the kernel, return the result image.
func (f *Filter) Apply(ctx context.Context, img *rimage.Image) (*rimage.Image, error) {
	out, err := f.ApplyMulti(ctx, map[string]Value{DefaultInputPort: ImageValue(img)})
	if err != nil {
		return nil, err
	}
	v, ok := out[DefaultOutputPort]
	if !ok || v.Kind != ValueImage {
		return nil, engerr.New(engerr.ShapeMismatch, f.Kind+".apply",
			engerr.ErrUnsupportedLayout)
	}
	return v.Image, nil
}

// ApplyMulti runs the filter across its full port schema, validating that
// every required input is present before delegating to the kind's
// registered implementation.
func (f *Filter) ApplyMulti(ctx context.Context, inputs map[string]Value) (map[string]Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, engerr.Wrap(engerr.Cancelled, f.Kind+".apply_multi", err)
	}
	for _, p := range f.Ports.Inputs {
		if !p.Required {
			continue
		}
		v, ok := inputs[p.Name]
		if !ok {
			return nil, engerr.New(engerr.InvalidArgument, f.Kind+".apply_multi", engerr.ErrUnboundPort)
		}
		if v.Kind != p.Kind {
			return nil, engerr.New(engerr.ShapeMismatch, f.Kind+".apply_multi", engerr.ErrPortTypeMismatch)
		}
	}
	return f.applyMulti(ctx, inputs)
}

// adaptToNative converts buf to the cheapest of the filter's native
// formats, returning buf unchanged if it already matches.
func adaptToNative(buf *raster.Buffer, native []raster.Format) (*raster.Buffer, error) {
	target, err := raster.CheapestConversion(buf.Format(), native)
	if err != nil {
		return nil, err
	}
	if buf.Format() == target {
		return buf, nil
	}
	return buf.Convert(target)
}

// restorePreserved converts result back to origFmt when the filter
// declares Preserve and result's format differs from origFmt.
func restorePreserved(result *raster.Buffer, origFmt raster.Format, preserve bool) (*raster.Buffer, error) {
	if !preserve || result.Format() == origFmt {
		return result, nil
	}
	return result.Convert(origFmt)
}
