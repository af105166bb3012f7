package kernel

import (
	"fmt"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

// StructElement is a morphological structuring element: a boolean mask of
// radius r (side length 2r+1) with origin at its center.
type StructElement struct {
	Radius int
	Mask   [][]bool
}

// RectStruct returns a full rectangular structuring element.
func RectStruct(radius int) StructElement {
	n := 2*radius + 1
	mask := make([][]bool, n)
	for y := range mask {
		mask[y] = make([]bool, n)
		for x := range mask[y] {
			mask[y][x] = true
		}
	}
	return StructElement{Radius: radius, Mask: mask}
}

// CrossStruct returns a plus-shaped structuring element.
func CrossStruct(radius int) StructElement {
	n := 2*radius + 1
	mask := make([][]bool, n)
	for y := range mask {
		mask[y] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		mask[radius][i] = true
		mask[i][radius] = true
	}
	return StructElement{Radius: radius, Mask: mask}
}

// EllipseStruct returns an elliptical (circular for a square radius)
// structuring element.
func EllipseStruct(radius int) StructElement {
	n := 2*radius + 1
	mask := make([][]bool, n)
	r2 := float64(radius) * float64(radius)
	for y := range mask {
		mask[y] = make([]bool, n)
		dy := float64(y - radius)
		for x := range mask[y] {
			dx := float64(x - radius)
			mask[y][x] = dx*dx+dy*dy <= r2+0.5
		}
	}
	return StructElement{Radius: radius, Mask: mask}
}

func morphU8(buf *raster.Buffer, se StructElement, edge EdgeMode, dilate bool) *raster.Buffer {
	cc := colorChannels(buf.Layout)
	c := buf.Layout.Channels()
	out := buf.Clone()
	src := buf.U8()
	dst := out.U8()
	r := se.Radius
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				var best uint8
				if dilate {
					best = 0
				} else {
					best = 255
				}
				for dy := -r; dy <= r; dy++ {
					sy, ok := clampIndex(y+dy, buf.H, edge)
					if !ok {
						continue
					}
					for dx := -r; dx <= r; dx++ {
						if !se.Mask[dy+r][dx+r] {
							continue
						}
						sx, ok := clampIndex(x+dx, buf.W, edge)
						if !ok {
							continue
						}
						v := src[(sy*buf.W+sx)*c+k]
						if dilate && v > best {
							best = v
						} else if !dilate && v < best {
							best = v
						}
					}
				}
				dst[(y*buf.W+x)*c+k] = best
			}
		}
	}
	return out
}

func morphF32(buf *raster.Buffer, se StructElement, edge EdgeMode, dilate bool) *raster.Buffer {
	cc := colorChannels(buf.Layout)
	c := buf.Layout.Channels()
	out := buf.Clone()
	src := buf.F32()
	dst := out.F32()
	r := se.Radius
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			for k := 0; k < cc; k++ {
				var best float32
				if dilate {
					best = 0
				} else {
					best = 1
				}
				for dy := -r; dy <= r; dy++ {
					sy, ok := clampIndex(y+dy, buf.H, edge)
					if !ok {
						continue
					}
					for dx := -r; dx <= r; dx++ {
						if !se.Mask[dy+r][dx+r] {
							continue
						}
						sx, ok := clampIndex(x+dx, buf.W, edge)
						if !ok {
							continue
						}
						v := src[(sy*buf.W+sx)*c+k]
						if dilate && v > best {
							best = v
						} else if !dilate && v < best {
							best = v
						}
					}
				}
				dst[(y*buf.W+x)*c+k] = best
			}
		}
	}
	return out
}

func validateStruct(se StructElement) error {
	if se.Radius < 1 || len(se.Mask) != 2*se.Radius+1 {
		return engerr.New(engerr.InvalidArgument, "kernel.morphology", fmt.Errorf("invalid structuring element"))
	}
	return nil
}

// ErodeU8 shrinks bright regions: each color sample becomes the minimum
// over the structuring element's neighborhood.
func ErodeU8(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	if err := validateStruct(se); err != nil {
		return nil, err
	}
	return morphU8(buf, se, edge, false), nil
}

// ErodeF32 is the F32 counterpart.
func ErodeF32(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	if err := validateStruct(se); err != nil {
		return nil, err
	}
	return morphF32(buf, se, edge, false), nil
}

// DilateU8 grows bright regions: each color sample becomes the maximum
// over the structuring element's neighborhood.
func DilateU8(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	if err := validateStruct(se); err != nil {
		return nil, err
	}
	return morphU8(buf, se, edge, true), nil
}

// DilateF32 is the F32 counterpart.
func DilateF32(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	if err := validateStruct(se); err != nil {
		return nil, err
	}
	return morphF32(buf, se, edge, true), nil
}

// OpenU8 is erosion followed by dilation — removes small bright specks.
func OpenU8(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	e, err := ErodeU8(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return DilateU8(e, se, edge)
}

// OpenF32 is the F32 counterpart.
func OpenF32(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	e, err := ErodeF32(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return DilateF32(e, se, edge)
}

// CloseU8 is dilation followed by erosion — fills small dark holes.
func CloseU8(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	d, err := DilateU8(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return ErodeU8(d, se, edge)
}

// CloseF32 is the F32 counterpart.
func CloseF32(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	d, err := DilateF32(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return ErodeF32(d, se, edge)
}

// GradientU8 is dilation minus erosion — highlights region boundaries.
func GradientU8(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	d, err := DilateU8(buf, se, edge)
	if err != nil {
		return nil, err
	}
	e, err := ErodeU8(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return subtractU8(d, e), nil
}

// GradientF32 is the F32 counterpart.
func GradientF32(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	d, err := DilateF32(buf, se, edge)
	if err != nil {
		return nil, err
	}
	e, err := ErodeF32(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return subtractF32(d, e), nil
}

// TopHatU8 is the input minus its opening — isolates small bright details.
func TopHatU8(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	o, err := OpenU8(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return subtractU8(buf, o), nil
}

// TopHatF32 is the F32 counterpart.
func TopHatF32(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	o, err := OpenF32(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return subtractF32(buf, o), nil
}

// BlackHatU8 is the closing minus the input — isolates small dark details.
func BlackHatU8(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	c, err := CloseU8(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return subtractU8(c, buf), nil
}

// BlackHatF32 is the F32 counterpart.
func BlackHatF32(buf *raster.Buffer, se StructElement, edge EdgeMode) (*raster.Buffer, error) {
	c, err := CloseF32(buf, se, edge)
	if err != nil {
		return nil, err
	}
	return subtractF32(c, buf), nil
}

func subtractU8(a, b *raster.Buffer) *raster.Buffer {
	out := a.Clone()
	da, db := a.U8(), b.U8()
	dst := out.U8()
	for i := range dst {
		dst[i] = clampU8Float64(float64(da[i]) - float64(db[i]))
	}
	return out
}

func subtractF32(a, b *raster.Buffer) *raster.Buffer {
	out := a.Clone()
	da, db := a.F32(), b.F32()
	dst := out.F32()
	for i := range dst {
		dst[i] = da[i] - db[i]
	}
	return out
}
