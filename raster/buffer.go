package raster

import (
	"fmt"

	"github.com/pixelforge/imagegraph/engerr"
)

// Buffer is a dense, row-major, tightly-packed pixel array: no row padding,
// origin top-left, y increasing downward. A Buffer holds exactly one of u8
// or f32 backing storage, selected by Elem. Buffer is owned by exactly one
// rimage.Image at a time. Derived images that need to share pixels do so via
// Clone (copy-on-write), never by aliasing the same slice across two owners.
type Buffer struct {
	W, H   int
	Layout Layout
	Elem   Element

	u8  []uint8
	f32 []float32
}

// NewU8 allocates a zeroed U8 buffer. Panics only on a layout/channel
// mismatch bug at the call site — callers that accept external dimensions
// should validate with NewU8Checked.
func NewU8(w, h int, layout Layout) *Buffer {
	b, err := NewU8Checked(w, h, layout)
	if err != nil {
		panic(err)
	}
	return b
}

// NewU8Checked validates dimensions and layout before allocating.
func NewU8Checked(w, h int, layout Layout) (*Buffer, error) {
	c := layout.Channels()
	if w <= 0 || h <= 0 || c == 0 {
		return nil, engerr.New(engerr.InvalidArgument, "raster.NewU8",
			fmt.Errorf("%w: %dx%d layout=%s", engerr.ErrInvalidDimensions, w, h, layout))
	}
	return &Buffer{W: w, H: h, Layout: layout, Elem: U8, u8: make([]uint8, w*h*c)}, nil
}

// NewF32 allocates a zeroed F32 buffer.
func NewF32(w, h int, layout Layout) *Buffer {
	b, err := NewF32Checked(w, h, layout)
	if err != nil {
		panic(err)
	}
	return b
}

// NewF32Checked validates dimensions and layout before allocating.
func NewF32Checked(w, h int, layout Layout) (*Buffer, error) {
	c := layout.Channels()
	if w <= 0 || h <= 0 || c == 0 {
		return nil, engerr.New(engerr.InvalidArgument, "raster.NewF32",
			fmt.Errorf("%w: %dx%d layout=%s", engerr.ErrInvalidDimensions, w, h, layout))
	}
	return &Buffer{W: w, H: h, Layout: layout, Elem: F32, f32: make([]float32, w*h*c)}, nil
}

// FromU8 wraps an existing, already-populated u8 slice (len == w*h*channels)
// without copying. Used by codec adapters handing decoded pixels to the
// engine.
func FromU8(w, h int, layout Layout, data []uint8) (*Buffer, error) {
	c := layout.Channels()
	if w <= 0 || h <= 0 || c == 0 || len(data) != w*h*c {
		return nil, engerr.New(engerr.InvalidArgument, "raster.FromU8", engerr.ErrInvalidDimensions)
	}
	return &Buffer{W: w, H: h, Layout: layout, Elem: U8, u8: data}, nil
}

// FromF32 wraps an existing, already-populated f32 slice.
func FromF32(w, h int, layout Layout, data []float32) (*Buffer, error) {
	c := layout.Channels()
	if w <= 0 || h <= 0 || c == 0 || len(data) != w*h*c {
		return nil, engerr.New(engerr.InvalidArgument, "raster.FromF32", engerr.ErrInvalidDimensions)
	}
	return &Buffer{W: w, H: h, Layout: layout, Elem: F32, f32: data}, nil
}

// Channels returns the per-pixel channel count.
func (b *Buffer) Channels() int { return b.Layout.Channels() }

// Format returns the (element, layout) pair of this buffer.
func (b *Buffer) Format() Format { return Format{Element: b.Elem, Layout: b.Layout} }

// Stride is the number of samples (not bytes) per row.
func (b *Buffer) Stride() int { return b.W * b.Channels() }

// U8 returns the backing u8 slice. Valid only when Elem == U8.
func (b *Buffer) U8() []uint8 { return b.u8 }

// F32 returns the backing f32 slice. Valid only when Elem == F32.
func (b *Buffer) F32() []float32 { return b.f32 }

// PixelU8 returns the channel slice for pixel (x,y) in a U8 buffer. The
// returned slice aliases the buffer; callers must not retain it past the
// call that produced it if the buffer may be reused.
func (b *Buffer) PixelU8(x, y int) []uint8 {
	c := b.Channels()
	i := (y*b.W + x) * c
	return b.u8[i : i+c]
}

// PixelF32 returns the channel slice for pixel (x,y) in an F32 buffer.
func (b *Buffer) PixelF32(x, y int) []float32 {
	c := b.Channels()
	i := (y*b.W + x) * c
	return b.f32[i : i+c]
}

// Clone returns a deep copy, implementing the copy-on-write snapshot the
// engine boundary requires instead of aliasing.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{W: b.W, H: b.H, Layout: b.Layout, Elem: b.Elem}
	if b.Elem == U8 {
		out.u8 = make([]uint8, len(b.u8))
		copy(out.u8, b.u8)
	} else {
		out.f32 = make([]float32, len(b.f32))
		copy(out.f32, b.f32)
	}
	return out
}

// Equal reports whether two buffers are bit-identical: same dimensions,
// layout, element type, and sample values. Used by the parity harness's
// comparator.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.W != o.W || b.H != o.H || b.Layout != o.Layout || b.Elem != o.Elem {
		return false
	}
	if b.Elem == U8 {
		if len(b.u8) != len(o.u8) {
			return false
		}
		for i := range b.u8 {
			if b.u8[i] != o.u8[i] {
				return false
			}
		}
		return true
	}
	if len(b.f32) != len(o.f32) {
		return false
	}
	for i := range b.f32 {
		if b.f32[i] != o.f32[i] {
			return false
		}
	}
	return true
}
