package filter

import (
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// ValueKind tags which of the four value types crossing a port carries
// data: Image, GeometryList, ImageList, or a raw buffer.
type ValueKind int

const (
	ValueImage ValueKind = iota
	ValueGeometryList
	ValueImageList
	ValueRawBuffer
)

func (k ValueKind) String() string {
	switch k {
	case ValueImage:
		return "image"
	case ValueGeometryList:
		return "geometry_list"
	case ValueImageList:
		return "image_list"
	case ValueRawBuffer:
		return "raw_buffer"
	default:
		return "unknown"
	}
}

// Value is the tagged union carried across a port. Exactly one field is
// meaningful, selected by Kind.
type Value struct {
	Kind ValueKind

	Image    *rimage.Image
	Geometry rimage.GeometryList
	Images   rimage.ImageList
	Buffer   *raster.Buffer
}

// ImageValue wraps an Image as a port Value.
func ImageValue(img *rimage.Image) Value { return Value{Kind: ValueImage, Image: img} }

// GeometryValue wraps a GeometryList as a port Value.
func GeometryValue(g rimage.GeometryList) Value { return Value{Kind: ValueGeometryList, Geometry: g} }

// ImageListValue wraps an ImageList as a port Value.
func ImageListValue(l rimage.ImageList) Value { return Value{Kind: ValueImageList, Images: l} }

// RawBufferValue wraps a raster.Buffer as a port Value — used by pattern
// overlay's pattern input and other filters that need a buffer without an
// Image's compressed/raw union overhead.
func RawBufferValue(buf *raster.Buffer) Value { return Value{Kind: ValueRawBuffer, Buffer: buf} }
