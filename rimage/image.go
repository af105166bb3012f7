// Package rimage implements the Image value: a tagged union of a raw pixel
// buffer or compressed bytes, plus the GeometryList/ImageList derived value
// types the graph layer also carries.
package rimage

import (
	"sync"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

// Codec identifies a compressed-image codec.
type Codec string

const (
	CodecJPEG Codec = "jpeg"
	CodecPNG  Codec = "png"
	CodecWebP Codec = "webp"
	CodecBMP  Codec = "bmp"
	CodecGIF  Codec = "gif"
)

// variant tags which union member an Image currently holds.
type variant int

const (
	variantRaw variant = iota
	variantCompressed
)

// Image is a tagged union with exactly one variant at a time: Raw (owns a
// pixel Buffer) or Compressed (owns encoded bytes + a codec id). A
// Compressed image transitions to Raw on the first request for pixels; the
// compressed bytes are retained unless the caller explicitly drops them.
type Image struct {
	mu sync.Mutex

	v variant

	raw *raster.Buffer

	compressed     []byte
	codec          Codec
	decodedW       int
	decodedH       int
	hasDecodedDims bool

	// decodeFn lazily materializes pixels from compressed bytes. Supplied
	// by the codec package via SetDecoder to avoid an import cycle
	// (rimage must not depend on codec, since codec depends on rimage).
	decodeFn DecodeFunc

	meta Metadata
}

// DecodeFunc decodes compressed bytes for the given codec into a raw
// buffer in a canonical layout (RGBA if the codec carries alpha, else RGB).
type DecodeFunc func(codec Codec, data []byte) (*raster.Buffer, error)

// Metadata is an optional, string-keyed map of auxiliary values attached to
// an Image by reference: detection results, stats, codec hints. Metadata
// is copied by structural sharing and never affects pixel identity.
type Metadata struct {
	Values map[string]any
}

// Get returns a metadata value and whether it was present.
func (m Metadata) Get(key string) (any, bool) {
	if m.Values == nil {
		return nil, false
	}
	v, ok := m.Values[key]
	return v, ok
}

// With returns a Metadata backed by a copy of the top-level map plus one
// more entry; the values themselves are not copied.
func (m Metadata) With(key string, value any) Metadata {
	out := make(map[string]any, len(m.Values)+1)
	for k, v := range m.Values {
		out[k] = v
	}
	out[key] = value
	return Metadata{Values: out}
}

// NewRaw constructs a Raw Image from a pixel buffer supplied by the caller.
func NewRaw(buf *raster.Buffer) *Image {
	return &Image{v: variantRaw, raw: buf}
}

// NewCompressed constructs a Compressed Image from encoded bytes and a
// codec id. decodeFn is supplied by the codec package registration.
func NewCompressed(data []byte, codec Codec, decodeFn DecodeFunc) *Image {
	return &Image{v: variantCompressed, compressed: data, codec: codec, decodeFn: decodeFn}
}

// IsRaw reports whether the Image currently holds decoded pixels.
func (img *Image) IsRaw() bool {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.v == variantRaw
}

// IsCompressed reports whether the Image currently holds only compressed
// bytes (i.e. has never been decoded).
func (img *Image) IsCompressed() bool {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.v == variantCompressed
}

// Codec returns the codec id the Image was constructed with, or "" for an
// Image built by NewRaw. DropCompressed does not clear it.
func (img *Image) Codec() Codec {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.codec
}

// CompressedBytes returns the retained compressed bytes, if any.
func (img *Image) CompressedBytes() []byte {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.compressed
}

// DropCompressed discards the retained compressed bytes, e.g. after the
// caller has decoded and no longer needs the original encoding.
func (img *Image) DropCompressed() {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.compressed = nil
}

// Pixels materializes and returns the raw buffer, decoding compressed bytes
// on first request. The Raw cache is retained for subsequent calls.
func (img *Image) Pixels() (*raster.Buffer, error) {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.v == variantRaw {
		return img.raw, nil
	}
	if img.decodeFn == nil {
		return nil, engerr.New(engerr.UnsupportedCodec, "rimage.Pixels", engerr.ErrUnsupportedCodec)
	}
	buf, err := img.decodeFn(img.codec, img.compressed)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "rimage.Pixels", err)
	}
	img.raw = buf
	img.v = variantRaw
	img.decodedW, img.decodedH = buf.W, buf.H
	img.hasDecodedDims = true
	return buf, nil
}

// Dimensions returns width/height without forcing a decode when the codec
// adapter has already cached them on Compressed images.
func (img *Image) Dimensions() (w, h int, ok bool) {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.v == variantRaw {
		return img.raw.W, img.raw.H, true
	}
	return img.decodedW, img.decodedH, img.hasDecodedDims
}

// SetCachedDimensions records decoded width/height on a Compressed Image
// without forcing a full decode (used by codec adapters that can read
// dimensions from a header cheaply).
func (img *Image) SetCachedDimensions(w, h int) {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.decodedW, img.decodedH = w, h
	img.hasDecodedDims = true
}

// Metadata returns the Image's attached metadata.
func (img *Image) Metadata() Metadata {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.meta
}

// WithMetadata returns a new Image (same pixel identity) carrying updated
// metadata — metadata never affects pixel identity.
func (img *Image) WithMetadata(m Metadata) *Image {
	img.mu.Lock()
	defer img.mu.Unlock()
	clone := &Image{
		v: img.v, raw: img.raw, compressed: img.compressed, codec: img.codec,
		decodedW: img.decodedW, decodedH: img.decodedH, hasDecodedDims: img.hasDecodedDims,
		decodeFn: img.decodeFn, meta: m,
	}
	return clone
}

// Clone returns an Image with an independently-owned pixel buffer
// and shared metadata.
func (img *Image) Clone() *Image {
	img.mu.Lock()
	defer img.mu.Unlock()
	clone := &Image{v: img.v, codec: img.codec, decodedW: img.decodedW,
		decodedH: img.decodedH, hasDecodedDims: img.hasDecodedDims,
		decodeFn: img.decodeFn, meta: img.meta}
	if img.raw != nil {
		clone.raw = img.raw.Clone()
	}
	if img.compressed != nil {
		clone.compressed = append([]byte(nil), img.compressed...)
	}
	return clone
}
