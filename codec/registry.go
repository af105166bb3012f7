package codec

import (
	"bytes"
	"context"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// Registry dispatches decode/encode calls to the registered Decoder/
// Encoder for a given rimage.Codec, grounded on the teacher's
// core.Registry (format → {Decoder,Encoder}) pattern, generalized from a
// slice scan over a small fixed format set into the same slice scan
// (still small — five codecs) rather than a map, since CanDecode/CanEncode
// predicates (not a direct format key) decide the match.
type Registry struct {
	decoders []Decoder
	encoders []Encoder
}

// NewDefaultRegistry wires every codec implemented in this package.
func NewDefaultRegistry() *Registry {
	return &Registry{
		decoders: []Decoder{
			NewJPEGDecoder(), NewPNGDecoder(), NewWebPDecoder(),
			NewBMPDecoder(), NewGIFDecoder(),
		},
		encoders: []Encoder{
			NewJPEGEncoder(0), NewPNGEncoder(), NewWebPEncoder(0),
			NewBMPEncoder(), NewGIFEncoder(0),
		},
	}
}

// RegisterDecoder/RegisterEncoder prepend an additional decoder/encoder, so
// it is consulted ahead of the stdlib fallbacks (the way a fast-path codec
// such as vipscodec is installed).
func (r *Registry) RegisterDecoder(d Decoder) { r.decoders = append([]Decoder{d}, r.decoders...) }
func (r *Registry) RegisterEncoder(e Encoder) { r.encoders = append([]Encoder{e}, r.encoders...) }

func (r *Registry) decoderFor(c rimage.Codec) (Decoder, error) {
	for _, d := range r.decoders {
		if d.CanDecode(c) {
			return d, nil
		}
	}
	return nil, engerr.New(engerr.UnsupportedCodec, "codec.registry", engerr.ErrUnsupportedCodec)
}

func (r *Registry) encoderFor(c rimage.Codec) (Encoder, error) {
	for _, e := range r.encoders {
		if e.CanEncode(c) {
			return e, nil
		}
	}
	return nil, engerr.New(engerr.UnsupportedCodec, "codec.registry", engerr.ErrUnsupportedCodec)
}

// DecodeFunc adapts the registry to rimage.DecodeFunc, letting rimage.Image
// lazily decode without importing this package directly.
func (r *Registry) DecodeFunc(codec rimage.Codec, data []byte) (*raster.Buffer, error) {
	d, err := r.decoderFor(codec)
	if err != nil {
		return nil, err
	}
	return d.Decode(context.Background(), bytes.NewReader(data))
}

// Encode compresses buf with the registered encoder for codec.
func (r *Registry) Encode(ctx context.Context, buf *raster.Buffer, codec rimage.Codec, opts EncodeOptions) ([]byte, error) {
	e, err := r.encoderFor(codec)
	if err != nil {
		return nil, err
	}
	return e.Encode(ctx, buf, opts)
}
