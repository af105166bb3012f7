package codec

import (
	"bytes"
	"context"
	"image/png"
	"io"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// PNGDecoder decodes PNG images using the standard library.
type PNGDecoder struct{}

func NewPNGDecoder() *PNGDecoder { return &PNGDecoder{} }

func (p *PNGDecoder) CanDecode(codec rimage.Codec) bool { return codec == rimage.CodecPNG }

func (p *PNGDecoder) Decode(ctx context.Context, r io.Reader) (*raster.Buffer, error) {
	if err := checkCtx("png.decode", ctx); err != nil {
		return nil, err
	}
	img, err := png.Decode(r)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "png.decode", err)
	}
	return ImageToBuffer(img), nil
}

// PNGEncoder encodes a raster.Buffer to PNG, grounded on the teacher's
// adapters/encoder PNG codec (Lossless → best compression).
type PNGEncoder struct{}

func NewPNGEncoder() *PNGEncoder { return &PNGEncoder{} }

func (p *PNGEncoder) CanEncode(codec rimage.Codec) bool { return codec == rimage.CodecPNG }

func (p *PNGEncoder) Encode(ctx context.Context, buf *raster.Buffer, opts EncodeOptions) ([]byte, error) {
	if err := checkCtx("png.encode", ctx); err != nil {
		return nil, err
	}
	img, err := BufferToImage(buf)
	if err != nil {
		return nil, err
	}
	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
	if opts.Lossless || opts.Interlaced {
		enc.CompressionLevel = png.BestCompression
	}
	var out bytes.Buffer
	if err := enc.Encode(&out, img); err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "png.encode", err)
	}
	return out.Bytes(), nil
}
