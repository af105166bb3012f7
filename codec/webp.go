package codec

import (
	"bytes"
	"context"
	"image/jpeg"
	"io"

	"golang.org/x/image/webp"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
	"github.com/pixelforge/imagegraph/utils"
)

// WebPDecoder decodes WebP images via golang.org/x/image/webp, grounded on
// the teacher's adapters/decoder WebP codec. golang.org/x/image/webp only
// supports lossy WebP; lossless/animated WebP route through vipscodec.
type WebPDecoder struct{}

func NewWebPDecoder() *WebPDecoder { return &WebPDecoder{} }

func (w *WebPDecoder) CanDecode(codec rimage.Codec) bool { return codec == rimage.CodecWebP }

func (w *WebPDecoder) Decode(ctx context.Context, r io.Reader) (*raster.Buffer, error) {
	if err := checkCtx("webp.decode", ctx); err != nil {
		return nil, err
	}
	buf, err := utils.DrainReader(ctx, r, 32*1024)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "webp.drain", err)
	}
	defer utils.ReleaseBuffer(buf)

	img, err := webp.Decode(utils.BytesReader(buf.Bytes()))
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "webp.decode", err)
	}
	return ImageToBuffer(img), nil
}

// WebPEncoder encodes to WebP. Pure-Go WebP encoding is not available in
// the standard library or x/image (same gap the teacher documented in its
// own adapters/encoder/webp.go); this keeps the same documented JPEG-shim
// fallback for environments without vipscodec, which carries the real
// lossy/lossless WebP encode path via libvips.
type WebPEncoder struct {
	DefaultQuality int
}

func NewWebPEncoder(defaultQuality int) *WebPEncoder {
	if defaultQuality <= 0 {
		defaultQuality = 85
	}
	return &WebPEncoder{DefaultQuality: defaultQuality}
}

func (w *WebPEncoder) CanEncode(codec rimage.Codec) bool { return codec == rimage.CodecWebP }

func (w *WebPEncoder) Encode(ctx context.Context, buf *raster.Buffer, opts EncodeOptions) ([]byte, error) {
	if err := checkCtx("webp.encode", ctx); err != nil {
		return nil, err
	}
	img, err := BufferToImage(buf)
	if err != nil {
		return nil, err
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = w.DefaultQuality
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "webp.encode.shim", err)
	}
	return out.Bytes(), nil
}
