package codec

import (
	"bytes"
	"context"
	"image/jpeg"
	"io"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// JPEGDecoder decodes JPEG images using the standard library, grounded on
// the teacher's adapters/decoder JPEG codec.
type JPEGDecoder struct{}

func NewJPEGDecoder() *JPEGDecoder { return &JPEGDecoder{} }

func (j *JPEGDecoder) CanDecode(codec rimage.Codec) bool { return codec == rimage.CodecJPEG }

func (j *JPEGDecoder) Decode(ctx context.Context, r io.Reader) (*raster.Buffer, error) {
	if err := checkCtx("jpeg.decode", ctx); err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "jpeg.decode", err)
	}
	return ImageToBuffer(img), nil
}

// JPEGEncoder encodes a raster.Buffer to JPEG, grounded on the teacher's
// adapters/encoder JPEG codec (DefaultQuality fallback when opts.Quality
// is unset).
type JPEGEncoder struct {
	DefaultQuality int
}

func NewJPEGEncoder(defaultQuality int) *JPEGEncoder {
	if defaultQuality <= 0 {
		defaultQuality = 85
	}
	return &JPEGEncoder{DefaultQuality: defaultQuality}
}

func (j *JPEGEncoder) CanEncode(codec rimage.Codec) bool { return codec == rimage.CodecJPEG }

func (j *JPEGEncoder) Encode(ctx context.Context, buf *raster.Buffer, opts EncodeOptions) ([]byte, error) {
	if err := checkCtx("jpeg.encode", ctx); err != nil {
		return nil, err
	}
	img, err := BufferToImage(buf)
	if err != nil {
		return nil, err
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = j.DefaultQuality
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "jpeg.encode", err)
	}
	return out.Bytes(), nil
}
