package codec

import (
	"bytes"
	"context"
	"image/gif"
	"io"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// GIFDecoder/GIFEncoder are new relative to the teacher. Neither govips's
// Go surface nor golang.org/x/image ships a GIF codec, so the standard
// library's image/gif is the only available implementation — only the
// first frame of an animated GIF is decoded, matching the engine's
// single-raster Image model.
type GIFDecoder struct{}

func NewGIFDecoder() *GIFDecoder { return &GIFDecoder{} }

func (g *GIFDecoder) CanDecode(codec rimage.Codec) bool { return codec == rimage.CodecGIF }

func (g *GIFDecoder) Decode(ctx context.Context, r io.Reader) (*raster.Buffer, error) {
	if err := checkCtx("gif.decode", ctx); err != nil {
		return nil, err
	}
	img, err := gif.Decode(r)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "gif.decode", err)
	}
	return ImageToBuffer(img), nil
}

type GIFEncoder struct {
	NumColors int
}

func NewGIFEncoder(numColors int) *GIFEncoder {
	if numColors <= 0 || numColors > 256 {
		numColors = 256
	}
	return &GIFEncoder{NumColors: numColors}
}

func (g *GIFEncoder) CanEncode(codec rimage.Codec) bool { return codec == rimage.CodecGIF }

func (g *GIFEncoder) Encode(ctx context.Context, buf *raster.Buffer, opts EncodeOptions) ([]byte, error) {
	if err := checkCtx("gif.encode", ctx); err != nil {
		return nil, err
	}
	img, err := BufferToImage(buf)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := gif.Encode(&out, img, &gif.Options{NumColors: g.NumColors}); err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "gif.encode", err)
	}
	return out.Bytes(), nil
}
