package codec

import (
	"bytes"
	"context"
	"io"

	"golang.org/x/image/bmp"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// BMPDecoder/BMPEncoder round out the codec list on top of golang.org/x/image,
// which the WebP decoder already pulls into the dependency graph.
type BMPDecoder struct{}

func NewBMPDecoder() *BMPDecoder { return &BMPDecoder{} }

func (b *BMPDecoder) CanDecode(codec rimage.Codec) bool { return codec == rimage.CodecBMP }

func (b *BMPDecoder) Decode(ctx context.Context, r io.Reader) (*raster.Buffer, error) {
	if err := checkCtx("bmp.decode", ctx); err != nil {
		return nil, err
	}
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "bmp.decode", err)
	}
	return ImageToBuffer(img), nil
}

type BMPEncoder struct{}

func NewBMPEncoder() *BMPEncoder { return &BMPEncoder{} }

func (b *BMPEncoder) CanEncode(codec rimage.Codec) bool { return codec == rimage.CodecBMP }

func (b *BMPEncoder) Encode(ctx context.Context, buf *raster.Buffer, opts EncodeOptions) ([]byte, error) {
	if err := checkCtx("bmp.encode", ctx); err != nil {
		return nil, err
	}
	img, err := BufferToImage(buf)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := bmp.Encode(&out, img); err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "bmp.encode", err)
	}
	return out.Bytes(), nil
}
