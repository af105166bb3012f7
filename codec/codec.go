// Package codec adapts the standard library's and x/image's format
// codecs to the engine's raster.Buffer representation: one Decoder and
// one Encoder per container format, selected by rimage.Codec.
package codec

import (
	"context"
	"io"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// EncodeOptions mirrors the teacher's core.EncodeOptions shape,
// generalized to the raster.Buffer pipeline.
type EncodeOptions struct {
	Quality    int
	Lossless   bool
	Interlaced bool
}

// Decoder turns compressed bytes of one rimage.Codec into a raster.Buffer.
type Decoder interface {
	CanDecode(codec rimage.Codec) bool
	Decode(ctx context.Context, r io.Reader) (*raster.Buffer, error)
}

// Encoder turns a raster.Buffer into compressed bytes of one rimage.Codec.
type Encoder interface {
	CanEncode(codec rimage.Codec) bool
	Encode(ctx context.Context, buf *raster.Buffer, opts EncodeOptions) ([]byte, error)
}

func checkCtx(op string, ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return engerr.Wrap(engerr.Cancelled, op, err)
	}
	return nil
}
