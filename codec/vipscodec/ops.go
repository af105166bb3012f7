package vipscodec

import (
	"bytes"
	"context"
	"image/png"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/pixelforge/imagegraph/codec"
	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
)

// Resize resizes buf via vips_resize() with a Lanczos3 kernel, generalized
// from the teacher's VipsResizeStep onto raster.Buffer. Unlike the teacher's
// step, this always round-trips through PNG since graph filters operate on
// already-decoded rasters rather than the compressed bytes a JPEG
// shrink-on-load could exploit.
func Resize(ctx context.Context, buf *raster.Buffer, width, height int) (*raster.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, engerr.Wrap(engerr.Cancelled, "vips.resize", err)
	}
	if width == buf.W && height == buf.H {
		return buf, nil
	}
	ref, err := refFromBuffer(buf)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.resize", err)
	}
	defer ref.Close()

	scale := float64(width) / float64(ref.Width())
	if err := ref.Resize(scale, govips.KernelLanczos3); err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.resize", err)
	}
	return bufferFromRef(ctx, ref)
}

// Thumbnail generates a square thumbnail with centre-interest cropping,
// operating directly on encoded bytes as the teacher's VipsThumbnailStep
// does — avoids a full raster.Buffer decode when only a small preview is
// needed.
func Thumbnail(ctx context.Context, encoded []byte, size int) (*raster.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, engerr.Wrap(engerr.Cancelled, "vips.thumbnail", err)
	}
	ref, err := govips.NewThumbnailFromBuffer(encoded, size, size, govips.InterestingCentre)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.thumbnail", err)
	}
	defer ref.Close()
	return bufferFromRef(ctx, ref)
}

// StripEXIF removes all EXIF/XMP/IPTC metadata, generalized from the
// teacher's VipsStripEXIFStep. raster.Buffer carries no metadata fields of
// its own, so this exists purely to exercise libvips's RemoveMetadata on
// the round-tripped ref before re-encoding.
func StripEXIF(ctx context.Context, buf *raster.Buffer) (*raster.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, engerr.Wrap(engerr.Cancelled, "vips.strip_exif", err)
	}
	ref, err := refFromBuffer(buf)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.strip_exif", err)
	}
	defer ref.Close()
	ref.RemoveMetadata()
	return bufferFromRef(ctx, ref)
}

// AutoRotate applies the EXIF orientation tag to pixel data then clears it,
// generalized from the teacher's VipsAutoRotateStep.
func AutoRotate(ctx context.Context, buf *raster.Buffer) (*raster.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, engerr.Wrap(engerr.Cancelled, "vips.auto_rotate", err)
	}
	ref, err := refFromBuffer(buf)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.auto_rotate", err)
	}
	defer ref.Close()
	if err := ref.AutoRotate(); err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.auto_rotate", err)
	}
	return bufferFromRef(ctx, ref)
}

func refFromBuffer(buf *raster.Buffer) (*govips.ImageRef, error) {
	img, err := codec.BufferToImage(buf)
	if err != nil {
		return nil, err
	}
	var pngBytes bytes.Buffer
	if err := png.Encode(&pngBytes, img); err != nil {
		return nil, err
	}
	return govips.NewImageFromBuffer(pngBytes.Bytes())
}

func bufferFromRef(ctx context.Context, ref *govips.ImageRef) (*raster.Buffer, error) {
	pngBytes, _, err := ref.ExportPng(govips.NewPngExportParams())
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.bridge", err)
	}
	return codec.NewPNGDecoder().Decode(ctx, bytes.NewReader(pngBytes))
}
