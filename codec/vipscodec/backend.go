// Package vipscodec is the libvips fast-path Decoder/Encoder, generalized
// from the teacher's adapters/vips/processor.go onto raster.Buffer. It
// decodes/encodes JPEG, PNG, and WebP (including lossless WebP, which
// golang.org/x/image/webp cannot do) through libvips, and exposes the
// resize/thumbnail/strip-EXIF/auto-rotate helpers as kernel-adjacent
// graph-filter steps instead of core.Step values.
package vipscodec

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/pixelforge/imagegraph/codec"
	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
	"github.com/pixelforge/imagegraph/utils"
)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	DefaultQuality int
	MaxCacheSize   int
	MaxWorkers     int
	ReportLeaks    bool
}

// Backend is a unified libvips-powered codec.Decoder and codec.Encoder.
// Safe for concurrent use across goroutines.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initializes libvips and returns a ready Backend. Call
// Shutdown when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.DefaultQuality <= 0 {
		cfg.DefaultQuality = 85
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
		CollectStats:     true,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() { govips.Shutdown() }

func (b *Backend) CanDecode(c rimage.Codec) bool {
	switch c {
	case rimage.CodecJPEG, rimage.CodecPNG, rimage.CodecWebP:
		return true
	}
	return false
}

func (b *Backend) CanEncode(c rimage.Codec) bool { return b.CanDecode(c) }

// Decode loads compressed bytes through libvips and materializes a
// raster.Buffer by round-tripping through a lossless PNG export — libvips
// never exposes a raw-pixel-buffer accessor directly, so this is the
// cheapest lossless bridge back to codec.ImageToBuffer.
func (b *Backend) Decode(ctx context.Context, r io.Reader) (*raster.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, engerr.Wrap(engerr.Cancelled, "vips.decode", err)
	}
	drained, err := utils.DrainReader(ctx, r, 32*1024)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.decode.drain", err)
	}
	raw := utils.CloneBytes(drained.Bytes())
	utils.ReleaseBuffer(drained)

	ref, err := govips.NewImageFromBuffer(raw)
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.decode", err)
	}
	defer ref.Close()

	pngBytes, _, err := ref.ExportPng(govips.NewPngExportParams())
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.decode.bridge", err)
	}
	return (codec.NewPNGDecoder()).Decode(ctx, bytes.NewReader(pngBytes))
}

// Encode routes buf through libvips's native JPEG/PNG/WebP exporters,
// the only path in this engine that reaches real lossless WebP encoding.
func (b *Backend) Encode(ctx context.Context, buf *raster.Buffer, opts codec.EncodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, engerr.Wrap(engerr.Cancelled, "vips.encode", err)
	}
	img, err := codec.BufferToImage(buf)
	if err != nil {
		return nil, err
	}
	var pngBytes bytes.Buffer
	if err := png.Encode(&pngBytes, img); err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.encode.bridge", err)
	}
	ref, err := govips.NewImageFromBuffer(pngBytes.Bytes())
	if err != nil {
		return nil, engerr.Wrap(engerr.CodecFailure, "vips.encode", err)
	}
	defer ref.Close()

	quality := opts.Quality
	if quality <= 0 {
		quality = b.cfg.DefaultQuality
	}

	switch ref.Format() {
	case govips.ImageTypeJPEG:
		ep := govips.NewJpegExportParams()
		ep.Quality = quality
		ep.Interlace = opts.Interlaced
		out, _, err := ref.ExportJpeg(ep)
		if err != nil {
			return nil, engerr.Wrap(engerr.CodecFailure, "vips.encode.jpeg", err)
		}
		return out, nil
	case govips.ImageTypeWEBP:
		ep := govips.NewWebpExportParams()
		ep.Quality = quality
		ep.Lossless = opts.Lossless
		out, _, err := ref.ExportWebp(ep)
		if err != nil {
			return nil, engerr.Wrap(engerr.CodecFailure, "vips.encode.webp", err)
		}
		return out, nil
	default:
		ep := govips.NewPngExportParams()
		ep.Interlace = opts.Interlaced
		out, _, err := ref.ExportPng(ep)
		if err != nil {
			return nil, engerr.Wrap(engerr.CodecFailure, "vips.encode.png", err)
		}
		return out, nil
	}
}
