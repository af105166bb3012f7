package codec

import (
	"context"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

// AdaptiveConfig controls AdaptiveCompress's quality search.
type AdaptiveConfig struct {
	TargetSizeBytes int64
	MinQuality      int
	MaxQuality      int
	StepSize        int
}

// AdaptiveCompress iteratively steps a lossy encoder's quality down from
// MaxQuality until the encoded size fits under TargetSizeBytes or
// MinQuality is reached, returning the first (highest-quality) encoding
// that fits (or the last attempt if none did). Grounded on the teacher's
// pipeline.AdaptiveCompressStep, generalized from core.ImageData/
// core.Registry to raster.Buffer/codec.Registry.
func (r *Registry) AdaptiveCompress(ctx context.Context, buf *raster.Buffer, codecID rimage.Codec, cfg AdaptiveConfig) ([]byte, error) {
	if cfg.TargetSizeBytes <= 0 {
		return r.Encode(ctx, buf, codecID, EncodeOptions{})
	}

	quality := cfg.MaxQuality
	if quality <= 0 {
		quality = 95
	}
	minQ := cfg.MinQuality
	if minQ <= 0 {
		minQ = 30
	}
	step := cfg.StepSize
	if step <= 0 {
		step = 5
	}

	var best []byte
	for quality >= minQ {
		if err := ctx.Err(); err != nil {
			return nil, engerr.Wrap(engerr.Cancelled, "adaptive_compress", err)
		}
		data, err := r.Encode(ctx, buf, codecID, EncodeOptions{Quality: quality})
		if err != nil {
			return nil, err
		}
		best = data
		if int64(len(data)) <= cfg.TargetSizeBytes {
			break
		}
		quality -= step
	}
	return best, nil
}
