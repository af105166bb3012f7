package codec_test

import (
	"context"
	"testing"

	"github.com/pixelforge/imagegraph/codec"
	"github.com/pixelforge/imagegraph/rimage"
)

func TestAdaptiveCompress_NoTargetEncodesAtDefaultQuality(t *testing.T) {
	reg := codec.NewDefaultRegistry()
	buf := sampleBuffer()
	data, err := reg.AdaptiveCompress(context.Background(), buf, rimage.CodecJPEG, codec.AdaptiveConfig{})
	if err != nil {
		t.Fatalf("AdaptiveCompress: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty encoded output")
	}
}

func TestAdaptiveCompress_StepsDownToFitTarget(t *testing.T) {
	reg := codec.NewDefaultRegistry()
	buf := sampleBuffer()

	full, err := reg.Encode(context.Background(), buf, rimage.CodecJPEG, codec.EncodeOptions{Quality: 95})
	if err != nil {
		t.Fatalf("Encode baseline: %v", err)
	}

	target := int64(len(full))
	data, err := reg.AdaptiveCompress(context.Background(), buf, rimage.CodecJPEG, codec.AdaptiveConfig{
		TargetSizeBytes: target,
		MinQuality:      10,
		MaxQuality:      95,
		StepSize:        5,
	})
	if err != nil {
		t.Fatalf("AdaptiveCompress: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty encoded output")
	}
}

func TestAdaptiveCompress_RespectsCancelledContext(t *testing.T) {
	reg := codec.NewDefaultRegistry()
	buf := sampleBuffer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reg.AdaptiveCompress(ctx, buf, rimage.CodecJPEG, codec.AdaptiveConfig{
		TargetSizeBytes: 1,
		MinQuality:      10,
		MaxQuality:      95,
		StepSize:        5,
	})
	if err == nil {
		t.Error("expected error from a cancelled context")
	}
}

func TestAdaptiveCompress_UnsupportedCodecErrors(t *testing.T) {
	reg := codec.NewDefaultRegistry()
	buf := sampleBuffer()
	_, err := reg.AdaptiveCompress(context.Background(), buf, rimage.Codec("unsupported"), codec.AdaptiveConfig{
		TargetSizeBytes: 1,
	})
	if err == nil {
		t.Error("expected error for an unregistered codec")
	}
}
