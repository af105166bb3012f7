package codec_test

import (
	"context"
	"io"
	"testing"

	"github.com/pixelforge/imagegraph/codec"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

func sampleBuffer() *raster.Buffer {
	b := raster.NewU8(4, 4, raster.RGBA)
	px := b.U8()
	for i := range px {
		px[i] = uint8(i % 256)
	}
	return b
}

func TestRegistry_PNGEncodeDecodeRoundTrip(t *testing.T) {
	r := codec.NewDefaultRegistry()
	buf := sampleBuffer()

	data, err := r.Encode(context.Background(), buf, rimage.CodecPNG, codec.EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := r.DecodeFunc(rimage.CodecPNG, data)
	if err != nil {
		t.Fatalf("DecodeFunc: %v", err)
	}
	if decoded.W != buf.W || decoded.H != buf.H {
		t.Errorf("decoded dims %dx%d, want %dx%d", decoded.W, decoded.H, buf.W, buf.H)
	}
}

func TestRegistry_JPEGEncodeDecodeRoundTrip(t *testing.T) {
	r := codec.NewDefaultRegistry()
	buf := sampleBuffer()

	data, err := r.Encode(context.Background(), buf, rimage.CodecJPEG, codec.EncodeOptions{Quality: 90})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := r.DecodeFunc(rimage.CodecJPEG, data)
	if err != nil {
		t.Fatalf("DecodeFunc: %v", err)
	}
	if decoded.W != buf.W || decoded.H != buf.H {
		t.Errorf("decoded dims %dx%d, want %dx%d", decoded.W, decoded.H, buf.W, buf.H)
	}
}

func TestRegistry_UnsupportedCodec(t *testing.T) {
	r := codec.NewDefaultRegistry()
	if _, err := r.DecodeFunc(rimage.Codec("not-a-codec"), []byte{1, 2, 3}); err == nil {
		t.Error("expected error decoding an unregistered codec")
	}
	if _, err := r.Encode(context.Background(), sampleBuffer(), rimage.Codec("not-a-codec"), codec.EncodeOptions{}); err == nil {
		t.Error("expected error encoding to an unregistered codec")
	}
}

func TestRegistry_RegisterDecoderTakesPriority(t *testing.T) {
	r := codec.NewDefaultRegistry()
	calls := 0
	r.RegisterDecoder(&stubDecoder{codec: rimage.CodecPNG, onDecode: func() { calls++ }})

	data, err := r.Encode(context.Background(), sampleBuffer(), rimage.CodecPNG, codec.EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := r.DecodeFunc(rimage.CodecPNG, data); err != nil {
		t.Fatalf("DecodeFunc: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected the newly-registered decoder to be preferred, got %d calls", calls)
	}
}

type stubDecoder struct {
	codec    rimage.Codec
	onDecode func()
}

func (s *stubDecoder) CanDecode(c rimage.Codec) bool { return c == s.codec }

func (s *stubDecoder) Decode(ctx context.Context, r io.Reader) (*raster.Buffer, error) {
	s.onDecode()
	return raster.NewU8(1, 1, raster.RGBA), nil
}
