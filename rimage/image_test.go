package rimage_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/rimage"
)

func TestImage_NewRawIsRaw(t *testing.T) {
	buf := raster.NewU8(2, 2, raster.RGBA)
	img := rimage.NewRaw(buf)
	if !img.IsRaw() || img.IsCompressed() {
		t.Error("NewRaw should produce a Raw image")
	}
	w, h, ok := img.Dimensions()
	if !ok || w != 2 || h != 2 {
		t.Errorf("Dimensions() = %d,%d,%v, want 2,2,true", w, h, ok)
	}
}

func TestImage_CompressedDecodesLazily(t *testing.T) {
	calls := 0
	decodeFn := func(c rimage.Codec, data []byte) (*raster.Buffer, error) {
		calls++
		return raster.NewU8(3, 3, raster.RGB), nil
	}
	img := rimage.NewCompressed([]byte("fake-bytes"), rimage.CodecJPEG, decodeFn)
	if !img.IsCompressed() {
		t.Fatal("NewCompressed should produce a Compressed image")
	}
	if calls != 0 {
		t.Fatal("decodeFn should not run until Pixels is called")
	}

	buf, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 decode call, got %d", calls)
	}
	if buf.W != 3 || buf.H != 3 {
		t.Errorf("got %dx%d, want 3x3", buf.W, buf.H)
	}
	if !img.IsRaw() {
		t.Error("after Pixels, the image should have transitioned to Raw")
	}

	if _, err := img.Pixels(); err != nil {
		t.Fatalf("second Pixels call: %v", err)
	}
	if calls != 1 {
		t.Errorf("second Pixels call should reuse the cached buffer, got %d decode calls", calls)
	}
}

func TestImage_PixelsWithoutDecoderErrors(t *testing.T) {
	img := rimage.NewCompressed([]byte("data"), rimage.CodecPNG, nil)
	if _, err := img.Pixels(); err == nil {
		t.Error("expected error decoding without a registered decodeFn")
	}
}

func TestImage_CloneIsIndependent(t *testing.T) {
	buf := raster.NewU8(2, 2, raster.GRAY)
	img := rimage.NewRaw(buf)
	clone := img.Clone()

	cloneBuf, _ := clone.Pixels()
	cloneBuf.U8()[0] = 200
	origBuf, _ := img.Pixels()
	if origBuf.U8()[0] == 200 {
		t.Error("mutating the clone's pixels affected the original")
	}
}

func TestImage_WithMetadataPreservesPixelIdentity(t *testing.T) {
	buf := raster.NewU8(2, 2, raster.GRAY)
	img := rimage.NewRaw(buf)
	meta := rimage.Metadata{}.With("detected_faces", 3)
	tagged := img.WithMetadata(meta)

	v, ok := tagged.Metadata().Get("detected_faces")
	if !ok || v != 3 {
		t.Errorf("got %v,%v, want 3,true", v, ok)
	}
	taggedBuf, _ := tagged.Pixels()
	origBuf, _ := img.Pixels()
	if taggedBuf != origBuf {
		t.Error("WithMetadata should preserve pixel identity, not copy the buffer")
	}
}

func TestImage_DropCompressedClearsBytes(t *testing.T) {
	decodeFn := func(c rimage.Codec, data []byte) (*raster.Buffer, error) {
		return raster.NewU8(1, 1, raster.GRAY), nil
	}
	img := rimage.NewCompressed([]byte("orig"), rimage.CodecPNG, decodeFn)
	if _, err := img.Pixels(); err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	if img.CompressedBytes() == nil {
		t.Fatal("expected compressed bytes to be retained after decode")
	}
	img.DropCompressed()
	if img.CompressedBytes() != nil {
		t.Error("expected compressed bytes to be cleared after DropCompressed")
	}
}
