package parity

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/storage"
)

// Store persists and reloads parity fixtures through a storage.Adapter,
// using the "{kernel}_{input_id}_{target}_{bitdepth}" naming convention.
// Fixtures are serialized as their raw sample bytes plus a
// width/height/layout/element header rather than through an image codec:
// the comparator must compare decoded pixel buffers directly, so codec
// choice must never influence equality, and this pack carries no codec
// whose encoding is guaranteed lossless for every sample shape here —
// storing raw samples satisfies that requirement outright rather than
// approximating it with a lossless codec that would only fit the U8 RGBA
// case.
type Store struct {
	adapter storage.Adapter
	bucket  string
}

// NewStore returns a Store persisting fixtures under bucket via adapter.
func NewStore(adapter storage.Adapter, bucket string) *Store {
	return &Store{adapter: adapter, bucket: bucket}
}

func fixtureName(kernel, inputID string, target Target, buf *raster.Buffer) string {
	bitdepth := 8
	if buf.Format().Element == raster.F32 {
		bitdepth = 32
	}
	return fmt.Sprintf("%s_%s_%s_%d.raw", kernel, inputID, target, bitdepth)
}

// Save persists buf's exact sample bytes for (kernel, input, target).
func (s *Store) Save(ctx context.Context, kernel, inputID string, target Target, buf *raster.Buffer) error {
	key := storage.Key{Bucket: s.bucket, Path: fixtureName(kernel, inputID, target, buf)}
	meta := map[string]string{
		"kernel":   kernel,
		"input_id": inputID,
		"target":   string(target),
		"width":    strconv.Itoa(buf.W),
		"height":   strconv.Itoa(buf.H),
		"layout":   buf.Layout.String(),
		"element":  buf.Format().Element.String(),
	}
	return s.adapter.Put(ctx, key, bytes.NewReader(encodeBuffer(buf)), meta)
}

// Load reconstructs a previously saved fixture using the width/height/
// layout/element the corresponding Input/Entry would also produce, since
// the raw sample bytes alone don't self-describe their shape without the
// sidecar metadata (local.go's Metadata, when the adapter is a *Local).
func (s *Store) Load(ctx context.Context, kernel, inputID string, target Target, w, h int, layout raster.Layout, elem raster.Element) (*raster.Buffer, error) {
	name := fmt.Sprintf("%s_%s_%s_%d.raw", kernel, inputID, target, bitdepthOf(elem))
	rc, err := s.adapter.Get(ctx, storage.Key{Bucket: s.bucket, Path: name})
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("parity: loading %s: %w", name, err)
	}
	return decodeBuffer(w, h, layout, elem, data)
}

func bitdepthOf(e raster.Element) int {
	if e == raster.F32 {
		return 32
	}
	return 8
}

func encodeBuffer(buf *raster.Buffer) []byte {
	if buf.Format().Element == raster.F32 {
		f32 := buf.F32()
		out := make([]byte, len(f32)*4)
		for i, v := range f32 {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
		}
		return out
	}
	return append([]byte(nil), buf.U8()...)
}

func decodeBuffer(w, h int, layout raster.Layout, elem raster.Element, data []byte) (*raster.Buffer, error) {
	if elem == raster.F32 {
		n := len(data) / 4
		f32 := make([]float32, n)
		for i := range f32 {
			f32[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return raster.FromF32(w, h, layout, f32)
	}
	return raster.FromU8(w, h, layout, append([]byte(nil), data...))
}
