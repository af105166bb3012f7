package utils_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pixelforge/imagegraph/utils"
)

func TestDrainReader_ReadsAllChunks(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte("x"), 100))
	buf, err := utils.DrainReader(context.Background(), src, 7)
	if err != nil {
		t.Fatalf("DrainReader: %v", err)
	}
	defer utils.ReleaseBuffer(buf)
	if buf.Len() != 100 {
		t.Errorf("got %d bytes, want 100", buf.Len())
	}
}

func TestDrainReader_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := utils.DrainReader(ctx, bytes.NewReader([]byte("data")), 0)
	if err == nil {
		t.Error("expected error from a cancelled context")
	}
}

func TestDrainReader_PropagatesReaderError(t *testing.T) {
	boom := errors.New("boom")
	r := &erroringReader{err: boom}
	_, err := utils.DrainReader(context.Background(), r, 4)
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}

type erroringReader struct{ err error }

func (r *erroringReader) Read(p []byte) (int, error) { return 0, r.err }
