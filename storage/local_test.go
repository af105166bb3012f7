package storage_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/pixelforge/imagegraph/storage"
)

func TestLocal_PutGetRoundTrip(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	key := storage.Key{Bucket: "fixtures", Path: "a/b.raw"}
	want := []byte("hello world")

	if err := l.Put(context.Background(), key, bytes.NewReader(want), nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, err := l.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLocal_ExistsAndDelete(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	key := storage.Key{Bucket: "b", Path: "x.raw"}

	exists, err := l.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("expected key to not exist before Put")
	}

	if err := l.Put(context.Background(), key, bytes.NewReader([]byte("data")), nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	exists, err = l.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatal("expected key to exist after Put")
	}

	if err := l.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	exists, err = l.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("expected key to not exist after Delete")
	}
}

func TestLocal_GetMissingKeyErrors(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := l.Get(context.Background(), storage.Key{Bucket: "b", Path: "missing.raw"}); err == nil {
		t.Error("expected error getting a missing key")
	}
}

func TestLocal_MetadataSidecarRoundTrip(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	key := storage.Key{Bucket: "b", Path: "with-meta.raw"}
	meta := map[string]string{"kernel": "gaussian_blur", "target": "native"}

	if err := l.Put(context.Background(), key, bytes.NewReader([]byte("payload")), meta); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := l.Metadata(context.Background(), key)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if got["kernel"] != "gaussian_blur" || got["target"] != "native" {
		t.Errorf("got %+v", got)
	}
}

func TestLocal_MetadataAbsentWithoutSidecar(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	key := storage.Key{Bucket: "b", Path: "no-meta.raw"}
	if err := l.Put(context.Background(), key, bytes.NewReader([]byte("payload")), nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := l.Metadata(context.Background(), key)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil metadata without a sidecar, got %+v", got)
	}
}
