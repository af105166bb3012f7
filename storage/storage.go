// Package storage persists opaque byte blobs (parity golden fixtures,
// failure-diff images, serialized graphs) behind a small key/value
// contract, grounded on the teacher's adapters/storage package
// (core.StorageAdapter, Local, S3) — generalized from a processed-image
// store keyed by core.StorageKey into a domain-neutral blob store keyed
// by Key, so parity.Store can sit on top of it without importing the
// deleted core package.
package storage

import (
	"context"
	"io"
)

// Key identifies one stored blob. Bucket groups related blobs (a golden
// fixture set, a diff directory); Path is the blob's name within it.
type Key struct {
	Bucket string
	Path   string
}

// Adapter persists and retrieves blobs by Key, with an optional string
// metadata side-channel (used for parity's kernel, input_id, target,
// width, height, layout, and element sidecar).
type Adapter interface {
	Put(ctx context.Context, key Key, r io.Reader, meta map[string]string) error
	Get(ctx context.Context, key Key) (io.ReadCloser, error)
	Delete(ctx context.Context, key Key) error
	Exists(ctx context.Context, key Key) (bool, error)
}
