package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores blobs on the local filesystem, one file per Key plus a
// ".meta.json" sidecar when metadata is supplied — unchanged from the
// teacher's adapters/storage.Local.
type Local struct {
	rootDir     string
	permissions os.FileMode
}

// NewLocal creates a Local adapter rooted at dir, creating it if absent.
func NewLocal(dir string, perm os.FileMode) (*Local, error) {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: mkdir %s: %w", dir, err)
	}
	return &Local{rootDir: dir, permissions: perm}, nil
}

func (l *Local) absPath(key Key) string {
	return filepath.Join(l.rootDir, filepath.Clean(key.Bucket), filepath.Clean(key.Path))
}

func (l *Local) Put(ctx context.Context, key Key, r io.Reader, meta map[string]string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("local storage: put %v: %w", key, err)
	}
	path := l.absPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("local storage: put %v: mkdir: %w", key, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, l.permissions)
	if err != nil {
		return fmt.Errorf("local storage: put %v: open: %w", key, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("local storage: put %v: copy: %w", key, err)
	}
	if len(meta) > 0 {
		mf, err := os.OpenFile(path+".meta.json", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, l.permissions)
		if err == nil {
			_ = json.NewEncoder(mf).Encode(meta)
			mf.Close()
		}
	}
	return nil
}

func (l *Local) Get(ctx context.Context, key Key) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("local storage: get %v: %w", key, err)
	}
	f, err := os.Open(l.absPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("local storage: key not found: %v", key)
		}
		return nil, fmt.Errorf("local storage: get %v: %w", key, err)
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("local storage: delete %v: %w", key, err)
	}
	path := l.absPath(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("local storage: delete %v: %w", key, err)
	}
	_ = os.Remove(path + ".meta.json")
	return nil
}

func (l *Local) Exists(ctx context.Context, key Key) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("local storage: exists %v: %w", key, err)
	}
	_, err := os.Stat(l.absPath(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("local storage: exists %v: %w", key, err)
}

// Metadata reads back the JSON sidecar written alongside key, if any.
func (l *Local) Metadata(ctx context.Context, key Key) (map[string]string, error) {
	f, err := os.Open(l.absPath(key) + ".meta.json")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("local storage: metadata %v: %w", key, err)
	}
	defer f.Close()
	var meta map[string]string
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return nil, fmt.Errorf("local storage: metadata %v: decode: %w", key, err)
	}
	return meta, nil
}
