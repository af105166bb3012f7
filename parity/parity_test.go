package parity_test

import (
	"context"
	"testing"

	"github.com/pixelforge/imagegraph/parity"
	"github.com/pixelforge/imagegraph/raster"
	"github.com/pixelforge/imagegraph/storage"
)

func TestDefaultCatalog_FixedShapeAndIDs(t *testing.T) {
	catalog := parity.DefaultCatalog()
	if len(catalog) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
	seen := make(map[string]bool)
	for _, in := range catalog {
		if seen[in.ID] {
			t.Errorf("duplicate catalog input ID %q", in.ID)
		}
		seen[in.ID] = true
		if in.Buffer == nil || in.Buffer.W == 0 || in.Buffer.H == 0 {
			t.Errorf("input %q has an empty buffer", in.ID)
		}
	}
}

func invertKernel(ctx context.Context, in *raster.Buffer) (*raster.Buffer, error) {
	out := in.Clone()
	px := out.U8()
	for i := range px {
		px[i] = 255 - px[i]
	}
	return out, nil
}

func TestRunner_SingleBackendProducesNoMismatches(t *testing.T) {
	store := parity.NewStore(mustLocal(t), "fixtures")
	runner := parity.NewRunner(store)
	runner.RegisterSingleBackend("invert", invertKernel)

	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(parity.DefaultCatalog())*2 {
		t.Fatalf("got %d results, want %d", len(results), len(parity.DefaultCatalog())*2)
	}

	mismatches := parity.Compare(results)
	if len(mismatches) != 0 {
		t.Errorf("expected no mismatches for identical native/portable implementations, got %d", len(mismatches))
	}
}

func TestCompare_FlagsDivergentImplementations(t *testing.T) {
	store := parity.NewStore(mustLocal(t), "fixtures")
	runner := parity.NewRunner(store)
	runner.Register("invert", parity.TargetNative, invertKernel)
	runner.Register("invert", parity.TargetPortable, func(ctx context.Context, in *raster.Buffer) (*raster.Buffer, error) {
		out := in.Clone()
		px := out.U8()
		for i := range px {
			px[i] = 255 - px[i]
		}
		if len(px) > 0 {
			px[0] ^= 1 // introduce a one-bit divergence
		}
		return out, nil
	})

	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	mismatches := parity.Compare(results)
	if len(mismatches) != len(parity.DefaultCatalog()) {
		t.Fatalf("got %d mismatches, want %d (one per catalog input)", len(mismatches), len(parity.DefaultCatalog()))
	}
	for _, m := range mismatches {
		if m.Diff == nil {
			t.Errorf("mismatch for %s/%s missing a diff visualization", m.Kernel, m.Input)
		}
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := parity.NewStore(mustLocal(t), "fixtures")
	buf := raster.NewU8(4, 4, raster.RGBA)
	px := buf.U8()
	for i := range px {
		px[i] = uint8(i)
	}

	if err := store.Save(context.Background(), "gaussian_blur", "flat_mid_gray", parity.TargetNative, buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(context.Background(), "gaussian_blur", "flat_mid_gray", parity.TargetNative, 4, 4, raster.RGBA, raster.U8)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !buf.Equal(loaded) {
		t.Error("loaded fixture does not match the saved buffer")
	}
}

func mustLocal(t *testing.T) storage.Adapter {
	t.Helper()
	l, err := storage.NewLocal(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return l
}
