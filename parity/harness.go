package parity

import (
	"context"
	"fmt"

	"github.com/pixelforge/imagegraph/raster"
)

// KernelFunc runs one registered kernel against a golden input buffer.
type KernelFunc func(ctx context.Context, in *raster.Buffer) (*raster.Buffer, error)

// Target labels one build/backend a kernel runs under. This repo ships a
// single pure-Go kernel implementation (kernel/), so callers typically wire
// it via RegisterSingleBackend, which runs that one implementation under
// both target labels — it proves the comparator's bit-exact contract without a
// second, genuinely distinct backend to compare against. A real accelerated
// backend (e.g. a govips-backed kernel, mirroring codec/vipscodec's
// relationship to the stdlib codecs) is the natural place to plug in a
// second Target later.
type Target string

const (
	TargetNative   Target = "native"
	TargetPortable Target = "portable"
)

// Entry registers one kernel's implementation under one Target.
type Entry struct {
	Kernel string
	Target Target
	Fn     KernelFunc
}

// Runner enumerates registered (kernel, target) entries, executes them
// against DefaultCatalog, and persists + compares results.
type Runner struct {
	entries []Entry
	catalog []Input
	store   *Store
}

// NewRunner returns a Runner over the default golden-input catalog,
// persisting through store.
func NewRunner(store *Store) *Runner {
	return &Runner{catalog: DefaultCatalog(), store: store}
}

// Register adds one kernel implementation under the given target.
func (r *Runner) Register(kernel string, target Target, fn KernelFunc) {
	r.entries = append(r.entries, Entry{Kernel: kernel, Target: target, Fn: fn})
}

// RegisterSingleBackend registers fn for kernel under both TargetNative
// and TargetPortable — see Target's doc comment for why.
func (r *Runner) RegisterSingleBackend(kernel string, fn KernelFunc) {
	r.Register(kernel, TargetNative, fn)
	r.Register(kernel, TargetPortable, fn)
}

// Result is one (kernel, input, target) execution outcome.
type Result struct {
	Kernel string
	Input  string
	Target Target
	Output *raster.Buffer
	Err    error
}

// Run executes every registered entry against every catalog input,
// storing each output via the Store.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	var results []Result
	for _, e := range r.entries {
		for _, in := range r.catalog {
			out, err := e.Fn(ctx, in.Buffer)
			res := Result{Kernel: e.Kernel, Input: in.ID, Target: e.Target, Output: out, Err: err}
			results = append(results, res)
			if err != nil {
				continue
			}
			if r.store != nil {
				if err := r.store.Save(ctx, e.Kernel, in.ID, e.Target, out); err != nil {
					return results, fmt.Errorf("parity: storing %s/%s/%s: %w", e.Kernel, in.ID, e.Target, err)
				}
			}
		}
	}
	return results, nil
}

// Mismatch describes one kernel/input pair whose native and portable
// outputs are not bit-identical.
type Mismatch struct {
	Kernel string
	Input  string
	Diff   *raster.Buffer // per-pixel absolute-difference visualization
}

// Compare groups results by (kernel, input) and reports every pair whose
// TargetNative and TargetPortable outputs differ.
func Compare(results []Result) []Mismatch {
	type key struct{ kernel, input string }
	byKey := make(map[key]map[Target]*raster.Buffer)
	for _, r := range results {
		if r.Err != nil || r.Output == nil {
			continue
		}
		k := key{r.Kernel, r.Input}
		if byKey[k] == nil {
			byKey[k] = make(map[Target]*raster.Buffer)
		}
		byKey[k][r.Target] = r.Output
	}
	var mismatches []Mismatch
	for k, byTarget := range byKey {
		native, hasNative := byTarget[TargetNative]
		portable, hasPortable := byTarget[TargetPortable]
		if !hasNative || !hasPortable {
			continue
		}
		if native.Equal(portable) {
			continue
		}
		mismatches = append(mismatches, Mismatch{
			Kernel: k.kernel,
			Input:  k.input,
			Diff:   diffU8(native, portable),
		})
	}
	return mismatches
}

// diffU8 renders a per-pixel absolute-difference visualization of two
// same-shaped U8 buffers, for the failure diagnostics requires. Non-U8 or
// shape-mismatched pairs return nil — their mismatch is already evident from
// Compare without a pixel diff.
func diffU8(a, b *raster.Buffer) *raster.Buffer {
	if a.Format() != b.Format() || a.W != b.W || a.H != b.H {
		return nil
	}
	if a.Format().Element != raster.U8 {
		return nil
	}
	out := raster.NewU8(a.W, a.H, a.Layout)
	ap, bp, op := a.U8(), b.U8(), out.U8()
	for i := range op {
		d := int(ap[i]) - int(bp[i])
		if d < 0 {
			d = -d
		}
		op[i] = uint8(d)
	}
	return out
}
