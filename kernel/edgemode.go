// Package kernel implements the pure, deterministic per-pixel and
// per-neighborhood operations: point ops, blurs, edge detectors, morphology,
// geometric transforms, histogram ops, alpha ops, blend modes, and layer
// effects. Every kernel exists in both a U8 and an F32 variant with
// identical algorithmic structure, and every kernel is a pure function of
// (inputs, params): no thread-local RNG without an explicit seed, no time-
// based branches, no dependence on iteration order.
package kernel

// EdgeMode selects how neighborhood kernels sample outside the buffer
// bounds. EdgeClamp ("clamp to edge") is the pinned default per the
// Open Question — reflect/replicate alternatives are defined here but must
// never become the default without an explicit test update.
type EdgeMode int

const (
	EdgeClamp EdgeMode = iota
	EdgeReflect
	EdgeWrap
	EdgeZero
)

// clampIndex maps a possibly out-of-range coordinate into [0, n) per mode.
// ok is false only for EdgeZero, signaling the caller to use a zero sample
// instead of indexing the buffer.
func clampIndex(i, n int, mode EdgeMode) (idx int, ok bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch mode {
	case EdgeReflect:
		if n == 1 {
			return 0, true
		}
		period := 2 * (n - 1)
		m := i % period
		if m < 0 {
			m += period
		}
		if m >= n {
			m = period - m
		}
		return m, true
	case EdgeWrap:
		m := i % n
		if m < 0 {
			m += n
		}
		return m, true
	case EdgeZero:
		return 0, false
	default: // EdgeClamp
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	}
}
