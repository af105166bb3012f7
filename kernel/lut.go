package kernel

import (
	"sync"
	"sync/atomic"
)

// lutEntry is a class-level cache line: once built for a given
// (kernelID, fingerprint) pair, the same []uint8 is handed to every
// caller. Publish-once via atomic.Pointer means readers never block on a
// mutex once the value exists; only the first builder pays the build cost.
type lutEntry struct {
	built atomic.Pointer[[256]uint8]
	once  sync.Once
}

var lutRegistry sync.Map // map[string]*lutEntry

// LUTCache returns the cached 256-entry lookup table for (kernelID,
// fingerprint), building it with build on the first request and reusing
// the built table for every subsequent request with the same key — first
// writer wins, every later caller reuses that table.
func LUTCache(kernelID, fingerprint string, build func() [256]uint8) *[256]uint8 {
	key := kernelID + "\x00" + fingerprint
	v, _ := lutRegistry.LoadOrStore(key, &lutEntry{})
	entry := v.(*lutEntry)
	entry.once.Do(func() {
		table := build()
		entry.built.Store(&table)
	})
	return entry.built.Load()
}
