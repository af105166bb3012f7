// Package utils holds the byte-level plumbing codec decoders share:
// copying drained bytes out of a pooled buffer and wrapping them back
// into a reader for a decoder that wants one.
package utils

import "bytes"

// CloneBytes returns an independent copy of b, safe to retain after the
// pooled buffer it came from (see DrainReader/ReleaseBuffer) is recycled.
func CloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// BytesReader wraps b in an io.Reader without copying, for handing
// already-drained bytes to a decoder that only accepts a reader
// (golang.org/x/image/webp.Decode, for one).
func BytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
