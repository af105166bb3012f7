package utils

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// bufPool reuses the byte buffers DrainReader fills, so decoding a stream
// of images doesn't reallocate a backing array per call.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// acquireBuffer returns a reset buffer from the pool. Only DrainReader
// constructs buffers this way — callers release what DrainReader hands
// them, never what they build themselves.
func acquireBuffer() *bytes.Buffer {
	b := bufPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// ReleaseBuffer returns b, previously obtained from DrainReader, to the
// pool. Callers must not use b after this call.
func ReleaseBuffer(b *bytes.Buffer) {
	if b.Cap() > 8*1024*1024 {
		return
	}
	bufPool.Put(b)
}

// DrainReader reads all of r into a pooled buffer, honoring ctx
// cancellation between chunks. Used by the webp and vipscodec decoders to
// materialize a compressed image's bytes before handing them to a decoder
// that needs the whole payload up front. The caller owns the returned
// buffer and must pass it back through ReleaseBuffer.
func DrainReader(ctx context.Context, r io.Reader, chunkSize int) (*bytes.Buffer, error) {
	if chunkSize <= 0 {
		chunkSize = 32 * 1024
	}
	buf := acquireBuffer()
	chunk := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			ReleaseBuffer(buf)
			return nil, err
		}
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			ReleaseBuffer(buf)
			return nil, err
		}
	}
	return buf, nil
}
