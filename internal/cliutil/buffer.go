// Package cliutil holds the small pieces of plumbing the two cmd/ front
// ends share — output buffering and logger setup — kept out of cmd/ itself
// so neither binary's main package grows beyond flag wiring.
package cliutil

import (
	"bytes"
	"sync"
)

// Buffer is a mutex-guarded bytes.Buffer safe for one goroutine to write to
// while another reads a snapshot, generalized from the teacher's
// internal/cmd/http.go httpBuffer (there, the one writer is the packet
// printer and the one reader is an HTTP handler goroutine).
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// CopyBuffer returns a snapshot of the buffered bytes as a fresh
// *bytes.Buffer, safe to read without holding b's lock.
func (b *Buffer) CopyBuffer() *bytes.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.NewBuffer(append([]byte(nil), b.buf.Bytes()...))
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
