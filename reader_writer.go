// Copyright 2024 Maxime Ripard. All rights reserved.

package dmabuf

import (
	"bytes"
	"io"
)

// GuardReader is a reader over an open read access window. It holds a
// reference to the guard, so the window can't be finalized while the
// reader is reachable.
type GuardReader struct {
	guard *ReadGuard
	*bytes.Reader
}

// NewGuardReader creates a new reader for the given guard.
func NewGuardReader(g *ReadGuard) *GuardReader {
	return &GuardReader{
		guard:  g,
		Reader: bytes.NewReader(g.Bytes()),
	}
}

// GuardWriter is a writer over an open write access window. It holds
// a reference to the guard, so the window can't be finalized while
// the writer is reachable.
type GuardWriter struct {
	guard *WriteGuard
	pos   int64
}

// NewGuardWriter creates a new writer for the given guard.
func NewGuardWriter(g *WriteGuard) *GuardWriter {
	return &GuardWriter{guard: g}
}

// WriteAt is to implement io.WriterAt.
func (w *GuardWriter) WriteAt(p []byte, off int64) (n int, err error) {
	data := w.guard.Bytes()
	n = len(data) - int(off)
	if n > 0 {
		if n > len(p) {
			n = len(p)
		}
		copy(data[off:], p[:n])
	} else {
		n = 0
	}
	if n < len(p) {
		err = io.EOF
	}
	return
}

// Write is to implement io.Writer.
func (w *GuardWriter) Write(p []byte) (n int, err error) {
	n, err = w.WriteAt(p, w.pos)
	w.pos += int64(n)
	return n, err
}
