// Copyright 2024 Maxime Ripard. All rights reserved.

package dmabuf

import (
	stderrors "errors"
	"log/slog"
	"runtime"
)

// guard is the common lifecycle of both guard kinds: it owns one
// mapping and brackets its lifetime with the handle's sync calls.
// Within one guard, sync start always precedes mapping creation, and
// sync end always precedes unmapping. A guard is not safe for
// concurrent use by multiple goroutines.
type guard struct {
	buf     *Buffer
	mode    AccessMode
	mapping *Mapping
	closed  bool
}

// newGuard runs the acquisition protocol. If the sync transition is
// rejected, nothing else has happened and the error is returned as-is.
// If the mapping fails afterwards, the sync is undone first; a failure
// to undo cannot be surfaced on top of the mapping error and is only
// logged.
func newGuard(buf *Buffer, mode AccessMode) (*guard, error) {
	h := buf.handle
	if err := h.SyncStart(mode); err != nil {
		return nil, syncFailure(err, mode, "start")
	}
	m, err := h.CreateMapping(mode)
	if err != nil {
		if endErr := h.SyncEnd(mode); endErr != nil {
			slog.Warn("dmabuf: sync end after failed mapping",
				"mode", mode.String(), "error", endErr)
		}
		return nil, mapFailure(err)
	}
	g := &guard{buf: buf, mode: mode, mapping: m}
	runtime.SetFinalizer(g, func(g *guard) {
		slog.Warn("dmabuf: guard leaked, releasing in finalizer",
			"mode", g.mode.String())
		g.Close()
	})
	return g, nil
}

// Close ends the access window: sync end, then unmap, then the
// buffer's access slot is given back. Both release steps always run,
// even when the first fails; the first failure is returned. Closing
// an already closed guard is a no-op.
func (g *guard) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	runtime.SetFinalizer(g, nil)

	var err error
	if endErr := g.buf.handle.SyncEnd(g.mode); endErr != nil {
		slog.Warn("dmabuf: sync end failed", "mode", g.mode.String(), "error", endErr)
		err = syncFailure(endErr, g.mode, "end")
	}
	if unmapErr := g.mapping.close(); unmapErr != nil {
		slog.Warn("dmabuf: unmap failed", "mode", g.mode.String(), "error", unmapErr)
		if err == nil {
			err = unmapErr
		}
	}
	g.buf.release(g.mode)
	return err
}

// Len returns the length of the mapped window.
func (g *guard) Len() int {
	return g.mapping.Len()
}

// Mode returns the guard's access mode.
func (g *guard) Mode() AccessMode {
	return g.mode
}

// ReadGuard is an open, synchronized read access window on a buffer.
// Any number of read guards may be live on the same buffer at once.
type ReadGuard struct {
	*guard
}

// Bytes returns the mapped bytes. The mapping is created without
// write protection, stores through the returned slice fault. Bytes
// returns nil once the guard is closed.
func (g *ReadGuard) Bytes() []byte {
	return g.mapping.Bytes()
}

// WriteGuard is an open, synchronized read-write access window on a
// buffer. It is exclusive against every other guard on the buffer.
type WriteGuard struct {
	*guard
}

// Bytes returns the mapped bytes for reading and writing. Bytes
// returns nil once the guard is closed.
func (g *WriteGuard) Bytes() []byte {
	return g.mapping.Bytes()
}

func syncFailure(err error, mode AccessMode, op string) error {
	var se *SyncError
	if stderrors.As(err, &se) {
		return err
	}
	return &SyncError{Mode: mode, Op: op, Err: err}
}

func mapFailure(err error) error {
	var me *MapError
	if stderrors.As(err, &me) {
		return err
	}
	return &MapError{Reason: "mapping failed", Err: err}
}
