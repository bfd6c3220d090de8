// Copyright 2024 Maxime Ripard. All rights reserved.

package dmabuf

import (
	"io"
	"sync"
)

// Buffer is the entry point callers hold on one shareable buffer. It
// hands out access guards and enforces the exclusivity rule: any
// number of read guards, or exactly one write guard, never both.
// Since Go cannot reject an illegal combination at compile time, a
// violation is reported as ErrBusy instead. The gate never blocks
// waiting for other guards to be released.
//
// A zero-length buffer cannot be mapped; MapRead and MapWrite both
// fail with a MapError for it.
type Buffer struct {
	handle Handle

	mu      sync.Mutex
	readers int
	writing bool
}

// NewBuffer wraps a Handle into a Buffer. The handle must stay valid
// for the buffer's lifetime.
func NewBuffer(h Handle) *Buffer {
	return &Buffer{handle: h}
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int {
	return b.handle.Len()
}

// MapRead opens a read access window. It may be called concurrently
// from multiple goroutines, each successful call returns an
// independent guard. It fails with ErrBusy while a write guard is
// outstanding.
func (b *Buffer) MapRead() (*ReadGuard, error) {
	if err := b.acquire(ReadOnly); err != nil {
		return nil, err
	}
	g, err := newGuard(b, ReadOnly)
	if err != nil {
		b.release(ReadOnly)
		return nil, err
	}
	return &ReadGuard{g}, nil
}

// MapWrite opens an exclusive read-write access window. It fails with
// ErrBusy while any other guard, read or write, is outstanding.
func (b *Buffer) MapWrite() (*WriteGuard, error) {
	if err := b.acquire(ReadWrite); err != nil {
		return nil, err
	}
	g, err := newGuard(b, ReadWrite)
	if err != nil {
		b.release(ReadWrite)
		return nil, err
	}
	return &WriteGuard{g}, nil
}

// Close closes the underlying handle, if it supports closing. It
// fails with ErrBusy while guards are outstanding.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readers > 0 || b.writing {
		return ErrBusy
	}
	if c, ok := b.handle.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *Buffer) acquire(mode AccessMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handle.Len() == 0 {
		return &MapError{Reason: "zero-length buffer"}
	}
	if mode == ReadWrite {
		if b.writing || b.readers > 0 {
			return ErrBusy
		}
		b.writing = true
	} else {
		if b.writing {
			return ErrBusy
		}
		b.readers++
	}
	return nil
}

func (b *Buffer) release(mode AccessMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if mode == ReadWrite {
		b.writing = false
	} else {
		b.readers--
	}
}
