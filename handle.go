// Copyright 2024 Maxime Ripard. All rights reserved.

package dmabuf

// Handle is the buffer reference the access layer is built on. It is
// implemented by FileHandle for real dma-buf file descriptors; other
// providers (tests, host-only pipelines) can supply their own.
// A Handle must outlive every mapping derived from it.
type Handle interface {
	// Len returns the buffer length in bytes. It never fails and
	// must not change over the handle's lifetime.
	Len() int
	// SyncStart tells the owning mechanism that CPU access of the
	// given mode is about to begin. It may block while a non-CPU
	// agent holds the buffer.
	SyncStart(mode AccessMode) error
	// SyncEnd is the mirror call ending a CPU access window. It is
	// issued even when intervening steps failed, so that the
	// mechanism never stays in a started-but-never-ended state.
	SyncEnd(mode AccessMode) error
	// CreateMapping maps the full buffer with protections derived
	// from mode. Each call is a fresh acquisition.
	CreateMapping(mode AccessMode) (*Mapping, error)
}

// Mapping is a live memory window onto a buffer. It is a thin
// map-on-creation, unmap-on-release resource and does not enforce any
// access exclusivity itself; guards do.
type Mapping struct {
	data  []byte
	mode  AccessMode
	unmap func([]byte) error
}

// NewMapping wraps mapped bytes into a Mapping. unmap is invoked
// exactly once when the mapping is released; it may be nil for memory
// which needs no explicit unmapping.
func NewMapping(data []byte, mode AccessMode, unmap func([]byte) error) *Mapping {
	return &Mapping{data: data, mode: mode, unmap: unmap}
}

// Bytes returns the mapped bytes. It returns nil after the mapping
// has been released.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Len returns the length of the mapped window.
func (m *Mapping) Len() int {
	return len(m.data)
}

// Mode returns the access mode the mapping was created with.
func (m *Mapping) Mode() AccessMode {
	return m.mode
}

// close releases the mapping. Safe to call more than once, only the
// first call unmaps.
func (m *Mapping) close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	if m.unmap == nil {
		return nil
	}
	return m.unmap(data)
}
