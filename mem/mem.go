// Copyright 2024 Maxime Ripard. All rights reserved.

// Package mem provides an in-memory buffer handle with no-op
// synchronization. It stands in for a real dma-buf exporter in tests
// and host-only pipelines.
package mem

import (
	dmabuf "github.com/mripard/dma-buf"
)

// Handle is an in-memory dmabuf.Handle backed by plain heap memory.
// There is no non-CPU agent to synchronize with, so the sync calls do
// nothing, and read-only mappings are not hardware-protected: writing
// through a read guard's view is a caller bug, not a fault.
type Handle struct {
	data []byte
}

// New creates a handle over a fresh zeroed buffer of the given size.
func New(size int) *Handle {
	return &Handle{data: make([]byte, size)}
}

// FromBytes creates a handle aliasing the given slice. Mappings
// derived from the handle share its storage.
func FromBytes(data []byte) *Handle {
	return &Handle{data: data}
}

// Len returns the buffer length in bytes.
func (h *Handle) Len() int {
	return len(h.data)
}

// SyncStart is a no-op.
func (h *Handle) SyncStart(dmabuf.AccessMode) error {
	return nil
}

// SyncEnd is a no-op.
func (h *Handle) SyncEnd(dmabuf.AccessMode) error {
	return nil
}

// CreateMapping returns a mapping aliasing the handle's storage.
func (h *Handle) CreateMapping(mode dmabuf.AccessMode) (*dmabuf.Mapping, error) {
	return dmabuf.NewMapping(h.data, mode, nil), nil
}
