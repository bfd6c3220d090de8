// Copyright 2024 Maxime Ripard. All rights reserved.

//go:build linux

package dmabuf

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// FileHandle is a Handle backed by a dma-buf file descriptor, as
// exported by a DRM or V4L2 driver, a dma-buf heap, or udmabuf. It
// owns the kernel-side buffer reference through the descriptor.
type FileHandle struct {
	file *os.File
	size int
}

// NewFileHandle wraps an open dma-buf file descriptor. The buffer
// length is read once with fstat and is authoritative for every
// mapping derived from the handle.
func NewFileHandle(f *os.File) (*FileHandle, error) {
	var stat unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &stat); err != nil {
		return nil, errors.Wrap(err, "could not stat the buffer file descriptor")
	}
	slog.Debug("dmabuf: importing buffer", "fd", f.Fd(), "size", stat.Size)
	return &FileHandle{file: f, size: int(stat.Size)}, nil
}

// FromFile wraps an open dma-buf file descriptor into a Buffer.
func FromFile(f *os.File) (*Buffer, error) {
	h, err := NewFileHandle(f)
	if err != nil {
		return nil, err
	}
	return NewBuffer(h), nil
}

// Len returns the buffer length in bytes.
func (h *FileHandle) Len() int {
	return h.size
}

// Fd returns the underlying file descriptor.
func (h *FileHandle) Fd() uintptr {
	return h.file.Fd()
}

// SyncStart begins a CPU access window with DMA_BUF_IOCTL_SYNC. The
// call may block until non-CPU users of the buffer are done with it.
// EINTR and EAGAIN are surfaced through SyncError.Temporary, retrying
// is up to the caller.
func (h *FileHandle) SyncStart(mode AccessMode) error {
	return h.sync(mode, "start", dmaBufSyncStart)
}

// SyncEnd ends a CPU access window with DMA_BUF_IOCTL_SYNC.
func (h *FileHandle) SyncEnd(mode AccessMode) error {
	return h.sync(mode, "end", dmaBufSyncEnd)
}

func (h *FileHandle) sync(mode AccessMode, op string, dir uint64) error {
	flags, err := syncFlags(mode)
	if err != nil {
		return &SyncError{Mode: mode, Op: op, Err: err}
	}
	if err := dmaBufSync(int(h.file.Fd()), dir|flags); err != nil {
		return &SyncError{Mode: mode, Op: op, Err: err}
	}
	return nil
}

// CreateMapping maps the full buffer with MAP_SHARED and protections
// derived from mode.
func (h *FileHandle) CreateMapping(mode AccessMode) (*Mapping, error) {
	prot, err := protFromMode(mode)
	if err != nil {
		return nil, &MapError{Reason: "invalid access mode", Err: err}
	}
	data, err := unix.Mmap(int(h.file.Fd()), 0, h.size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, &MapError{Reason: "mmap failed", Err: err}
	}
	slog.Debug("dmabuf: buffer mapped", "fd", h.file.Fd(), "size", h.size,
		"mode", mode.String())
	return NewMapping(data, mode, unix.Munmap), nil
}

// Close closes the descriptor. Mappings created earlier stay valid,
// the kernel keeps the buffer alive until the last of them is
// unmapped.
func (h *FileHandle) Close() error {
	return h.file.Close()
}

func protFromMode(mode AccessMode) (int, error) {
	switch mode {
	case ReadOnly:
		return unix.PROT_READ, nil
	case ReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE, nil
	default:
		return 0, errors.Errorf("invalid access mode %d", mode)
	}
}
