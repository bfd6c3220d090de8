// Copyright 2024 Maxime Ripard. All rights reserved.

//go:build linux

package dmabuf

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// A real dma-buf descriptor needs an exporting driver, so these tests
// exercise FileHandle against a regular file: fstat, mmap and munmap
// behave the same, while DMA_BUF_IOCTL_SYNC is rejected with ENOTTY.

func tempHandle(t *testing.T, size int64) *FileHandle {
	f, err := os.CreateTemp(t.TempDir(), "dmabuf")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	if err := f.Truncate(size); err != nil {
		t.Fatal(err)
	}
	h, err := NewFileHandle(f)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestFileHandleLen(t *testing.T) {
	h := tempHandle(t, 4096)
	assert.Equal(t, 4096, h.Len())
}

func TestFileHandleMapping(t *testing.T) {
	a := assert.New(t)
	h := tempHandle(t, 4096)

	m, err := h.CreateMapping(ReadWrite)
	if !a.NoError(err) {
		return
	}
	a.Equal(4096, m.Len())
	a.Equal(ReadWrite, m.Mode())
	copy(m.Bytes(), "dma-data")
	a.NoError(m.close())
	a.Nil(m.Bytes())
	// close is idempotent.
	a.NoError(m.close())

	ro, err := h.CreateMapping(ReadOnly)
	if !a.NoError(err) {
		return
	}
	a.Equal([]byte("dma-data"), ro.Bytes()[:8])
	a.NoError(ro.close())
}

func TestFileHandleSyncRejected(t *testing.T) {
	a := assert.New(t)
	h := tempHandle(t, 4096)
	err := h.SyncStart(ReadOnly)
	if !a.True(IsSyncError(err)) {
		return
	}
	var se *SyncError
	a.ErrorAs(err, &se)
	a.Equal("start", se.Op)
	a.False(se.Temporary())
}

func TestFromFileNotDmaBuf(t *testing.T) {
	a := assert.New(t)
	f, err := os.CreateTemp(t.TempDir(), "dmabuf")
	if !a.NoError(err) {
		return
	}
	defer f.Close()
	a.NoError(f.Truncate(16))
	buf, err := FromFile(f)
	if !a.NoError(err) {
		return
	}
	a.Equal(16, buf.Len())
	// guard construction stops at the rejected sync transition.
	_, err = buf.MapRead()
	a.True(IsSyncError(err))
	// the slot was given back, the buffer can be closed.
	a.NoError(buf.Close())
}
