// Copyright 2024 Maxime Ripard. All rights reserved.

//go:build linux

package dmabuf

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DMA_BUF_IOCTL_SYNC, from include/uapi/linux/dma-buf.h. The request
// is _IOW('b', 0, struct dma_buf_sync), the struct holds a single
// 64-bit flags field.
const (
	dmaBufSyncRead      = 1 << 0
	dmaBufSyncWrite     = 1 << 1
	dmaBufSyncReadWrite = dmaBufSyncRead | dmaBufSyncWrite
	dmaBufSyncStart     = 0 << 2
	dmaBufSyncEnd       = 1 << 2

	iocWrite     = 1
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	dmaBufIoctlSync = iocWrite<<iocDirShift | 'b'<<iocTypeShift | 8<<iocSizeShift
)

type dmaBufSyncArg struct {
	flags uint64
}

func dmaBufSync(fd int, flags uint64) error {
	arg := dmaBufSyncArg{flags: flags}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), dmaBufIoctlSync,
		uintptr(unsafe.Pointer(&arg)))
	runtime.KeepAlive(&arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func syncFlags(mode AccessMode) (uint64, error) {
	switch mode {
	case ReadOnly:
		return dmaBufSyncRead, nil
	case ReadWrite:
		return dmaBufSyncReadWrite, nil
	default:
		return 0, errors.Errorf("invalid access mode %d", mode)
	}
}
