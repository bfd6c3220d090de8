// Copyright 2024 Maxime Ripard. All rights reserved.

// Package dmabuf provides safe CPU access to dma-buf shared memory buffers.
// A dma-buf is a kernel buffer passed between devices and processes by
// file descriptor, without copying its contents. The kernel requires
// user-space to bracket every CPU access window with the
// DMA_BUF_IOCTL_SYNC ioctl, and forbids concurrent writers.
// This package enforces both rules:
//
//	buf, err := dmabuf.FromFile(f)
//	...
//	g, err := buf.MapRead()
//	...
//	process(g.Bytes())
//	g.Close()
//
// MapRead and MapWrite return guards which own a memory mapping of the
// full buffer and issue the begin/end sync calls around its lifetime.
// Any number of read guards may be live at once; a write guard is
// exclusive against all other guards on the same buffer.
// Handle providers other than dma-buf file descriptors can be plugged
// in through the Handle interface, see the mem subpackage for an
// in-memory one.
package dmabuf
