// Copyright 2024 Maxime Ripard. All rights reserved.

package dmabuf

import (
	stderrors "errors"
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// ErrBusy is returned by Buffer.MapRead and Buffer.MapWrite when the
// requested access cannot coexist with the guards currently
// outstanding on the same buffer.
var ErrBusy = errors.New("buffer is busy with an incompatible access")

// SyncError reports a rejected sync transition. Op is either "start"
// or "end". A temporary error (interrupted or busy) may be retried by
// the caller, this package never retries internally.
type SyncError struct {
	Mode AccessMode
	Op   string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s for %v access failed: %v", e.Op, e.Mode, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the sync transition was rejected with
// EINTR or EAGAIN, in which case the operation may be retried.
func (e *SyncError) Temporary() bool {
	return syscallErrHasCode(e.Err, syscall.EINTR) ||
		syscallErrHasCode(e.Err, syscall.EAGAIN)
}

// MapError reports a failure to establish a memory mapping.
type MapError struct {
	Reason string
	Err    error
}

func (e *MapError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not map the buffer: %s", e.Reason)
	}
	return fmt.Sprintf("could not map the buffer: %s: %v", e.Reason, e.Err)
}

func (e *MapError) Unwrap() error {
	return e.Err
}

// IsSyncError reports whether err was caused by a rejected sync
// transition.
func IsSyncError(err error) bool {
	var se *SyncError
	return stderrors.As(err, &se)
}

// IsMapError reports whether err was caused by a failed mapping
// attempt.
func IsMapError(err error) bool {
	var me *MapError
	return stderrors.As(err, &me)
}

func syscallErrHasCode(err error, code syscall.Errno) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		return errno == code
	}
	if sysErr, ok := err.(*os.SyscallError); ok {
		if errno, ok := sysErr.Err.(syscall.Errno); ok {
			return errno == code
		}
	}
	return false
}
