// Copyright 2024 Maxime Ripard. All rights reserved.

package dmabuf

// AccessMode selects the kind of CPU access requested on a buffer.
// It determines both the protection of the memory mapping and the
// direction bits of the sync calls bracketing the access window.
type AccessMode int

const (
	// ReadOnly maps the buffer for reading. The mapping is created
	// without write protection, stores through it fault.
	ReadOnly AccessMode = iota
	// ReadWrite maps the buffer for reading and writing.
	ReadWrite
)

func (mode AccessMode) String() string {
	switch mode {
	case ReadOnly:
		return "read-only"
	case ReadWrite:
		return "read-write"
	default:
		return "invalid"
	}
}
