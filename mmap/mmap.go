// Package mmap provides cross-platform memory mapping of file regions.
//
// A Map covers an arbitrary byte range of a file. The operating system only
// maps at page (or allocation granularity) boundaries, so the mapping is
// created from the aligned offset below the requested one and Data exposes
// just the requested range.
package mmap

// Mode selects how a mapping shares its pages with the file.
type Mode int

const (
	// ReadOnly maps the region for reading only.
	ReadOnly Mode = iota

	// ReadWrite maps the region shared; stores reach the file.
	ReadWrite

	// Private maps the region copy-on-write; stores never reach the file.
	Private
)

func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case ReadWrite:
		return "read-write"
	case Private:
		return "private"
	}
	return "unknown"
}

// Map represents a memory-mapped file region.
type Map struct {
	data   []byte // Requested region, a window into raw
	raw    []byte // Whole mapping as returned by the OS (starts aligned)
	fd     int    // File descriptor
	offset int64  // Requested file offset of data[0]
	size   int64  // Requested length
	mode   Mode
	// Windows-specific handles (only used on Windows, zero on Unix)
	handle  uintptr // File handle (Windows only)
	mapping uintptr // Mapping handle (Windows only)
}

// Data returns the mapped byte slice.
func (m *Map) Data() []byte {
	return m.data
}

// Size returns the mapped size.
func (m *Map) Size() int64 {
	return m.size
}

// Offset returns the file offset the mapping starts at.
func (m *Map) Offset() int64 {
	return m.offset
}

// Mode returns the mapping mode.
func (m *Map) Mode() Mode {
	return m.mode
}

// Writable returns true if stores into Data are permitted.
func (m *Map) Writable() bool {
	return m.mode != ReadOnly
}

// Fd returns the file descriptor.
func (m *Map) Fd() int {
	return m.fd
}

// alignDown splits off into an aligned base and the distance from it.
func alignDown(off int64, align int64) (base int64, delta int) {
	base = off - off%align
	return base, int(off - base)
}

// Error represents an mmap error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "mmap: " + e.Op + ": " + e.Err.Error()
	}
	return "mmap: " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrInvalidSize   = &Error{Op: "invalid size"}
	ErrInvalidOffset = &Error{Op: "invalid offset"}
	ErrInvalidRange  = &Error{Op: "invalid range"}
	ErrInvalidMode   = &Error{Op: "invalid mode"}
	ErrNotMapped     = &Error{Op: "not mapped"}
)
