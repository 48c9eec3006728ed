//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// allocationGranularity is the alignment MapViewOfFile requires for offsets.
const allocationGranularity = 64 << 10

// PageSize returns the alignment the OS requires for mapping offsets.
func PageSize() int64 {
	return allocationGranularity
}

// New creates a new memory mapping of [offset, offset+length) of the file
// behind fd. The offset does not need to be aligned.
func New(fd int, offset int64, length int, mode Mode) (*Map, error) {
	if length <= 0 {
		return nil, ErrInvalidSize
	}
	if offset < 0 {
		return nil, ErrInvalidOffset
	}

	handle := windows.Handle(fd)

	var prot, access uint32
	switch mode {
	case ReadOnly:
		prot, access = windows.PAGE_READONLY, windows.FILE_MAP_READ
	case ReadWrite:
		prot, access = windows.PAGE_READWRITE, windows.FILE_MAP_WRITE
	case Private:
		prot, access = windows.PAGE_WRITECOPY, windows.FILE_MAP_COPY
	default:
		return nil, ErrInvalidMode
	}

	end := uint64(offset) + uint64(length)
	mapping, err := windows.CreateFileMapping(handle, nil, prot, uint32(end>>32), uint32(end), nil)
	if err != nil {
		return nil, &Error{Op: "CreateFileMapping", Err: err}
	}

	base, delta := alignDown(offset, allocationGranularity)
	addr, err := windows.MapViewOfFile(mapping, access, uint32(uint64(base)>>32), uint32(base), uintptr(length+delta))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, &Error{Op: "MapViewOfFile", Err: err}
	}

	raw := unsafe.Slice((*byte)(unsafe.Pointer(addr)), length+delta)

	return &Map{
		data:    raw[delta : delta+length],
		raw:     raw,
		fd:      fd,
		offset:  offset,
		size:    int64(length),
		mode:    mode,
		handle:  uintptr(handle),
		mapping: uintptr(mapping),
	}, nil
}

// Sync flushes changes to disk.
func (m *Map) Sync() error {
	if m.raw == nil {
		return ErrNotMapped
	}
	if err := windows.FlushViewOfFile(uintptr(unsafe.Pointer(&m.raw[0])), uintptr(len(m.raw))); err != nil {
		return &Error{Op: "FlushViewOfFile", Err: err}
	}
	if m.mode == ReadWrite {
		return windows.FlushFileBuffers(windows.Handle(m.handle))
	}
	return nil
}

// SyncAsync flushes changes to disk asynchronously (same as sync on Windows).
func (m *Map) SyncAsync() error {
	return m.Sync()
}

// SyncRange flushes a specific range of Data to disk.
func (m *Map) SyncRange(offset, length int64) error {
	if m.raw == nil {
		return ErrNotMapped
	}
	if offset < 0 || length < 0 || offset+length > m.size {
		return ErrInvalidRange
	}
	if length == 0 {
		return nil
	}
	return windows.FlushViewOfFile(uintptr(unsafe.Pointer(&m.data[offset])), uintptr(length))
}

// Close releases the memory mapping.
func (m *Map) Close() error {
	if m.raw == nil {
		return nil
	}

	addr := uintptr(unsafe.Pointer(&m.raw[0]))

	if err := windows.UnmapViewOfFile(addr); err != nil {
		return &Error{Op: "UnmapViewOfFile", Err: err}
	}

	if m.mapping != 0 {
		windows.CloseHandle(windows.Handle(m.mapping))
		m.mapping = 0
	}

	m.raw = nil
	m.data = nil
	m.size = 0
	return nil
}

// Advise provides hints to the kernel about memory usage patterns.
// Windows doesn't have madvise, so these are no-ops.
func (m *Map) Advise(advice int) error {
	if m.raw == nil {
		return ErrNotMapped
	}
	return nil
}

// AdviseSequential hints that pages will be accessed sequentially.
func (m *Map) AdviseSequential() error {
	return m.Advise(0)
}

// AdviseRandom hints that pages will be accessed randomly.
func (m *Map) AdviseRandom() error {
	return m.Advise(0)
}

// AdviseWillNeed hints that pages will be needed soon.
func (m *Map) AdviseWillNeed() error {
	return m.Advise(0)
}

// AdviseDontNeed hints that pages won't be needed soon.
func (m *Map) AdviseDontNeed() error {
	return m.Advise(0)
}
