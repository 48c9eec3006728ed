//go:build unix

package mmap

import (
	"golang.org/x/sys/unix"
)

var pageSize = int64(unix.Getpagesize())

// PageSize returns the alignment the OS requires for mapping offsets.
func PageSize() int64 {
	return pageSize
}

// New creates a new memory mapping of [offset, offset+length) of the file
// behind fd. The offset does not need to be page-aligned.
func New(fd int, offset int64, length int, mode Mode) (*Map, error) {
	if length <= 0 {
		return nil, ErrInvalidSize
	}
	if offset < 0 {
		return nil, ErrInvalidOffset
	}

	prot := unix.PROT_READ
	flags := unix.MAP_SHARED
	switch mode {
	case ReadOnly:
	case ReadWrite:
		prot |= unix.PROT_WRITE
	case Private:
		prot |= unix.PROT_WRITE
		flags = unix.MAP_PRIVATE
	default:
		return nil, ErrInvalidMode
	}

	base, delta := alignDown(offset, pageSize)
	raw, err := unix.Mmap(fd, base, length+delta, prot, flags)
	if err != nil {
		return nil, &Error{Op: "mmap", Err: err}
	}

	return &Map{
		data:   raw[delta : delta+length],
		raw:    raw,
		fd:     fd,
		offset: offset,
		size:   int64(length),
		mode:   mode,
	}, nil
}

// Sync flushes changes to disk synchronously.
func (m *Map) Sync() error {
	if m.raw == nil {
		return ErrNotMapped
	}
	return unix.Msync(m.raw, unix.MS_SYNC)
}

// SyncAsync flushes changes to disk asynchronously.
func (m *Map) SyncAsync() error {
	if m.raw == nil {
		return ErrNotMapped
	}
	return unix.Msync(m.raw, unix.MS_ASYNC)
}

// SyncRange flushes a specific range of Data to disk.
func (m *Map) SyncRange(offset, length int64) error {
	if m.raw == nil {
		return ErrNotMapped
	}
	if offset < 0 || length < 0 || offset+length > m.size {
		return ErrInvalidRange
	}
	// msync wants a page-aligned start address.
	delta := int64(len(m.raw)) - m.size
	start, _ := alignDown(delta+offset, pageSize)
	return unix.Msync(m.raw[start:delta+offset+length], unix.MS_SYNC)
}

// Close releases the memory mapping.
func (m *Map) Close() error {
	if m.raw == nil {
		return nil
	}

	err := unix.Munmap(m.raw)
	m.raw = nil
	m.data = nil
	m.size = 0
	return err
}

// Advise provides hints to the kernel about memory usage patterns.
func (m *Map) Advise(advice int) error {
	if m.raw == nil {
		return ErrNotMapped
	}
	return unix.Madvise(m.raw, advice)
}

// AdviseSequential hints that pages will be accessed sequentially.
func (m *Map) AdviseSequential() error {
	return m.Advise(unix.MADV_SEQUENTIAL)
}

// AdviseRandom hints that pages will be accessed randomly.
func (m *Map) AdviseRandom() error {
	return m.Advise(unix.MADV_RANDOM)
}

// AdviseWillNeed hints that pages will be needed soon.
func (m *Map) AdviseWillNeed() error {
	return m.Advise(unix.MADV_WILLNEED)
}

// AdviseDontNeed hints that pages won't be needed soon.
func (m *Map) AdviseDontNeed() error {
	return m.Advise(unix.MADV_DONTNEED)
}
