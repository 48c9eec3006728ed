package gnio

import (
	"math"

	"github.com/Giulio2002/gnio/mmap"
)

// newMap creates the OS mapping behind Map; tests replace it.
var newMap = mmap.New

// region ties a mapped Buffer to the channel that mapped it. Once released,
// every storage access through the buffer fails with ErrInvalidState.
type region struct {
	m        *mmap.Map // nil for an empty region
	owner    *Channel
	released bool
}

func (r *region) release() error {
	if r.released {
		return nil
	}
	r.released = true
	if r.m == nil {
		return nil
	}
	return r.m.Close()
}

// Map returns a Buffer viewing [offset, offset+length) of the file.
//
// MapReadWrite needs a channel opened for reading and writing; the other
// modes need a readable channel. A region reaching past the end of the file
// grows the file when the channel is writable. The view stays valid until
// the channel is closed or the buffer is unmapped.
func (c *Channel) Map(mode MapMode, offset, length int64) (*Buffer, error) {
	const op = "map"
	if err := c.ensureReadable(op); err != nil {
		return nil, err
	}
	switch mode {
	case MapReadOnly, MapPrivate:
	case MapReadWrite:
		if !c.canWrite() {
			return nil, NewError(op, ErrPermissionDenied)
		}
	default:
		return nil, NewError(op, ErrInvalidArgument)
	}
	if offset < 0 || length < 0 || length > math.MaxInt || offset > math.MaxInt64-length {
		return nil, NewError(op, ErrInvalidArgument)
	}

	size, err := c.size(op)
	if err != nil {
		return nil, err
	}
	grown := false
	if end := offset + length; end > size {
		if !c.canWrite() {
			return nil, NewError(op, ErrInvalidArgument)
		}
		if err := c.file.Truncate(end); err != nil {
			return nil, wrapOSError(op, err)
		}
		grown = true
	}

	r := &region{owner: c}
	data := []byte{}
	if length > 0 {
		m, err := newMap(int(c.file.Fd()), offset, int(length), mode)
		if err != nil {
			if grown {
				// Leave the file as it was found.
				if terr := c.file.Truncate(size); terr != nil {
					c.opts.log.Warn().Err(terr).Str("path", c.name).Int64("size", size).Msg("failed to restore file size")
				}
			}
			return nil, wrapOSError(op, err)
		}
		r.m = m
		data = m.Data()
	}
	c.maps[r] = struct{}{}

	c.opts.log.Debug().Str("path", c.name).Stringer("mode", mode).
		Int64("offset", offset).Int64("length", length).Msg("region mapped")

	b := newBuffer(data)
	b.kind = mappedStorage
	b.readOnly = mode == MapReadOnly
	b.region = r
	return b, nil
}

// Force flushes stores made through a read-write mapped buffer to storage
// and returns once they are durable. It does nothing for heap buffers and
// private or read-only mappings.
func (b *Buffer) Force() error {
	const op = "force"
	if b.region == nil {
		return nil
	}
	if b.region.released {
		return NewError(op, ErrInvalidState)
	}
	if b.region.m == nil || b.region.m.Mode() != mmap.ReadWrite {
		return nil
	}
	if err := b.region.m.Sync(); err != nil {
		return wrapOSError(op, err)
	}
	return nil
}

// Load asks the operating system to page the mapped region in ahead of use.
func (b *Buffer) Load() error {
	const op = "load"
	if b.region == nil {
		return nil
	}
	if b.region.released {
		return NewError(op, ErrInvalidState)
	}
	if b.region.m == nil {
		return nil
	}
	if err := b.region.m.AdviseWillNeed(); err != nil {
		return wrapOSError(op, err)
	}
	return nil
}

// Unmap releases a mapped buffer ahead of closing its channel. Unmapping a
// heap buffer or an already released mapping does nothing.
func (b *Buffer) Unmap() error {
	r := b.region
	if r == nil || r.released {
		return nil
	}
	if r.owner.maps != nil {
		delete(r.owner.maps, r)
	}
	if err := r.release(); err != nil {
		return wrapOSError("unmap", err)
	}
	return nil
}
