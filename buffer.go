package gnio

import "fmt"

// storageKind tells where a Buffer's bytes live.
type storageKind uint8

const (
	// heapStorage is a Go-allocated slice owned by the buffer
	heapStorage storageKind = iota

	// mappedStorage is a view into a region mapped by a Channel
	mappedStorage
)

// Buffer is a bounded byte region with cursor state.
//
// At every observable point 0 <= mark <= position <= limit <= capacity,
// where mark is -1 while undefined. Operations that would break the
// invariant fail without moving any cursor.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data     []byte
	pos      int
	lim      int
	mark     int
	kind     storageKind
	readOnly bool
	region   *region // mapped buffers only
}

// Allocate creates a heap buffer with the given capacity, position zero and
// limit equal to its capacity.
func Allocate(capacity int) (*Buffer, error) {
	if capacity < 0 {
		return nil, NewError("allocate", ErrInvalidArgument)
	}
	return newBuffer(make([]byte, capacity)), nil
}

// Wrap creates a heap buffer backed by p. Changes through the buffer are
// visible in p and vice versa.
func Wrap(p []byte) *Buffer {
	return newBuffer(p)
}

func newBuffer(p []byte) *Buffer {
	return &Buffer{data: p, lim: len(p), mark: -1}
}

// Capacity returns the fixed number of bytes the buffer holds.
func (b *Buffer) Capacity() int { return len(b.data) }

// Limit returns the index of the first byte that must not be accessed.
func (b *Buffer) Limit() int { return b.lim }

// Position returns the index of the next byte to read or write.
func (b *Buffer) Position() int { return b.pos }

// Remaining returns the number of bytes between position and limit.
func (b *Buffer) Remaining() int { return b.lim - b.pos }

// HasRemaining reports whether any bytes are left between position and limit.
func (b *Buffer) HasRemaining() bool { return b.pos < b.lim }

// IsReadOnly reports whether puts are forbidden.
func (b *Buffer) IsReadOnly() bool { return b.readOnly }

// IsDirect reports whether the buffer is a view over mapped memory.
func (b *Buffer) IsDirect() bool { return b.kind == mappedStorage }

// HasArray reports whether Array would succeed.
func (b *Buffer) HasArray() bool {
	return !b.readOnly && (b.region == nil || !b.region.released)
}

// SetPosition moves the position. The mark is dropped if it lies beyond the
// new position.
func (b *Buffer) SetPosition(pos int) error {
	if pos < 0 || pos > b.lim {
		return NewError("set position", ErrInvalidArgument)
	}
	b.pos = pos
	if b.mark > pos {
		b.mark = -1
	}
	return nil
}

// SetLimit moves the limit. The position is clamped to the new limit and the
// mark dropped if it lies beyond it.
func (b *Buffer) SetLimit(lim int) error {
	if lim < 0 || lim > len(b.data) {
		return NewError("set limit", ErrInvalidArgument)
	}
	b.lim = lim
	if b.pos > lim {
		b.pos = lim
	}
	if b.mark > lim {
		b.mark = -1
	}
	return nil
}

// Flip prepares a just-filled buffer for draining: the limit becomes the
// current position and the position returns to zero.
func (b *Buffer) Flip() {
	b.lim = b.pos
	b.pos = 0
	b.mark = -1
}

// Rewind returns the position to zero so the same region can be read again.
func (b *Buffer) Rewind() {
	b.pos = 0
	b.mark = -1
}

// Clear makes the whole capacity available for filling again. Stored bytes
// are left in place.
func (b *Buffer) Clear() {
	b.pos = 0
	b.lim = len(b.data)
	b.mark = -1
}

// Mark records the current position.
func (b *Buffer) Mark() {
	b.mark = b.pos
}

// Reset restores the position recorded by Mark.
func (b *Buffer) Reset() error {
	if b.mark < 0 {
		return NewError("reset", ErrInvalidState)
	}
	b.pos = b.mark
	return nil
}

// Put copies all of p into the buffer at the current position and advances
// the position. Nothing is written when p does not fit.
func (b *Buffer) Put(p []byte) error {
	data, err := b.writable("put")
	if err != nil {
		return err
	}
	if len(p) > b.lim-b.pos {
		return NewError("put", ErrOverflow)
	}
	b.pos += copy(data[b.pos:b.lim], p)
	return nil
}

// PutByte writes a single byte at the current position.
func (b *Buffer) PutByte(c byte) error {
	data, err := b.writable("put")
	if err != nil {
		return err
	}
	if b.pos >= b.lim {
		return NewError("put", ErrOverflow)
	}
	data[b.pos] = c
	b.pos++
	return nil
}

// Get fills dst from the current position and advances the position. Nothing
// is read when fewer than len(dst) bytes remain.
func (b *Buffer) Get(dst []byte) error {
	data, err := b.readable("get")
	if err != nil {
		return err
	}
	if len(dst) > b.lim-b.pos {
		return NewError("get", ErrUnderflow)
	}
	b.pos += copy(dst, data[b.pos:b.lim])
	return nil
}

// GetByte reads a single byte at the current position.
func (b *Buffer) GetByte() (byte, error) {
	data, err := b.readable("get")
	if err != nil {
		return 0, err
	}
	if b.pos >= b.lim {
		return 0, NewError("get", ErrUnderflow)
	}
	c := data[b.pos]
	b.pos++
	return c, nil
}

// Next returns a copy of the next n bytes and advances the position.
func (b *Buffer) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewError("get", ErrInvalidArgument)
	}
	p := make([]byte, n)
	if err := b.Get(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Compact moves the bytes between position and limit to the start of the
// buffer and prepares it for filling after them.
func (b *Buffer) Compact() error {
	data, err := b.writable("compact")
	if err != nil {
		return err
	}
	n := copy(data, data[b.pos:b.lim])
	b.pos = n
	b.lim = len(data)
	b.mark = -1
	return nil
}

// Array returns the whole backing storage. Heap buffers and read-write or
// private mappings expose it directly. Read-only mappings are the one
// exception: they fail with ErrPermissionDenied, since a store into the
// returned slice would fault.
func (b *Buffer) Array() ([]byte, error) {
	return b.writable("array")
}

func (b *Buffer) String() string {
	return fmt.Sprintf("gnio.Buffer[pos=%d lim=%d cap=%d]", b.pos, b.lim, len(b.data))
}

// readable returns the storage if it may be read.
func (b *Buffer) readable(op string) ([]byte, error) {
	if b.region != nil && b.region.released {
		return nil, NewError(op, ErrInvalidState)
	}
	return b.data, nil
}

// writable returns the storage if it may be written.
func (b *Buffer) writable(op string) ([]byte, error) {
	data, err := b.readable(op)
	if err != nil {
		return nil, err
	}
	if b.readOnly {
		return nil, NewError(op, ErrPermissionDenied)
	}
	return data, nil
}

// window returns the bytes between position and limit for a channel to
// fill (fill=true) or drain.
func (b *Buffer) window(op string, fill bool) ([]byte, error) {
	var data []byte
	var err error
	if fill {
		data, err = b.writable(op)
	} else {
		data, err = b.readable(op)
	}
	if err != nil {
		return nil, err
	}
	return data[b.pos:b.lim], nil
}
