package gnio

import (
	"errors"
	"io"
	"os"
)

// Channel is a byte endpoint over an open file with its own position.
//
// The channel position is independent of the operating system file offset:
// all transfers are positioned, so a Channel never observes or disturbs
// other users of the same descriptor. A Channel is not safe for concurrent
// use; callers sharing one must serialize access themselves.
type Channel struct {
	file   *os.File
	name   string
	flags  OpenFlag
	pos    int64
	closed bool
	maps   map[*region]struct{}
	opts   options
}

// Open opens the file at path according to flags.
//
// Without Read or Write, Append and the creation flags imply Write and
// everything else implies Read. Append cannot be combined with Read or
// Truncate.
func Open(path string, flags OpenFlag, opts ...Option) (*Channel, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	flags, osFlags, err := resolveFlags(flags)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, osFlags, o.perm)
	if err != nil {
		return nil, wrapOSError("open", err)
	}

	o.log.Debug().Str("path", path).Stringer("flags", flags).Msg("channel opened")

	return &Channel{
		file:  f,
		name:  path,
		flags: flags,
		maps:  make(map[*region]struct{}),
		opts:  o,
	}, nil
}

// resolveFlags normalizes flags and translates them to os.OpenFile flags.
func resolveFlags(flags OpenFlag) (OpenFlag, int, error) {
	if flags&ReadWrite == 0 {
		if flags&(Append|Create|CreateNew|Truncate) != 0 {
			flags |= Write
		} else {
			flags |= Read
		}
	}
	if flags&Append != 0 {
		if flags&(Read|Truncate) != 0 {
			return 0, 0, NewError("open", ErrInvalidArgument)
		}
		flags |= Write
	}

	var osFlags int
	switch flags & ReadWrite {
	case Read:
		osFlags = os.O_RDONLY
	case Write:
		osFlags = os.O_WRONLY
	default:
		osFlags = os.O_RDWR
	}

	// Creation and truncation only apply to writable channels.
	if flags&Write != 0 {
		switch {
		case flags&CreateNew != 0:
			osFlags |= os.O_CREATE | os.O_EXCL
		case flags&Create != 0:
			osFlags |= os.O_CREATE
		}
		if flags&Truncate != 0 {
			osFlags |= os.O_TRUNC
		}
	}
	return flags, osFlags, nil
}

// Name returns the path the channel was opened with.
func (c *Channel) Name() string {
	return c.name
}

// IsOpen reports whether the channel has not been closed.
func (c *Channel) IsOpen() bool {
	return !c.closed
}

func (c *Channel) canRead() bool  { return c.flags&Read != 0 }
func (c *Channel) canWrite() bool { return c.flags&Write != 0 }

func (c *Channel) ensureOpen(op string) error {
	if c.closed {
		return NewError(op, ErrClosed)
	}
	return nil
}

func (c *Channel) ensureReadable(op string) error {
	if err := c.ensureOpen(op); err != nil {
		return err
	}
	if !c.canRead() {
		return NewError(op, ErrPermissionDenied)
	}
	return nil
}

func (c *Channel) ensureWritable(op string) error {
	if err := c.ensureOpen(op); err != nil {
		return err
	}
	if !c.canWrite() {
		return NewError(op, ErrPermissionDenied)
	}
	return nil
}

// Read fills buf from the channel position, advancing both the buffer and
// the channel by the number of bytes transferred. At or past the end of the
// file it returns 0 and io.EOF. A buffer with nothing remaining reads 0
// bytes.
func (c *Channel) Read(buf *Buffer) (int, error) {
	const op = "read"
	if err := c.ensureReadable(op); err != nil {
		return 0, err
	}
	p, err := buf.window(op, true)
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.file.ReadAt(p, c.pos)
	buf.pos += n
	c.pos += int64(n)
	if err == io.EOF {
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
	if err != nil {
		return n, wrapOSError(op, err)
	}
	return n, nil
}

// Write writes the remaining bytes of buf at the channel position (the end
// of the file for Append channels), advancing both the buffer and the
// channel. Writing past the end of the file leaves a zero-filled gap.
func (c *Channel) Write(buf *Buffer) (int, error) {
	const op = "write"
	if err := c.ensureWritable(op); err != nil {
		return 0, err
	}
	p, err := buf.window(op, false)
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := c.seekAppend(op); err != nil {
		return 0, err
	}

	n, err := c.file.WriteAt(p, c.pos)
	buf.pos += n
	c.pos += int64(n)
	if err != nil {
		return n, wrapOSError(op, err)
	}
	return n, nil
}

// seekAppend moves the position to the end of the file for Append channels.
func (c *Channel) seekAppend(op string) error {
	if c.flags&Append == 0 {
		return nil
	}
	size, err := c.size(op)
	if err != nil {
		return err
	}
	c.pos = size
	return nil
}

// ReadAt implements io.ReaderAt. The channel position is not used or
// changed.
func (c *Channel) ReadAt(p []byte, off int64) (int, error) {
	const op = "read at"
	if err := c.ensureReadable(op); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, NewError(op, ErrInvalidArgument)
	}
	n, err := c.file.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, wrapOSError(op, err)
	}
	return n, err
}

// WriteAt implements io.WriterAt. The channel position is not used or
// changed.
func (c *Channel) WriteAt(p []byte, off int64) (int, error) {
	const op = "write at"
	if err := c.ensureWritable(op); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, NewError(op, ErrInvalidArgument)
	}
	n, err := c.file.WriteAt(p, off)
	if err != nil {
		return n, wrapOSError(op, err)
	}
	return n, nil
}

// Position returns the channel position.
func (c *Channel) Position() (int64, error) {
	if err := c.ensureOpen("position"); err != nil {
		return 0, err
	}
	return c.pos, nil
}

// SetPosition moves the channel position. Positions past the end of the file
// are legal; a later write fills the gap with zeros.
func (c *Channel) SetPosition(pos int64) error {
	const op = "set position"
	if err := c.ensureOpen(op); err != nil {
		return err
	}
	if pos < 0 {
		return NewError(op, ErrInvalidArgument)
	}
	c.pos = pos
	return nil
}

// Size returns the current length of the file.
func (c *Channel) Size() (int64, error) {
	const op = "size"
	if err := c.ensureOpen(op); err != nil {
		return 0, err
	}
	return c.size(op)
}

func (c *Channel) size(op string) (int64, error) {
	fi, err := c.file.Stat()
	if err != nil {
		return 0, wrapOSError(op, err)
	}
	return fi.Size(), nil
}

// Truncate cuts the file down to size bytes. Larger sizes leave the file
// unchanged. The position is clamped to the new size.
func (c *Channel) Truncate(size int64) error {
	const op = "truncate"
	if err := c.ensureWritable(op); err != nil {
		return err
	}
	if size < 0 {
		return NewError(op, ErrInvalidArgument)
	}
	cur, err := c.size(op)
	if err != nil {
		return err
	}
	if size < cur {
		if err := c.file.Truncate(size); err != nil {
			return wrapOSError(op, err)
		}
	}
	if c.pos > size {
		c.pos = size
	}
	return nil
}

// Force flushes written data to storage. With metaData set, file metadata
// is flushed too.
func (c *Channel) Force(metaData bool) error {
	const op = "force"
	if err := c.ensureOpen(op); err != nil {
		return err
	}
	if err := syncFile(c.file, metaData); err != nil {
		return wrapOSError(op, err)
	}
	return nil
}

// Close releases every mapping made by the channel and closes the file.
// Closing a closed channel is a no-op.
func (c *Channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for r := range c.maps {
		if err := r.release(); err != nil {
			c.opts.log.Warn().Err(err).Str("path", c.name).Msg("failed to release mapping")
			errs = append(errs, err)
		}
	}
	c.maps = nil

	if err := c.file.Close(); err != nil {
		errs = append(errs, err)
	}

	c.opts.log.Debug().Str("path", c.name).Msg("channel closed")

	if err := errors.Join(errs...); err != nil {
		return WrapError("close", ErrIO, err)
	}
	return nil
}
