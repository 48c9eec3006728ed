package gnio

import "io"

// ReadBuffers is a scattering read: bytes from the channel position fill
// bufs in order, each up to its limit before the next receives anything.
// It returns the total transferred, or 0 and io.EOF at the end of the file.
func (c *Channel) ReadBuffers(bufs ...*Buffer) (int64, error) {
	const op = "scatter read"
	if err := c.ensureReadable(op); err != nil {
		return 0, err
	}
	iovs, total, err := windows(op, bufs, true)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	n, err := preadv(c.file, iovs, c.pos)
	advance(bufs, n)
	c.pos += n
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

// WriteBuffers is a gathering write: the remaining bytes of bufs are written
// in order as one contiguous run at the channel position.
func (c *Channel) WriteBuffers(bufs ...*Buffer) (int64, error) {
	const op = "gather write"
	if err := c.ensureWritable(op); err != nil {
		return 0, err
	}
	iovs, total, err := windows(op, bufs, false)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	if err := c.seekAppend(op); err != nil {
		return 0, err
	}

	n, err := pwritev(c.file, iovs, c.pos)
	advance(bufs, n)
	c.pos += n
	if err != nil {
		return n, wrapOSError(op, err)
	}
	return n, nil
}

// windows collects the remaining region of every buffer. Any unusable buffer
// fails the whole call before a byte moves.
func windows(op string, bufs []*Buffer, fill bool) ([][]byte, int64, error) {
	iovs := make([][]byte, 0, len(bufs))
	var total int64
	for _, b := range bufs {
		p, err := b.window(op, fill)
		if err != nil {
			return nil, 0, err
		}
		iovs = append(iovs, p)
		total += int64(len(p))
	}
	return iovs, total, nil
}

// advance moves buffer positions forward by n bytes in total, in order.
func advance(bufs []*Buffer, n int64) {
	for _, b := range bufs {
		if n == 0 {
			return
		}
		k := min(int64(b.Remaining()), n)
		b.pos += int(k)
		n -= k
	}
}
