package gnio

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/Giulio2002/gnio/mmap"
)

// errFallback reports that a transfer path cannot move the remaining bytes
// and the next path should continue where it stopped.
var errFallback = errors.New("transfer path unavailable")

type transferFunc func(src, dst *Channel, srcOff, dstOff, n int64) (int64, error)

// transferPaths are tried in order; the buffered path never falls back.
var transferPaths = []struct {
	name string
	fn   transferFunc
}{
	{"copy_file_range", copyRange},
	{"mmap", transferMapped},
	{"buffered", transferBuffered},
}

// TransferTo copies up to length bytes starting at offset of this channel
// into dst at dst's position, advancing dst's position. This channel's
// position is unchanged. Fewer bytes than requested are moved when the file
// ends first; an offset at or past the end moves nothing.
func (c *Channel) TransferTo(dst *Channel, offset, length int64) (int64, error) {
	const op = "transfer to"
	if err := c.ensureReadable(op); err != nil {
		return 0, err
	}
	if dst == nil || offset < 0 || length < 0 {
		return 0, NewError(op, ErrInvalidArgument)
	}
	if err := dst.ensureWritable(op); err != nil {
		return 0, err
	}

	size, err := c.size(op)
	if err != nil {
		return 0, err
	}
	if offset >= size || length == 0 {
		return 0, nil
	}
	if err := dst.seekAppend(op); err != nil {
		return 0, err
	}

	n, err := c.transfer(op, dst, offset, dst.pos, min(length, size-offset))
	dst.pos += n
	return n, err
}

// TransferFrom copies up to length bytes from src's position into this
// channel at offset, advancing src's position. This channel's position is
// unchanged. An offset past the end of this channel's file moves nothing.
func (c *Channel) TransferFrom(src *Channel, offset, length int64) (int64, error) {
	const op = "transfer from"
	if err := c.ensureWritable(op); err != nil {
		return 0, err
	}
	if src == nil || offset < 0 || length < 0 {
		return 0, NewError(op, ErrInvalidArgument)
	}
	if err := src.ensureReadable(op); err != nil {
		return 0, err
	}

	size, err := c.size(op)
	if err != nil {
		return 0, err
	}
	if offset > size || length == 0 {
		return 0, nil
	}
	srcSize, err := src.size(op)
	if err != nil {
		return 0, err
	}
	if src.pos >= srcSize {
		return 0, nil
	}

	n, err := src.transfer(op, c, src.pos, offset, min(length, srcSize-src.pos))
	src.pos += n
	return n, err
}

// transfer moves exactly n bytes from c at srcOff to dst at dstOff unless an
// error stops it early.
func (c *Channel) transfer(op string, dst *Channel, srcOff, dstOff, n int64) (int64, error) {
	overlap, err := c.overlaps(op, dst, srcOff, dstOff, n)
	if err != nil {
		return 0, err
	}
	if overlap {
		// Overlapping ranges of one file are copied in the direction that
		// reads every byte before it is overwritten.
		done, err := transferOverlapping(c, dst, srcOff, dstOff, n)
		if err != nil {
			return done, wrapOSError(op, err)
		}
		c.opts.log.Debug().Str("path", "overlapping").Str("src", c.name).Str("dst", dst.name).
			Int64("bytes", done).Msg("transfer complete")
		return done, nil
	}

	var done int64
	for _, p := range transferPaths {
		k, err := p.fn(c, dst, srcOff+done, dstOff+done, n-done)
		done += k
		if errors.Is(err, errFallback) {
			c.opts.log.Debug().Str("path", p.name).Int64("moved", k).Msg("transfer path unavailable, falling back")
			continue
		}
		if err != nil {
			return done, wrapOSError(op, err)
		}
		c.opts.log.Debug().Str("path", p.name).Str("src", c.name).Str("dst", dst.name).
			Int64("bytes", done).Msg("transfer complete")
		break
	}
	return done, nil
}

// transferMapped maps the source in windows of MappedTransferSize and writes
// each window straight from the mapping.
func transferMapped(src, dst *Channel, srcOff, dstOff, n int64) (int64, error) {
	var done int64
	for done < n {
		chunk := min(n-done, MappedTransferSize)
		m, err := mmap.New(int(src.file.Fd()), srcOff+done, int(chunk), mmap.ReadOnly)
		if err != nil {
			return done, errFallback
		}
		_ = m.AdviseSequential()
		k, err := dst.file.WriteAt(m.Data(), dstOff+done)
		if cerr := m.Close(); cerr != nil {
			src.opts.log.Warn().Err(cerr).Str("path", src.name).Msg("failed to release transfer window")
		}
		done += int64(k)
		if err != nil {
			return done, err
		}
	}
	return done, nil
}

// overlaps reports whether dst is the same file as c and the destination
// range starts inside the source range. A destination starting before the
// source is safe for the front to back buffered path, but not for the
// kernel or mapped paths, so any overlap is reported.
func (c *Channel) overlaps(op string, dst *Channel, srcOff, dstOff, n int64) (bool, error) {
	if srcOff+n <= dstOff || dstOff+n <= srcOff {
		return false, nil
	}
	if c.file != dst.file {
		sfi, err := c.file.Stat()
		if err != nil {
			return false, wrapOSError(op, err)
		}
		dfi, err := dst.file.Stat()
		if err != nil {
			return false, wrapOSError(op, err)
		}
		if !os.SameFile(sfi, dfi) {
			return false, nil
		}
	}
	return true, nil
}

// transferOverlapping copies [srcOff, srcOff+n) to dstOff within one file
// through a bounded Buffer. It walks front to back when the destination lies
// before the source and back to front otherwise.
func transferOverlapping(src, dst *Channel, srcOff, dstOff, n int64) (int64, error) {
	if dstOff <= srcOff {
		return transferBuffered(src, dst, srcOff, dstOff, n)
	}

	buf, release := transferBuffer(src)
	defer release()

	var done int64
	for end := n; end > 0; {
		chunk := min(end, int64(buf.Capacity()))
		start := end - chunk
		buf.Clear()
		_ = buf.SetLimit(int(chunk))

		k, err := src.file.ReadAt(buf.data[:buf.lim], srcOff+start)
		if err != nil && err != io.EOF {
			return done, err
		}
		if int64(k) < chunk {
			// The source range is clipped to the file size by the callers.
			return done, io.ErrUnexpectedEOF
		}
		buf.pos = k
		buf.Flip()
		w, err := dst.file.WriteAt(buf.data[:buf.lim], dstOff+start)
		done += int64(w)
		if err != nil {
			return done, err
		}
		end = start
	}
	return done, nil
}

var transferPool = sync.Pool{
	New: func() any {
		b, _ := Allocate(TransferSize)
		return b
	},
}

// transferBuffer returns an intermediate Buffer sized for src and the
// function that gives it back.
func transferBuffer(src *Channel) (*Buffer, func()) {
	if src.opts.transferSize == TransferSize {
		buf := transferPool.Get().(*Buffer)
		return buf, func() { transferPool.Put(buf) }
	}
	buf, _ := Allocate(src.opts.transferSize)
	return buf, func() {}
}

// transferBuffered stages bytes through a bounded intermediate Buffer.
func transferBuffered(src, dst *Channel, srcOff, dstOff, n int64) (int64, error) {
	buf, release := transferBuffer(src)
	defer release()

	var done int64
	for done < n {
		buf.Clear()
		if rem := n - done; rem < int64(buf.Capacity()) {
			_ = buf.SetLimit(int(rem))
		}

		k, rerr := src.file.ReadAt(buf.data[:buf.lim], srcOff+done)
		buf.pos = k
		buf.Flip()
		if buf.HasRemaining() {
			w, err := dst.file.WriteAt(buf.data[:buf.lim], dstOff+done)
			done += int64(w)
			if err != nil {
				return done, err
			}
		}
		if rerr == io.EOF || (rerr == nil && k == 0) {
			return done, nil
		}
		if rerr != nil {
			return done, rerr
		}
	}
	return done, nil
}
