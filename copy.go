package gnio

import "io"

// CopyBuffered copies everything from src's position to dst through buf
// with the read, flip, write, clear cycle, and returns the bytes copied.
// A nil buf gets a TransferSize buffer.
func CopyBuffered(dst, src *Channel, buf *Buffer) (int64, error) {
	if buf == nil {
		buf, _ = Allocate(TransferSize)
	}
	if buf.Capacity() == 0 {
		return 0, NewError("copy", ErrInvalidArgument)
	}

	var total int64
	buf.Clear()
	for {
		if _, err := src.Read(buf); err == io.EOF {
			return total, nil
		} else if err != nil {
			return total, err
		}
		buf.Flip()
		for buf.HasRemaining() {
			n, err := dst.Write(buf)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		buf.Clear()
	}
}

// CopyMapped copies the whole of src over dst through two mappings and
// flushes the destination. dst must be open for reading and writing; it is
// truncated to the size of src.
func CopyMapped(dst, src *Channel) (int64, error) {
	size, err := src.Size()
	if err != nil {
		return 0, err
	}

	in, err := src.Map(MapReadOnly, 0, size)
	if err != nil {
		return 0, err
	}
	defer in.Unmap()

	out, err := dst.Map(MapReadWrite, 0, size)
	if err != nil {
		return 0, err
	}

	if err := fill(out, in); err != nil {
		out.Unmap()
		return 0, err
	}
	// The view must be gone before the file shrinks.
	if err := out.Unmap(); err != nil {
		return 0, err
	}
	if err := dst.Truncate(size); err != nil {
		return 0, err
	}
	return size, nil
}

func fill(out, in *Buffer) error {
	view, err := out.Array()
	if err != nil {
		return err
	}
	if err := in.Get(view); err != nil {
		return err
	}
	if err := out.SetPosition(len(view)); err != nil {
		return err
	}
	return out.Force()
}
