//go:build linux

package gnio

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// iovMax is the largest iovec count a single preadv/pwritev accepts.
const iovMax = 1024

func preadv(f *os.File, iovs [][]byte, off int64) (int64, error) {
	fd := int(f.Fd())
	var total int64
	for iovs = consume(iovs, 0); len(iovs) > 0; {
		n, err := unix.Preadv(fd, iovs[:min(len(iovs), iovMax)], off+total)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
		total += int64(n)
		iovs = consume(iovs, n)
	}
	return total, nil
}

func pwritev(f *os.File, iovs [][]byte, off int64) (int64, error) {
	fd := int(f.Fd())
	var total int64
	for iovs = consume(iovs, 0); len(iovs) > 0; {
		n, err := unix.Pwritev(fd, iovs[:min(len(iovs), iovMax)], off+total)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		total += int64(n)
		iovs = consume(iovs, n)
	}
	return total, nil
}

// consume drops the first n bytes from iovs along with any empty entries.
func consume(iovs [][]byte, n int) [][]byte {
	for len(iovs) > 0 {
		if k := len(iovs[0]); n >= k {
			n -= k
			iovs = iovs[1:]
			continue
		}
		iovs[0] = iovs[0][n:]
		return iovs
	}
	return iovs
}
