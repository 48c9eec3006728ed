//go:build !linux

package gnio

import (
	"io"
	"os"
)

func preadv(f *os.File, iovs [][]byte, off int64) (int64, error) {
	var total int64
	for _, p := range iovs {
		n, err := f.ReadAt(p, off+total)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func pwritev(f *os.File, iovs [][]byte, off int64) (int64, error) {
	var total int64
	for _, p := range iovs {
		n, err := f.WriteAt(p, off+total)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n < len(p) {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}
