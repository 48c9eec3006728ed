//go:build linux

package gnio

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes f; without metaData only the data is flushed.
func syncFile(f *os.File, metaData bool) error {
	if metaData {
		return f.Sync()
	}
	for {
		err := unix.Fdatasync(int(f.Fd()))
		if err != unix.EINTR {
			return err
		}
	}
}
