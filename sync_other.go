//go:build !linux

package gnio

import "os"

func syncFile(f *os.File, metaData bool) error {
	return f.Sync()
}
