//go:build linux

package gnio

import (
	"golang.org/x/sys/unix"
)

// maxCopyFileRange bounds a single copy_file_range call.
const maxCopyFileRange = 1 << 30

// copyRange moves bytes inside the kernel with copy_file_range.
func copyRange(src, dst *Channel, srcOff, dstOff, n int64) (int64, error) {
	rfd, wfd := int(src.file.Fd()), int(dst.file.Fd())
	var done int64
	for done < n {
		roff, woff := srcOff+done, dstOff+done
		k, err := unix.CopyFileRange(rfd, &roff, wfd, &woff, int(min(n-done, maxCopyFileRange)), 0)
		switch err {
		case nil:
		case unix.EINTR:
			continue
		case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.EOPNOTSUPP, unix.EPERM, unix.EBADF:
			return done, errFallback
		default:
			return done, err
		}
		if k == 0 {
			if done == 0 {
				return 0, errFallback
			}
			return done, nil
		}
		done += int64(k)
	}
	return done, nil
}
