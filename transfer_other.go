//go:build !linux

package gnio

// copyRange has no in-kernel equivalent here; the mapped path takes over.
func copyRange(src, dst *Channel, srcOff, dstOff, n int64) (int64, error) {
	return 0, errFallback
}
