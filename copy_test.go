package gnio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyBuffered(t *testing.T) {
	for _, size := range []int{0, 1, 1024, 1025, 70_000} {
		src := pattern(size)
		in := openChannel(t, writeFile(t, src), Read)
		outPath := filepath.Join(t.TempDir(), "2.jpg")
		out := openChannel(t, outPath, Write|Create|Truncate)

		buf, _ := Allocate(1024)
		n, err := CopyBuffered(out, in, buf)
		require.NoError(t, err)
		require.Equal(t, int64(size), n)
		require.Equal(t, src, readFile(t, outPath))
	}
}

func TestCopyBufferedDefaults(t *testing.T) {
	in := openChannel(t, writeFile(t, []byte("abc")), Read)
	outPath := filepath.Join(t.TempDir(), "out")
	out := openChannel(t, outPath, Write|Create)

	n, err := CopyBuffered(out, in, nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	empty, _ := Allocate(0)
	_, err = CopyBuffered(out, in, empty)
	require.True(t, IsInvalidArgument(err))
}

func TestCopyMapped(t *testing.T) {
	src := pattern(10_000)
	in := openChannel(t, writeFile(t, src), Read)

	// A longer destination is cut down to the source size.
	outPath := writeFile(t, pattern(20_000))
	out := openChannel(t, outPath, ReadWrite)

	n, err := CopyMapped(out, in)
	require.NoError(t, err)
	require.Equal(t, int64(len(src)), n)
	require.Equal(t, src, readFile(t, outPath))
	require.Empty(t, in.maps)
	require.Empty(t, out.maps)
}

func TestCopyMappedNeedsReadWriteDestination(t *testing.T) {
	in := openChannel(t, writeFile(t, []byte("abc")), Read)
	out := openChannel(t, filepath.Join(t.TempDir(), "out"), Write|Create)

	_, err := CopyMapped(out, in)
	require.True(t, IsPermissionDenied(err), "got %v", err)
}
