package gnio

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransferFromIdentity(t *testing.T) {
	for _, size := range []int{0, 1, 5000, 3*MappedTransferSize/2 + 7} {
		src := pattern(size)
		in := openChannel(t, writeFile(t, src), Read)

		outPath := filepath.Join(t.TempDir(), "out")
		out := openChannel(t, outPath, ReadWrite|Create)

		n, err := out.TransferFrom(in, 0, int64(size))
		require.NoError(t, err)
		require.Equal(t, int64(size), n)
		require.Equal(t, src, readFile(t, outPath)[:size])
		outSize, _ := out.Size()
		require.Equal(t, int64(size), outSize)

		inPos, _ := in.Position()
		require.Equal(t, int64(size), inPos, "source position advances")
		outPos, _ := out.Position()
		require.Equal(t, int64(0), outPos, "destination position is untouched")
	}
}

func TestTransferTo(t *testing.T) {
	src := pattern(5000)
	in := openChannel(t, writeFile(t, src), Read)
	require.NoError(t, in.SetPosition(17))

	outPath := writeFile(t, []byte("prefix:"))
	out := openChannel(t, outPath, ReadWrite)
	require.NoError(t, out.SetPosition(7))

	n, err := in.TransferTo(out, 1000, 10000)
	require.NoError(t, err)
	require.Equal(t, int64(4000), n, "short at the end of the source")

	require.Equal(t, append([]byte("prefix:"), src[1000:]...), readFile(t, outPath))
	inPos, _ := in.Position()
	require.Equal(t, int64(17), inPos)
	outPos, _ := out.Position()
	require.Equal(t, int64(4007), outPos)

	n, err = in.TransferTo(out, 5000, 10)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}

func TestTransferFromPastEnd(t *testing.T) {
	in := openChannel(t, writeFile(t, pattern(10)), Read)
	out := openChannel(t, writeFile(t, []byte("abc")), ReadWrite)

	n, err := out.TransferFrom(in, 4, 10)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
	pos, _ := in.Position()
	require.Equal(t, int64(0), pos)

	n, err = out.TransferFrom(in, 3, 4)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	size, _ := out.Size()
	require.Equal(t, int64(7), size)
}

func TestTransferToAppend(t *testing.T) {
	in := openChannel(t, writeFile(t, []byte("0123456789")), Read)
	outPath := writeFile(t, []byte(">"))
	out := openChannel(t, outPath, Append)

	_, err := in.TransferTo(out, 2, 3)
	require.NoError(t, err)
	_, err = in.TransferTo(out, 7, 3)
	require.NoError(t, err)
	require.Equal(t, ">234789", string(readFile(t, outPath)))
}

func TestTransferErrors(t *testing.T) {
	path := writeFile(t, pattern(10))
	r := openChannel(t, path, Read)
	w := openChannel(t, filepath.Join(t.TempDir(), "w"), Write|Create)

	_, err := w.TransferTo(r, 0, 1)
	require.True(t, IsPermissionDenied(err), "got %v", err)
	_, err = r.TransferTo(r, 0, 1)
	require.True(t, IsPermissionDenied(err), "got %v", err)
	_, err = r.TransferTo(w, -1, 1)
	require.True(t, IsInvalidArgument(err))
	_, err = r.TransferTo(nil, 0, 1)
	require.True(t, IsInvalidArgument(err))
	_, err = w.TransferFrom(r, 0, -1)
	require.True(t, IsInvalidArgument(err))

	closed, err := Open(path, Read)
	require.NoError(t, err)
	require.NoError(t, closed.Close())
	_, err = closed.TransferTo(w, 0, 1)
	require.True(t, IsClosed(err))
	_, err = w.TransferFrom(closed, 0, 1)
	require.True(t, IsClosed(err))
}

func TestTransferPaths(t *testing.T) {
	src := pattern(100_003)
	for _, p := range transferPaths {
		t.Run(p.name, func(t *testing.T) {
			in, err := Open(writeFile(t, src), Read, WithTransferSize(4096))
			require.NoError(t, err)
			defer in.Close()
			outPath := filepath.Join(t.TempDir(), "out")
			out := openChannel(t, outPath, Write|Create)

			n, err := p.fn(in, out, 3, 0, int64(len(src)-3))
			if errors.Is(err, errFallback) {
				t.Skipf("%s not supported here", p.name)
			}
			require.NoError(t, err)
			require.Equal(t, int64(len(src)-3), n)
			require.Equal(t, src[3:], readFile(t, outPath))
		})
	}
}

func TestTransferBufferedStopsAtEOF(t *testing.T) {
	in := openChannel(t, writeFile(t, pattern(10)), Read)
	outPath := filepath.Join(t.TempDir(), "out")
	out := openChannel(t, outPath, Write|Create)

	n, err := transferBuffered(in, out, 4, 0, 100)
	require.NoError(t, err)
	require.Equal(t, int64(6), n)
	require.Equal(t, pattern(10)[4:], readFile(t, outPath))
}

func TestTransferOverlappingRanges(t *testing.T) {
	src := pattern(20_000)

	t.Run("destination after source", func(t *testing.T) {
		path := writeFile(t, src)
		c := openChannel(t, path, ReadWrite)
		require.NoError(t, c.SetPosition(100))

		n, err := c.TransferTo(c, 0, int64(len(src)))
		require.NoError(t, err)
		require.Equal(t, int64(len(src)), n)

		got := readFile(t, path)
		require.Len(t, got, len(src)+100)
		require.Equal(t, src[:100], got[:100])
		require.Equal(t, src, got[100:])
	})

	t.Run("destination before source", func(t *testing.T) {
		path := writeFile(t, src)
		c := openChannel(t, path, ReadWrite)

		n, err := c.TransferTo(c, 100, int64(len(src)))
		require.NoError(t, err)
		require.Equal(t, int64(len(src)-100), n)

		got := readFile(t, path)
		require.Equal(t, src[100:], got[:len(src)-100])
		require.Equal(t, src[len(src)-100:], got[len(src)-100:])
	})

	t.Run("separate channels", func(t *testing.T) {
		path := writeFile(t, src)
		in, err := Open(path, Read, WithTransferSize(1000))
		require.NoError(t, err)
		defer in.Close()
		out := openChannel(t, path, Write)

		n, err := out.TransferFrom(in, 3333, int64(len(src)))
		require.NoError(t, err)
		require.Equal(t, int64(len(src)), n)

		got := readFile(t, path)
		require.Equal(t, src[:3333], got[:3333])
		require.Equal(t, src, got[3333:])
	})
}
