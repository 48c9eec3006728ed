package benchmarks

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Giulio2002/gnio"
)

// BenchmarkCopy compares the copy paths of gnio against io.Copy on plain
// files.
// Run with: go test -bench=BenchmarkCopy -benchtime=1s -run=^$ ./benchmarks/
func BenchmarkCopy(b *testing.B) {
	b.Cleanup(CleanupBenchCache)

	for _, size := range []int{4 << 10, 1 << 20, 64 << 20} {
		src := getCachedSource(b, size)
		b.Run(formatSize(size), func(b *testing.B) {
			b.Run("Buffered", func(b *testing.B) {
				benchCopy(b, src, size, gnio.Write|gnio.Create|gnio.Truncate, func(dst, in *gnio.Channel) (int64, error) {
					return gnio.CopyBuffered(dst, in, nil)
				})
			})
			b.Run("Mapped", func(b *testing.B) {
				benchCopy(b, src, size, gnio.ReadWrite|gnio.Create, gnio.CopyMapped)
			})
			b.Run("Transfer", func(b *testing.B) {
				benchCopy(b, src, size, gnio.Write|gnio.Create|gnio.Truncate, func(dst, in *gnio.Channel) (int64, error) {
					return dst.TransferFrom(in, 0, int64(size))
				})
			})
			b.Run("Scatter", func(b *testing.B) {
				benchCopy(b, src, size, gnio.Write|gnio.Create|gnio.Truncate, scatterCopy)
			})
			b.Run("IOCopy", func(b *testing.B) {
				benchIOCopy(b, src, size)
			})
		})
	}
}

func benchCopy(b *testing.B, src string, size int, dstFlags gnio.OpenFlag, copyFn func(dst, src *gnio.Channel) (int64, error)) {
	dstPath := filepath.Join(b.TempDir(), "dst")
	b.SetBytes(int64(size))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		in, err := gnio.Open(src, gnio.Read)
		if err != nil {
			b.Fatal(err)
		}
		out, err := gnio.Open(dstPath, dstFlags)
		if err != nil {
			b.Fatal(err)
		}
		n, err := copyFn(out, in)
		if err != nil {
			b.Fatal(err)
		}
		if n != int64(size) {
			b.Fatalf("copied %d of %d bytes", n, size)
		}
		in.Close()
		out.Close()
	}
}

// scatterCopy moves a file through four buffers per vectored call.
func scatterCopy(dst, src *gnio.Channel) (int64, error) {
	bufs := make([]*gnio.Buffer, 4)
	for i := range bufs {
		bufs[i], _ = gnio.Allocate(gnio.TransferSize)
	}
	var total int64
	for {
		n, err := src.ReadBuffers(bufs...)
		if err == io.EOF {
			return total, nil
		} else if err != nil {
			return total, err
		}
		for _, b := range bufs {
			b.Flip()
		}
		if _, err := dst.WriteBuffers(bufs...); err != nil {
			return total, err
		}
		for _, b := range bufs {
			b.Clear()
		}
		total += n
	}
}

func benchIOCopy(b *testing.B, src string, size int) {
	dstPath := filepath.Join(b.TempDir(), "dst")
	b.SetBytes(int64(size))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		in, err := os.Open(src)
		if err != nil {
			b.Fatal(err)
		}
		out, err := os.Create(dstPath)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := io.Copy(out, in); err != nil {
			b.Fatal(err)
		}
		in.Close()
		out.Close()
	}
}

// BenchmarkBufferCycle measures the put, flip, drain, clear cycle.
func BenchmarkBufferCycle(b *testing.B) {
	for _, chunk := range []int{16, 512, 8192} {
		b.Run(fmt.Sprintf("chunk_%s", formatSize(chunk)), func(b *testing.B) {
			buf, _ := gnio.Allocate(gnio.TransferSize)
			p := make([]byte, chunk)
			out := make([]byte, chunk)
			b.SetBytes(int64(gnio.TransferSize))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for buf.Remaining() >= chunk {
					if err := buf.Put(p); err != nil {
						b.Fatal(err)
					}
				}
				buf.Flip()
				for buf.Remaining() >= chunk {
					if err := buf.Get(out); err != nil {
						b.Fatal(err)
					}
				}
				buf.Clear()
			}
		})
	}
}
