package benchmarks

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// Cached benchmark source files
const benchCacheDir = "testdata/benchfiles"

var (
	cacheMu    sync.Mutex
	cachedSrcs = make(map[int]string)
)

// getCachedSource returns the path of a file holding size pseudo-random
// bytes, creating it if needed. Files are stored in
// testdata/benchfiles/src_<size>.bin and reused across runs.
func getCachedSource(b *testing.B, size int) string {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if path, ok := cachedSrcs[size]; ok {
		return path
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	path := filepath.Join(benchCacheDir, fmt.Sprintf("src_%d.bin", size))
	if st, err := os.Stat(path); err != nil || st.Size() != int64(size) {
		data := make([]byte, size)
		rand.New(rand.NewSource(int64(size))).Read(data)
		if err := os.WriteFile(path, data, 0644); err != nil {
			b.Fatal(err)
		}
	}

	cachedSrcs[size] = path
	return path
}

// CleanupBenchCache forgets the cached paths. The files stay on disk;
// remove testdata/benchfiles to regenerate them.
func CleanupBenchCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cachedSrcs = make(map[int]string)
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%dM", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%dk", n>>10)
	default:
		return fmt.Sprintf("%d", n)
	}
}
