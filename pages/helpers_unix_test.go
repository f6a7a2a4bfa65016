//go:build unix

package pages

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// requireNativePages skips tests that split mappings at 4 KiB boundaries on
// kernels with a larger native page (darwin/arm64, some arm64 Linux builds).
func requireNativePages(t testing.TB) {
	t.Helper()
	if unix.Getpagesize() != PageSize {
		t.Skipf("native page size is %d, partial release needs %d", unix.Getpagesize(), PageSize)
	}
}

// mustAcquire maps size bytes and registers a cleanup that frees them.
// Tests that free the mapping themselves should use acquire instead.
func mustAcquire(t testing.TB, s System, size uintptr) (unsafe.Pointer, uintptr) {
	t.Helper()
	p, n := acquire(t, s, size)
	t.Cleanup(func() { s.Free(p, n) })
	return p, n
}

func acquire(t testing.TB, s System, size uintptr) (unsafe.Pointer, uintptr) {
	t.Helper()
	p, n, flags := s.Acquire(size)
	require.NotNil(t, p, "Acquire(%d) failed", size)
	require.Zero(t, flags)
	return p, n
}
