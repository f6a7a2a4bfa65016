//go:build unix

package pages

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapAnon creates a private anonymous read/write mapping of size bytes.
func mapAnon(size uintptr) (unsafe.Pointer, error) {
	return unix.MmapPtr(-1, 0, nil, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
}

// unmap releases the mapping [ptr, ptr+size).
func unmap(ptr unsafe.Pointer, size uintptr) error {
	return unix.MunmapPtr(ptr, size)
}

// unmapTail releases a suffix of a mapping. On unix that is a plain munmap.
func unmapTail(ptr unsafe.Pointer, size uintptr) error {
	return unix.MunmapPtr(ptr, size)
}
