//go:build windows

package pages

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// mapAnon reserves and commits size bytes of read/write memory.
// Committed pages are zero-filled by the OS.
func mapAnon(size uintptr) (unsafe.Pointer, error) {
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return addrPointer(addr), nil
}

// addrPointer converts an address returned by VirtualAlloc. The memory is
// outside the Go heap, so the collector never moves or frees it.
func addrPointer(addr uintptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&addr))
}

// unmap releases the whole reservation starting at ptr. VirtualFree with
// MEM_RELEASE requires a zero size and always drops the full region, so a
// mapping whose tail was decommitted by unmapTail is released correctly.
func unmap(ptr unsafe.Pointer, _ uintptr) error {
	return windows.VirtualFree(uintptr(ptr), 0, windows.MEM_RELEASE)
}

// unmapTail decommits a suffix of a reservation. Windows cannot release part
// of a reservation; decommitting returns the physical pages, and the address
// range goes back with the rest of the region in unmap.
func unmapTail(ptr unsafe.Pointer, size uintptr) error {
	return windows.VirtualFree(uintptr(ptr), size, windows.MEM_DECOMMIT)
}
