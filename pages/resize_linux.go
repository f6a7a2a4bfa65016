//go:build linux

package pages

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

var defaultResizer resizer = mremapResizer{}

// mremapResizer resizes mappings with mremap(2).
type mremapResizer struct{}

func (mremapResizer) canRemap() bool { return true }

func (mremapResizer) remap(ptr unsafe.Pointer, oldSize, newSize uintptr, canMove bool) (unsafe.Pointer, error) {
	flags := 0
	if canMove {
		flags = unix.MREMAP_MAYMOVE
	}
	p, err := unix.MremapPtr(ptr, oldSize, nil, newSize, flags)
	if err != nil {
		return nil, classify(err, ErrExhausted)
	}
	return p, nil
}

// freePart shrinks in place first. If the kernel refuses, the tail is unmapped
// instead; the head stays mapped either way.
func (mremapResizer) freePart(ptr unsafe.Pointer, oldSize, newSize uintptr) error {
	if _, err := unix.MremapPtr(ptr, oldSize, nil, newSize, 0); err == nil {
		return nil
	}
	return releaseTail(ptr, oldSize, newSize)
}
