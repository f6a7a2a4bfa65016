//go:build !unix && !windows

package pages

import (
	"fmt"
	"unsafe"
)

func mapAnon(uintptr) (unsafe.Pointer, error) {
	return nil, fmt.Errorf("%w: anonymous mappings", ErrUnsupported)
}

func unmap(unsafe.Pointer, uintptr) error {
	return fmt.Errorf("%w: unmap", ErrUnsupported)
}

func unmapTail(unsafe.Pointer, uintptr) error {
	return fmt.Errorf("%w: unmap", ErrUnsupported)
}
