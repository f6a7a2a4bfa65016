package pages

import (
	"fmt"
	"unsafe"
)

// resizer is a platform's policy for changing the size of a live mapping.
// Arguments are validated by System before they get here.
type resizer interface {
	canRemap() bool
	remap(ptr unsafe.Pointer, oldSize, newSize uintptr, canMove bool) (unsafe.Pointer, error)
	freePart(ptr unsafe.Pointer, oldSize, newSize uintptr) error
}

// tailUnmapper is the policy for platforms without an in-place resize call.
// Remap always fails; FreePart releases the tail range directly.
type tailUnmapper struct{}

func (tailUnmapper) canRemap() bool { return false }

func (tailUnmapper) remap(unsafe.Pointer, uintptr, uintptr, bool) (unsafe.Pointer, error) {
	return nil, fmt.Errorf("%w: remap", ErrUnsupported)
}

func (tailUnmapper) freePart(ptr unsafe.Pointer, oldSize, newSize uintptr) error {
	return releaseTail(ptr, oldSize, newSize)
}

// releaseTail hands [ptr+newSize, ptr+oldSize) back to the OS.
func releaseTail(ptr unsafe.Pointer, oldSize, newSize uintptr) error {
	if err := unmapTail(unsafe.Add(ptr, newSize), oldSize-newSize); err != nil {
		return classify(err, ErrRelease)
	}
	return nil
}
