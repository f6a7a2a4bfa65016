package pages

import (
	"math"
	"unsafe"

	"github.com/joshuapare/pagesys/internal/bounds"
)

// Bytes returns a slice over the size bytes starting at ptr.
// It returns nil for a nil pointer, a zero size, or a size too large for a slice.
//
// The slice aliases OS memory: it must not be used after the range is freed.
func Bytes(ptr unsafe.Pointer, size uintptr) []byte {
	if ptr == nil || size == 0 || size > math.MaxInt {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

// RoundUp rounds size up to a whole number of pages.
// ok is false when the result does not fit in a uintptr.
func RoundUp(size uintptr) (uintptr, bool) {
	return bounds.RoundUp(size, PageSize)
}
