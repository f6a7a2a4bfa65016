// Package bounds holds overflow-checked arithmetic for address ranges.
//
// Every helper reports ok = false instead of wrapping, so callers in the page
// backend can turn a nonsensical (ptr, size) pair into a failure value before
// it ever reaches a system call.
package bounds

// AddOverflowSafe adds a and b, returning ok = false when the result would wrap.
func AddOverflowSafe(a, b uintptr) (uintptr, bool) {
	if a > ^uintptr(0)-b {
		return 0, false
	}
	return a + b, true
}

// RoundUp rounds n up to the next multiple of align, which must be a power of two.
// It returns ok = false when the rounded value does not fit in a uintptr.
func RoundUp(n, align uintptr) (uintptr, bool) {
	if align == 0 || align&(align-1) != 0 {
		return 0, false
	}
	sum, ok := AddOverflowSafe(n, align-1)
	if !ok {
		return 0, false
	}
	return sum &^ (align - 1), true
}

// Aligned reports whether n is a multiple of align (a power of two).
func Aligned(n, align uintptr) bool {
	return align != 0 && n&(align-1) == 0
}

// CheckRange validates the half-open range [base, base+size) and returns its end.
// A zero base or size is rejected, as is a range that would wrap past the top
// of the address space.
func CheckRange(base, size uintptr) (uintptr, bool) {
	if base == 0 || size == 0 {
		return 0, false
	}
	return AddOverflowSafe(base, size)
}

// Tail returns the start and length of the suffix [base+keep, base+size) that
// is cut off when a range of size bytes shrinks to keep bytes.
// keep must be strictly between 0 and size.
func Tail(base, size, keep uintptr) (start, length uintptr, ok bool) {
	if keep == 0 || keep >= size {
		return 0, 0, false
	}
	if _, ok := CheckRange(base, size); !ok {
		return 0, 0, false
	}
	return base + keep, size - keep, true
}
