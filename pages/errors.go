package pages

import "errors"

var (
	// ErrInvalid indicates a nil pointer, a zero size, or a range that wraps the address space.
	ErrInvalid = errors.New("pages: invalid range")

	// ErrExhausted indicates the OS refused to create or grow a mapping.
	ErrExhausted = errors.New("pages: mapping refused")

	// ErrUnsupported indicates the platform has no primitive for the operation.
	ErrUnsupported = errors.New("pages: not supported on this platform")

	// ErrRelease indicates the OS refused to unmap a range.
	ErrRelease = errors.New("pages: release failed")
)
