package pages

import (
	"errors"
	"fmt"
	"log/slog"
	"syscall"
	"unsafe"

	"github.com/joshuapare/pagesys/internal/bounds"
	"github.com/joshuapare/pagesys/internal/logger"
)

// PageSize is the granularity of every size and address handled by this package.
const PageSize = 4096

// Backend is the capability contract an allocator uses to get pages from the OS.
//
// Implementations:
//   - System: mmap/mremap/munmap on unix, VirtualAlloc/VirtualFree on Windows
type Backend interface {
	// Acquire maps size bytes of zero-filled read/write memory.
	// Returns the base address, the granted size (a multiple of PageSize,
	// never less than size) and reserved flags, or (nil, 0, 0) on failure.
	Acquire(size uintptr) (ptr unsafe.Pointer, granted uintptr, flags uint32)

	// Remap resizes the mapping at ptr from oldSize to newSize bytes.
	// canMove allows the mapping to be relocated when it cannot grow in place.
	// Returns the new base address, or nil on failure or when unsupported.
	Remap(ptr unsafe.Pointer, oldSize, newSize uintptr, canMove bool) unsafe.Pointer

	// FreePart shrinks the mapping at ptr to newSize bytes, returning the
	// tail to the OS. The head [ptr, ptr+newSize) stays valid.
	FreePart(ptr unsafe.Pointer, oldSize, newSize uintptr) bool

	// Free releases the whole mapping. The range must not be touched afterwards.
	Free(ptr unsafe.Pointer, size uintptr) bool

	// CanReleasePart reports whether FreePart works on a mapping created with flags.
	CanReleasePart(flags uint32) bool

	// AllocatesZeros reports whether Acquire always returns zero-filled memory.
	AllocatesZeros() bool

	// PageSize returns the granularity all sizes must be multiples of.
	PageSize() uintptr
}

// Options configures a System.
type Options struct {
	// DisableRemap selects the unmap-only policy even where the kernel can
	// resize mappings. Remap then always fails and FreePart unmaps the tail.
	DisableRemap bool

	// Logger receives Debug records for failed operations.
	// If nil, the package-wide logger is used.
	Logger *slog.Logger
}

// System is the OS page backend. The zero value is ready for use and selects
// the platform's default resize policy.
type System struct {
	rs  resizer
	log *slog.Logger
}

var _ Backend = System{}

// New returns a System configured by opts.
func New(opts Options) System {
	s := System{log: opts.Logger}
	if opts.DisableRemap {
		s.rs = tailUnmapper{}
	}
	return s
}

func (s System) policy() resizer {
	if s.rs == nil {
		return defaultResizer
	}
	return s.rs
}

func (s System) debugLog() *slog.Logger {
	if s.log == nil {
		return logger.L
	}
	return s.log
}

// CanRemap reports whether Remap can ever succeed under this System's policy.
func (s System) CanRemap() bool { return s.policy().canRemap() }

// CanReleasePart always reports true: every mapping can give back its tail.
func (System) CanReleasePart(uint32) bool { return true }

// AllocatesZeros always reports true: anonymous mappings are zero-filled by the OS.
func (System) AllocatesZeros() bool { return true }

// PageSize returns 4096.
func (System) PageSize() uintptr { return PageSize }

// Acquire implements Backend.
func (s System) Acquire(size uintptr) (unsafe.Pointer, uintptr, uint32) {
	p, n, flags, _ := s.AcquireErr(size)
	return p, n, flags
}

// AcquireErr is like Acquire but also reports why a request failed.
func (s System) AcquireErr(size uintptr) (ptr unsafe.Pointer, granted uintptr, flags uint32, err error) {
	if size == 0 {
		return nil, 0, 0, s.fail("acquire", fmt.Errorf("%w: zero size", ErrInvalid), "size", size)
	}
	n, ok := bounds.RoundUp(size, PageSize)
	if !ok {
		return nil, 0, 0, s.fail("acquire", fmt.Errorf("%w: size %d overflows page rounding", ErrInvalid, size), "size", size)
	}

	p, err := mapAnon(n)
	if err != nil {
		return nil, 0, 0, s.fail("acquire", classify(err, ErrExhausted), "size", n)
	}
	return p, n, 0, nil
}

// Remap implements Backend.
func (s System) Remap(ptr unsafe.Pointer, oldSize, newSize uintptr, canMove bool) unsafe.Pointer {
	p, _ := s.RemapErr(ptr, oldSize, newSize, canMove)
	return p
}

// RemapErr is like Remap but also reports why the resize failed.
func (s System) RemapErr(ptr unsafe.Pointer, oldSize, newSize uintptr, canMove bool) (unsafe.Pointer, error) {
	if newSize == 0 {
		return nil, s.fail("remap", fmt.Errorf("%w: zero new size", ErrInvalid), "old", oldSize, "new", newSize)
	}
	if err := checkMapping(ptr, oldSize); err != nil {
		return nil, s.fail("remap", err, "old", oldSize, "new", newSize)
	}

	p, err := s.policy().remap(ptr, oldSize, newSize, canMove)
	if err != nil {
		return nil, s.fail("remap", err, "old", oldSize, "new", newSize, "can_move", canMove)
	}
	return p, nil
}

// FreePart implements Backend.
func (s System) FreePart(ptr unsafe.Pointer, oldSize, newSize uintptr) bool {
	return s.FreePartErr(ptr, oldSize, newSize) == nil
}

// FreePartErr is like FreePart but also reports why the tail was not released.
// newSize must be strictly between 0 and oldSize; use Free to drop everything.
func (s System) FreePartErr(ptr unsafe.Pointer, oldSize, newSize uintptr) error {
	if !bounds.Aligned(uintptr(ptr), PageSize) {
		return s.fail("free_part", fmt.Errorf("%w: %p is not page aligned", ErrInvalid, ptr),
			"old", oldSize, "new", newSize)
	}
	if _, _, ok := bounds.Tail(uintptr(ptr), oldSize, newSize); !ok {
		return s.fail("free_part", fmt.Errorf("%w: shrink %p from %d to %d", ErrInvalid, ptr, oldSize, newSize),
			"old", oldSize, "new", newSize)
	}

	if err := s.policy().freePart(ptr, oldSize, newSize); err != nil {
		return s.fail("free_part", err, "old", oldSize, "new", newSize)
	}
	return nil
}

// Free implements Backend.
func (s System) Free(ptr unsafe.Pointer, size uintptr) bool {
	return s.FreeErr(ptr, size) == nil
}

// FreeErr is like Free but also reports why the release failed.
func (s System) FreeErr(ptr unsafe.Pointer, size uintptr) error {
	if err := checkMapping(ptr, size); err != nil {
		return s.fail("free", err, "size", size)
	}
	if err := unmap(ptr, size); err != nil {
		return s.fail("free", classify(err, ErrRelease), "size", size)
	}
	return nil
}

// checkMapping rejects a base and size that cannot name a live mapping.
func checkMapping(ptr unsafe.Pointer, size uintptr) error {
	if !bounds.Aligned(uintptr(ptr), PageSize) {
		return fmt.Errorf("%w: %p is not page aligned", ErrInvalid, ptr)
	}
	if _, ok := bounds.CheckRange(uintptr(ptr), size); !ok {
		return fmt.Errorf("%w: %p+%d", ErrInvalid, ptr, size)
	}
	return nil
}

func (s System) fail(op string, err error, args ...any) error {
	s.debugLog().Debug("pages: "+op+" failed", append(args, "err", err)...)
	return err
}

// classify wraps an OS error with the sentinel callers match on. EINVAL means
// the arguments were rejected; anything else is reported as kind.
func classify(err error, kind error) error {
	switch {
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrExhausted),
		errors.Is(err, ErrUnsupported), errors.Is(err, ErrRelease):
		return err
	case errors.Is(err, syscall.EINVAL):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	default:
		return fmt.Errorf("%w: %w", kind, err)
	}
}
