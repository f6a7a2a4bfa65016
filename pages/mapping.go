package pages

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/pagesys/internal/bounds"
	"github.com/joshuapare/pagesys/internal/logger"
)

// Mapping owns one region obtained from a Backend and keeps its current size.
//
// Resize prefers Remap and FreePart, and falls back to acquire+copy+free when
// the backend cannot resize in place. A Mapping is not safe for concurrent use.
type Mapping struct {
	b     Backend
	ptr   unsafe.Pointer
	size  uintptr
	flags uint32
}

// Map acquires at least size bytes from b.
func Map(b Backend, size uintptr) (*Mapping, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: zero size", ErrInvalid)
	}
	p, n, flags := b.Acquire(size)
	if p == nil {
		return nil, fmt.Errorf("%w: acquire %d bytes", ErrExhausted, size)
	}
	return &Mapping{b: b, ptr: p, size: n, flags: flags}, nil
}

// Pointer returns the base address, or nil after Release.
func (m *Mapping) Pointer() unsafe.Pointer { return m.ptr }

// Len returns the mapped size in bytes.
func (m *Mapping) Len() uintptr { return m.size }

// Bytes returns the mapped region as a slice. The slice is invalidated by
// Resize and Release.
func (m *Mapping) Bytes() []byte { return Bytes(m.ptr, m.size) }

// Resize changes the mapping to hold at least newSize bytes, rounded up to the
// backend's page size. Content up to min(old, new) is preserved. The base
// address may change.
func (m *Mapping) Resize(newSize uintptr) error {
	if m.ptr == nil {
		return fmt.Errorf("%w: mapping released", ErrInvalid)
	}
	if newSize == 0 {
		return fmt.Errorf("%w: zero size, use Release", ErrInvalid)
	}
	n, ok := roundTo(newSize, m.b.PageSize())
	if !ok {
		return fmt.Errorf("%w: size %d overflows page rounding", ErrInvalid, newSize)
	}

	switch {
	case n == m.size:
		return nil
	case n > m.size:
		return m.grow(n)
	default:
		return m.shrink(n)
	}
}

func (m *Mapping) grow(n uintptr) error {
	if p := m.b.Remap(m.ptr, m.size, n, true); p != nil {
		m.ptr, m.size = p, n
		return nil
	}

	p, granted, flags := m.b.Acquire(n)
	if p == nil {
		return fmt.Errorf("%w: grow to %d bytes", ErrExhausted, n)
	}
	copy(Bytes(p, m.size), Bytes(m.ptr, m.size))
	if !m.b.Free(m.ptr, m.size) {
		logger.Warn("pages: old mapping not released after move", "size", m.size)
	}
	m.ptr, m.size, m.flags = p, granted, flags
	return nil
}

func (m *Mapping) shrink(n uintptr) error {
	if m.b.CanReleasePart(m.flags) && m.b.FreePart(m.ptr, m.size, n) {
		m.size = n
		return nil
	}
	if p := m.b.Remap(m.ptr, m.size, n, false); p != nil {
		m.ptr, m.size = p, n
		return nil
	}
	return fmt.Errorf("%w: shrink from %d to %d bytes", ErrRelease, m.size, n)
}

// Release returns the whole region to the backend. Calling Release twice is a no-op.
func (m *Mapping) Release() error {
	if m.ptr == nil {
		return nil
	}
	if !m.b.Free(m.ptr, m.size) {
		return fmt.Errorf("%w: free %d bytes", ErrRelease, m.size)
	}
	m.ptr, m.size, m.flags = nil, 0, 0
	return nil
}

// roundTo rounds n up to a multiple of a backend's page size. A Backend may
// report a page size that is not a power of two, which bounds.RoundUp rejects.
func roundTo(n, page uintptr) (uintptr, bool) {
	if page == 0 {
		return n, true
	}
	if page&(page-1) == 0 {
		return bounds.RoundUp(n, page)
	}
	q := n / page
	if n%page != 0 {
		q++
	}
	r := q * page
	if r/page != q {
		return 0, false
	}
	return r, true
}
