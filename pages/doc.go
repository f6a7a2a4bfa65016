// Package pages supplies raw virtual memory pages to a user-space allocator.
//
// # Overview
//
// The package is the boundary between an allocator's own bookkeeping (free
// lists, bins, coalescing) and the kernel's page-mapping calls. It never keeps
// state of its own: a System is an immutable handle, and any two Systems built
// from the same Options behave identically.
//
// # Backend Interface
//
// The capability contract is the Backend interface:
//
//   - Acquire(size): map fresh, zero-filled, read/write anonymous memory
//   - Remap(ptr, old, new, canMove): resize a mapping, optionally moving it
//   - FreePart(ptr, old, new): hand the tail [ptr+new, ptr+old) back to the OS
//   - Free(ptr, size): release a whole mapping
//   - CanReleasePart, AllocatesZeros, PageSize: static capabilities
//
// Every operation reports failure through its return value: a nil pointer, a
// zero size or false. Nothing panics on bad input. Callers that want to know
// why something failed use the Err variants on System, whose errors wrap one
// of ErrInvalid, ErrExhausted, ErrUnsupported or ErrRelease. All of them mean
// the same thing to an allocator: take the fallback path.
//
// # Platform Policy
//
// Linux has a real in-place resize primitive, mremap(2). There Remap uses it
// directly, and FreePart tries it first before unmapping the tail.
//
// Other platforms have no such primitive. Remap always returns nil, forcing the
// caller to acquire, copy and free, and FreePart unmaps (on Windows, decommits)
// the tail directly.
//
// The policy is a strategy picked at build time. Options.DisableRemap selects
// the unmap-only policy on Linux too:
//
//	sys := pages.New(pages.Options{DisableRemap: true})
//	sys.CanRemap() // false
//
// # Usage Example
//
//	var sys pages.System
//
//	p, n, flags := sys.Acquire(64 << 10)
//	if p == nil {
//	    return errOutOfMemory
//	}
//
//	buf := pages.Bytes(p, n)
//	copy(buf, payload)
//
//	// Give back everything past the first page.
//	if sys.CanReleasePart(flags) && sys.FreePart(p, n, sys.PageSize()) {
//	    n = sys.PageSize()
//	}
//
//	sys.Free(p, n)
//
// Mapping wraps that pattern for callers that just want a growable region.
//
// # Page Size
//
// PageSize is fixed at 4096 bytes. Acquire rounds requests up to it, so the
// granted size is always a whole number of pages.
//
// # Thread Safety
//
// System values carry no mutable state and may be shared freely. Mutual
// exclusion over the allocator data that sits on top of them is the caller's
// job; see package global.
package pages
