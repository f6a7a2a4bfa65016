// Package global holds the process-wide lock that guards a shared allocator,
// and the fork handlers that keep that lock usable in a child process.
//
// # Lock Protocol
//
// An allocator built on package pages takes the global lock before it touches
// any bookkeeping shared between threads, and releases it on every exit path:
//
//	global.AcquireGlobalLock()
//	defer global.ReleaseGlobalLock()
//	p, n, _ := global.System.Acquire(size)
//
// Do wraps the same pattern. The lock gives strict mutual exclusion with no
// fairness among waiters. Acquisition blocks without bound and cannot be
// cancelled.
//
// Any error from the underlying primitive (locking twice from the same
// goroutine, unlocking a lock the caller does not hold) means the allocator's
// invariants are already broken. The process logs the error and exits.
//
// # Fork Safety
//
// fork(2) copies only the calling thread. If another thread held the lock at
// that instant, the child inherits a lock nobody will ever release.
// EnableAllocAfterFork installs handlers that take the lock before the fork
// and release it on both sides afterwards, so the child starts unlocked with
// the allocator state the parent had. It must run before the first
// allocation reaches the lock. Calling it again is a no-op: installing the
// handlers twice would make the prepare handler take a lock it already holds.
//
// # Build Variants
//
// With cgo on unix the lock is an error-checking pthread mutex and the handlers
// are installed with pthread_atfork. The goroutine holding the lock is pinned
// to its OS thread until it releases it.
//
// Without cgo a Go program cannot fork without immediately exec'ing, so no
// allocator state can leak into a child. The lock is a sync.Mutex and
// EnableAllocAfterFork only sets its latch.
package global
