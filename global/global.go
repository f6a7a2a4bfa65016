package global

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/joshuapare/pagesys/internal/logger"
	"github.com/joshuapare/pagesys/pages"
)

var (
	// ErrForkUnsupported is returned by ForkCheck in builds that cannot fork.
	ErrForkUnsupported = errors.New("global: fork not supported in this build")

	// ErrChildLocked indicates the child of a fork could not take the global lock.
	ErrChildLocked = errors.New("global: lock held in forked child")
)

// System is the page backend shared by the process-wide allocator.
var System pages.System

// processLock is the one lock of this process. It is never destroyed.
var processLock = newMutex()

// forkProtected is set once the fork handlers are installed. Guarded by processLock.
var forkProtected bool

var registrations atomic.Int32

// fatal reports a broken lock invariant and terminates the process.
// Tests replace it to observe the violation.
var fatal = func(op string, err error) {
	logger.Error("global: lock invariant violated", "op", op, "err", err)
	fmt.Fprintf(os.Stderr, "global: %s: %v\n", op, err)
	os.Exit(2)
}

// AcquireGlobalLock blocks until the caller holds the global lock.
func AcquireGlobalLock() {
	if err := processLock.acquire(); err != nil {
		fatal("acquire", err)
	}
}

// ReleaseGlobalLock releases the global lock. The caller must hold it.
func ReleaseGlobalLock() {
	if err := processLock.release(); err != nil {
		fatal("release", err)
	}
}

// TryAcquireGlobalLock takes the global lock if it is free and reports whether it did.
func TryAcquireGlobalLock() bool {
	ok, err := processLock.tryAcquire()
	if err != nil {
		fatal("try_acquire", err)
		return false
	}
	return ok
}

// Do runs fn while holding the global lock. The lock is released even if fn panics.
func Do(fn func()) {
	AcquireGlobalLock()
	defer ReleaseGlobalLock()
	fn()
}

// EnableAllocAfterFork installs the fork handlers that keep the global lock
// usable in a child process. It must be called before any allocation takes
// the lock for the first time. Later calls do nothing.
func EnableAllocAfterFork() {
	AcquireGlobalLock()
	defer ReleaseGlobalLock()

	if forkProtected {
		return
	}
	if err := installForkHandlers(); err != nil {
		logger.Warn("global: fork handlers not installed", "err", err)
		return
	}
	forkProtected = true
	registrations.Add(1)
	logger.Debug("global: fork handlers installed")
}

// ForkHandlerRegistrations returns how many times the fork handlers were
// installed in this process: 0 before EnableAllocAfterFork, 1 after.
func ForkHandlerRegistrations() int {
	return int(registrations.Load())
}

// NativeLock reports whether the lock is a pthread mutex with fork handlers
// (cgo builds on unix) rather than the pure Go fallback.
func NativeLock() bool { return cgoLock }

// ForkCheck forks the process. The child takes and drops the global lock and
// exits; ForkCheck returns nil when it could, ErrChildLocked when it could not,
// and ErrForkUnsupported in builds without fork.
func ForkCheck() error {
	return forkCheck()
}
