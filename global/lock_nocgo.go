//go:build !cgo || !unix

package global

import (
	"errors"
	"sync"
	"sync/atomic"
)

// cgoLock reports whether this build uses the pthread mutex.
const cgoLock = false

var errNotHeld = errors.New("release of unlocked mutex")

// mutex is the pure Go lock. Misuse the runtime cannot see (a goroutine
// locking twice) deadlocks instead of failing.
type mutex struct {
	mu   sync.Mutex
	held atomic.Bool
}

func newMutex() *mutex { return &mutex{} }

func (m *mutex) acquire() error {
	m.mu.Lock()
	m.held.Store(true)
	return nil
}

func (m *mutex) release() error {
	if !m.held.CompareAndSwap(true, false) {
		return errNotHeld
	}
	m.mu.Unlock()
	return nil
}

func (m *mutex) tryAcquire() (bool, error) {
	if !m.mu.TryLock() {
		return false, nil
	}
	m.held.Store(true)
	return true, nil
}

// installForkHandlers has nothing to install: without cgo the process can
// only fork through syscall.ForkExec, whose child execs before touching Go state.
func installForkHandlers() error { return nil }

func forkCheck() error { return ErrForkUnsupported }
