//go:build cgo && unix

package global

/*
#include <errno.h>
#include <pthread.h>
#include <sys/types.h>
#include <sys/wait.h>
#include <unistd.h>

static pthread_mutex_t pagesys_lock;
static int pagesys_fork_held;

static int pagesys_lock_init(void) {
	pthread_mutexattr_t attr;
	int rc = pthread_mutexattr_init(&attr);
	if (rc != 0) {
		return rc;
	}
	rc = pthread_mutexattr_settype(&attr, PTHREAD_MUTEX_ERRORCHECK);
	if (rc == 0) {
		rc = pthread_mutex_init(&pagesys_lock, &attr);
	}
	pthread_mutexattr_destroy(&attr);
	return rc;
}

static int pagesys_lock_acquire(void) { return pthread_mutex_lock(&pagesys_lock); }
static int pagesys_lock_release(void) { return pthread_mutex_unlock(&pagesys_lock); }
static int pagesys_lock_try(void) { return pthread_mutex_trylock(&pagesys_lock); }

// The forking thread may already hold the lock; only undo what prepare did.
static void pagesys_prepare(void) {
	pagesys_fork_held = pthread_mutex_lock(&pagesys_lock) == 0;
}

static void pagesys_parent(void) {
	if (pagesys_fork_held) {
		pthread_mutex_unlock(&pagesys_lock);
	}
}

// The child runs on a new thread id, so an error-checking mutex would refuse
// an unlock from it. Start the child with a fresh, unlocked mutex instead.
static void pagesys_child(void) {
	pagesys_fork_held = 0;
	pagesys_lock_init();
}

static int pagesys_atfork(void) {
	return pthread_atfork(pagesys_prepare, pagesys_parent, pagesys_child);
}

// Returns 0 when the child could take and drop the lock, a positive status
// when it could not, or -errno when fork or wait failed.
static int pagesys_fork_probe(void) {
	pid_t pid = fork();
	if (pid < 0) {
		return -errno;
	}
	if (pid == 0) {
		int rc = pthread_mutex_trylock(&pagesys_lock);
		if (rc == 0) {
			rc = pthread_mutex_unlock(&pagesys_lock);
		}
		_exit(rc == 0 ? 0 : 1);
	}
	int status = 0;
	while (waitpid(pid, &status, 0) < 0) {
		if (errno != EINTR) {
			return -errno;
		}
	}
	if (WIFEXITED(status)) {
		return WEXITSTATUS(status);
	}
	return 128;
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"syscall"
)

// cgoLock reports whether this build uses the pthread mutex.
const cgoLock = true

// mutex is a handle on the C mutex. It is pinned to the holder's OS thread so
// the mutex's owner check applies to goroutines.
type mutex struct{}

func newMutex() *mutex {
	if rc := C.pagesys_lock_init(); rc != 0 {
		panic(fmt.Sprintf("global: pthread_mutex_init: %v", syscall.Errno(rc)))
	}
	return &mutex{}
}

func (*mutex) acquire() error {
	runtime.LockOSThread()
	if rc := C.pagesys_lock_acquire(); rc != 0 {
		runtime.UnlockOSThread()
		return fmt.Errorf("pthread_mutex_lock: %w", syscall.Errno(rc))
	}
	return nil
}

func (*mutex) release() error {
	if rc := C.pagesys_lock_release(); rc != 0 {
		return fmt.Errorf("pthread_mutex_unlock: %w", syscall.Errno(rc))
	}
	runtime.UnlockOSThread()
	return nil
}

func (*mutex) tryAcquire() (bool, error) {
	runtime.LockOSThread()
	switch rc := C.pagesys_lock_try(); rc {
	case 0:
		return true, nil
	case C.EBUSY:
		runtime.UnlockOSThread()
		return false, nil
	default:
		runtime.UnlockOSThread()
		return false, fmt.Errorf("pthread_mutex_trylock: %w", syscall.Errno(rc))
	}
}

func installForkHandlers() error {
	if rc := C.pagesys_atfork(); rc != 0 {
		return fmt.Errorf("pthread_atfork: %w", syscall.Errno(rc))
	}
	return nil
}

func forkCheck() error {
	switch rc := C.pagesys_fork_probe(); {
	case rc == 0:
		return nil
	case rc < 0:
		return fmt.Errorf("global: fork: %w", syscall.Errno(-rc))
	default:
		return fmt.Errorf("%w: child exit status %d", ErrChildLocked, int(rc))
	}
}
