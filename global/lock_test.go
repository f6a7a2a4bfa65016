package global

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestGlobalLock_MutualExclusion(t *testing.T) {
	const (
		workers = 16
		rounds  = 500
	)

	var (
		inside    atomic.Int32
		maxInside atomic.Int32
		shared    int
		wg        sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				AcquireGlobalLock()
				n := inside.Add(1)
				for {
					cur := maxInside.Load()
					if n <= cur || maxInside.CompareAndSwap(cur, n) {
						break
					}
				}
				shared++
				inside.Add(-1)
				ReleaseGlobalLock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), maxInside.Load(), "two goroutines were inside the lock at once")
	require.Equal(t, workers*rounds, shared)
}

func TestGlobalLock_TryAcquire(t *testing.T) {
	require.True(t, TryAcquireGlobalLock())
	ReleaseGlobalLock()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		AcquireGlobalLock()
		close(held)
		<-release
		ReleaseGlobalLock()
		close(done)
	}()

	<-held
	require.False(t, TryAcquireGlobalLock(), "lock is held by another goroutine")
	close(release)
	<-done

	require.True(t, TryAcquireGlobalLock())
	ReleaseGlobalLock()
}

func TestDo_ReleasesOnPanic(t *testing.T) {
	require.Panics(t, func() {
		Do(func() { panic("boom") })
	})
	require.True(t, TryAcquireGlobalLock(), "Do must release the lock after a panic")
	ReleaseGlobalLock()

	ran := false
	Do(func() { ran = true })
	require.True(t, ran)
}

func TestDo_UsesSharedBackend(t *testing.T) {
	require.Equal(t, uintptr(4096), System.PageSize())

	var (
		p     unsafe.Pointer
		n     uintptr
		freed bool
	)
	Do(func() { p, n, _ = System.Acquire(8192) })
	if p == nil {
		t.Skip("mapping refused")
	}
	Do(func() { freed = System.Free(p, n) })
	require.True(t, freed)
}

func TestReleaseUnheldIsFatal(t *testing.T) {
	rec := recordFatal(t)

	ReleaseGlobalLock()

	ops, errs := rec.calls()
	require.Equal(t, []string{"release"}, ops)
	require.Error(t, errs[0])
}

func TestEnableAllocAfterFork_Idempotent(t *testing.T) {
	EnableAllocAfterFork()
	require.Equal(t, 1, ForkHandlerRegistrations())

	EnableAllocAfterFork()
	require.Equal(t, 1, ForkHandlerRegistrations(), "handlers must be installed once")

	// The lock is still free and usable after both calls.
	require.True(t, TryAcquireGlobalLock())
	ReleaseGlobalLock()
}
