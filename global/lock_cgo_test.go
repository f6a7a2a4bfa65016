//go:build cgo && unix

package global

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNativeLock(t *testing.T) {
	require.True(t, NativeLock())
}

func TestDoubleAcquireIsFatal(t *testing.T) {
	rec := recordFatal(t)

	AcquireGlobalLock()
	AcquireGlobalLock()
	ReleaseGlobalLock()

	ops, errs := rec.calls()
	require.Equal(t, []string{"acquire"}, ops)
	require.ErrorIs(t, errs[0], syscall.EDEADLK)

	require.True(t, TryAcquireGlobalLock(), "lock must be free after the single release")
	ReleaseGlobalLock()
}

func TestReleaseByNonOwnerIsFatal(t *testing.T) {
	rec := recordFatal(t)

	release := holdLock(t)
	ReleaseGlobalLock()
	release()

	ops, errs := rec.calls()
	require.Equal(t, []string{"release"}, ops)
	require.ErrorIs(t, errs[0], syscall.EPERM)
}
