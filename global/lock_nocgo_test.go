//go:build !cgo || !unix

package global

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNativeLock(t *testing.T) {
	require.False(t, NativeLock())
}

func TestForkCheckUnsupported(t *testing.T) {
	require.ErrorIs(t, ForkCheck(), ErrForkUnsupported)
}
