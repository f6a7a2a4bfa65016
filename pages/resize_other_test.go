//go:build unix && !linux

package pages

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemap_UnsupportedByDefault(t *testing.T) {
	var s System
	require.False(t, s.CanRemap())

	p, n := mustAcquire(t, s, 8192)
	require.Nil(t, s.Remap(p, n, 4096, false))
	require.Nil(t, s.Remap(p, n, 4*4096, true))

	_, err := s.RemapErr(p, n, 4096, false)
	require.ErrorIs(t, err, ErrUnsupported)
}
