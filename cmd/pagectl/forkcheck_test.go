package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pagesys/global"
)

func TestForkCheckCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping fork test in short mode")
	}
	resetFlags()
	jsonOut = true
	t.Cleanup(resetFlags)

	output, err := captureOutput(t, runForkCheck)
	require.NoError(t, err, output)

	var res ForkCheckResult
	decodeJSON(t, output, &res)
	require.Equal(t, global.NativeLock(), res.Supported)
	require.Equal(t, 1, res.Registrations)
	if res.Supported {
		require.True(t, res.ChildUnlocked, res.Error)
	}
}
