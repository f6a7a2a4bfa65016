package main

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbeCommand(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" && runtime.GOOS != "freebsd" && runtime.GOOS != "windows" {
		t.Skip("no page backend on this platform")
	}

	tests := []struct {
		name        string
		noRemap     bool
		wantContain []string
	}{
		{
			name:        "default policy",
			wantContain: []string{"Page Backend:", "Page size: 4,096 bytes", "Partial release: yes", "Acquire one page: ok"},
		},
		{
			name:        "unmap-only policy",
			noRemap:     true,
			wantContain: []string{"In-place remap: no", "Free one page: ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			probeNoRemap = tt.noRemap

			output, err := captureOutput(t, runProbe)
			require.NoError(t, err, output)
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestProbeCommand_JSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	t.Cleanup(resetFlags)

	output, err := captureOutput(t, runProbe)
	if err != nil {
		t.Skipf("backend unavailable: %v", err)
	}

	var res ProbeResult
	decodeJSON(t, output, &res)
	require.Equal(t, uint64(4096), res.PageSize)
	require.True(t, res.AllocatesZeros)
	require.True(t, res.CanReleasePart)
	require.Equal(t, runtime.GOOS == "linux", res.CanRemap)
	require.True(t, res.AcquireOK)
	require.True(t, res.FreeOK)
}

func TestProbeCommand_Quiet(t *testing.T) {
	resetFlags()
	quiet = true
	t.Cleanup(resetFlags)

	output, _ := captureOutput(t, runProbe)
	require.Empty(t, output)
}
