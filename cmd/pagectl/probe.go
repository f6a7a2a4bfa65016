package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pagesys/global"
	"github.com/joshuapare/pagesys/pages"
)

var probeNoRemap bool

func init() {
	cmd := newProbeCmd()
	cmd.Flags().BoolVar(&probeNoRemap, "no-remap", false, "Probe the unmap-only resize policy")
	rootCmd.AddCommand(cmd)
}

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Report page backend capabilities on this platform",
		Long: `The probe command reports the backend's page size, resize policy and
release capabilities, and maps and frees one page to confirm the OS
accepts requests.

Example:
  pagectl probe
  pagectl probe --no-remap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe()
		},
	}
	return cmd
}

// ProbeResult is the probe command's report.
type ProbeResult struct {
	OS             string `json:"os"`
	Arch           string `json:"arch"`
	PageSize       uint64 `json:"page_size"`
	NativePageSize int    `json:"native_page_size"`
	CanRemap       bool   `json:"can_remap"`
	CanReleasePart bool   `json:"can_release_part"`
	AllocatesZeros bool   `json:"allocates_zeros"`
	NativeLock     bool   `json:"native_lock"`
	ForkHandlers   int    `json:"fork_handlers"`
	AcquireOK      bool   `json:"acquire_ok"`
	FreeOK         bool   `json:"free_ok"`
}

func probe(sys pages.System) ProbeResult {
	res := ProbeResult{
		OS:             runtime.GOOS,
		Arch:           runtime.GOARCH,
		PageSize:       uint64(sys.PageSize()),
		NativePageSize: os.Getpagesize(),
		CanRemap:       sys.CanRemap(),
		CanReleasePart: sys.CanReleasePart(0),
		AllocatesZeros: sys.AllocatesZeros(),
		NativeLock:     global.NativeLock(),
		ForkHandlers:   global.ForkHandlerRegistrations(),
	}

	global.Do(func() {
		p, n, _ := sys.Acquire(sys.PageSize())
		if p == nil {
			return
		}
		res.AcquireOK = true
		res.FreeOK = sys.Free(p, n)
	})
	return res
}

func runProbe() error {
	sys := pages.New(pages.Options{DisableRemap: probeNoRemap})
	res := probe(sys)

	if jsonOut {
		return printJSON(res)
	}

	printInfo("\nPage Backend:\n")
	printInfo("  Platform: %s/%s\n", res.OS, res.Arch)
	printInfo("  Page size: %s\n", formatBytes(res.PageSize))
	if res.NativePageSize != int(res.PageSize) {
		printInfo("  Native page size: %s\n", formatBytes(uint64(res.NativePageSize)))
	}
	printInfo("  In-place remap: %s\n", yesNo(res.CanRemap))
	printInfo("  Partial release: %s\n", yesNo(res.CanReleasePart))
	printInfo("  Zero-filled pages: %s\n", yesNo(res.AllocatesZeros))

	printInfo("\nGlobal Lock:\n")
	if res.NativeLock {
		printInfo("  Primitive: pthread mutex (error-checking)\n")
	} else {
		printInfo("  Primitive: Go mutex\n")
	}
	printInfo("  Fork handlers installed: %d\n", res.ForkHandlers)

	printInfo("\nSmoke Test:\n")
	printInfo("  Acquire one page: %s\n", passFail(res.AcquireOK))
	if res.AcquireOK {
		printInfo("  Free one page: %s\n", passFail(res.FreeOK))
	}

	if !res.AcquireOK || !res.FreeOK {
		return fmt.Errorf("page backend smoke test failed")
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func passFail(b bool) string {
	if b {
		return "ok"
	}
	return "FAILED"
}
