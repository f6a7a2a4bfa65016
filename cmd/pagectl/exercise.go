package main

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pagesys/global"
	"github.com/joshuapare/pagesys/pages"
)

var (
	exerciseSize    uint64
	exerciseWorkers int
	exerciseRounds  int
	exerciseNoRemap bool
)

func init() {
	cmd := newExerciseCmd()
	cmd.Flags().Uint64Var(&exerciseSize, "size", 64<<10, "Initial mapping size in bytes")
	cmd.Flags().IntVar(&exerciseWorkers, "workers", 4, "Concurrent workers")
	cmd.Flags().IntVar(&exerciseRounds, "rounds", 100, "Cycles per worker")
	cmd.Flags().BoolVar(&exerciseNoRemap, "no-remap", false, "Use the unmap-only resize policy")
	rootCmd.AddCommand(cmd)
}

func newExerciseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Run acquire/resize/release cycles under the global lock",
		Long: `The exercise command starts several workers that each map a region,
check it is zero-filled, write a pattern, grow it, shrink it and release it.
Every backend call happens under the global allocator lock, and the
command verifies that no two workers are ever inside the lock at once.

Example:
  pagectl exercise
  pagectl exercise --size 1048576 --workers 8 --rounds 500
  pagectl exercise --no-remap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExercise()
		},
	}
	return cmd
}

// ExerciseResult is the exercise command's report.
type ExerciseResult struct {
	Workers         int    `json:"workers"`
	Rounds          int    `json:"rounds"`
	Size            uint64 `json:"size"`
	CanRemap        bool   `json:"can_remap"`
	Cycles          int64  `json:"cycles"`
	BytesMapped     uint64 `json:"bytes_mapped"`
	AcquireFailures int64  `json:"acquire_failures"`
	GrowFailures    int64  `json:"grow_failures"`
	ShrinkFailures  int64  `json:"shrink_failures"`
	ReleaseFailures int64  `json:"release_failures"`
	Corruptions     int64  `json:"corruptions"`
	MaxInsideLock   int32  `json:"max_inside_lock"`
	Elapsed         string `json:"elapsed"`
}

// Failed reports whether the run saw corruption or broken mutual exclusion.
func (r ExerciseResult) Failed() bool {
	return r.Corruptions > 0 || r.MaxInsideLock > 1
}

type exerciseStats struct {
	cycles      atomic.Int64
	acquireFail atomic.Int64
	growFail    atomic.Int64
	shrinkFail  atomic.Int64
	releaseFail atomic.Int64
	corrupt     atomic.Int64
	mapped      atomic.Uint64
	inside      atomic.Int32
	maxInside   atomic.Int32
}

func (s *exerciseStats) enter() {
	n := s.inside.Add(1)
	for {
		cur := s.maxInside.Load()
		if n <= cur || s.maxInside.CompareAndSwap(cur, n) {
			return
		}
	}
}

func (s *exerciseStats) leave() { s.inside.Add(-1) }

// locked runs fn under the global lock while tracking how many workers are inside.
func (s *exerciseStats) locked(fn func()) {
	global.Do(func() {
		s.enter()
		defer s.leave()
		fn()
	})
}

func exercise(sys pages.System, size uintptr, workers, rounds int) ExerciseResult {
	var (
		st    exerciseStats
		wg    sync.WaitGroup
		start = time.Now()
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed byte) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				cycle(sys, size, seed+byte(r), &st)
			}
		}(byte(w * 31))
	}
	wg.Wait()

	return ExerciseResult{
		Workers:         workers,
		Rounds:          rounds,
		Size:            uint64(size),
		CanRemap:        sys.CanRemap(),
		Cycles:          st.cycles.Load(),
		BytesMapped:     st.mapped.Load(),
		AcquireFailures: st.acquireFail.Load(),
		GrowFailures:    st.growFail.Load(),
		ShrinkFailures:  st.shrinkFail.Load(),
		ReleaseFailures: st.releaseFail.Load(),
		Corruptions:     st.corrupt.Load(),
		MaxInsideLock:   st.maxInside.Load(),
		Elapsed:         time.Since(start).Round(time.Microsecond).String(),
	}
}

// cycle maps one region, checks and fills it, grows it, shrinks it and releases it.
func cycle(sys pages.System, size uintptr, seed byte, st *exerciseStats) {
	var (
		m   *pages.Mapping
		err error
	)
	st.locked(func() { m, err = pages.Map(sys, size) })
	if err != nil {
		st.acquireFail.Add(1)
		return
	}
	st.mapped.Add(uint64(m.Len()))

	b := m.Bytes()
	if sys.AllocatesZeros() && !allZero(b) {
		st.corrupt.Add(1)
	}
	stamp(b, seed)
	kept := len(b)

	st.locked(func() { err = m.Resize(2 * m.Len()) })
	if err != nil {
		st.growFail.Add(1)
	} else if !stamped(m.Bytes()[:kept], seed) {
		st.corrupt.Add(1)
	}

	half := m.Len() / 2
	st.locked(func() { err = m.Resize(half) })
	switch {
	case err != nil:
		st.shrinkFail.Add(1)
	case !stamped(m.Bytes()[:min(kept, len(m.Bytes()))], seed):
		st.corrupt.Add(1)
	}

	st.locked(func() { err = m.Release() })
	if err != nil {
		st.releaseFail.Add(1)
		return
	}
	st.cycles.Add(1)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func stamp(b []byte, seed byte) {
	for i := range b {
		b[i] = seed ^ byte(i)
	}
}

func stamped(b []byte, seed byte) bool {
	for i := range b {
		if b[i] != seed^byte(i) {
			return false
		}
	}
	return true
}

func runExercise() error {
	if exerciseSize == 0 {
		return errors.New("--size must be positive")
	}
	if exerciseWorkers < 1 || exerciseRounds < 1 {
		return errors.New("--workers and --rounds must be at least 1")
	}

	sys := pages.New(pages.Options{DisableRemap: exerciseNoRemap})
	printVerbose("Running %d workers x %d rounds at %s\n",
		exerciseWorkers, exerciseRounds, formatBytes(exerciseSize))

	res := exercise(sys, uintptr(exerciseSize), exerciseWorkers, exerciseRounds)

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printInfo("\nExercise Results:\n")
		printInfo("  Workers: %d, rounds: %d\n", res.Workers, res.Rounds)
		printInfo("  In-place remap: %s\n", yesNo(res.CanRemap))
		printInfo("  Completed cycles: %d\n", res.Cycles)
		printInfo("  Mapped: %s\n", formatBytes(res.BytesMapped))
		printInfo("  Failures: acquire %d, grow %d, shrink %d, release %d\n",
			res.AcquireFailures, res.GrowFailures, res.ShrinkFailures, res.ReleaseFailures)
		printInfo("  Corruptions: %d\n", res.Corruptions)
		printInfo("  Max workers inside lock: %d\n", res.MaxInsideLock)
		printInfo("  Elapsed: %s\n", res.Elapsed)
	}

	if res.Failed() {
		return fmt.Errorf("exercise failed: %d corruptions, %d workers inside the lock at once",
			res.Corruptions, res.MaxInsideLock)
	}
	return nil
}
