package global

import (
	"sync"
	"testing"
)

// fatalRecorder replaces the fatal hook for the duration of a test.
type fatalRecorder struct {
	mu   sync.Mutex
	ops  []string
	errs []error
}

func recordFatal(t *testing.T) *fatalRecorder {
	t.Helper()
	r := &fatalRecorder{}
	prev := fatal
	fatal = func(op string, err error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.ops = append(r.ops, op)
		r.errs = append(r.errs, err)
	}
	t.Cleanup(func() { fatal = prev })
	return r
}

func (r *fatalRecorder) calls() ([]string, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...), append([]error(nil), r.errs...)
}
