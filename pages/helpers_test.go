package pages

import "testing"

// fill writes a position-dependent pattern over b.
func fill(b []byte) {
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
}

// requirePattern checks b still holds the pattern written by fill.
func requirePattern(t testing.TB, b []byte) {
	t.Helper()
	for i := range b {
		if b[i] != byte(i*7+3) {
			t.Fatalf("byte %d = %#x, want %#x", i, b[i], byte(i*7+3))
		}
	}
}
