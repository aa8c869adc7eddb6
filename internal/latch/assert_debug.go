//go:build debugassert

package latch

import "fmt"

// assertf panics with a formatted message when cond is false. Compiled out
// entirely in release builds (see assert_release.go) so a ProgrammerViolation
// is undefined behavior in a release binary, matching an NDEBUG-gated assert.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
