//go:build !debugassert

package latch

// assertf is a no-op in release builds. Invariant violations caught here are
// undefined behavior outside of -tags debugassert, same as an NDEBUG assert.
func assertf(bool, string, ...any) {}
