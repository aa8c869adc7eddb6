// Package latch implements the per-node reader/writer latch and the
// traversal-scoped latch stack used by the tree's lock-coupling protocol.
package latch

import "sync"

// Mode identifies how a Latch was (or should be) acquired.
type Mode int

const (
	// ModeNone registers an already-held latch without acquiring it.
	ModeNone Mode = iota
	// ModeShared is a reader latch. Multiple holders may share it.
	ModeShared
	// ModeExclusive is a writer latch. At most one holder at a time.
	ModeExclusive
)

// Latch is a reader/writer latch guarding a single node's bytes.
type Latch struct {
	mu sync.RWMutex
}

// Lock acquires the latch in the given mode. ModeNone is a no-op.
func (l *Latch) Lock(mode Mode) {
	switch mode {
	case ModeShared:
		l.mu.RLock()
	case ModeExclusive:
		l.mu.Lock()
	}
}

// Unlock releases the latch that was held in the given mode. ModeNone
// unlocking is a programmer violation and panics in debug builds.
func (l *Latch) Unlock(mode Mode) {
	switch mode {
	case ModeShared:
		l.mu.RUnlock()
	case ModeExclusive:
		l.mu.Unlock()
	default:
		assertf(false, "latch: cannot unlock a latch acquired with ModeNone")
	}
}

// TryLockShared attempts a non-blocking shared acquire, used by the
// iterator's sibling hand-off. It never blocks.
func (l *Latch) TryLockShared() bool {
	return l.mu.TryRLock()
}
