package latch

// Context is the per-operation stack of latches a traversal currently holds.
// A single Context is created per top-level Tree operation and reused across
// its whole descent; it is never shared between goroutines.
//
// The latches held by a Context are always of a single Mode: reads use
// ModeShared throughout, writes use ModeExclusive throughout. Callers must
// pass the same mode to every release call as was used to acquire.
type Context struct {
	latches      []*Latch
	releasedUpto int
	expectedDepth int // debug only; -1 means "no expectation set"
	releasedAll  bool
}

// NewContext returns a Context ready for a fresh traversal.
func NewContext() *Context {
	return &Context{expectedDepth: -1}
}

// Depth returns the number of latches currently pushed onto the stack,
// released or not.
func (c *Context) Depth() int {
	return len(c.latches)
}

// Acquire locks latch in the given mode, pushes it onto the stack, and
// returns its index (equal to the depth at which it was pushed). ModeNone
// registers an already-held latch without locking it.
func (c *Context) Acquire(l *Latch, mode Mode) int {
	l.Lock(mode)
	c.latches = append(c.latches, l)
	c.releasedAll = false
	return len(c.latches) - 1
}

// ReleaseUpto unlocks every latch in [releasedUpto, idx) and advances the
// cursor to idx. A no-op if idx has already been passed.
func (c *Context) ReleaseUpto(idx int, mode Mode) {
	if c.releasedUpto >= idx {
		return
	}
	assertf(idx <= len(c.latches), "latch: release index %d exceeds depth %d", idx, len(c.latches))
	if idx >= len(c.latches) {
		c.releasedAll = true
	}
	for i := c.releasedUpto; i < idx; i++ {
		c.latches[i].Unlock(mode)
	}
	c.releasedUpto = idx
}

// Replace releases the latch at idx (acquired in mode) and stores newLatch
// in its place without acquiring it; the caller must already hold newLatch
// in mode, since later release calls unlock it. Used when a merge discards the target
// node and the parent's rebalance partner latch takes over its slot.
func (c *Context) Replace(idx int, newLatch *Latch, mode Mode) {
	c.latches[idx].Unlock(mode)
	c.latches[idx] = newLatch
}

// ReleaseFrom unlocks everything from depth through the end of the stack.
// Used when a safe ancestor concludes the operation and drains the tail.
func (c *Context) ReleaseFrom(depth int, mode Mode) {
	assertf(c.releasedUpto == depth, "latch: release-from depth %d does not match cursor %d", depth, c.releasedUpto)
	if c.expectedDepth >= 0 {
		assertf(c.expectedDepth == depth, "latch: release-from depth %d does not match expected %d", depth, c.expectedDepth)
	}
	c.releasedAll = true
	for i := depth; i < len(c.latches); i++ {
		c.latches[i].Unlock(mode)
	}
	c.releasedUpto = len(c.latches)
}

// FullyReleased reports whether every pushed latch has been released.
func (c *Context) FullyReleased() bool {
	return c.releasedUpto == len(c.latches)
}

// Clear resets the context for reuse. It is a programmer violation to clear
// a context that still holds latches.
func (c *Context) Clear() {
	assertf(c.releasedAll || len(c.latches) == 0, "latch: clearing context that has not released all latches")
	c.latches = c.latches[:0]
	c.releasedUpto = 0
	c.expectedDepth = -1
	c.releasedAll = false
}
