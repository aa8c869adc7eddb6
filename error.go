package btree

import "errors"

//goland:noinspection GoUnusedGlobalVariable
var (
	// ErrIteratorDone is returned by Iterator.Next once the iterator's
	// range, or the whole tree for a TreeScan, has been exhausted.
	ErrIteratorDone = errors.New("iterator exhausted")

	// ErrIteratorLatchContention is returned by Iterator.Next when the
	// non-blocking handoff to a sibling leaf's latch failed. The caller may
	// retry; a retry that succeeds still observes every key in order, but
	// a caller that gives up loses the guarantee that no key was skipped
	// underneath a concurrent split.
	ErrIteratorLatchContention = errors.New("iterator latch contention")
)
