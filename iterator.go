package btree

import (
	"btree/internal/latch"
)

// Iterator yields key/value pairs in ascending order starting from where a
// Tree.TreeScan or Tree.RangeQuery call positioned it. An Iterator holds
// exactly one leaf latch at a time: Next hands that latch off to the right
// sibling non-blockingly, so a concurrent writer splitting or merging a
// leaf ahead of the iterator is never forced to wait on it.
type Iterator[K any, V any] struct {
	tree    *Tree[K, V]
	current *leafNode[K, V]
	offset  int
	hasHi   bool
	hi      K
	done    bool
}

// Next advances the iterator and returns the next key/value pair. It
// returns ErrIteratorDone once the range (or the whole tree) is exhausted,
// and ErrIteratorLatchContention if the right sibling's latch could not be
// acquired without blocking. On contention the iterator keeps its current
// leaf latched and its position unchanged, so calling Next again retries the
// same handoff and continues in order; call Close to give up instead.
func (it *Iterator[K, V]) Next() (K, V, error) {
	var zeroK K
	var zeroV V

	if it.done {
		return zeroK, zeroV, ErrIteratorDone
	}

	for it.offset >= len(it.current.keys) {
		right := it.current.right
		if right == nil {
			it.release()
			return zeroK, zeroV, ErrIteratorDone
		}
		if !right.lt.TryLockShared() {
			if it.tree.logger != nil {
				it.tree.logger.Warn("iterator latch contention on sibling handoff")
			}
			if it.tree.metrics != nil {
				it.tree.metrics.iterContention.Inc()
			}
			return zeroK, zeroV, ErrIteratorLatchContention
		}
		it.current.lt.Unlock(latch.ModeShared)
		it.current = right
		it.offset = 0
	}

	key, val := it.current.keys[it.offset], it.current.values[it.offset]
	if it.hasHi && it.tree.compare(key, it.hi) > 0 {
		it.release()
		return zeroK, zeroV, ErrIteratorDone
	}
	it.offset++
	return key, val, nil
}

// Close releases the iterator's held latch without exhausting it. Safe to
// call more than once, and safe to skip if Next has already returned
// ErrIteratorDone.
func (it *Iterator[K, V]) Close() {
	if !it.done && it.tree.logger != nil {
		it.tree.logger.Debug("iterator closed before exhaustion", "offset", it.offset)
	}
	it.release()
}

func (it *Iterator[K, V]) release() {
	if !it.done {
		it.current.lt.Unlock(latch.ModeShared)
		it.done = true
	}
}
