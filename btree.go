// Package btree implements a concurrent, in-memory B+tree using pessimistic
// lock coupling (latch crabbing): a traversal holds at most a small,
// bounded number of node latches at once, releasing ancestors as soon as a
// node is provably safe from the structural change it might trigger.
package btree

import (
	"strings"
	"sync/atomic"

	"btree/internal/latch"
)

// Tree is a concurrent B+tree keyed by K with values V. All exported
// methods are safe for concurrent use by multiple goroutines; the
// concurrency protocol is pessimistic latch coupling, not lock-free or
// MVCC, so writers to disjoint subtrees can proceed in parallel but writers
// to the same node serialize.
type Tree[K any, V any] struct {
	compare     CompareFunc[K]
	leafCap     int
	internalCap int
	logger      Logger
	metrics     *Metrics

	rootLatch latch.Latch
	root      node[K, V]

	length atomic.Int64
	height atomic.Int32
}

// NewTree constructs an empty Tree ordered by compare. compare must define a
// total order over K; see Ordered for the common case of a type with
// built-in comparison operators.
func NewTree[K any, V any](compare CompareFunc[K], opts ...Option[K, V]) *Tree[K, V] {
	cfg := defaultOptions[K, V]()
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Tree[K, V]{
		compare:     compare,
		leafCap:     cfg.leafCapacity,
		internalCap: cfg.internalCapacity,
		logger:      cfg.logger,
		metrics:     cfg.metrics,
	}
	t.root = newLeaf[K, V](t.leafCap)
	t.height.Store(1)
	return t
}

// Len returns the number of keys currently stored. It is computed from
// atomic counters maintained alongside Insert/Delete, so a concurrent
// caller may observe a value that is momentarily stale but never corrupt.
func (t *Tree[K, V]) Len() int {
	return int(t.length.Load())
}

// Height returns the current number of node levels between the root and
// the leaves, inclusive. A tree with a single leaf root has height 1.
func (t *Tree[K, V]) Height() int {
	return int(t.height.Load())
}

// Insert adds key with value val, or overwrites val if key already exists.
func (t *Tree[K, V]) Insert(key K, val V) {
	ctx := latch.NewContext()
	ctx.Acquire(&t.rootLatch, latch.ModeExclusive)

	var sp split[K, V]
	var isNew bool
	didSplit := t.root.insert(t.compare, key, val, &sp, &isNew, ctx)

	if didSplit {
		newRoot := &internalNode[K, V]{cap: t.internalCap}
		newRoot.children = append(newRoot.children, sp.left, sp.right)
		newRoot.keys = append(newRoot.keys, sp.boundary)
		t.root = newRoot
		newHeight := t.height.Add(1)
		if t.logger != nil {
			t.logger.Info("root split", "height", newHeight)
		}
		if t.metrics != nil {
			t.metrics.splits.Inc()
		}
		ctx.ReleaseFrom(0, latch.ModeExclusive)
	}

	if isNew {
		t.length.Add(1)
	}
	ctx.Clear()
}

// Search returns the value stored for key and whether it was found.
func (t *Tree[K, V]) Search(key K) (V, bool) {
	ctx := latch.NewContext()
	ctx.Acquire(&t.rootLatch, latch.ModeShared)
	val, found := t.root.search(t.compare, key, ctx)
	ctx.Clear()
	return val, found
}

// Update overwrites the value for an existing key, returning whether key
// was found. Unlike Insert, it never creates a new key.
func (t *Tree[K, V]) Update(key K, val V) bool {
	ctx := latch.NewContext()
	ctx.Acquire(&t.rootLatch, latch.ModeExclusive)
	found := t.root.update(t.compare, key, val, ctx)
	ctx.Clear()
	return found
}

// Delete removes key, returning whether it was present.
func (t *Tree[K, V]) Delete(key K) bool {
	ctx := latch.NewContext()
	ctx.Acquire(&t.rootLatch, latch.ModeExclusive)

	var underflow bool
	found := t.root.delete(t.compare, key, &underflow, ctx)
	if !found {
		ctx.Clear()
		return false
	}

	if internalRoot, ok := t.root.(*internalNode[K, V]); ok && len(internalRoot.children) == 1 {
		onlyChild := internalRoot.children[0]
		internalRoot.clearChildren()
		internalRoot.destroy()
		t.root = onlyChild
		newHeight := t.height.Add(-1)
		if t.logger != nil {
			t.logger.Info("root collapsed", "height", newHeight)
		}
		if t.metrics != nil {
			t.metrics.collapses.Inc()
		}
	}

	if underflow {
		ctx.ReleaseFrom(0, latch.ModeExclusive)
	}
	t.length.Add(-1)
	ctx.Clear()
	return true
}

// Clear discards every entry, resetting the tree to a single empty leaf.
// It does not latch: callers must ensure no concurrent operation is in
// flight, the same requirement fredb places on structural bulk operations.
func (t *Tree[K, V]) Clear() {
	t.root.destroy()
	t.root = newLeaf[K, V](t.leafCap)
	t.height.Store(1)
	t.length.Store(0)
}

// Stringify renders the tree's full node structure, leaf entries and
// internal separators included. Intended for tests and debugging, not for
// large trees.
func (t *Tree[K, V]) Stringify() string {
	var sb strings.Builder
	t.root.writeString(&sb)
	return sb.String()
}

// TreeScan returns an Iterator positioned at the first key in the tree.
func (t *Tree[K, V]) TreeScan() *Iterator[K, V] {
	ctx := latch.NewContext()
	ctx.Acquire(&t.rootLatch, latch.ModeShared)
	ctx.Acquire(t.root.latchPtr(), latch.ModeShared)

	cur := t.root
	for {
		internalCur, ok := cur.(*internalNode[K, V])
		if !ok {
			break
		}
		child := internalCur.children[0]
		depth := ctx.Acquire(child.latchPtr(), latch.ModeShared)
		ctx.ReleaseUpto(depth, latch.ModeShared)
		cur = child
	}

	// The loop above only fires ReleaseUpto when it descends at least once.
	// A single-leaf-root tree never enters the loop body, so the leaf's own
	// depth (always the last latch pushed, whether or not any descent
	// happened) must be released up to unconditionally here, or t.rootLatch
	// stays locked forever.
	leaf := cur.(*leafNode[K, V])
	ctx.ReleaseUpto(ctx.Depth()-1, latch.ModeShared)
	return &Iterator[K, V]{tree: t, current: leaf, offset: 0}
}

// RangeQuery returns an Iterator positioned at the first key >= lo. The
// iterator stops once it would yield a key > hi.
func (t *Tree[K, V]) RangeQuery(lo, hi K) *Iterator[K, V] {
	ctx := latch.NewContext()
	ctx.Acquire(&t.rootLatch, latch.ModeShared)
	leaf, pos, _ := t.root.locateKey(t.compare, lo, ctx)
	return &Iterator[K, V]{tree: t, current: leaf, offset: pos, hasHi: true, hi: hi}
}
