package btree

import (
	"fmt"
	"sort"
	"strings"

	"btree/internal/latch"
)

// internalNode holds N child subtrees and N-1 separator keys, where
// separator i is at least the rightmost key reachable from children[i] and
// less than every key in children[i+1]. A split sets it to exactly that
// rightmost key; a merge on delete can leave it larger. The last child has
// no separator; anything greater than the last real separator belongs to it.
type internalNode[K any, V any] struct {
	lt       latch.Latch
	cap      int
	keys     []K
	children []node[K, V]
	right    *internalNode[K, V]
}

func (n *internalNode[K, V]) latchPtr() *latch.Latch { return &n.lt }

func (n *internalNode[K, V]) rightmostKey() K {
	return n.children[len(n.children)-1].rightmostKey()
}

func (n *internalNode[K, V]) writeString(sb *strings.Builder) {
	sb.WriteString("[INTERNAL: ")
	for i := 0; i < len(n.children)-1; i++ {
		n.children[i].writeString(sb)
		sb.WriteString(" | ")
		fmt.Fprintf(sb, "%v", n.keys[i])
		sb.WriteString(" | ")
	}
	n.children[len(n.children)-1].writeString(sb)
	sb.WriteString("]")
}

// searchChildIndex returns the index of the child that owns key.
func (n *internalNode[K, V]) searchChildIndex(cmp CompareFunc[K], key K) int {
	size := len(n.keys)
	if size < linearScanThreshold {
		idx := 0
		for idx < size && cmp(n.keys[idx], key) < 0 {
			idx++
		}
		return idx
	}
	return sort.Search(size, func(i int) bool { return cmp(n.keys[i], key) >= 0 })
}

// clearChildren detaches this node's child slice without destroying the
// children, used before destroy() when those children have already been
// transferred to a survivor (a merge or a root collapse).
func (n *internalNode[K, V]) clearChildren() {
	n.children = nil
}

func (n *internalNode[K, V]) insert(cmp CompareFunc[K], key K, val V, sp *split[K, V], newKey *bool, ctx *latch.Context) bool {
	depth := ctx.Acquire(&n.lt, latch.ModeExclusive)
	if len(n.children) < n.cap {
		ctx.ReleaseUpto(depth, latch.ModeExclusive)
	}

	targetIdx := n.searchChildIndex(cmp, key)
	target := n.children[targetIdx]

	var childSplit split[K, V]
	didSplit := target.insert(cmp, key, val, &childSplit, newKey, ctx)
	if !didSplit {
		ctx.ReleaseUpto(depth+1, latch.ModeExclusive)
		return false
	}

	// The shift-insert below doubles as the separator swap: inserting
	// childSplit.boundary at targetIdx pushes whatever separator used to
	// live there (target's old rightmost key, if target wasn't the last
	// child) one slot right, exactly where the new sibling needs it.
	n.keys = insertAt(n.keys, targetIdx, childSplit.boundary)
	n.children = insertAt(n.children, targetIdx+1, childSplit.right)

	if len(n.children) <= n.cap {
		ctx.ReleaseFrom(depth, latch.ModeExclusive)
		return false
	}

	boundaryIdx := underflowBound(len(n.children))
	sibling := &internalNode[K, V]{cap: n.cap, right: n.right}
	sibling.children = append(sibling.children, n.children[boundaryIdx:]...)
	sibling.keys = append(sibling.keys, n.keys[boundaryIdx:]...)
	n.children = n.children[:boundaryIdx]
	n.keys = n.keys[:boundaryIdx-1]
	n.right = sibling

	sp.left = n
	sp.right = sibling
	sp.boundary = n.rightmostKey()
	return true
}

func (n *internalNode[K, V]) search(cmp CompareFunc[K], key K, ctx *latch.Context) (V, bool) {
	depth := ctx.Acquire(&n.lt, latch.ModeShared)
	ctx.ReleaseUpto(depth, latch.ModeShared)
	idx := n.searchChildIndex(cmp, key)
	return n.children[idx].search(cmp, key, ctx)
}

func (n *internalNode[K, V]) update(cmp CompareFunc[K], key K, val V, ctx *latch.Context) bool {
	depth := ctx.Acquire(&n.lt, latch.ModeExclusive)
	ctx.ReleaseUpto(depth, latch.ModeExclusive)
	idx := n.searchChildIndex(cmp, key)
	return n.children[idx].update(cmp, key, val, ctx)
}

func (n *internalNode[K, V]) delete(cmp CompareFunc[K], key K, underflow *bool, ctx *latch.Context) bool {
	depth := ctx.Acquire(&n.lt, latch.ModeExclusive)
	if len(n.children)-1 >= underflowBound(n.cap) {
		ctx.ReleaseUpto(depth, latch.ModeExclusive)
	}

	targetIdx := n.searchChildIndex(cmp, key)
	target := n.children[targetIdx]

	var childUnderflow bool
	deleted := target.delete(cmp, key, &childUnderflow, ctx)
	if !deleted || !childUnderflow {
		ctx.ReleaseUpto(depth+1, latch.ModeExclusive)
		return deleted
	}

	if len(n.children) <= 1 {
		// Only the root may reach this with a single child; the caller
		// (Tree) handles collapsing it. Nothing to rebalance here.
		*underflow = false
		ctx.ReleaseUpto(depth+1, latch.ModeExclusive)
		return true
	}

	var boundaryIdx, siblIdx int
	var left, right node[K, V]
	if targetIdx >= 1 {
		boundaryIdx, siblIdx = targetIdx-1, targetIdx-1
		left, right = n.children[targetIdx-1], target
	} else {
		boundaryIdx, siblIdx = targetIdx, targetIdx+1
		left, right = target, n.children[targetIdx+1]
	}

	partnerLatch := n.children[siblIdx].latchPtr()
	partnerLatch.Lock(latch.ModeExclusive)

	boundary := n.keys[boundaryIdx]
	merged := left.balance(cmp, right, &boundary)

	if right == target {
		// target is about to be destroyed; hand the context slot over to
		// the still-live partner so the release cascade below unlocks it
		// instead of a node that may no longer exist.
		ctx.Replace(depth+1, partnerLatch, latch.ModeExclusive)
	} else {
		partnerLatch.Unlock(latch.ModeExclusive)
	}

	if !merged {
		n.keys[boundaryIdx] = boundary
		*underflow = false
		ctx.ReleaseUpto(depth, latch.ModeExclusive)
		ctx.ReleaseFrom(depth, latch.ModeExclusive)
		return true
	}

	rightIdx := boundaryIdx + 1
	if rightIdx < len(n.keys) {
		n.keys[boundaryIdx], n.keys[rightIdx] = n.keys[rightIdx], n.keys[boundaryIdx]
		n.keys = deleteAt(n.keys, rightIdx)
	} else {
		n.keys = deleteAt(n.keys, boundaryIdx)
	}
	n.children = deleteAt(n.children, rightIdx)

	if internalRight, ok := right.(*internalNode[K, V]); ok {
		internalRight.clearChildren()
	}
	right.destroy()

	*underflow = len(n.children) < underflowBound(n.cap)
	if !*underflow {
		ctx.ReleaseFrom(depth, latch.ModeExclusive)
	}
	return true
}

func (n *internalNode[K, V]) balance(cmp CompareFunc[K], rightNode node[K, V], boundary *K) bool {
	r := rightNode.(*internalNode[K, V])
	bound := underflowBound(n.cap)

	switch {
	case len(n.children) < bound && len(r.children) > bound:
		moved := r.children[0]
		n.children = append(n.children, moved)
		n.keys = append(n.keys, *boundary)
		*boundary = n.rightmostKey()
		r.children = deleteAt(r.children, 0)
		r.keys = deleteAt(r.keys, 0)
		return false

	case len(n.children) > bound && len(r.children) < bound:
		moved := n.children[len(n.children)-1]
		r.children = insertAt(r.children, 0, moved)
		r.keys = insertAt(r.keys, 0, *boundary)
		n.children = n.children[:len(n.children)-1]
		n.keys = n.keys[:len(n.keys)-1]
		*boundary = n.rightmostKey()
		return false

	default:
		n.keys = append(n.keys, *boundary)
		n.keys = append(n.keys, r.keys...)
		n.children = append(n.children, r.children...)
		n.right = r.right
		return true
	}
}

func (n *internalNode[K, V]) locateKey(cmp CompareFunc[K], key K, ctx *latch.Context) (*leafNode[K, V], int, bool) {
	depth := ctx.Acquire(&n.lt, latch.ModeShared)
	ctx.ReleaseUpto(depth, latch.ModeShared)
	idx := n.searchChildIndex(cmp, key)
	return n.children[idx].locateKey(cmp, key, ctx)
}

func (n *internalNode[K, V]) destroy() {
	for _, c := range n.children {
		c.destroy()
	}
	n.children = nil
	n.keys = nil
}
