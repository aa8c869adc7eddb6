package latch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAcquireReleaseUpto(t *testing.T) {
	t.Parallel()

	ctx := NewContext()
	root := &Latch{}
	child := &Latch{}

	depth0 := ctx.Acquire(root, ModeShared)
	depth1 := ctx.Acquire(child, ModeShared)
	require.Equal(t, 0, depth0)
	require.Equal(t, 1, depth1)

	ctx.ReleaseUpto(depth1, ModeShared)
	assert.False(t, ctx.FullyReleased())

	ctx.ReleaseUpto(depth1+1, ModeShared)
	assert.True(t, ctx.FullyReleased())

	ctx.Clear()
	assert.Equal(t, 0, ctx.Depth())
}

func TestContextReleaseUptoIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := NewContext()
	l := &Latch{}
	depth := ctx.Acquire(l, ModeExclusive)
	ctx.ReleaseUpto(depth+1, ModeExclusive)

	// A second call with a smaller-or-equal index must not double-unlock.
	assert.NotPanics(t, func() { ctx.ReleaseUpto(depth, ModeExclusive) })
	ctx.Clear()
}

func TestContextReleaseFromDrainsTail(t *testing.T) {
	t.Parallel()

	ctx := NewContext()
	a, b, c := &Latch{}, &Latch{}, &Latch{}
	ctx.Acquire(a, ModeExclusive)
	depthB := ctx.Acquire(b, ModeExclusive)
	ctx.Acquire(c, ModeExclusive)

	ctx.ReleaseUpto(depthB, ModeExclusive)
	ctx.ReleaseFrom(depthB, ModeExclusive)

	assert.True(t, ctx.FullyReleased())
	ctx.Clear()
}

func TestContextReplaceSwapsSlotWithoutAcquiring(t *testing.T) {
	t.Parallel()

	ctx := NewContext()
	target := &Latch{}
	partner := &Latch{}
	idx := ctx.Acquire(target, ModeExclusive)

	// The caller holds the replacement latch already, as the tree's merge
	// path does with the rebalance partner.
	partner.Lock(ModeExclusive)
	ctx.Replace(idx, partner, ModeExclusive)
	ctx.ReleaseFrom(idx, ModeExclusive)

	assert.True(t, ctx.FullyReleased())
}

func TestLatchTryLockShared(t *testing.T) {
	t.Parallel()

	l := &Latch{}
	l.Lock(ModeExclusive)
	assert.False(t, l.TryLockShared())
	l.Unlock(ModeExclusive)

	assert.True(t, l.TryLockShared())
	l.Unlock(ModeShared)
}
