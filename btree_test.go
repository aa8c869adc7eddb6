package btree

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newIntTree(leafCap, internalCap int) *Tree[int, int] {
	return NewTree[int, int](Ordered[int](),
		WithLeafCapacity[int, int](leafCap),
		WithInternalCapacity[int, int](internalCap))
}

// Concrete scenarios

func TestLeafInsertNoSplit(t *testing.T) {
	t.Parallel()

	tr := newIntTree(5, 5)
	for _, k := range []int{1, 3, 2, -1, 6} {
		tr.Insert(k, k)
	}
	assert.Equal(t, "[LEAF: (-1,-1) (1,1) (2,2) (3,3) (6,6)]", tr.Stringify())
}

func TestLeafSplitBoundary(t *testing.T) {
	t.Parallel()

	tr := newIntTree(4, 4)
	for _, k := range []int{3, 4, 6, 5} {
		tr.Insert(k, k)
	}
	require.Equal(t, "[LEAF: (3,3) (4,4) (5,5) (6,6)]", tr.Stringify())

	tr.Insert(1, 1)
	assert.Equal(t, "[INTERNAL: [LEAF: (1,1) (3,3) (4,4)] | 4 | [LEAF: (5,5) (6,6)]]", tr.Stringify())
	assert.Equal(t, 2, tr.Height())
}

func TestInternalSplitAndDelete(t *testing.T) {
	t.Parallel()

	tr := newIntTree(4, 4)
	for k := 1; k <= 6; k++ {
		tr.Insert(k, k)
	}
	require.Equal(t, "[INTERNAL: [LEAF: (1,1) (2,2)] | 2 | [LEAF: (3,3) (4,4) (5,5) (6,6)]]", tr.Stringify())

	require.True(t, tr.Delete(4))
	require.True(t, tr.Delete(3))
	assert.Equal(t, "[INTERNAL: [LEAF: (1,1) (2,2)] | 2 | [LEAF: (5,5) (6,6)]]", tr.Stringify())
}

func TestInternalMergeOnDelete(t *testing.T) {
	t.Parallel()

	tr := newIntTree(4, 4)
	for k := 1; k <= 8; k++ {
		tr.Insert(k, k)
	}

	require.True(t, tr.Delete(4))
	assert.Equal(t, "[INTERNAL: [LEAF: (1,1) (2,2) (3,3)] | 4 | [LEAF: (5,5) (6,6) (7,7) (8,8)]]", tr.Stringify())

	// Deleting an already-missing key is a no-op that returns false.
	before := tr.Stringify()
	assert.False(t, tr.Delete(4))
	assert.Equal(t, before, tr.Stringify())
}

// Round-trip / idempotence

func TestInsertSearchRoundTrip(t *testing.T) {
	t.Parallel()

	tr := newIntTree(8, 8)
	tr.Insert(42, 100)
	val, found := tr.Search(42)
	require.True(t, found)
	assert.Equal(t, 100, val)
}

func TestInsertOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	tr := newIntTree(8, 8)
	tr.Insert(1, 10)
	tr.Insert(1, 20)

	val, found := tr.Search(1)
	require.True(t, found)
	assert.Equal(t, 20, val)
	assert.Equal(t, 1, tr.Len())
}

func TestInsertDeleteSearch(t *testing.T) {
	t.Parallel()

	tr := newIntTree(8, 8)
	tr.Insert(7, 7)
	require.True(t, tr.Delete(7))

	_, found := tr.Search(7)
	assert.False(t, found)
}

func TestDeleteNonPresentKeyIsNoop(t *testing.T) {
	t.Parallel()

	tr := newIntTree(8, 8)
	tr.Insert(1, 1)
	assert.False(t, tr.Delete(999))
	assert.Equal(t, 1, tr.Len())
}

func TestUpdateDoesNotInsert(t *testing.T) {
	t.Parallel()

	tr := newIntTree(8, 8)
	assert.False(t, tr.Update(1, 1))
	assert.Equal(t, 0, tr.Len())

	tr.Insert(1, 1)
	assert.True(t, tr.Update(1, 2))
	val, _ := tr.Search(1)
	assert.Equal(t, 2, val)
}

// Boundary conditions

func TestEmptyTree(t *testing.T) {
	t.Parallel()

	tr := newIntTree(4, 4)
	_, found := tr.Search(1)
	assert.False(t, found)

	it := tr.TreeScan()
	_, _, err := it.Next()
	assert.ErrorIs(t, err, ErrIteratorDone)

	it = tr.RangeQuery(0, 100)
	_, _, err = it.Next()
	assert.ErrorIs(t, err, ErrIteratorDone)
}

func TestRootCollapseOnDelete(t *testing.T) {
	t.Parallel()

	tr := newIntTree(4, 4)
	for k := 1; k <= 5; k++ {
		tr.Insert(k, k)
	}
	require.Equal(t, 2, tr.Height())

	for k := 6; k >= 3; k-- {
		tr.Delete(k)
	}
	require.True(t, tr.Delete(1))
	assert.Equal(t, 1, tr.Height())
	assert.Equal(t, "[LEAF: (2,2)]", tr.Stringify())
}

func TestClearResetsTree(t *testing.T) {
	t.Parallel()

	tr := newIntTree(4, 4)
	for k := 1; k <= 20; k++ {
		tr.Insert(k, k)
	}
	require.Greater(t, tr.Height(), 1)

	tr.Clear()
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 1, tr.Height())
	assert.Equal(t, "[LEAF: ]", tr.Stringify())

	_, found := tr.Search(1)
	assert.False(t, found)

	tr.Insert(1, 1)
	val, found := tr.Search(1)
	require.True(t, found)
	assert.Equal(t, 1, val)
}

// Iteration

func TestTreeScanAscending(t *testing.T) {
	t.Parallel()

	tr := newIntTree(4, 4)
	want := []int{5, 3, 8, 1, 9, 2, 7, 4, 6}
	for _, k := range want {
		tr.Insert(k, k*10)
	}

	it := tr.TreeScan()
	var got []int
	for {
		k, v, err := it.Next()
		if err != nil {
			require.ErrorIs(t, err, ErrIteratorDone)
			break
		}
		assert.Equal(t, k*10, v)
		got = append(got, k)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestRangeQueryBounds(t *testing.T) {
	t.Parallel()

	tr := newIntTree(4, 4)
	for k := 1; k <= 20; k++ {
		tr.Insert(k, k)
	}

	it := tr.RangeQuery(5, 10)
	var got []int
	for {
		k, _, err := it.Next()
		if err != nil {
			require.ErrorIs(t, err, ErrIteratorDone)
			break
		}
		got = append(got, k)
	}
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10}, got)
}

// Randomized property test

func TestRandomizedInsertSearch(t *testing.T) {
	t.Parallel()

	const n = 100_000
	tr := newIntTree(32, 32)
	present := make(map[int]int, n)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < n; i++ {
		k := r.Intn(n * 2)
		present[k] = k
		tr.Insert(k, k)
	}

	for k := 0; k < n*2; k++ {
		want, shouldExist := present[k]
		val, found := tr.Search(k)
		require.Equal(t, shouldExist, found, "key %d", k)
		if shouldExist {
			require.Equal(t, want, val, "key %d", k)
		}
	}
	assert.Equal(t, len(present), tr.Len())
}

// Concurrency

func TestConcurrentInsertSearch(t *testing.T) {
	t.Parallel()

	tr := newIntTree(16, 16)
	const keyspace = 10_000
	const workers = 10
	const opsPerWorker = 10_000

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			r := rand.New(rand.NewSource(int64(w)))
			for i := 0; i < opsPerWorker; i++ {
				k := r.Intn(keyspace) + 1
				if r.Intn(2) == 0 {
					tr.Insert(k, k)
				} else {
					tr.Search(k)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for k := 1; k <= keyspace; k++ {
		tr.Insert(k, k)
	}
	for k := 1; k <= keyspace; k++ {
		val, found := tr.Search(k)
		require.True(t, found, "key %d", k)
		require.Equal(t, k, val)
	}
}

func TestConcurrentDeleteSearch(t *testing.T) {
	t.Parallel()

	tr := newIntTree(16, 16)
	const keyspace = 5_000
	for k := 1; k <= keyspace; k++ {
		tr.Insert(k, k)
	}

	var wg sync.WaitGroup
	deleted := make(chan int, keyspace)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(deleted)
		for k := 1; k <= keyspace; k += 2 {
			tr.Delete(k)
			deleted <- k
		}
	}()

	deletedSet := make(map[int]bool)
	for k := range deleted {
		deletedSet[k] = true
		for probe := k - 1; probe >= 1 && probe > k-10; probe-- {
			if deletedSet[probe] {
				continue
			}
			val, found := tr.Search(probe)
			if found {
				assert.Equal(t, probe, val)
			}
		}
	}
	wg.Wait()
}

func TestTreeScanAfterMixedWorkload(t *testing.T) {
	t.Parallel()

	tr := newIntTree(8, 8)
	present := make(map[int]bool)
	r := rand.New(rand.NewSource(2))

	for i := 0; i < 5_000; i++ {
		k := r.Intn(1_000)
		if r.Intn(3) == 0 && present[k] {
			tr.Delete(k)
			delete(present, k)
		} else {
			tr.Insert(k, k)
			present[k] = true
		}
	}

	it := tr.TreeScan()
	var got []int
	for {
		k, v, err := it.Next()
		if err != nil {
			require.ErrorIs(t, err, ErrIteratorDone)
			break
		}
		assert.Equal(t, k, v)
		got = append(got, k)
	}

	require.Equal(t, len(present), len(got))
	for i := 1; i < len(got); i++ {
		require.Less(t, got[i-1], got[i], "TreeScan must yield strictly ascending keys")
	}
	for _, k := range got {
		assert.True(t, present[k])
	}
}
