package unifiedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/unifiedmap/pkg/unifiedmap"
)

func drain[K comparable, V any](it *unifiedmap.Iter[K, V]) map[K]V {
	out := make(map[K]V)

	for it.HasNext() {
		k, v, err := it.Next()
		if err != nil {
			break
		}

		out[k] = v
	}

	return out
}

func TestIteratorVisitsEveryEntryExactlyOnce(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[int, int]()
	for i := range 200 {
		m.Put(i, i*2)
	}

	seen := drain[int, int](m.Iterator())

	require.Len(t, seen, 200)

	for i := range 200 {
		assert.Equal(t, i*2, seen[i])
	}
}

func TestIteratorNextAfterExhaustionReturnsError(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)

	it := m.Iterator()

	_, _, err := it.Next()
	require.NoError(t, err)
	assert.False(t, it.HasNext())

	_, _, err = it.Next()
	require.ErrorIs(t, err, unifiedmap.ErrIteratorExhausted)
}

func TestIteratorRemoveWithoutNextIsMisuse(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)

	it := m.Iterator()
	err := it.Remove()
	require.ErrorIs(t, err, unifiedmap.ErrIteratorMisuse)
}

func TestIteratorRemoveTwiceForSameNextIsMisuse(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)

	it := m.Iterator()

	_, _, err := it.Next()
	require.NoError(t, err)

	require.NoError(t, it.Remove())
	assert.ErrorIs(t, it.Remove(), unifiedmap.ErrIteratorMisuse)
}

func TestIteratorRemoveDeletesExactlyTheYieldedEntry(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[int, string]()
	for i := range 50 {
		m.Put(i, "v")
	}

	it := m.Iterator()

	removed := 0

	for it.HasNext() {
		k, _, err := it.Next()
		require.NoError(t, err)

		if k%2 == 0 {
			require.NoError(t, it.Remove())

			removed++
		}
	}

	assert.Equal(t, 25, removed)
	assert.Equal(t, 25, m.Size())

	for i := range 50 {
		_, ok := m.Get(i)
		if i%2 == 0 {
			assert.False(t, ok, "key %d should have been removed", i)
		} else {
			assert.True(t, ok, "key %d should still be present", i)
		}
	}
}

// TestIteratorRemoveCompactsChainWithoutSkippingOrRevisiting forces every
// key into one chain (via a constant hash func) and removes entries at
// every possible position within the chain across independent runs,
// asserting the remaining entries are exactly the unremoved ones and none
// were ever yielded twice.
func TestIteratorRemoveCompactsChainWithoutSkippingOrRevisiting(t *testing.T) {
	t.Parallel()

	const n = 12

	for removeAt := range n {
		m := unifiedmap.New[int, int](unifiedmap.WithHashFunc[int, int](func(int) uint64 { return 0 }))
		for i := range n {
			m.Put(i, i)
		}

		it := m.Iterator()

		seen := make(map[int]int)

		for it.HasNext() {
			k, v, err := it.Next()
			require.NoError(t, err)

			_, dup := seen[k]
			require.False(t, dup, "key %d yielded twice (removeAt=%d)", k, removeAt)
			seen[k] = v

			if k == removeAt {
				require.NoError(t, it.Remove())
			}
		}

		require.Len(t, seen, n, "removeAt=%d", removeAt)
		assert.Equal(t, n-1, m.Size(), "removeAt=%d", removeAt)

		_, ok := m.Get(removeAt)
		assert.False(t, ok, "removeAt=%d", removeAt)
	}
}

func TestForEachHelpersStopOnFalse(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[int, int]()
	for i := range 10 {
		m.Put(i, i)
	}

	count := 0

	m.ForEachKeyValue(func(int, int) bool {
		count++

		return count < 3
	})

	assert.Equal(t, 3, count)
}

func TestForEachWithIndexCountsFromZeroAndStopsOnFalse(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	for _, k := range []string{"a", "b", "c", "d"} {
		m.Put(k, 0)
	}

	var seen []int

	m.ForEachWithIndex(func(idx int, _ string, _ int) bool {
		seen = append(seen, idx)

		return true
	})

	require.Equal(t, []int{0, 1, 2, 3}, seen)

	seen = nil

	m.ForEachWithIndex(func(idx int, _ string, _ int) bool {
		seen = append(seen, idx)

		return idx < 1
	})

	require.Equal(t, []int{0, 1}, seen)
}
