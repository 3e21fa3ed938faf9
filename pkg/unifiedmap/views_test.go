package unifiedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/unifiedmap/pkg/unifiedmap"
)

func TestKeySetReflectsBackingMap(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)

	keys := unifiedmap.KeySetOf(m)

	assert.Equal(t, 2, keys.Size())
	assert.True(t, keys.Contains("a"))
	assert.False(t, keys.Contains("z"))

	removed := keys.Remove("a")
	assert.True(t, removed)
	assert.Equal(t, 1, m.Size())
}

func TestKeySetAddIsUnsupported(t *testing.T) {
	t.Parallel()

	keys := unifiedmap.KeySetOf(unifiedmap.New[string, int]())

	require.ErrorIs(t, keys.Add("x"), unifiedmap.ErrUnsupported)
	require.ErrorIs(t, keys.AddAll(func(func(string) bool) {}), unifiedmap.ErrUnsupported)
}

func TestKeySetRetainAll(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[int, string]()
	for i := range 10 {
		m.Put(i, "v")
	}

	removed := unifiedmap.KeySetOf(m).RetainAll(func(k int) bool { return k%2 == 0 })

	assert.Equal(t, 5, removed)
	assert.Equal(t, 5, m.Size())

	m.ForEachKey(func(k int) bool {
		assert.Equal(t, 0, k%2)

		return true
	})
}

func TestValuesCollectionRemoveDeletesOneMatch(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)
	m.Put("b", 1)
	m.Put("c", 2)

	values := unifiedmap.ValuesOf(m)
	assert.Equal(t, 3, values.Size())
	assert.True(t, values.Contains(2))

	removed := values.Remove(1)
	assert.True(t, removed)
	assert.Equal(t, 2, m.Size())

	removed = values.Remove(999)
	assert.False(t, removed)
}

func TestValuesCollectionAddIsUnsupported(t *testing.T) {
	t.Parallel()

	values := unifiedmap.ValuesOf(unifiedmap.New[string, int]())

	require.ErrorIs(t, values.Add(1), unifiedmap.ErrUnsupported)
}

func TestEntrySetForEachAndSetValue(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)

	entries := unifiedmap.EntrySetOf(m)

	assert.Equal(t, 2, entries.Size())

	entries.ForEach(func(e unifiedmap.Entry[string, int]) bool {
		if e.Key() == "a" {
			old := e.SetValue(100)
			assert.Equal(t, 1, old)
		}

		return true
	})

	v, _ := m.Get("a")
	assert.Equal(t, 100, v)
}

// TestEntrySetSetValueIsNoOpAfterRemoval guards spec.md §4.6's entry
// handle contract: setValue writes through iff the key is still present,
// otherwise it must leave the map untouched instead of re-inserting it.
func TestEntrySetSetValueIsNoOpAfterRemoval(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)

	entry := unifiedmap.Entry[string, int]{}
	unifiedmap.EntrySetOf(m).ForEach(func(e unifiedmap.Entry[string, int]) bool {
		entry = e

		return true
	})

	_, removed := m.Remove("a")
	require.True(t, removed)

	old := entry.SetValue(999)
	assert.Equal(t, 0, old)
	assert.False(t, m.ContainsKey("a"))
	assert.True(t, m.IsEmpty())
}

func TestEntrySetRetainAll(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	removed := unifiedmap.EntrySetOf(m).RetainAll(func(e unifiedmap.Entry[string, int]) bool {
		return e.Value() >= 2
	})

	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, m.Size())
	assert.False(t, m.ContainsKey("a"))
}

func TestEntrySetAddIsUnsupported(t *testing.T) {
	t.Parallel()

	entries := unifiedmap.EntrySetOf(unifiedmap.New[string, int]())

	require.ErrorIs(t, entries.Add(unifiedmap.Entry[string, int]{}), unifiedmap.ErrUnsupported)
}
