package unifiedmap

// Entry is a live handle onto one key/value pair of a Map, returned by
// EntrySet iteration. SetValue writes through to the backing map; the
// Entry itself becomes stale if the map is mutated structurally afterward
// (spec.md §4.6).
type Entry[K comparable, V any] struct {
	m   *Map[K, V]
	key K
}

// Key returns the entry's key.
func (e Entry[K, V]) Key() K { return e.key }

// Value returns the entry's current value, re-read from the backing map.
func (e Entry[K, V]) Value() V {
	v, _ := e.m.Get(e.key)

	return v
}

// SetValue overwrites the entry's value in the backing map and returns the
// value that was replaced, but only if the key is still present; if it was
// removed since the Entry was obtained, SetValue leaves the map untouched
// and returns the zero value (spec.md §4.6: "iff the key is still
// present, otherwise returns null without mutation").
func (e Entry[K, V]) SetValue(v V) V {
	if _, ok := e.m.Get(e.key); !ok {
		var zero V

		return zero
	}

	old, _ := e.m.Put(e.key, v)

	return old
}

// KeySet is a read-mostly view over a Map's keys (spec.md §4.6). Add and
// AddAll are rejected: a KeySet cannot invent a value to pair a new key
// with.
type KeySet[K comparable, V any] struct {
	m *Map[K, V]
}

// KeySetOf returns a view over m's keys.
func KeySetOf[K comparable, V any](m *Map[K, V]) KeySet[K, V] {
	return KeySet[K, V]{m: m}
}

// Size returns the number of keys, equal to the backing map's size.
func (k KeySet[K, V]) Size() int { return k.m.Size() }

// Contains reports whether key is present in the backing map.
func (k KeySet[K, V]) Contains(key K) bool { return k.m.ContainsKey(key) }

// ForEach calls fn for every live key in unspecified order.
func (k KeySet[K, V]) ForEach(fn func(K) bool) { k.m.ForEachKey(fn) }

// Remove deletes key from the backing map, reporting whether it was
// present.
func (k KeySet[K, V]) Remove(key K) bool {
	_, ok := k.m.Remove(key)

	return ok
}

// RetainAll removes every key not present in keep, returning the number of
// keys removed. Spec.md §4.6 and scenario 6 document the return value as
// "whether the size strictly decreased"; the count is a superset of that
// (nonzero iff the size strictly decreased) and more useful to callers, so
// it is returned directly rather than narrowed to a bool.
func (k KeySet[K, V]) RetainAll(keep func(K) bool) int {
	return retainFiltered(k.m, func(key K, _ V) bool { return keep(key) })
}

// Add always fails: a KeySet cannot synthesize a value for a new key.
func (k KeySet[K, V]) Add(K) error { return ErrUnsupported }

// AddAll always fails, for the same reason as Add.
func (k KeySet[K, V]) AddAll(func(func(K) bool)) error { return ErrUnsupported }

// ValuesCollection is a read-mostly view over a Map's values (spec.md
// §4.6). Values are not unique, so Remove deletes at most one matching
// entry, chosen arbitrarily among ties.
type ValuesCollection[K comparable, V any] struct {
	m *Map[K, V]
}

// ValuesOf returns a view over m's values.
func ValuesOf[K comparable, V any](m *Map[K, V]) ValuesCollection[K, V] {
	return ValuesCollection[K, V]{m: m}
}

// Size returns the number of values, equal to the backing map's size.
func (v ValuesCollection[K, V]) Size() int { return v.m.Size() }

// Contains reports whether any live entry holds a value equal to target.
func (v ValuesCollection[K, V]) Contains(target V) bool { return v.m.ContainsValue(target) }

// ForEach calls fn for every live value in unspecified order.
func (v ValuesCollection[K, V]) ForEach(fn func(V) bool) { v.m.ForEachValue(fn) }

// Remove deletes one entry (chosen arbitrarily) whose value equals target,
// reporting whether one was found.
func (v ValuesCollection[K, V]) Remove(target V) bool {
	var victim K

	found := false

	v.m.ForEachKeyValue(func(k K, val V) bool {
		if deepEqual(val, target) {
			victim = k
			found = true

			return false
		}

		return true
	})

	if !found {
		return false
	}

	_, ok := v.m.Remove(victim)

	return ok
}

// Add always fails: values alone cannot be inserted without a key.
func (v ValuesCollection[K, V]) Add(V) error { return ErrUnsupported }

// AddAll always fails, for the same reason as Add.
func (v ValuesCollection[K, V]) AddAll(func(func(V) bool)) error { return ErrUnsupported }

// EntrySet is a read-mostly view over a Map's entries (spec.md §4.6).
// Add/AddAll are rejected (ErrUnsupported); see CopyFromForeign for this
// package's EntrySetNullContract handling (spec.md §7).
type EntrySet[K comparable, V any] struct {
	m *Map[K, V]
}

// EntrySetOf returns a view over m's entries.
func EntrySetOf[K comparable, V any](m *Map[K, V]) EntrySet[K, V] {
	return EntrySet[K, V]{m: m}
}

// Size returns the number of entries, equal to the backing map's size.
func (e EntrySet[K, V]) Size() int { return e.m.Size() }

// ForEach calls fn with an Entry handle for every live entry in
// unspecified order.
func (e EntrySet[K, V]) ForEach(fn func(Entry[K, V]) bool) {
	e.m.ForEachKey(func(k K) bool {
		return fn(Entry[K, V]{m: e.m, key: k})
	})
}

// RetainAll keeps only entries for which keep returns true, removing the
// rest, and returns the number of entries removed. See KeySet.RetainAll's
// doc comment for why this returns a count rather than the bool spec.md
// §4.6 documents.
func (e EntrySet[K, V]) RetainAll(keep func(Entry[K, V]) bool) int {
	return retainFiltered(e.m, func(k K, _ V) bool {
		return keep(Entry[K, V]{m: e.m, key: k})
	})
}

// Add always fails: EntrySet is a view, not an independent collection.
func (e EntrySet[K, V]) Add(Entry[K, V]) error { return ErrUnsupported }

// AddAll always fails, for the same reason as Add.
func (e EntrySet[K, V]) AddAll(func(func(Entry[K, V]) bool)) error { return ErrUnsupported }

// retainFiltered removes every entry for which keep returns false,
// returning the number removed. Shared by KeySet.RetainAll and
// EntrySet.RetainAll so the two views can't drift on removal semantics.
func retainFiltered[K comparable, V any](m *Map[K, V], keep func(K, V) bool) int {
	var toRemove []K

	m.ForEachKeyValue(func(k K, v V) bool {
		if !keep(k, v) {
			toRemove = append(toRemove, k)
		}

		return true
	})

	for _, k := range toRemove {
		m.Remove(k)
	}

	return len(toRemove)
}
