package unifiedmap

import "reflect"

// deepEqual is the standard-library fallback used by ContainsValue. V is
// not constrained to comparable, and no library in the example pack offers
// a generic equality helper, so reflect.DeepEqual is the only available
// option — see DESIGN.md.
func deepEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}

// cursorKind records where the cursor's last-yielded entry came from, so
// Remove knows which compaction path to take.
type cursorKind uint8

const (
	cursorNone cursorKind = iota
	cursorDirect
	cursorChained
)

// Iter walks every live entry of a Map exactly once, in an order that is
// unspecified and not guaranteed stable across mutation (spec.md §4.5,
// Non-goals). Remove deletes the entry Next most recently returned without
// skipping or revisiting any other entry.
//
// An Iter must not outlive structural changes made by anything other than
// its own Remove; the map must not be mutated by other calls while an Iter
// is in use (spec.md §5).
type Iter[K comparable, V any] struct {
	m *Map[K, V]

	position  int // next direct slot index to examine
	chainPos  int // next index within the chain at table[position-1], if mid-chain
	inChain   bool

	count  int // entries yielded so far
	target int // entries present when the iterator was created; fixed so
	// that removing the just-yielded entry (which shrinks m.occupied)
	// doesn't truncate the remainder of this pass

	lastKind     cursorKind
	lastSlot     int // table index of the last-yielded entry's slot
	lastChainIdx int // index within that slot's chain, if lastKind == cursorChained
	removed      bool
}

// Iterator returns a fresh Iter over m.
func (m *Map[K, V]) Iterator() *Iter[K, V] {
	return &Iter[K, V]{m: m, target: m.occupied}
}

// HasNext reports whether Next would return another entry.
func (it *Iter[K, V]) HasNext() bool {
	return it.count < it.target
}

// Next returns the next (key, value) pair, or ErrIteratorExhausted once
// every live entry has been returned.
func (it *Iter[K, V]) Next() (K, V, error) {
	if !it.HasNext() {
		var zeroK K

		var zeroV V

		return zeroK, zeroV, ErrIteratorExhausted
	}

	table := it.m.table

	for {
		if it.inChain {
			s := &table[it.position-1]
			if s.state != slotChained {
				corruptionDetected("iterator mid-chain but slot is no longer chained")
			}

			if it.chainPos < s.chain.live {
				k, v := s.chain.keys[it.chainPos], s.chain.values[it.chainPos]

				it.lastKind = cursorChained
				it.lastSlot = it.position - 1
				it.lastChainIdx = it.chainPos
				it.removed = false

				it.chainPos++
				it.count++

				return k, v, nil
			}

			it.inChain = false

			continue
		}

		if it.position >= len(table) {
			var zeroK K

			var zeroV V

			corruptionDetected("iterator ran past table bounds before count was satisfied")

			return zeroK, zeroV, ErrIteratorExhausted
		}

		s := &table[it.position]
		it.position++

		switch s.state {
		case slotEmpty:
			continue

		case slotDirect:
			it.lastKind = cursorDirect
			it.lastSlot = it.position - 1
			it.removed = false
			it.count++

			return s.key, s.value, nil

		case slotChained:
			it.inChain = true
			it.chainPos = 0

			continue

		default:
			corruptionDetected("iterator observed invalid slot state")
		}
	}
}

// Remove deletes the entry most recently returned by Next. It is an error
// to call Remove before any Next, or twice for the same Next
// (ErrIteratorMisuse, spec.md §7).
func (it *Iter[K, V]) Remove() error {
	if it.lastKind == cursorNone || it.removed {
		return ErrIteratorMisuse
	}

	s := &it.m.table[it.lastSlot]

	switch it.lastKind {
	case cursorDirect:
		if s.state != slotDirect {
			corruptionDetected("iterator remove: slot is no longer direct")
		}

		*s = slot[K, V]{}
		it.m.occupied--

	case cursorChained:
		if s.state != slotChained {
			corruptionDetected("iterator remove: slot is no longer chained")
		}

		movedFromEnd := it.lastChainIdx == s.chain.live-1
		s.chain.removeAt(it.lastChainIdx)
		it.m.occupied--

		if s.chain.live == 0 {
			*s = slot[K, V]{}
			it.inChain = false
		} else if !movedFromEnd && it.inChain {
			// removeAt moved the chain's still-unvisited trailing pair down
			// into lastChainIdx (the slot the cursor just yielded from).
			// Rewind chainPos so that moved entry is visited next instead of
			// being skipped.
			it.chainPos = it.lastChainIdx
		}

	default:
		corruptionDetected("iterator remove: unknown cursor kind")
	}

	it.removed = true

	return nil
}

// ForEachKeyValue calls fn for every live entry in unspecified order,
// stopping early if fn returns false.
func (m *Map[K, V]) ForEachKeyValue(fn func(K, V) bool) {
	it := m.Iterator()
	for it.HasNext() {
		k, v, _ := it.Next()
		if !fn(k, v) {
			return
		}
	}
}

// ForEachKey calls fn for every live key in unspecified order.
func (m *Map[K, V]) ForEachKey(fn func(K) bool) {
	m.ForEachKeyValue(func(k K, _ V) bool { return fn(k) })
}

// ForEachValue calls fn for every live value in unspecified order.
func (m *Map[K, V]) ForEachValue(fn func(V) bool) {
	m.ForEachKeyValue(func(_ K, v V) bool { return fn(v) })
}

// ForEachWithIndex calls fn for every live entry in unspecified order,
// threading a running count (starting at 0) alongside each key/value pair
// (spec.md §6 for_each_with_index), stopping early if fn returns false.
func (m *Map[K, V]) ForEachWithIndex(fn func(int, K, V) bool) {
	index := 0

	m.ForEachKeyValue(func(k K, v V) bool {
		ok := fn(index, k, v)
		index++

		return ok
	})
}
