package unifiedmap

// rehash grows the table to newCapacity (always a power of two, always
// larger than the current table) and reinserts every live entry, the way
// spec.md §4.4 describes "rehash": recompute maxSize, then walk the old
// table's direct slots and chains, ignoring empty cells, and Put each live
// pair into the fresh table.
//
// Entries are reinserted through the ordinary insertion path rather than a
// bulk copy, since a larger table changes every key's slot index.
func (m *Map[K, V]) rehash(newCapacity int) {
	old := m.table

	m.table = make([]slot[K, V], newCapacity)
	m.maxSize = computeMaxSize(newCapacity, m.loadFactor)
	m.occupied = 0

	for i := range old {
		switch old[i].state {
		case slotEmpty:
			continue

		case slotDirect:
			m.insertDuringRehash(old[i].key, old[i].value)

		case slotChained:
			c := old[i].chain
			for j := range c.live {
				m.insertDuringRehash(c.keys[j], c.values[j])
			}

		default:
			corruptionDetected("rehash observed invalid slot state")
		}
	}
}

// insertDuringRehash places a known-live, known-unique key into the
// already-sized fresh table. It skips the growIfNeeded check Put makes,
// since the caller (rehash) already sized the table for every entry it is
// about to reinsert.
func (m *Map[K, V]) insertDuringRehash(key K, value V) {
	i := m.indexOf(key)
	s := &m.table[i]

	switch s.state {
	case slotEmpty:
		s.state = slotDirect
		s.key = key
		s.value = value
		m.occupied++

	case slotDirect:
		newC := newChain[K, V](s.key, s.value, key, value)
		*s = slot[K, V]{state: slotChained, chain: newC}
		m.occupied++

	case slotChained:
		s.chain.append(key, value)
		m.occupied++

	default:
		corruptionDetected("rehash insert observed invalid slot state")
	}
}
