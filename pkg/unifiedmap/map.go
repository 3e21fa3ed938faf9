package unifiedmap

import "math/bits"

const defaultLoadFactor = 0.75

// defaultCapacityHint is the capacity hint New() uses when the caller has
// no better estimate, chosen to avoid the very first Put always paying for
// a rehash the way a hint of 0 would.
const defaultCapacityHint = 8

// slot is one position in the table. See sentinel.go for why this tagged
// struct stands in for the original's in-band sentinel encoding.
type slot[K comparable, V any] struct {
	state slotState
	key   K
	value V
	chain *chain[K, V]
}

// Map is a unified open-addressed hash map: keys and values live in the
// same flat table (spec.md §3), with same-slot collisions resolved by an
// out-of-line overflow chain rather than probing onward to another slot.
//
// The zero Map is not usable; construct one with New or a NewWith... function.
type Map[K comparable, V any] struct {
	table      []slot[K, V] // len(table) == capacity, a power of two
	occupied   int
	loadFactor float64
	maxSize    int
	hash       HashFunc[K]
}

// Pair is a key/value pair, used by constructors and bulk-insert helpers
// that need to accept heterogeneous (K, V) literals without resorting to
// an untyped variadic.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Option configures a Map at construction time, grounded on the
// functional-option pattern other_examples' homier-stablemap table.go uses
// for its own hash-function override.
type Option[K comparable, V any] func(*Map[K, V])

// WithHashFunc overrides the default hash/maphash-based hasher.
func WithHashFunc[K comparable, V any](h HashFunc[K]) Option[K, V] {
	return func(m *Map[K, V]) {
		m.hash = h
	}
}

// New constructs an empty Map with a small default capacity and the
// default load factor (0.75).
func New[K comparable, V any](opts ...Option[K, V]) *Map[K, V] {
	m, err := NewWithCapacityAndLoad[K, V](defaultCapacityHint, defaultLoadFactor, opts...)
	if err != nil {
		// defaultCapacityHint and defaultLoadFactor are always valid.
		panic(err)
	}

	return m
}

// NewWithCapacity constructs an empty Map sized to hold at least capacityHint
// entries before its first rehash, at the default load factor.
func NewWithCapacity[K comparable, V any](capacityHint int, opts ...Option[K, V]) (*Map[K, V], error) {
	return NewWithCapacityAndLoad[K, V](capacityHint, defaultLoadFactor, opts...)
}

// NewWithCapacityAndLoad constructs an empty Map sized for capacityHint
// entries at the given load factor (spec.md §4.4 "Initial sizing"):
// capacity = next_pow2(ceil(capacityHint / loadFactor)).
func NewWithCapacityAndLoad[K comparable, V any](capacityHint int, loadFactor float64, opts ...Option[K, V]) (*Map[K, V], error) {
	if capacityHint < 0 {
		return nil, ErrInvalidArgument
	}

	if loadFactor <= 0 || loadFactor > 1 {
		return nil, ErrInvalidArgument
	}

	capacity := nextPow2(ceilDiv(capacityHint, loadFactor))

	return newWithExactCapacity[K, V](capacity, loadFactor, opts...), nil
}

// newWithExactCapacity allocates a table of exactly capacity slots (which
// must already be a power of two), bypassing the hint-to-capacity formula
// NewWithCapacityAndLoad applies. Used directly by Deserialize, whose wire
// header already carries the literal capacity (spec.md §4.7) rather than
// an entry-count hint — routing it back through the hint formula would
// inflate the table size on every save/load round trip.
func newWithExactCapacity[K comparable, V any](capacity int, loadFactor float64, opts ...Option[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		table:      make([]slot[K, V], capacity),
		loadFactor: loadFactor,
		hash:       defaultHash[K],
	}
	m.maxSize = computeMaxSize(capacity, loadFactor)

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// NewFromPairs builds a Map pre-sized for len(pairs) and inserts them in
// order; a later pair overwrites an earlier one with the same key.
func NewFromPairs[K comparable, V any](pairs ...Pair[K, V]) *Map[K, V] {
	m := New[K, V](withCapacityHintOpt[K, V](len(pairs)))
	for _, p := range pairs {
		m.Put(p.Key, p.Value)
	}

	return m
}

// NewFromMap builds a new Map containing every entry of other.
//
// This always copies via iteration, never via a private-representation
// shortcut. spec.md §9 flags the original's copyMap fast path (which
// assumes the foreign map shares the same table encoding) as a leak of
// private representation; since nothing outside this package can construct
// a compatible table, the fast path has no safe equivalent here anyway —
// see DESIGN.md.
func NewFromMap[K comparable, V any](other *Map[K, V]) *Map[K, V] {
	m := New[K, V](withCapacityHintOpt[K, V](other.Size()))

	it := other.Iterator()
	for it.HasNext() {
		k, v, _ := it.Next()
		m.Put(k, v)
	}

	return m
}

func withCapacityHintOpt[K comparable, V any](hint int) Option[K, V] {
	return func(m *Map[K, V]) {
		if hint <= defaultCapacityHint {
			return
		}

		capacity := nextPow2(ceilDiv(hint, m.loadFactor))
		m.table = make([]slot[K, V], capacity)
		m.maxSize = computeMaxSize(capacity, m.loadFactor)
	}
}

// WithKeysValues inserts the given pairs and returns the receiver, for
// fluent construction: New[string, int]().WithKeysValues(...).
func (m *Map[K, V]) WithKeysValues(pairs ...Pair[K, V]) *Map[K, V] {
	for _, p := range pairs {
		m.Put(p.Key, p.Value)
	}

	return m
}

// Size returns the number of live entries.
func (m *Map[K, V]) Size() int { return m.occupied }

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.occupied == 0 }

// indexOf returns the direct slot index a key maps to.
func (m *Map[K, V]) indexOf(key K) int {
	return indexFor(spreadHash(m.hash(key)), len(m.table))
}

// ContainsKey reports whether key is present, distinguishing "absent" from
// "present with the zero value".
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)

	return ok
}

// Get returns the value for key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := &m.table[m.indexOf(key)]

	switch s.state {
	case slotEmpty:
		var zero V

		return zero, false
	case slotDirect:
		if s.key == key {
			return s.value, true
		}

		var zero V

		return zero, false
	case slotChained:
		if idx := s.chain.find(key); idx >= 0 {
			return s.chain.values[idx], true
		}

		var zero V

		return zero, false
	default:
		corruptionDetected("get observed invalid slot state")

		panic("unreachable")
	}
}

// ContainsValue reports whether any live entry holds a value equal to v.
// Linear, as spec.md §4.6 documents for the values-view equivalent.
// Equality uses reflect.DeepEqual since V is not constrained to be
// comparable — no ecosystem generic-equality helper is used anywhere in
// the example pack, so this is the standard-library option; see DESIGN.md.
func (m *Map[K, V]) ContainsValue(v V) bool {
	found := false

	m.ForEachValue(func(candidate V) bool {
		if valuesEqual(candidate, v) {
			found = true

			return false
		}

		return true
	})

	return found
}

// Put inserts or overwrites key's value, returning the previous value (if
// any) and whether the key was already present (spec.md §4.3 put).
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	i := m.indexOf(key)
	s := &m.table[i]

	switch s.state {
	case slotEmpty:
		s.state = slotDirect
		s.key = key
		s.value = value
		m.occupied++
		m.growIfNeeded()

		var zero V

		return zero, false

	case slotDirect:
		if s.key == key {
			old := s.value
			s.value = value

			return old, true
		}

		newC := newChain[K, V](s.key, s.value, key, value)
		*s = slot[K, V]{state: slotChained, chain: newC}
		m.occupied++
		m.growIfNeeded()

		var zero V

		return zero, false

	case slotChained:
		if idx := s.chain.find(key); idx >= 0 {
			old := s.chain.values[idx]
			s.chain.values[idx] = value

			return old, true
		}

		s.chain.append(key, value)
		m.occupied++
		m.growIfNeeded()

		var zero V

		return zero, false

	default:
		corruptionDetected("put observed invalid slot state")

		panic("unreachable")
	}
}

// Remove deletes key if present, returning its value and whether it was
// present. Chained removal compacts the chain to keep the prefix-packing
// invariant (spec.md §4.3, §3 invariant 4).
func (m *Map[K, V]) Remove(key K) (V, bool) {
	i := m.indexOf(key)
	s := &m.table[i]

	switch s.state {
	case slotEmpty:
		var zero V

		return zero, false

	case slotDirect:
		if s.key != key {
			var zero V

			return zero, false
		}

		old := s.value
		*s = slot[K, V]{}
		m.occupied--

		return old, true

	case slotChained:
		idx := s.chain.find(key)
		if idx < 0 {
			var zero V

			return zero, false
		}

		old := s.chain.values[idx]
		s.chain.removeAt(idx)

		if s.chain.live == 0 {
			*s = slot[K, V]{}
		}

		m.occupied--

		return old, true

	default:
		corruptionDetected("remove observed invalid slot state")

		panic("unreachable")
	}
}

// PutAll inserts every entry of other, overwriting existing keys.
func (m *Map[K, V]) PutAll(other *Map[K, V]) {
	other.ForEachKeyValue(func(k K, v V) bool {
		m.Put(k, v)

		return true
	})
}

// Clear removes every entry without shrinking capacity (spec.md §4.3
// clear).
func (m *Map[K, V]) Clear() {
	clear(m.table)
	m.occupied = 0
}

// GetIfAbsentPut returns the existing value for key, or computes one with
// supplier, inserts it, and returns it.
func (m *Map[K, V]) GetIfAbsentPut(key K, supplier func() V) V {
	if v, ok := m.Get(key); ok {
		return v
	}

	v := supplier()
	m.Put(key, v)

	return v
}

// GetIfAbsentPutValue returns the existing value for key, or inserts the
// literal value and returns it.
func (m *Map[K, V]) GetIfAbsentPutValue(key K, value V) V {
	if v, ok := m.Get(key); ok {
		return v
	}

	m.Put(key, value)

	return value
}

// GetIfAbsentPutWith returns the existing value for key, or materializes
// one as fn(param), inserts it, and returns it. A free function rather
// than a method because Go methods cannot introduce a new type parameter
// beyond the receiver's.
func GetIfAbsentPutWith[K comparable, V any, P any](m *Map[K, V], key K, fn func(P) V, param P) V {
	if v, ok := m.Get(key); ok {
		return v
	}

	v := fn(param)
	m.Put(key, v)

	return v
}

// UpdateValue inserts fn(factory()) if key is absent, or replaces the
// existing value with fn(oldValue); either way it returns the value now
// stored.
func (m *Map[K, V]) UpdateValue(key K, factory func() V, fn func(V) V) V {
	if v, ok := m.Get(key); ok {
		updated := fn(v)
		m.Put(key, updated)

		return updated
	}

	updated := fn(factory())
	m.Put(key, updated)

	return updated
}

// UpdateValueWith is UpdateValue with an extra parameter threaded into fn,
// exposed as a free function for the same reason as GetIfAbsentPutWith.
func UpdateValueWith[K comparable, V any, P any](m *Map[K, V], key K, factory func() V, fn func(V, P) V, param P) V {
	if v, ok := m.Get(key); ok {
		updated := fn(v, param)
		m.Put(key, updated)

		return updated
	}

	updated := fn(factory(), param)
	m.Put(key, updated)

	return updated
}

// CollectValues returns a new map with the same shape (capacity, load
// factor) as m, the same keys, and every value replaced by fn(key, value)
// (spec.md §6 collect_values). A free function because the result type R
// is a new type parameter.
func CollectValues[K comparable, V any, R any](m *Map[K, V], fn func(K, V) R) *Map[K, R] {
	out := &Map[K, R]{
		table:      make([]slot[K, R], len(m.table)),
		loadFactor: m.loadFactor,
		maxSize:    m.maxSize,
		hash:       m.hash,
	}

	for i := range m.table {
		switch m.table[i].state {
		case slotEmpty:
			continue
		case slotDirect:
			out.table[i] = slot[K, R]{
				state: slotDirect,
				key:   m.table[i].key,
				value: fn(m.table[i].key, m.table[i].value),
			}
			out.occupied++
		case slotChained:
			src := m.table[i].chain
			dst := &chain[K, R]{
				keys:   append([]K(nil), src.keys...),
				values: make([]R, len(src.values)),
				live:   src.live,
			}

			for j := range src.live {
				dst.values[j] = fn(src.keys[j], src.values[j])
			}

			out.table[i] = slot[K, R]{state: slotChained, chain: dst}
			out.occupied += src.live
		default:
			corruptionDetected("collectValues observed invalid slot state")
		}
	}

	return out
}

// DiagnosticsOf reports cost and shape estimators for m (spec.md §6):
// colliding buckets (direct slots currently acting as chain roots) and an
// approximate word count for the structures backing the table.
type Diagnostics struct {
	CollidingBuckets int
	MemoryWords      int
}

// DiagnosticsOf computes diagnostics for m. A free function (rather than
// a method) to keep the hot Map API free of rarely used introspection.
func DiagnosticsOf[K comparable, V any](m *Map[K, V]) Diagnostics {
	const headerWords = 2

	d := Diagnostics{MemoryWords: len(m.table) + headerWords}

	for i := range m.table {
		if m.table[i].state == slotChained {
			d.CollidingBuckets++
			d.MemoryWords += len(m.table[i].chain.keys) + headerWords
		}
	}

	return d
}

func (m *Map[K, V]) growIfNeeded() {
	if m.occupied > m.maxSize {
		m.rehash(len(m.table) * 2)
	}
}

func valuesEqual[V any](a, b V) bool {
	return deepEqual(a, b)
}

func ceilDiv(n int, f float64) int {
	if n <= 0 {
		return 0
	}

	quotient := float64(n) / f
	whole := int(quotient)

	if float64(whole) < quotient {
		whole++
	}

	return whole
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}

func computeMaxSize(capacity int, loadFactor float64) int {
	byLoad := int(float64(capacity) * loadFactor)
	maxSize := min(capacity-1, byLoad)

	if maxSize < 0 {
		maxSize = 0
	}

	return maxSize
}
