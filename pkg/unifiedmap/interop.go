package unifiedmap

import "fmt"

// ForeignSource describes a map-like producer external to this package: a
// claimed size plus a pull-style iterator function. Next is nil when the
// source has no entries to offer.
//
// This is the idiomatic Go shape of spec.md §7's EntrySetNullContract: the
// original guards against a foreign java.util.Map implementation whose
// entrySet() returns null. Go has no equivalent nullable-collection
// hazard, but a nil function value is a direct analogue — a foreign
// producer that forgot to supply an iterator despite reporting entries.
type ForeignSource[K comparable, V any] struct {
	Size int
	Next func() (key K, value V, ok bool)
}

// CopyFromForeign builds a new Map from src. If src.Next is nil and
// src.Size is 0, the source is treated as empty (spec.md §7: "if the
// foreign map is empty, treat as empty set"). If src.Next is nil but
// src.Size is nonzero, that is the EntrySetNullContract violation and
// CopyFromForeign fails with ErrEntrySetNil.
func CopyFromForeign[K comparable, V any](src ForeignSource[K, V]) (*Map[K, V], error) {
	if src.Next == nil {
		if src.Size != 0 {
			return nil, fmt.Errorf("%w: foreign source reports size %d with no iterator", ErrEntrySetNil, src.Size)
		}

		return New[K, V](), nil
	}

	m := New[K, V](withCapacityHintOpt[K, V](src.Size))

	for {
		k, v, ok := src.Next()
		if !ok {
			break
		}

		m.Put(k, v)
	}

	return m, nil
}
