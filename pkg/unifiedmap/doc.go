// Package unifiedmap implements a unified open-addressed hash map: keys and
// values are stored in alternating slots of a single flat array rather than
// as separately allocated entry objects, so the common case needs no
// per-entry allocation. Collisions are resolved with a hybrid scheme: the
// same flat array encodes both the primary hash slots and, for slots that
// collide, an out-of-line overflow chain, discriminated by a per-slot state
// tag (empty, direct entry, or chain root).
//
// The map is not safe for concurrent use. All operations must be
// externally synchronized if shared across goroutines.
package unifiedmap
