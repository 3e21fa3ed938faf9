package unifiedmap

import "fmt"

// slotState tags what a table slot currently holds.
//
// The original representation (spec.md §4.2) keeps everything in one
// []any-like array and discriminates direct entries, chained entries, and
// empty cells using two process-unique sentinel *objects* stored in the key
// cell (NULL_KEY, CHAINED_KEY), because Java's type erasure lets any Object
// share a slot regardless of K. Go's generics do not erase K: a []K slice
// cannot hold a sentinel object that isn't a K, so a null key can't be told
// apart from an empty slot by comparing against a magic K value the way the
// original does.
//
// The idiomatic Go translation — and the one spec.md §9 names directly
// ("model each slot as a variant Empty | Direct(K,V) | Chained(chain)") — is
// a tagged slot: an explicit state byte carried alongside the key and value,
// so "empty" and "holds the zero value of K" are distinguished structurally
// instead of by sentinel identity. This also means a null key (the zero
// value of a nilable K, e.g. a nil pointer) is handled for free: it is just
// an ordinary key value, stored and compared like any other.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotDirect
	slotChained
)

// corruptionDetected reports an invariant violation that should be
// impossible to reach through the public API.
//
// In the original representation, this condition is reached by comparing
// a leaked sentinel object against a user key; here the tagged slotState
// makes that specific failure mode unreachable by construction, but the
// same class of bug — the table corrupted by unsynchronized concurrent
// mutation (spec.md §5, §7) — still needs a single, loud, unrecoverable
// failure rather than a wrong answer returned quietly. Mirrors the
// fail-fast stance the teacher takes on file corruption in
// pkg/slotcache/errors.go, applied here to in-process state instead of an
// on-disk format.
func corruptionDetected(reason string) {
	panic(fmt.Sprintf("unifiedmap: corrupted map state: %s (concurrent modification without external synchronization?)", reason))
}
