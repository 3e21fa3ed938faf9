package unifiedmap

import "errors"

// Error classification sentinels.
//
// Callers classify errors with errors.Is. Sentinel-identity corruption
// (spec §4.2, §7) is not represented here: it signals that the map's
// invariants can no longer be trusted, so it is raised with panic rather
// than returned — see corruptionDetected in sentinel.go.
var (
	// ErrInvalidArgument is returned at construction for a negative
	// capacity hint or a load factor outside (0, 1].
	ErrInvalidArgument = errors.New("unifiedmap: invalid argument")

	// ErrIteratorExhausted is returned by Next after the last entry.
	ErrIteratorExhausted = errors.New("unifiedmap: iterator exhausted")

	// ErrIteratorMisuse is returned by Remove when called without a
	// preceding Next, or twice for the same Next.
	ErrIteratorMisuse = errors.New("unifiedmap: iterator misuse")

	// ErrUnsupported is returned by Add/AddAll on any view.
	ErrUnsupported = errors.New("unifiedmap: unsupported operation")

	// ErrEntrySetNil is returned by CopyFromForeign when a ForeignSource
	// reports a nonzero size but a nil iterator.
	ErrEntrySetNil = errors.New("unifiedmap: entry set is nil")
)
