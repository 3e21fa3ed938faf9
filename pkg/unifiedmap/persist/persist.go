// Package persist adds external, file-based persistence on top of
// unifiedmap's wire format: SaveFile/LoadFile round-trip a Map through a
// single file, guarded by an advisory lock and written atomically so a
// crash mid-write never corrupts the previous snapshot.
//
// This is a collaborator around the core, not an exception to its
// single-writer model (spec.md §5): a process must still not call
// SaveFile concurrently with a mutation of the same Map.
package persist

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/unifiedmap/pkg/unifiedmap"
)

// SaveFile serializes m and writes it to path, grounded on the teacher's
// own WithTicketLock flow: acquire the sibling .lock file, then write via
// natefinch/atomic.WriteFile so readers of path never observe a partial
// write.
func SaveFile[K comparable, V any](path string, m *unifiedmap.Map[K, V]) error {
	lock, err := acquireLock(path)
	if err != nil {
		return fmt.Errorf("unifiedmap/persist: acquiring lock: %w", err)
	}

	defer lock.release()

	var buf bytes.Buffer

	if err := m.Serialize(&buf); err != nil {
		return fmt.Errorf("unifiedmap/persist: serializing: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("unifiedmap/persist: writing %q: %w", path, err)
	}

	return nil
}

// LoadFile reads and deserializes a Map previously written by SaveFile.
func LoadFile[K comparable, V any](path string, opts ...unifiedmap.Option[K, V]) (*unifiedmap.Map[K, V], error) {
	lock, err := acquireLock(path)
	if err != nil {
		return nil, fmt.Errorf("unifiedmap/persist: acquiring lock: %w", err)
	}

	defer lock.release()

	file, err := os.Open(path) //nolint:gosec // path is from caller
	if err != nil {
		return nil, fmt.Errorf("unifiedmap/persist: opening %q: %w", path, err)
	}

	defer file.Close()

	m, err := unifiedmap.Deserialize[K, V](file, opts...)
	if err != nil {
		return nil, fmt.Errorf("unifiedmap/persist: reading %q: %w", path, err)
	}

	return m, nil
}
