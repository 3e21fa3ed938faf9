package unifiedmap

import (
	"hash/maphash"
	"unsafe"
)

// HashFunc computes a hash code for a key. Implementations need not apply
// any bit-mixing themselves — spreadHash (below) always runs on the result
// before it is used to index the table.
type HashFunc[K comparable] func(K) uint64

// defaultSeed is shared by every default hasher in the process, matching
// maphash's own per-process-seed guidance: stable within a run, randomized
// across runs so adversarial key sequences can't be precomputed ahead of
// time.
var defaultSeed = maphash.MakeSeed() //nolint:gochecknoglobals

// defaultHash hashes common key kinds directly and falls back to hashing a
// key's raw memory representation for everything else, grounded on
// other_examples' thebagchi-arena-go Map.hash: a type switch over the
// dynamic type of K for the kinds maphash.Hash can accept natively, with a
// last-resort unsafe byte read for the rest.
func defaultHash[K comparable](key K) uint64 {
	var h maphash.Hash

	h.SetSeed(defaultSeed)

	switch v := any(key).(type) {
	case string:
		h.WriteString(v)
	case []byte:
		h.Write(v)
	case int:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case int8:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case int16:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case int32:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case int64:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case uint:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case uint8:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case uint16:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case uint32:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case uint64:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case uintptr:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	default:
		// Value types without internal pointers (structs of the above,
		// fixed-size arrays) hash correctly this way; anything holding a
		// pointer/slice/map/interface field hashes its header, not its
		// contents — callers with such keys should supply a HashFunc via
		// WithHashFunc.
		writeBytes(&h, unsafe.Pointer(&key), unsafe.Sizeof(key))
	}

	return h.Sum64()
}

func writeBytes(h *maphash.Hash, ptr unsafe.Pointer, size uintptr) {
	h.Write(unsafe.Slice((*byte)(ptr), size))
}

// spreadHash applies spec.md §4.1's two bit-mixing rounds, bounding
// collisions for adversarial input distributions at the default load
// factor. Applied to a 64-bit hash rather than the original's 32-bit one;
// the shift amounts are unchanged, so the mixing only gains entropy.
func spreadHash(h uint64) uint64 {
	h ^= (h >> 20) ^ (h >> 12)
	h ^= (h >> 7) ^ (h >> 4)

	return h
}

// indexFor maps a spread hash to a slot index for a table of the given
// capacity (always a power of two).
func indexFor(spread uint64, capacity int) int {
	return int(spread) & (capacity - 1)
}
