package unifiedmap_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/unifiedmap/pkg/unifiedmap"
)

// wireCapacity reads the Capacity field out of a buffer written by
// Serialize: a 1-byte version tag, then a big-endian uint32.
func wireCapacity(t *testing.T, wire []byte) uint32 {
	t.Helper()

	require.GreaterOrEqual(t, len(wire), 5)

	return binary.BigEndian.Uint32(wire[1:5])
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	for i, k := range []string{"alpha", "beta", "gamma", "delta"} {
		m.Put(k, i)
	}

	var buf bytes.Buffer

	require.NoError(t, m.Serialize(&buf))

	restored, err := unifiedmap.Deserialize[string, int](&buf)
	require.NoError(t, err)

	require.Equal(t, m.Size(), restored.Size())

	m.ForEachKeyValue(func(k string, v int) bool {
		got, ok := restored.Get(k)
		assert.True(t, ok, "key %q missing after round trip", k)
		assert.Equal(t, v, got)

		return true
	})
}

// TestDeserializeRoundTripPreservesCapacity guards against Deserialize
// re-deriving a capacity from the wire header's literal table size as if
// it were an entry-count hint, which would inflate the table on every
// save/load cycle instead of reproducing it exactly.
func TestDeserializeRoundTripPreservesCapacity(t *testing.T) {
	t.Parallel()

	m, err := unifiedmap.NewWithCapacityAndLoad[string, int](4, 0.75)
	require.NoError(t, err)

	m.Put("a", 1)
	m.Put("b", 2)

	var buf bytes.Buffer
	require.NoError(t, m.Serialize(&buf))

	wantCapacity := wireCapacity(t, buf.Bytes())

	restored, err := unifiedmap.Deserialize[string, int](&buf)
	require.NoError(t, err)

	var buf2 bytes.Buffer
	require.NoError(t, restored.Serialize(&buf2))

	gotCapacity := wireCapacity(t, buf2.Bytes())
	assert.Equal(t, wantCapacity, gotCapacity, "deserialize must reproduce the original table capacity, not inflate it")

	var buf3 bytes.Buffer
	require.NoError(t, restored.Serialize(&buf3))

	restored2, err := unifiedmap.Deserialize[string, int](bytes.NewReader(buf3.Bytes()))
	require.NoError(t, err)

	var buf4 bytes.Buffer
	require.NoError(t, restored2.Serialize(&buf4))
	assert.Equal(t, wantCapacity, wireCapacity(t, buf4.Bytes()), "capacity must stay stable across repeated round trips")
}

func TestDeserializeRejectsNonPowerOfTwoCapacity(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()
	m.Put("a", 1)

	var buf bytes.Buffer
	require.NoError(t, m.Serialize(&buf))

	corrupted := buf.Bytes()
	// Header immediately follows the 1-byte version tag; Capacity is its
	// first (big-endian uint32) field. Flip it to a non-power-of-two value.
	corrupted[1], corrupted[2], corrupted[3], corrupted[4] = 0, 0, 0, 3

	_, err := unifiedmap.Deserialize[string, int](bytes.NewReader(corrupted))
	require.ErrorIs(t, err, unifiedmap.ErrInvalidArgument)
}

func TestDeserializeRejectsBadVersion(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer([]byte{0xFF})

	_, err := unifiedmap.Deserialize[string, int](buf)
	require.ErrorIs(t, err, unifiedmap.ErrInvalidArgument)
}

func TestDeserializeRejectsTruncatedHeader(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer([]byte{1, 0, 0})

	_, err := unifiedmap.Deserialize[string, int](buf)
	require.Error(t, err)
}

func TestSerializeEmptyMap(t *testing.T) {
	t.Parallel()

	m := unifiedmap.New[string, int]()

	var buf bytes.Buffer

	require.NoError(t, m.Serialize(&buf))

	restored, err := unifiedmap.Deserialize[string, int](&buf)
	require.NoError(t, err)
	assert.True(t, restored.IsEmpty())
}
