package testutil

import (
	"testing"

	"github.com/hupe1980/blobcache/internal/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a := NewRNG(4711)
		b := NewRNG(4711)

		assert.Equal(t, a.Bytes(32), b.Bytes(32))
		assert.Equal(t, a.Key(16), b.Key(16))
	})

	t.Run("Reset", func(t *testing.T) {
		rng := NewRNG(4711)
		first := rng.Bytes(16)

		rng.Reset()

		assert.Equal(t, first, rng.Bytes(16))
		assert.Equal(t, int64(4711), rng.Seed())
	})

	t.Run("Blob", func(t *testing.T) {
		rng := NewRNG(4711)

		for range 100 {
			b := rng.Blob(8, 16)
			assert.GreaterOrEqual(t, len(b), 8)
			assert.LessOrEqual(t, len(b), 16)
		}
		assert.Len(t, rng.Blob(5, 5), 5)
	})

	t.Run("Key", func(t *testing.T) {
		rng := NewRNG(4711)

		k := rng.Key(24)

		assert.Len(t, k, 24)
		for _, c := range k {
			assert.True(t, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'))
		}
	})
}

func TestCollidingKeys(t *testing.T) {
	a, b := CollidingKeys(NewRNG(4711), 8)

	require.NotEqual(t, a, b)
	assert.Equal(t, hash.EntryID(a), hash.EntryID(b))
}
