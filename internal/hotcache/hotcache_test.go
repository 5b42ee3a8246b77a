package hotcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/blobcache/internal/entry"
	"github.com/hupe1980/blobcache/internal/mmap"
	"github.com/hupe1980/blobcache/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapFile(t *testing.T, content []byte) *mmap.Mapping {
	t.Helper()
	path := filepath.Join(t.TempDir(), "1")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	m, err := mmap.Open(path)
	require.NoError(t, err)
	return m
}

func isResident(c *Cache, id uint32) bool {
	_, ok := c.items[id]
	return ok
}

func TestCache_AddGet(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := New(Config{Limit: 100, Resources: rc})

	require.NoError(t, c.Add(1, Owned([]byte("owned-entry"))))
	require.NoError(t, c.Add(2, Mapped(mapFile(t, []byte("mapped-entry")))))

	b, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "owned-entry", string(b))

	b, ok = c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "mapped-entry", string(b))

	_, ok = c.Get(3)
	assert.False(t, ok)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(23), c.Size())
	assert.Equal(t, c.Size(), rc.MemoryUsage())
	assert.True(t, isResident(c, 2))
}

func TestCache_ReplaceReleasesPrevious(t *testing.T) {
	c := New(Config{Limit: 100})
	m := mapFile(t, []byte("old mapping"))

	require.NoError(t, c.Add(1, Mapped(m)))
	require.NoError(t, c.Add(1, Owned([]byte("new"))))

	assert.Nil(t, m.Bytes(), "previous mapping should be unmapped")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(3), c.Size())
}

func TestCache_ReplaceBarrierOnlyForMapped(t *testing.T) {
	barriers := 0
	c := New(Config{Limit: 100, Barrier: func() { barriers++ }})

	require.NoError(t, c.Add(1, Owned([]byte("first"))))
	require.NoError(t, c.Add(1, Owned([]byte("second"))))
	assert.Equal(t, 0, barriers, "replacing an owned buffer must not wait")

	removed, err := c.Remove(1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, barriers)

	require.NoError(t, c.Add(2, Mapped(mapFile(t, []byte("mapped")))))
	require.NoError(t, c.Add(2, Owned([]byte("owned"))))
	assert.Equal(t, 1, barriers)

	b, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "owned", string(b))
}

func TestCache_EvictsToHalfInRecencyOrder(t *testing.T) {
	barriers := 0
	var evicted []uint32
	c := New(Config{
		Limit:   100,
		Order:   entry.OrderRecency,
		Barrier: func() { barriers++ },
		OnEvict: func(id uint32, kind Kind) {
			assert.Equal(t, KindOwned, kind)
			evicted = append(evicted, id)
		},
	})

	for id := uint32(1); id <= 5; id++ {
		require.NoError(t, c.Add(id, Owned(make([]byte, 20))))
	}
	assert.Equal(t, 0, barriers)

	// Refresh entry 1 so it is no longer the oldest.
	_, ok := c.Get(1)
	require.True(t, ok)

	require.NoError(t, c.Add(6, Owned(make([]byte, 20))))

	assert.Equal(t, []uint32{2, 3, 4, 5}, evicted)
	assert.True(t, isResident(c, 1))
	assert.True(t, isResident(c, 6))
	assert.Equal(t, int64(40), c.Size())
	assert.Positive(t, barriers)
}

func TestCache_EvictsInIDOrder(t *testing.T) {
	var evicted []uint32
	c := New(Config{
		Limit:   100,
		Order:   entry.OrderID,
		OnEvict: func(id uint32, _ Kind) { evicted = append(evicted, id) },
	})

	for _, id := range []uint32{50, 10, 40, 20, 30} {
		require.NoError(t, c.Add(id, Owned(make([]byte, 20))))
	}
	_, _ = c.Get(10)

	require.NoError(t, c.Add(60, Owned(make([]byte, 20))))

	assert.Equal(t, []uint32{10, 20, 30, 40}, evicted)
	assert.True(t, isResident(c, 50))
	assert.True(t, isResident(c, 60))
	assert.LessOrEqual(t, c.Size(), c.Limit())
}

func TestCache_TooLarge(t *testing.T) {
	c := New(Config{Limit: 10})

	err := c.Add(1, Owned(make([]byte, 11)))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, 0, c.Len())
}

func TestCache_RemoveAndClear(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1000})
	c := New(Config{Limit: 1000, Resources: rc})
	m := mapFile(t, []byte("mapped"))

	require.NoError(t, c.Add(1, Mapped(m)))
	require.NoError(t, c.Add(2, Owned([]byte("owned"))))
	require.NoError(t, c.Add(3, Owned([]byte("more"))))

	removed, err := c.Remove(1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, m.Bytes())

	removed, err = c.Remove(1)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Size())
	assert.Equal(t, int64(0), rc.MemoryUsage())

	// Still usable after Clear.
	require.NoError(t, c.Add(4, Owned([]byte("again"))))
	assert.Equal(t, 1, c.Len())
}

func TestResident_Kinds(t *testing.T) {
	owned := Owned([]byte("abc"))
	assert.Equal(t, KindOwned, owned.Kind())
	assert.Equal(t, int64(3), owned.Size())
	require.NoError(t, owned.Release())
	assert.Equal(t, "owned", KindOwned.String())
	assert.Equal(t, "mapped", KindMapped.String())
	assert.Equal(t, "unknown", Kind(0).String())

	var zero Resident
	assert.Nil(t, zero.Bytes())
	assert.Equal(t, int64(0), zero.Size())
	require.NoError(t, zero.Release())
}
