package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TrackAndUntrack(t *testing.T) {
	s := NewStore()
	now := time.Unix(1000, 0)

	assert.False(t, s.Contains(7))
	s.Track(7, 100, 118, now)
	s.IncreaseTotalSize(118)

	assert.True(t, s.Contains(7))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, int64(118), s.TotalSize())

	st, ok := s.Stats(7)
	require.True(t, ok)
	assert.Equal(t, Stats{ValueSize: 100, FileSize: 118, LastTouched: now}, st)

	// Tracking again overwrites without duplicating.
	s.Track(7, 50, 68, now.Add(time.Second))
	assert.Equal(t, 1, s.Len())
	st, _ = s.Stats(7)
	assert.Equal(t, int64(50), st.ValueSize)

	old, ok := s.Untrack(7)
	require.True(t, ok)
	assert.Equal(t, int64(68), old.FileSize)
	s.DecreaseTotalSize(118)

	assert.False(t, s.Contains(7))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, int64(0), s.TotalSize())

	_, ok = s.Untrack(7)
	assert.False(t, ok)
	_, ok = s.Stats(7)
	assert.False(t, ok)
}

func TestStore_Candidates(t *testing.T) {
	s := NewStore()
	base := time.Unix(1000, 0)

	s.Track(30, 1, 17, base.Add(1*time.Second))
	s.Track(10, 1, 17, base.Add(3*time.Second))
	s.Track(20, 1, 17, base.Add(2*time.Second))
	s.Track(5, 1, 17, base.Add(2*time.Second))

	assert.Equal(t, []uint32{5, 10, 20, 30}, s.Candidates(OrderID))
	assert.Equal(t, []uint32{30, 5, 20, 10}, s.Candidates(OrderRecency))

	// Touching moves an entry to the back of the recency order.
	s.Touch(30, base.Add(time.Minute))
	assert.Equal(t, []uint32{5, 20, 10, 30}, s.Candidates(OrderRecency))

	// Touching an unknown entry is a no-op.
	s.Touch(99, base)
	assert.False(t, s.Contains(99))
}

func TestOrder_String(t *testing.T) {
	assert.Equal(t, "recency", OrderRecency.String())
	assert.Equal(t, "id", OrderID.String())
	assert.Equal(t, "unknown", Order(9).String())
}
