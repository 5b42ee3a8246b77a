package entry

import (
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// Order selects the sequence in which entries are offered for eviction.
type Order uint8

const (
	// OrderRecency evicts the least recently touched entries first.
	OrderRecency Order = iota
	// OrderID evicts in ascending entry ID order.
	OrderID
)

func (o Order) String() string {
	switch o {
	case OrderRecency:
		return "recency"
	case OrderID:
		return "id"
	default:
		return "unknown"
	}
}

// Stats describes a tracked entry.
type Stats struct {
	ValueSize   int64
	FileSize    int64
	LastTouched time.Time
}

// Store is the authoritative index of entries known to the cache.
type Store struct {
	ids       *roaring.Bitmap
	stats     map[uint32]Stats
	totalSize int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		ids:   roaring.New(),
		stats: make(map[uint32]Stats),
	}
}

// Track records stats for id, replacing any previous stats.
// The total size is left untouched; callers adjust it explicitly.
func (s *Store) Track(id uint32, valueSize, fileSize int64, touched time.Time) {
	s.ids.Add(id)
	s.stats[id] = Stats{
		ValueSize:   valueSize,
		FileSize:    fileSize,
		LastTouched: touched,
	}
}

// Untrack forgets id and returns its last stats.
func (s *Store) Untrack(id uint32) (Stats, bool) {
	st, ok := s.stats[id]
	if !ok {
		return Stats{}, false
	}
	s.ids.Remove(id)
	delete(s.stats, id)
	return st, true
}

// Contains reports whether id is tracked.
func (s *Store) Contains(id uint32) bool {
	return s.ids.Contains(id)
}

// Stats returns the stats of id.
func (s *Store) Stats(id uint32) (Stats, bool) {
	st, ok := s.stats[id]
	return st, ok
}

// Touch updates the last touched time of id.
func (s *Store) Touch(id uint32, t time.Time) {
	if st, ok := s.stats[id]; ok {
		st.LastTouched = t
		s.stats[id] = st
	}
}

// Len returns the number of tracked entries.
func (s *Store) Len() int {
	return int(s.ids.GetCardinality())
}

// IncreaseTotalSize adds delta bytes to the running total.
func (s *Store) IncreaseTotalSize(delta int64) {
	s.totalSize += delta
}

// DecreaseTotalSize removes delta bytes from the running total.
func (s *Store) DecreaseTotalSize(delta int64) {
	s.totalSize -= delta
}

// TotalSize returns the sum of the file sizes of all tracked entries.
func (s *Store) TotalSize() int64 {
	return s.totalSize
}

// Candidates returns every tracked ID in eviction order.
func (s *Store) Candidates(order Order) []uint32 {
	ids := s.ids.ToArray()
	if order != OrderRecency {
		return ids
	}

	// ToArray is ascending, so a stable sort keeps ID order among equal times.
	slices.SortStableFunc(ids, func(a, b uint32) int {
		return s.stats[a].LastTouched.Compare(s.stats[b].LastTouched)
	})
	return ids
}
