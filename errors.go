package blobcache

import "errors"

var (
	// ErrInvalidConfig is returned by New for non-positive size limits.
	ErrInvalidConfig = errors.New("blobcache: invalid configuration")

	// ErrKeyTooLarge is reported when a key exceeds MaxKeySize.
	ErrKeyTooLarge = errors.New("blobcache: key too large")

	// ErrValueTooLarge is reported when a value exceeds MaxValueSize.
	ErrValueTooLarge = errors.New("blobcache: value too large")

	// ErrEntryTooLarge is reported when an encoded entry cannot fit into the
	// total cache size even after evicting everything else.
	ErrEntryTooLarge = errors.New("blobcache: entry larger than cache")

	// ErrCorrupt is reported when an entry file fails validation.
	ErrCorrupt = errors.New("blobcache: corrupt entry")

	// ErrCollision is reported when a stored entry belongs to a different key
	// with the same entry ID.
	ErrCollision = errors.New("blobcache: key collision")

	// ErrTrimIncomplete is reported when eviction ran out of candidates
	// before reaching its target.
	ErrTrimIncomplete = errors.New("blobcache: trim target not reached")
)
