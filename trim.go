package blobcache

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// cacheLimitDivisor sets how far a trim shrinks the cache: down to
// limit/cacheLimitDivisor, so that a burst of Sets does not trim on every call.
const cacheLimitDivisor = 2

// trimCache evicts entries when adding incoming bytes would push the total
// size over limit. Must hold c.mu.
func (c *Cache) trimCache(limit, incoming int64) error {
	// Files still being written must not be removed underneath the worker.
	c.writes.WaitForWorkComplete()

	size := c.entries.TotalSize()
	if size+incoming <= limit {
		return nil
	}

	target := limit / cacheLimitDivisor
	if target+incoming > limit {
		target = limit - incoming
	}

	start := time.Now()
	removed, err := c.applyLRU(target)
	freed := size - c.entries.TotalSize()

	c.logger.LogTrim(removed, freed, c.entries.TotalSize(), err)
	c.metrics.RecordTrim(removed, freed, time.Since(start), err)
	return err
}

// applyLRU removes entries in eviction order until the total size is at most
// target. Must hold c.mu.
func (c *Cache) applyLRU(target int64) (int, error) {
	removed := 0
	for _, id := range c.entries.Candidates(c.order.entryOrder()) {
		if c.entries.TotalSize() <= target {
			return removed, nil
		}

		st, ok := c.entries.Stats(id)
		if !ok {
			continue
		}

		if _, err := c.hot.Remove(id); err != nil {
			c.logger.Warn("release of evicted entry failed", "id", id, "error", err)
		}

		if err := c.fs.Remove(c.entryPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
			// The file is still there, so the entry stays tracked.
			return removed, fmt.Errorf("remove entry %d: %w", id, err)
		}

		c.entries.Untrack(id)
		c.entries.DecreaseTotalSize(st.FileSize)
		removed++
	}

	if c.entries.TotalSize() > target {
		return removed, fmt.Errorf("%w: %d > %d", ErrTrimIncomplete, c.entries.TotalSize(), target)
	}
	return removed, nil
}
