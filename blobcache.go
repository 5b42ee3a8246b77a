package blobcache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hupe1980/blobcache/internal/entry"
	"github.com/hupe1980/blobcache/internal/fs"
	"github.com/hupe1980/blobcache/internal/hash"
	"github.com/hupe1980/blobcache/internal/hotcache"
	"github.com/hupe1980/blobcache/internal/mmap"
	"github.com/hupe1980/blobcache/internal/queue"
	"github.com/hupe1980/blobcache/internal/resource"
)

// DirSuffix is appended to the base directory passed to New.
const DirSuffix = ".multifile"

const dirPerm os.FileMode = 0o700

// Cache is a persistent, size-bounded key/value blob cache.
//
// Every entry lives in its own file named after the hash of its key. Set
// returns before the file is written; a single background worker persists
// entries in Set order. Recently used entries stay resident in a bounded
// in-memory hot cache, either as the encoded buffer handed to the writer or
// as a read-only mapping of the entry file.
//
// All methods are safe for concurrent use. Set, Get, Finish and Close are
// serialized by one mutex.
type Cache struct {
	mu          sync.Mutex
	initialized bool
	closed      bool

	dir           string
	maxTotalSize  int64
	hotCacheLimit int64
	maxKeySize    int64
	maxValueSize  int64

	entries *entry.Store
	hot     *hotcache.Cache
	writes  *queue.Queue
	rc      *resource.Controller

	fs      fs.FileSystem
	order   EvictionOrder
	now     func() time.Time
	logger  *Logger
	metrics MetricsCollector
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	// Entries is the number of tracked entries.
	Entries int
	// TotalSize is the sum of tracked entry file sizes.
	TotalSize int64
	// HotEntries is the number of resident entries.
	HotEntries int
	// HotSize is the number of resident bytes.
	HotSize int64
	// PendingWrites is the number of queued writes not yet on disk.
	PendingWrites int
}

// New opens the cache stored under baseDir + DirSuffix, creating the
// directory if needed, and starts the background writer.
//
// maxTotalSize bounds the bytes on disk. hotCacheLimit bounds the resident
// bytes; keys may use up to a quarter of it and values up to a half.
//
// An empty baseDir yields a cache that never becomes ready: Set does nothing
// and Get always misses.
func New(maxTotalSize, hotCacheLimit int64, baseDir string, optFns ...Option) (*Cache, error) {
	o := applyOptions(optFns)

	c := &Cache{
		maxTotalSize:  maxTotalSize,
		hotCacheLimit: hotCacheLimit,
		maxKeySize:    hotCacheLimit / 4,
		maxValueSize:  hotCacheLimit / 2,
		entries:       entry.NewStore(),
		fs:            o.fs,
		order:         o.order,
		now:           o.now,
		logger:        o.logger,
		metrics:       o.metricsCollector,
	}

	if baseDir == "" {
		c.logger.Warn("no cache directory configured, cache disabled")
		return c, nil
	}
	if maxTotalSize <= 0 || hotCacheLimit <= 0 {
		return nil, fmt.Errorf("%w: maxTotalSize=%d hotCacheLimit=%d", ErrInvalidConfig, maxTotalSize, hotCacheLimit)
	}

	c.dir = baseDir + DirSuffix
	c.logger = c.logger.WithDir(c.dir)

	c.rc = resource.NewController(resource.Config{
		MemoryLimitBytes:   hotCacheLimit,
		PendingLimitBytes:  o.maxPendingBytes,
		IOLimitBytesPerSec: o.writeBytesPerSec,
	})
	c.writes = queue.New(queue.Config{
		FS:        c.fs,
		Resources: c.rc,
		OnWrite:   c.onWrite,
		Logger:    c.logger.Logger,
	})
	c.hot = hotcache.New(hotcache.Config{
		Limit:     hotCacheLimit,
		Order:     o.order.entryOrder(),
		Resources: c.rc,
		Barrier:   c.writes.WaitForWorkComplete,
		OnEvict:   c.onEvict,
		Logger:    c.logger.Logger,
	})

	if err := c.scan(); err != nil {
		c.writes.Close()
		_ = c.hot.Clear()
		return nil, err
	}

	c.initialized = true
	return c, nil
}

// MaxKeySize returns the largest accepted key length.
func (c *Cache) MaxKeySize() int64 { return c.maxKeySize }

// MaxValueSize returns the largest accepted value length.
func (c *Cache) MaxValueSize() int64 { return c.maxValueSize }

// Dir returns the directory holding entry files, or "" for a disabled cache.
func (c *Cache) Dir() string { return c.dir }

// Set stores value under key, replacing any previous value.
//
// The entry is visible to Get immediately; the file is written in the
// background. Oversized keys and values are ignored.
func (c *Cache) Set(key, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.closed {
		return
	}

	start := time.Now()
	id := hash.EntryID(key)
	err := c.set(id, key, value)

	c.logger.LogSet(id, len(value), err)
	c.metrics.RecordSet(len(value), time.Since(start), err)
}

func (c *Cache) set(id uint32, key, value []byte) error {
	if int64(len(key)) > c.maxKeySize {
		return fmt.Errorf("%w: %d > %d", ErrKeyTooLarge, len(key), c.maxKeySize)
	}
	if int64(len(value)) > c.maxValueSize {
		return fmt.Errorf("%w: %d > %d", ErrValueTooLarge, len(value), c.maxValueSize)
	}

	fileSize := entry.FileSize(len(key), len(value))
	if fileSize > c.maxTotalSize {
		return fmt.Errorf("%w: %d > %d", ErrEntryTooLarge, fileSize, c.maxTotalSize)
	}

	// An overwrite replaces the old file, so its bytes do not count twice.
	if c.projectedSize(id)+fileSize > c.maxTotalSize {
		if err := c.trimCache(c.maxTotalSize, fileSize); err != nil && c.projectedSize(id)+fileSize > c.maxTotalSize {
			return fmt.Errorf("make room for %d: %w", id, err)
		}
	}

	buf := entry.Encode(key, value)

	if old, ok := c.entries.Stats(id); ok {
		c.entries.DecreaseTotalSize(old.FileSize)
	}
	c.entries.Track(id, int64(len(value)), fileSize, c.now())
	c.entries.IncreaseTotalSize(fileSize)

	if err := c.hot.Add(id, hotcache.Owned(buf)); err != nil {
		c.logger.Warn("hot cache admission failed", "id", id, "error", err)
	}

	if err := c.writes.Enqueue(c.entryPath(id), queue.NewBuffer(id, buf)); err != nil {
		return fmt.Errorf("queue write %d: %w", id, err)
	}
	return nil
}

// projectedSize returns the total size without the file currently stored for id.
func (c *Cache) projectedSize(id uint32) int64 {
	size := c.entries.TotalSize()
	if old, ok := c.entries.Stats(id); ok {
		size -= old.FileSize
	}
	return size
}

// Get copies the value stored under key into out.
//
// It returns the value size on a hit. If out is too small nothing is copied
// and the value size is returned so the caller can retry with a larger
// buffer. It returns 0 when no value is available, and also when key is
// longer than MaxKeySize or out is larger than MaxValueSize.
func (c *Cache) Get(key, out []byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.closed {
		return 0
	}

	start := time.Now()
	id := hash.EntryID(key)
	n, result, err := c.get(id, key, out)

	c.logger.LogGet(id, result, err)
	c.metrics.RecordGet(result, time.Since(start))
	return n
}

func (c *Cache) get(id uint32, key, out []byte) (int, GetResult, error) {
	if int64(len(key)) > c.maxKeySize || int64(len(out)) > c.maxValueSize {
		return 0, GetMiss, nil
	}
	if !c.entries.Contains(id) {
		return 0, GetMiss, nil
	}

	st, _ := c.entries.Stats(id)
	if st.ValueSize > int64(len(out)) {
		return int(st.ValueSize), GetRetry, nil
	}
	if int64(len(key)) > st.FileSize {
		return 0, GetMiss, nil
	}

	buf, err := c.resident(id)
	if err != nil {
		return 0, GetMiss, err
	}

	h, err := entry.DecodeHeader(buf)
	if err == nil {
		err = h.Validate(int64(len(buf)))
	}
	if err == nil && int64(h.ValueSize) != st.ValueSize {
		err = fmt.Errorf("value size %d, tracked %d", h.ValueSize, st.ValueSize)
	}
	if err != nil {
		c.dropCorrupt(id)
		return 0, GetMiss, fmt.Errorf("%w: %d: %w", ErrCorrupt, id, err)
	}

	if !bytes.Equal(entry.Key(buf, h), key) {
		c.metrics.RecordCorruption(true)
		if _, err := c.hot.Remove(id); err != nil {
			c.logger.Warn("release after collision failed", "id", id, "error", err)
		}
		return 0, GetMiss, fmt.Errorf("%w: %d", ErrCollision, id)
	}

	n := copy(out, entry.Value(buf, h))
	c.entries.Touch(id, c.now())
	return n, GetHit, nil
}

// resident returns the encoded entry for id, mapping its file into the hot
// cache when it is not resident yet.
func (c *Cache) resident(id uint32) ([]byte, error) {
	if buf, ok := c.hot.Get(id); ok {
		return buf, nil
	}

	// The file may still be in flight; mapping it now could see a partial write.
	if c.writes.Pending(id) {
		c.writes.WaitForWorkComplete()
	}

	m, err := mmap.Open(c.entryPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.untrack(id)
		}
		return nil, fmt.Errorf("map entry %d: %w", id, err)
	}
	if err := m.Advise(mmap.AccessRandom); err != nil {
		c.logger.Debug("advise failed", "id", id, "error", err)
	}

	if err := c.hot.Add(id, hotcache.Mapped(m)); err != nil {
		// Not resident, but the mapping is still good for this read.
		c.logger.Debug("mapped entry not admitted", "id", id, "error", err)
		data := bytes.Clone(m.Bytes())
		_ = m.Close()
		return data, nil
	}

	buf, _ := c.hot.Get(id)
	return buf, nil
}

// dropCorrupt forgets id everywhere and removes its file.
func (c *Cache) dropCorrupt(id uint32) {
	c.metrics.RecordCorruption(false)

	if _, err := c.hot.Remove(id); err != nil {
		c.logger.Warn("release of corrupt entry failed", "id", id, "error", err)
	}
	if err := c.fs.Remove(c.entryPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("remove of corrupt entry failed", "id", id, "error", err)
	}
	c.untrack(id)
}

func (c *Cache) untrack(id uint32) {
	if st, ok := c.entries.Untrack(id); ok {
		c.entries.DecreaseTotalSize(st.FileSize)
	}
}

// Finish waits for all pending writes and releases every hot cache resident.
// Entries stay tracked and are served from disk afterwards.
func (c *Cache) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.closed {
		return
	}

	c.writes.WaitForWorkComplete()
	if err := c.hot.Clear(); err != nil {
		c.logger.Warn("releasing hot cache failed", "error", err)
	}
}

// Close persists pending writes, stops the background writer and releases
// the hot cache. It is safe to call more than once.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.closed {
		return nil
	}
	c.closed = true

	c.writes.Close()
	if err := c.hot.Clear(); err != nil {
		return fmt.Errorf("blobcache: close: %w", err)
	}
	return nil
}

// WaitForWorkComplete blocks until every write queued so far reached disk.
func (c *Cache) WaitForWorkComplete() {
	if !c.initialized {
		return
	}
	c.writes.WaitForWorkComplete()
}

// Stats returns a snapshot of the cache state.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return Stats{}
	}
	return Stats{
		Entries:       c.entries.Len(),
		TotalSize:     c.entries.TotalSize(),
		HotEntries:    c.hot.Len(),
		HotSize:       c.hot.Size(),
		PendingWrites: c.writes.PendingCount(),
	}
}

func (c *Cache) entryPath(id uint32) string {
	return filepath.Join(c.dir, entry.FileName(id))
}

// onWrite runs on the worker goroutine and must not take c.mu.
func (c *Cache) onWrite(_ uint32, n int, d time.Duration, err error) {
	c.metrics.RecordWrite(n, d, err)
}

func (c *Cache) onEvict(_ uint32, kind hotcache.Kind) {
	c.metrics.RecordEviction(kind == hotcache.KindMapped)
}
