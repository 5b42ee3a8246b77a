package blobcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/blobcache/internal/entry"
	"github.com/hupe1980/blobcache/internal/fs"
	"github.com/hupe1980/blobcache/internal/hotcache"
	"github.com/hupe1980/blobcache/internal/mmap"
)

type scanResult struct {
	loaded    int
	removed   int
	preloaded int
}

// scan rebuilds the entry store from the cache directory, creating the
// directory when it does not exist. Files that cannot be valid entries are
// removed. While the hot cache has room, entries are mapped into it.
func (c *Cache) scan() error {
	des, err := c.fs.ReadDir(c.dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := c.fs.MkdirAll(c.dir, dirPerm); err != nil {
			err = fmt.Errorf("blobcache: create %s: %w", c.dir, err)
			c.logger.LogScan(0, 0, 0, 0, err)
			return err
		}
		c.logger.LogScan(0, 0, 0, 0, nil)
		return nil
	}
	if err != nil {
		err = fmt.Errorf("blobcache: read %s: %w", c.dir, err)
		c.logger.LogScan(0, 0, 0, 0, err)
		return err
	}

	var res scanResult
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		c.scanFile(de.Name(), &res)
	}

	// A smaller size limit than on the previous run must still hold.
	if c.entries.TotalSize() > c.maxTotalSize {
		if err := c.trimCache(c.maxTotalSize, 0); err != nil {
			c.logger.Warn("trim after scan failed", "error", err)
		}
	}

	c.logger.LogScan(res.loaded, res.removed, res.preloaded, c.entries.TotalSize(), nil)
	return nil
}

func (c *Cache) scanFile(name string, res *scanResult) {
	id, ok := entry.ParseFileName(name)
	if !ok {
		c.logger.Warn("skipping unexpected file", "name", name)
		return
	}
	path := filepath.Join(c.dir, name)

	fi, err := c.fs.Stat(path)
	if err != nil {
		c.logger.Warn("skipping unreadable entry", "id", id, "error", err)
		return
	}
	fileSize := fi.Size()

	h, err := c.readHeader(path)
	if err != nil && !errors.Is(err, entry.ErrShortHeader) {
		c.logger.Warn("skipping unreadable entry", "id", id, "error", err)
		return
	}
	if err == nil {
		err = h.Validate(fileSize)
	}

	atime := fs.AccessTime(path, fi)
	if err == nil && (h.ValueSize == 0 || fileSize <= 0 || atime.Unix() <= 0) {
		err = fmt.Errorf("value %d bytes, file %d bytes, atime %d", h.ValueSize, fileSize, atime.Unix())
	}
	if err != nil {
		c.logger.Warn("removing corrupt entry", "id", id, "error", err)
		c.metrics.RecordCorruption(false)
		if err := c.fs.Remove(path); err != nil {
			c.logger.Warn("remove of corrupt entry failed", "id", id, "error", err)
		}
		res.removed++
		return
	}

	c.entries.Track(id, int64(h.ValueSize), fileSize, atime)
	c.entries.IncreaseTotalSize(fileSize)
	res.loaded++

	if c.hot.Size()+fileSize >= c.hot.Limit() {
		return
	}
	m, err := mmap.Open(path)
	if err != nil {
		c.logger.Warn("preload failed", "id", id, "error", err)
		return
	}
	if err := m.Advise(mmap.AccessWillNeed); err != nil {
		c.logger.Debug("advise failed", "id", id, "error", err)
	}
	if err := c.hot.Add(id, hotcache.Mapped(m)); err != nil {
		_ = m.Close()
		c.logger.Warn("preload failed", "id", id, "error", err)
		return
	}
	res.preloaded++
}

func (c *Cache) readHeader(path string) (entry.Header, error) {
	f, err := c.fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return entry.Header{}, err
	}
	defer f.Close()

	return entry.ReadHeader(f)
}
