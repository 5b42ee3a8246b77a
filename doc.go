// Package blobcache provides a persistent, size-bounded key/value cache for
// opaque binary blobs.
//
// Each entry is stored in its own file inside a private cache directory. The
// file name is a 32-bit hash of the key and the file holds a small header, the
// key and the value, so a lookup can detect both corruption and hash
// collisions. When the cache grows past its size limit, it evicts entries
// until it is down to half of the limit.
//
// # Quick Start
//
//	c, err := blobcache.New(64<<20, 4<<20, "/var/cache/shaders")
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	c.Set([]byte("key"), blob)
//
//	buf := make([]byte, 4096)
//	n := c.Get([]byte("key"), buf)
//	switch {
//	case n == 0:
//	    // miss
//	case n > len(buf):
//	    // buffer too small, retry with make([]byte, n)
//	default:
//	    use(buf[:n])
//	}
//
// # Writes
//
// Set returns before anything touches the disk. Encoded entries are handed to
// one background worker that writes them in Set order. Until then the entry
// is served from memory. WaitForWorkComplete blocks until every queued write
// is done; Close drains the queue before stopping the worker.
//
// # Hot cache
//
// Recently used entries stay resident, bounded by the hotCacheLimit passed to
// New. Entries read from disk are memory-mapped rather than copied. Finish
// releases all residents, for example when the owning application goes to the
// background.
//
// # Observability
//
// Use WithLogger for structured logging via log/slog and WithMetricsCollector
// to collect metrics. The prommetrics package exports them to Prometheus.
package blobcache
