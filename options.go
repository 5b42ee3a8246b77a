package blobcache

import (
	"log/slog"
	"time"

	"github.com/hupe1980/blobcache/internal/entry"
	"github.com/hupe1980/blobcache/internal/fs"
)

// EvictionOrder selects which entries are evicted first, both from the hot
// cache and from disk.
type EvictionOrder uint8

const (
	// EvictLeastRecentlyUsed evicts the entries that were set or read least
	// recently. Entries found on disk at startup are ordered by access time.
	EvictLeastRecentlyUsed EvictionOrder = iota
	// EvictByEntryID evicts in ascending entry ID order, which is effectively
	// random with respect to use.
	EvictByEntryID
)

func (o EvictionOrder) String() string {
	return o.entryOrder().String()
}

func (o EvictionOrder) entryOrder() entry.Order {
	if o == EvictByEntryID {
		return entry.OrderID
	}
	return entry.OrderRecency
}

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	order            EvictionOrder
	maxPendingBytes  int64
	writeBytesPerSec int64
	fs               fs.FileSystem
	now              func() time.Time
}

// Option configures Cache constructor behavior.
type Option func(*options)

// WithMetricsCollector configures metrics collection for cache operations.
// Pass nil to disable metrics (uses NoopMetricsCollector).
//
// Example:
//
//	metrics := &blobcache.BasicMetricsCollector{}
//	c, _ := blobcache.New(64<<20, 4<<20, dir, blobcache.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
//	fmt.Printf("Hits: %d, Misses: %d\n", stats.GetHits, stats.GetMisses)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := blobcache.NewJSONLogger(slog.LevelInfo)
//	c, _ := blobcache.New(64<<20, 4<<20, dir, blobcache.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithEvictionOrder selects the eviction order. Default: EvictLeastRecentlyUsed.
func WithEvictionOrder(order EvictionOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithMaxPendingBytes bounds the encoded bytes held by writes that have not
// reached disk yet. Set blocks while the bound is reached.
// Zero (the default) leaves pending writes unbounded.
func WithMaxPendingBytes(n int64) Option {
	return func(o *options) {
		o.maxPendingBytes = n
	}
}

// WithWriteRateLimit caps the throughput of the background writer in bytes
// per second. Zero (the default) disables the limit.
func WithWriteRateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.writeBytesPerSec = bytesPerSec
	}
}

// WithClock overrides the time source used to stamp entries for recency.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// withFileSystem swaps the filesystem used for directory scans, writes and
// removals. Mappings always go through the operating system.
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		order:            EvictLeastRecentlyUsed,
		fs:               fs.Default,
		now:              time.Now,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.fs == nil {
		o.fs = fs.Default
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}
