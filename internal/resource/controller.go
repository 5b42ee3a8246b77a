package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for resident hot cache bytes.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// PendingLimitBytes bounds the bytes held by queued, not yet persisted writes.
	// If 0, pending writes are unbounded.
	PendingLimitBytes int64

	// IOLimitBytesPerSec is the maximum write throughput of the background worker.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages cache resources (resident memory, pending writes, IO).
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Pending writes
	pendingSem  *semaphore.Weighted // nil if unlimited
	pendingUsed atomic.Int64

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.PendingLimitBytes > 0 {
		c.pendingSem = semaphore.NewWeighted(cfg.PendingLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireMemory attempts to reserve memory.
// Returns ErrMemoryLimitExceeded if limit would be exceeded.
// Non-blocking - callers decide what to evict.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquirePending reserves room for a queued write of the given size.
// Blocks until the worker has released enough bytes or ctx is done.
// Requests larger than the limit are clamped to the limit so they can still proceed
// once the queue drains.
func (c *Controller) AcquirePending(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.pendingSem != nil {
		if err := c.pendingSem.Acquire(ctx, c.clampPending(bytes)); err != nil {
			return err
		}
	}
	c.pendingUsed.Add(bytes)
	return nil
}

// ReleasePending returns bytes reserved by AcquirePending.
func (c *Controller) ReleasePending(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.pendingSem != nil {
		c.pendingSem.Release(c.clampPending(bytes))
	}
	c.pendingUsed.Add(-bytes)
}

// PendingUsage returns the bytes currently held by queued writes.
func (c *Controller) PendingUsage() int64 {
	if c == nil {
		return 0
	}
	return c.pendingUsed.Load()
}

func (c *Controller) clampPending(bytes int64) int64 {
	return min(bytes, c.cfg.PendingLimitBytes)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests above the burst size are split into burst-sized waits.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
