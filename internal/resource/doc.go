// Package resource governs the memory and IO budgets of a cache instance.
//
// The Controller manages three resource types:
//
//   - Memory: resident hot cache bytes (non-blocking, fail-fast)
//   - Pending writes: bytes held by queued writes (blocking back-pressure)
//   - IO: write throughput of the background worker
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                         Controller                          │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Hot memory     │  Pending writes │  IO Rate Limiter        │
//	│  (fail-fast)    │  (blocking sem) │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  AcquirePending │  AcquireIO              │
//	│  ReleaseMemory  │  ReleasePending │  RateLimitedWriter      │
//	│  MemoryUsage    │  PendingUsage   │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Memory Management
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded when the
// hot cache would exceed its budget. The hot cache reacts by evicting:
//
//	if err := rc.AcquireMemory(size); err != nil {
//	    // evict, then retry
//	}
//	defer rc.ReleaseMemory(size)
//
// # Pending Writes
//
// AcquirePending blocks the caller of Set until the write worker has drained
// enough queued bytes. A zero limit keeps the queue unbounded.
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
package resource
