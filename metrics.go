package blobcache

import (
	"sync/atomic"
	"time"
)

// GetResult classifies the outcome of a Get.
type GetResult uint8

const (
	// GetMiss means nothing was copied. Unknown keys, oversized keys,
	// collisions and corrupt entries all report a miss.
	GetMiss GetResult = iota
	// GetHit means the value was copied into the caller's buffer.
	GetHit
	// GetRetry means the caller's buffer was too small; Get returned the
	// required size.
	GetRetry
)

func (r GetResult) String() string {
	switch r {
	case GetMiss:
		return "miss"
	case GetHit:
		return "hit"
	case GetRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
//
// RecordWrite is called from the background worker goroutine, every other
// hook from the goroutine calling into the Cache. Implementations must be
// safe for concurrent use.
type MetricsCollector interface {
	// RecordSet is called after each Set. err is nil if the entry was accepted.
	RecordSet(valueSize int, duration time.Duration, err error)

	// RecordGet is called after each Get.
	RecordGet(result GetResult, duration time.Duration)

	// RecordEviction is called when a hot cache resident is released to make room.
	// mapped reports whether the resident was a file mapping.
	RecordEviction(mapped bool)

	// RecordTrim is called after each eviction pass over the entry store.
	RecordTrim(removed int, freedBytes int64, duration time.Duration, err error)

	// RecordWrite is called after each background entry write.
	RecordWrite(bytes int, duration time.Duration, err error)

	// RecordCorruption is called when a stored entry fails validation.
	// collision reports a well-formed entry holding a different key.
	RecordCorruption(collision bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSet(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordGet(GetResult, time.Duration)          {}
func (NoopMetricsCollector) RecordEviction(bool)                         {}
func (NoopMetricsCollector) RecordTrim(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordWrite(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordCorruption(bool)                       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SetCount      atomic.Int64
	SetRejected   atomic.Int64
	SetBytes      atomic.Int64
	SetTotalNanos atomic.Int64

	GetHits       atomic.Int64
	GetMisses     atomic.Int64
	GetRetries    atomic.Int64
	GetTotalNanos atomic.Int64

	OwnedEvictions  atomic.Int64
	MappedEvictions atomic.Int64

	TrimCount   atomic.Int64
	TrimErrors  atomic.Int64
	TrimRemoved atomic.Int64
	TrimFreed   atomic.Int64

	WriteCount  atomic.Int64
	WriteErrors atomic.Int64
	WriteBytes  atomic.Int64

	Corruptions atomic.Int64
	Collisions  atomic.Int64
}

// RecordSet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSet(valueSize int, duration time.Duration, err error) {
	b.SetCount.Add(1)
	b.SetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SetRejected.Add(1)
		return
	}
	b.SetBytes.Add(int64(valueSize))
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(result GetResult, duration time.Duration) {
	b.GetTotalNanos.Add(duration.Nanoseconds())
	switch result {
	case GetHit:
		b.GetHits.Add(1)
	case GetRetry:
		b.GetRetries.Add(1)
	default:
		b.GetMisses.Add(1)
	}
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction(mapped bool) {
	if mapped {
		b.MappedEvictions.Add(1)
		return
	}
	b.OwnedEvictions.Add(1)
}

// RecordTrim implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrim(removed int, freedBytes int64, _ time.Duration, err error) {
	b.TrimCount.Add(1)
	b.TrimRemoved.Add(int64(removed))
	b.TrimFreed.Add(freedBytes)
	if err != nil {
		b.TrimErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(bytes int, _ time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteBytes.Add(int64(bytes))
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordCorruption implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCorruption(collision bool) {
	if collision {
		b.Collisions.Add(1)
		return
	}
	b.Corruptions.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SetCount:        b.SetCount.Load(),
		SetRejected:     b.SetRejected.Load(),
		SetBytes:        b.SetBytes.Load(),
		SetAvgNanos:     avg(b.SetTotalNanos.Load(), b.SetCount.Load()),
		GetHits:         b.GetHits.Load(),
		GetMisses:       b.GetMisses.Load(),
		GetRetries:      b.GetRetries.Load(),
		GetAvgNanos:     avg(b.GetTotalNanos.Load(), b.GetHits.Load()+b.GetMisses.Load()+b.GetRetries.Load()),
		OwnedEvictions:  b.OwnedEvictions.Load(),
		MappedEvictions: b.MappedEvictions.Load(),
		TrimCount:       b.TrimCount.Load(),
		TrimErrors:      b.TrimErrors.Load(),
		TrimRemoved:     b.TrimRemoved.Load(),
		TrimFreedBytes:  b.TrimFreed.Load(),
		WriteCount:      b.WriteCount.Load(),
		WriteErrors:     b.WriteErrors.Load(),
		WriteBytes:      b.WriteBytes.Load(),
		Corruptions:     b.Corruptions.Load(),
		Collisions:      b.Collisions.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SetCount        int64
	SetRejected     int64
	SetBytes        int64
	SetAvgNanos     int64
	GetHits         int64
	GetMisses       int64
	GetRetries      int64
	GetAvgNanos     int64
	OwnedEvictions  int64
	MappedEvictions int64
	TrimCount       int64
	TrimErrors      int64
	TrimRemoved     int64
	TrimFreedBytes  int64
	WriteCount      int64
	WriteErrors     int64
	WriteBytes      int64
	Corruptions     int64
	Collisions      int64
}
