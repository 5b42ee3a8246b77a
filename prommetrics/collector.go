package prommetrics

import (
	"errors"
	"time"

	"github.com/hupe1980/blobcache"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blobcache"

// Collector implements blobcache.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency   *prometheus.HistogramVec
	gets        *prometheus.CounterVec
	sets        *prometheus.CounterVec
	setBytes    prometheus.Counter
	evictions   *prometheus.CounterVec
	trims       *prometheus.CounterVec
	trimRemoved prometheus.Counter
	trimFreed   prometheus.Counter
	writes      *prometheus.CounterVec
	writeBytes  prometheus.Counter
	corruptions *prometheus.CounterVec
}

var _ blobcache.MetricsCollector = (*Collector)(nil)

// NewCollector creates the cache metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of cache operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
		gets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gets_total",
			Help:      "Total Get calls by result",
		}, []string{"result"}),
		sets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_total",
			Help:      "Total Set calls by status",
		}, []string{"status"}),
		setBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "set_value_bytes_total",
			Help:      "Total value bytes accepted by Set",
		}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hot_evictions_total",
			Help:      "Total hot cache residents released to make room",
		}, []string{"kind"}),
		trims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trims_total",
			Help:      "Total eviction passes over the entry store",
		}, []string{"status"}),
		trimRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trim_removed_entries_total",
			Help:      "Total entries removed by eviction",
		}),
		trimFreed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trim_freed_bytes_total",
			Help:      "Total bytes freed by eviction",
		}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Total background entry writes by status",
		}, []string{"status"}),
		writeBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_bytes_total",
			Help:      "Total bytes written by the background worker",
		}),
		corruptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_failures_total",
			Help:      "Total entries that failed validation",
		}, []string{"reason"}),
	}

	var errs []error
	for _, m := range []prometheus.Collector{
		c.opLatency, c.gets, c.sets, c.setBytes, c.evictions,
		c.trims, c.trimRemoved, c.trimFreed, c.writes, c.writeBytes, c.corruptions,
	} {
		if err := reg.Register(m); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}

// RecordSet implements blobcache.MetricsCollector.
func (c *Collector) RecordSet(valueSize int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("set").Observe(d.Seconds())
	c.sets.WithLabelValues(status(err)).Inc()
	if err == nil {
		c.setBytes.Add(float64(valueSize))
	}
}

// RecordGet implements blobcache.MetricsCollector.
func (c *Collector) RecordGet(result blobcache.GetResult, d time.Duration) {
	c.opLatency.WithLabelValues("get").Observe(d.Seconds())
	c.gets.WithLabelValues(result.String()).Inc()
}

// RecordEviction implements blobcache.MetricsCollector.
func (c *Collector) RecordEviction(mapped bool) {
	kind := "owned"
	if mapped {
		kind = "mapped"
	}
	c.evictions.WithLabelValues(kind).Inc()
}

// RecordTrim implements blobcache.MetricsCollector.
func (c *Collector) RecordTrim(removed int, freedBytes int64, d time.Duration, err error) {
	c.opLatency.WithLabelValues("trim").Observe(d.Seconds())
	c.trims.WithLabelValues(status(err)).Inc()
	c.trimRemoved.Add(float64(removed))
	c.trimFreed.Add(float64(freedBytes))
}

// RecordWrite implements blobcache.MetricsCollector.
func (c *Collector) RecordWrite(bytes int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("write").Observe(d.Seconds())
	c.writes.WithLabelValues(status(err)).Inc()
	c.writeBytes.Add(float64(bytes))
}

// RecordCorruption implements blobcache.MetricsCollector.
func (c *Collector) RecordCorruption(collision bool) {
	reason := "corrupt"
	if collision {
		reason = "collision"
	}
	c.corruptions.WithLabelValues(reason).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
