// Package prommetrics exports blobcache metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := prommetrics.NewCollector(reg)
//	if err != nil {
//	    return err
//	}
//	c, err := blobcache.New(64<<20, 4<<20, dir, blobcache.WithMetricsCollector(collector))
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prommetrics
