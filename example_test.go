package blobcache_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/blobcache"
)

func Example() {
	dir, err := os.MkdirTemp("", "blobcache-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	c, err := blobcache.New(1<<20, 1<<16, filepath.Join(dir, "shaders"))
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	c.Set([]byte("vertex"), []byte("compiled vertex shader"))

	buf := make([]byte, 8)
	n := c.Get([]byte("vertex"), buf)
	if n > len(buf) {
		// Too small: retry with the reported size.
		buf = make([]byte, n)
		n = c.Get([]byte("vertex"), buf)
	}

	fmt.Println(string(buf[:n]))
	fmt.Println(c.Get([]byte("fragment"), buf))
	// Output:
	// compiled vertex shader
	// 0
}

// Example_metrics demonstrates collecting basic in-memory metrics.
func Example_metrics() {
	dir, err := os.MkdirTemp("", "blobcache-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	metrics := &blobcache.BasicMetricsCollector{}
	c, err := blobcache.New(1<<20, 1<<16, filepath.Join(dir, "cache"),
		blobcache.WithMetricsCollector(metrics),
		blobcache.WithEvictionOrder(blobcache.EvictLeastRecentlyUsed),
	)
	if err != nil {
		log.Fatal(err)
	}

	c.Set([]byte("a"), []byte("1"))
	c.Get([]byte("a"), make([]byte, 1))
	c.Get([]byte("b"), make([]byte, 1))

	if err := c.Close(); err != nil {
		log.Fatal(err)
	}

	stats := metrics.GetStats()
	fmt.Printf("hits=%d misses=%d writes=%d\n", stats.GetHits, stats.GetMisses, stats.WriteCount)
	// Output: hits=1 misses=1 writes=1
}
