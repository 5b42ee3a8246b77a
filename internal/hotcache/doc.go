// Package hotcache keeps a bounded set of cache entries resident in memory.
//
// A resident is either Mapped (a read-only mmap view of a persisted entry,
// loaded by the startup scan or by a read) or Owned (the heap buffer built by
// a write, still waiting for or just past its trip to disk). Release is
// exhaustive over both kinds: a Mapped resident is unmapped, an Owned one is
// dropped so the garbage collector can reclaim it once the write worker is
// done with it too.
//
// Admission beyond the byte limit first runs the configured barrier (the
// cache waits for its write worker to go idle) and then evicts residents
// until at least half of the limit is free again.
//
// Cache is not safe for concurrent use.
package hotcache
