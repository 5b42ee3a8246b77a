// Package testutil provides testing utilities for blobcache.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic key and blob generation and a search for
// keys that share an entry ID.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	key := rng.Key(16)
//	blob := rng.Blob(64, 4096)
//
// # Colliding Keys
//
//	a, b := testutil.CollidingKeys(rng, 8)
package testutil
