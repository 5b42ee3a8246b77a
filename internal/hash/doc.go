// Package hash computes entry identifiers for cache keys.
//
// # Jenkins mix hash
//
// Entry IDs are 32-bit Jenkins mix hashes of the raw key bytes. The key is
// consumed four bytes at a time (little-endian), preceded by its length, with
// a trailing partial word for the remaining bytes:
//
//	id := hash.JenkinsMixBytes(0, key)
//
// The hash is fast and well distributed but not collision resistant. Callers
// must store the full key next to the value and compare it on lookup.
package hash
