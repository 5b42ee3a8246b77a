// Package entry defines the on-disk entry format and the in-memory index of
// every entry known to the cache.
//
// # File Format
//
// Each entry is persisted as one file named after its decimal entry ID:
//
//	+-----------------+-------------------+-----------+-------------+
//	| KeySize (8 LE)  | ValueSize (8 LE)  | key bytes | value bytes |
//	+-----------------+-------------------+-----------+-------------+
//
// There is no checksum and no version field. Integrity is inferred from the
// header agreeing with the file length and from comparing the stored key with
// the requested one.
//
// # Store
//
// Store tracks the stats of every entry (value size, file size, last touch)
// and the running total of file sizes. It is not safe for concurrent use; the
// cache serializes access to it.
package entry
