// Package mmap provides read-only memory-mapped views of cache entry files.
//
// # Overview
//
// Entries loaded from the cold store are mapped rather than read so that the
// hot cache can serve them without copying file contents onto the heap. A
// Mapping owns its view and releases it exactly once on Close.
//
// # Usage
//
//	m, err := mmap.Open(path)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// The file descriptor is not retained: the mapping stays valid after the file
// is closed, so the fd and the view are effectively released together.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (advice is a no-op)
//
// # Thread Safety
//
// Close is idempotent and guarded by an atomic flag. Callers must not touch a
// slice obtained from Bytes after Close returns; accessing an unmapped view
// faults.
package mmap
