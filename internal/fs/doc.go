// Package fs provides the filesystem seam used by the cache's cold store.
//
// The package defines two key interfaces:
//
//   - [File]: an open entry file
//   - [FileSystem]: the operations the scan, the trim pass and the write
//     worker perform on the cache directory
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// Production code uses fs.Default. Tests inject [FaultyFS] to make writes,
// opens or removals fail for files matching a pattern:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("12345", fs.Fault{FailOnWrite: true, FailAfterBytes: 8})
//
// Memory mapping bypasses this package and always goes to the real file.
package fs
