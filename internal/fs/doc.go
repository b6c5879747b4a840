// Package fs provides the filesystem abstraction used for spill files.
//
// The package defines two interfaces:
//
//   - [File]: a writable temp file that a source is materialized into
//   - [FileSystem]: creates, stats and removes those files
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code uses fs.Default (which is [LocalFS]):
//
//	f, err := fs.Default.CreateTemp(dir, "lfpreview-*.spill")
//
// Tests can inject [FaultyFS] to simulate a full disk:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetLimit(1024) // Fail after 1KB written
//
// Operations take no context.Context; they are local syscalls.
// Slow remote reads go through [blobstore.Blob], which does.
package fs
