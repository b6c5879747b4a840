// Package blobstore provides read access to files that do not live on the
// local file system, so they can be previewed like local ones.
//
// A BlobStore is registered with the engine under a URL scheme; a location
// such as "s3://logs/2024/app.log" is handed to the store registered for
// "s3" with the name "logs/2024/app.log". Remote blobs are copied into a
// local spill file and memory-mapped from there.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system, mapped in place
//   - MemoryStore: in-memory blobs for tests
//   - s3.Store: Amazon S3 (parallel ranged download via the transfer manager)
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	}
//
//	type Blob interface {
//	    io.Closer
//	    Size() int64
//	    ReadRange(ctx, off, len) (io.ReadCloser, error)
//	}
//
// Blobs may additionally implement Mappable (zero-copy access to bytes that
// are already in memory) or Downloader (bulk transfer into a local file).
package blobstore
