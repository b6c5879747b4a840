// Package lfpreview previews arbitrarily large files without loading them
// into memory.
//
// Files are memory-mapped read-only when opened. A line-offset index is
// built lazily as lines are requested, so opening a multi-gigabyte log is
// constant time and reading its first page touches only the first page.
//
// # Quick Start
//
//	eng := lfpreview.New()
//	defer eng.Close()
//
//	id, _ := eng.Open(ctx, "/var/log/app.log")
//	size, _ := eng.FileSize(id)
//	lines, _ := eng.ReadLines(id, 0, 99)       // first 100 lines
//	total, _ := eng.TotalLines(id)             // scans the rest of the file
//	res, _ := eng.Search(ctx, id, []byte("ERROR"), lfpreview.IgnoreCase())
//	_ = eng.CloseHandle(id)
//
// # Lines
//
// Lines are zero-indexed. Only '\n' terminates a line; a '\r' before it is
// returned as part of the line. A trailing line without a terminator counts
// as a line, and an empty file has zero lines. Returned lines are views into
// the mapping and stay valid until their handle is closed.
//
// # Sources
//
// A location is either a local path (optionally "file://" prefixed) or
// "scheme://name" for a store registered with [WithBlobStore]. Compressed
// sources (.zst, .gz, .lz4) and remote blobs are decoded into a temp spill
// file first; the spill file is removed when the handle is closed.
//
//	s3Store := s3.NewStore(s3.NewFromConfig(cfg), "my-bucket", "logs/")
//	eng := lfpreview.New(lfpreview.WithBlobStore("s3", s3Store))
//	id, _ := eng.Open(ctx, "s3://2024/app.log.gz")
//
// # Errors
//
// Every error returned by an [Engine] method is an [*OpError]. Use
// errors.Is with [ErrNotFound], [ErrPermissionDenied], [ErrIO],
// [ErrInvalidHandle] or [ErrInvalidArgument] to classify it.
package lfpreview
