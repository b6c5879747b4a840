// Package mmap provides read-only memory-mapped file access.
//
// # Overview
//
// A Mapping exposes the whole file as a byte slice backed by the page cache.
// Nothing is copied into the Go heap, so files far larger than available
// memory can be previewed; the kernel faults pages in on first touch.
//
// # Usage
//
//	m, err := mmap.Open("server.log")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()           // zero-copy view
//	r, _ := m.Region(off, n)    // sub-view for advice
//	_ = r.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (advice is a no-op)
//
// # Thread Safety
//
// Mapping and Region are safe for concurrent read access. Close is
// idempotent; callers must ensure no goroutine touches Bytes() after Close.
package mmap
