// Package resource implements the Controller that bounds what previews may
// consume while they scan and materialize files.
//
// Three budgets are governed:
//
//   - Memory: scratch buffers such as case-folding windows (non-blocking, fail-fast)
//   - Scan workers: how many strides may be searched in parallel across all handles
//   - IO: byte rate for copying non-mappable sources into spill files
//
// # Memory
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})
//	if err := rc.AcquireMemory(n); err != nil {
//	    // ErrMemoryLimitExceeded: the caller picks a smaller buffer or fails
//	}
//	defer rc.ReleaseMemory(n)
//
// # Scan workers
//
//	if err := rc.AcquireScan(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseScan()
//
// # IO rate limiting
//
//	r := resource.NewRateLimitedReader(ctx, src, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
