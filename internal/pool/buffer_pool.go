// Package pool provides object pools for allocation-free scan and spill paths.
// Uses sync.Pool for automatic memory reuse.
package pool

import (
	"sync"
)

const (
	// CopyBufferSize is the size of buffers handed out by GetCopyBuffer.
	CopyBufferSize = 256 * 1024

	// MaxRetainedScratch is the largest scratch buffer returned to the pool.
	// Larger buffers are left to the garbage collector.
	MaxRetainedScratch = 64 << 20
)

var copyBufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, CopyBufferSize)
		return &b
	},
}

var scratchPool sync.Pool

// GetCopyBuffer retrieves a CopyBufferSize buffer from the pool.
func GetCopyBuffer() *[]byte {
	return copyBufferPool.Get().(*[]byte)
}

// PutCopyBuffer returns a buffer obtained from GetCopyBuffer.
func PutCopyBuffer(b *[]byte) {
	if b == nil || len(*b) != CopyBufferSize {
		return
	}
	copyBufferPool.Put(b)
}

// GetScratch returns a buffer of length n. Contents are unspecified.
func GetScratch(n int) *[]byte {
	if v := scratchPool.Get(); v != nil {
		b := v.(*[]byte)
		if cap(*b) >= n {
			*b = (*b)[:n]
			return b
		}
	}
	b := make([]byte, n)
	return &b
}

// PutScratch returns a buffer obtained from GetScratch.
func PutScratch(b *[]byte) {
	if b == nil || cap(*b) > MaxRetainedScratch {
		return
	}
	scratchPool.Put(b)
}
