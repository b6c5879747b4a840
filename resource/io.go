package resource

import (
	"context"
	"io"
)

// RateLimitedReader wraps an io.Reader with the controller's IO limit.
type RateLimitedReader struct {
	r   io.Reader
	rc  *Controller
	ctx context.Context
}

// NewRateLimitedReader creates a new RateLimitedReader.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{
		r:   r,
		rc:  rc,
		ctx: ctx,
	}
}

// Read waits for len(p) tokens before reading. Reads are clamped to the
// limiter burst so a large buffer never asks for more than one grant.
func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if burst := r.rc.IOBurst(); burst > 0 && len(p) > burst {
		p = p[:burst]
	}
	if err := r.rc.AcquireIO(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// RateLimitedWriterAt wraps an io.WriterAt with the controller's IO limit.
// It is safe for concurrent use if the wrapped WriterAt is.
type RateLimitedWriterAt struct {
	w   io.WriterAt
	rc  *Controller
	ctx context.Context
}

// NewRateLimitedWriterAt creates a new RateLimitedWriterAt.
func NewRateLimitedWriterAt(ctx context.Context, w io.WriterAt, rc *Controller) *RateLimitedWriterAt {
	return &RateLimitedWriterAt{
		w:   w,
		rc:  rc,
		ctx: ctx,
	}
}

// WriteAt writes p in burst-sized pieces, waiting for tokens before each.
func (w *RateLimitedWriterAt) WriteAt(p []byte, off int64) (int, error) {
	burst := w.rc.IOBurst()
	if burst <= 0 {
		return w.w.WriteAt(p, off)
	}

	written := 0
	for written < len(p) {
		chunk := p[written:min(written+burst, len(p))]
		if err := w.rc.AcquireIO(w.ctx, len(chunk)); err != nil {
			return written, err
		}
		n, err := w.w.WriteAt(chunk, off+int64(written))
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
