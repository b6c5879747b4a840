package search

import (
	"bytes"
	"context"
	"errors"

	"github.com/hupe1980/lfpreview/internal/pool"
	"github.com/hupe1980/lfpreview/resource"
	"golang.org/x/sync/errgroup"
)

// DefaultStride is the amount of input handed to one scan worker.
const DefaultStride = 4 << 20

// ErrEmptyPattern is returned when the pattern has no bytes.
var ErrEmptyPattern = errors.New("search: empty pattern")

// Options configures a scan.
type Options struct {
	// IgnoreCase folds ASCII letters when comparing.
	IgnoreCase bool
	// Limit caps the number of offsets kept. 0 keeps all. Count is exact either way.
	Limit int
	// Stride is the number of bytes per parallel work unit.
	Stride int
	// Controller bounds scan parallelism and scratch memory. May be nil.
	Controller *resource.Controller
}

// Result is the outcome of a scan.
type Result struct {
	// Offsets holds match start offsets in ascending order, at most Limit of them.
	Offsets []int64
	// Count is the total number of occurrences.
	Count int64
	// Scanned is the number of input bytes examined.
	Scanned int64
	// ExtraAlloc is the peak scratch memory reserved for case folding.
	ExtraAlloc int64
}

// Truncated reports whether Offsets holds fewer entries than Count.
func (r *Result) Truncated() bool {
	return int64(len(r.Offsets)) < r.Count
}

type strideResult struct {
	offsets []int64
	count   int64
	scratch int64
}

// Scan finds pattern in data starting at byte offset from. Returned offsets
// are absolute positions in data.
//
// ctx only gates acquisition of scan slots; a stride that has started runs
// to completion.
func Scan(ctx context.Context, data []byte, from int64, pattern []byte, optFns ...func(o *Options)) (*Result, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}

	opts := Options{Stride: DefaultStride}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Stride <= 0 {
		opts.Stride = DefaultStride
	}

	size := int64(len(data))
	if from < 0 {
		from = 0
	}
	res := &Result{}
	if from >= size || int64(len(pattern)) > size-from {
		if from < size {
			res.Scanned = size - from
		}
		return res, nil
	}

	needle := pattern
	if opts.IgnoreCase {
		needle = lowerASCII(pattern)
	}

	stride := int64(opts.Stride)
	n := int((size - from + stride - 1) / stride)
	parts := make([]strideResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Controller.ScanWorkers())

	for i := 0; i < n; i++ {
		start := from + int64(i)*stride
		end := min(start+stride, size)
		g.Go(func() error {
			if err := opts.Controller.AcquireScan(gctx); err != nil {
				return err
			}
			defer opts.Controller.ReleaseScan()

			parts[i] = scanStride(data, start, end, needle, &opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range parts {
		res.Count += p.count
		res.ExtraAlloc = max(res.ExtraAlloc, p.scratch)
		for _, off := range p.offsets {
			if opts.Limit > 0 && len(res.Offsets) >= opts.Limit {
				break
			}
			res.Offsets = append(res.Offsets, off)
		}
	}
	res.Scanned = size - from

	return res, nil
}

// Index returns the offset of the first occurrence of pattern at or after
// from, or -1.
func Index(data []byte, from int64, pattern []byte, ignoreCase bool) int64 {
	if len(pattern) == 0 || from < 0 || from >= int64(len(data)) {
		return -1
	}
	hay := data[from:]

	var i int
	if ignoreCase {
		i = indexFold(hay, lowerASCII(pattern))
	} else {
		i = bytes.Index(hay, pattern)
	}
	if i < 0 {
		return -1
	}
	return from + int64(i)
}

// scanStride reports occurrences that start in [start, end).
func scanStride(data []byte, start, end int64, needle []byte, opts *Options) strideResult {
	window := data[start:min(end+int64(len(needle))-1, int64(len(data)))]

	var out strideResult
	emit := func(rel int) {
		out.count++
		if opts.Limit <= 0 || len(out.offsets) < opts.Limit {
			out.offsets = append(out.offsets, start+int64(rel))
		}
	}
	limit := int(end - start)

	if !opts.IgnoreCase {
		indexAll(window, needle, limit, emit)
		return out
	}

	scratch := int64(len(window))
	if err := opts.Controller.AcquireMemory(scratch); err != nil {
		indexAllFold(window, needle, limit, emit)
		return out
	}
	defer opts.Controller.ReleaseMemory(scratch)

	buf := pool.GetScratch(len(window))
	defer pool.PutScratch(buf)

	out.scratch = scratch
	indexAll(lowerInto(*buf, window), needle, limit, emit)
	return out
}

// indexAll calls emit for every position below limit where needle occurs in hay.
func indexAll(hay, needle []byte, limit int, emit func(int)) {
	pos := 0
	for pos < limit {
		i := bytes.Index(hay[pos:], needle)
		if i < 0 || pos+i >= limit {
			return
		}
		emit(pos + i)
		pos += i + 1
	}
}
