package lineindex

import (
	"bytes"
	"sort"
	"sync"
	"sync/atomic"
)

// DefaultStride is the number of bytes examined per scan step.
const DefaultStride = 64 * 1024

// Options configures an Index.
type Options struct {
	// Stride is the scan step in bytes. Each step publishes its progress so
	// concurrent lookups observe new lines without waiting for a full scan.
	Stride int
}

// DefaultOptions contains the default Index options.
var DefaultOptions = Options{
	Stride: DefaultStride,
}

// snapshot is an immutable view of the discovered prefix.
type snapshot struct {
	starts   []int64
	cursor   int64
	complete bool
}

// Index is a lazily built line-start table over data.
type Index struct {
	data   []byte
	size   int64
	stride int

	mu     sync.Mutex // serializes extension
	starts []int64    // writer-owned; published prefixes are never rewritten
	cursor int64
	done   bool

	snap atomic.Pointer[snapshot]
}

// New creates an Index over data. No bytes are scanned until a lookup needs them.
func New(data []byte, optFns ...func(o *Options)) *Index {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Stride <= 0 {
		opts.Stride = DefaultStride
	}

	idx := &Index{
		data:   data,
		size:   int64(len(data)),
		stride: opts.Stride,
	}
	if idx.size > 0 {
		idx.starts = []int64{0}
	} else {
		idx.done = true
	}
	idx.publish()
	return idx
}

func (idx *Index) publish() {
	idx.snap.Store(&snapshot{
		starts:   idx.starts[:len(idx.starts):len(idx.starts)],
		cursor:   idx.cursor,
		complete: idx.done,
	})
}

// Size returns the length of the indexed data in bytes.
func (idx *Index) Size() int64 {
	return idx.size
}

// Progress reports the number of discovered lines, the scan cursor and
// whether the index covers the whole input.
func (idx *Index) Progress() (lines int, cursor int64, complete bool) {
	s := idx.snap.Load()
	return len(s.starts), s.cursor, s.complete
}

// EnsureLine extends the index until line n is discovered or the input is
// exhausted. It reports whether line n exists.
func (idx *Index) EnsureLine(n int) bool {
	if n < 0 {
		return false
	}
	s := idx.snap.Load()
	if n < len(s.starts) {
		return true
	}
	if s.complete {
		return false
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.extend(n, -1)
	return n < len(idx.starts)
}

// EnsureOffset extends the index until the line containing off is
// discovered. Offsets outside the input only complete the scan.
func (idx *Index) EnsureOffset(off int64) {
	s := idx.snap.Load()
	if s.complete || s.cursor > off {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.extend(-1, off)
}

// Complete scans to the end of the input and returns the total line count.
func (idx *Index) Complete() int {
	s := idx.snap.Load()
	if s.complete {
		return len(s.starts)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.extend(-1, -1)
	return len(idx.starts)
}

// extend scans forward until wantLine is discovered, the cursor passes
// wantOff, or the input ends. Negative targets are ignored; with both
// negative the scan runs to the end. Callers hold idx.mu.
func (idx *Index) extend(wantLine int, wantOff int64) {
	reached := func() bool {
		if wantLine >= 0 && wantLine < len(idx.starts) {
			return true
		}
		return wantOff >= 0 && idx.cursor > wantOff
	}

	for !idx.done && !reached() {
		end := min(idx.cursor+int64(idx.stride), idx.size)
		base := idx.cursor
		chunk := idx.data[base:end]
		stopped := false

		for {
			i := bytes.IndexByte(chunk, '\n')
			if i < 0 {
				break
			}
			next := base + int64(i) + 1
			if next < idx.size {
				idx.starts = append(idx.starts, next)
			}
			chunk = chunk[i+1:]
			base = next
			idx.cursor = next
			if reached() {
				stopped = true
				break
			}
		}
		if !stopped {
			idx.cursor = end
		}
		if idx.cursor >= idx.size {
			idx.done = true
		}
		idx.publish()
	}
}

// Start returns the byte offset at which line n begins, extending the index
// as needed.
func (idx *Index) Start(n int) (int64, bool) {
	if !idx.EnsureLine(n) {
		return 0, false
	}
	return idx.snap.Load().starts[n], true
}

// Span returns the byte range [start, end) of line n, excluding its
// terminator.
func (idx *Index) Span(n int) (start, end int64, ok bool) {
	if !idx.EnsureLine(n) {
		return 0, 0, false
	}
	idx.EnsureLine(n + 1)

	s := idx.snap.Load()
	start = s.starts[n]
	if n+1 < len(s.starts) {
		return start, s.starts[n+1] - 1, true
	}
	// Last line: the scan is complete here.
	end = idx.size
	if end > start && idx.data[end-1] == '\n' {
		end--
	}
	return start, end, true
}

// LineOf returns the zero-based line containing byte offset off.
// Offsets at or beyond the end of the input resolve to the last line.
func (idx *Index) LineOf(off int64) int {
	if off < 0 || idx.size == 0 {
		return 0
	}
	idx.EnsureOffset(off)

	starts := idx.snap.Load().starts
	return sort.Search(len(starts), func(i int) bool { return starts[i] > off }) - 1
}
