package session

import (
	"errors"
	"sync"

	"github.com/hupe1980/lfpreview/internal/lineindex"
	"github.com/hupe1980/lfpreview/internal/mmap"
	"github.com/hupe1980/lfpreview/resource"
)

// DefaultMaxLineBytes caps the bytes returned for a single line.
const DefaultMaxLineBytes = 6 << 20

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session: closed")
	// ErrInvalidRange is returned for negative or inverted line ranges.
	ErrInvalidRange = errors.New("session: invalid line range")
)

// Options configures a Session.
type Options struct {
	// MaxLineBytes truncates returned lines and samples. 0 disables truncation.
	MaxLineBytes int
	// IndexStride is the line index scan step in bytes.
	IndexStride int
	// ScanStride is the per-worker search stride in bytes.
	ScanStride int
	// Controller bounds search parallelism and scratch memory. May be nil.
	Controller *resource.Controller
}

// DefaultOptions contains the default Session options.
var DefaultOptions = Options{
	MaxLineBytes: DefaultMaxLineBytes,
	IndexStride:  lineindex.DefaultStride,
}

// Session is one open handle.
type Session struct {
	id       uint64
	location string
	backing  Backing
	data     []byte
	idx      *lineindex.Index
	opts     Options

	// life is held shared by every operation and exclusively by Close,
	// so the backing is never released under a running read.
	life   sync.RWMutex
	closed bool
}

// New creates a session over backing. The line index starts empty.
func New(id uint64, location string, backing Backing, optFns ...func(o *Options)) *Session {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	data := backing.Bytes()
	s := &Session{
		id:       id,
		location: location,
		backing:  backing,
		data:     data,
		idx: lineindex.New(data, func(o *lineindex.Options) {
			o.Stride = opts.IndexStride
		}),
		opts: opts,
	}
	s.advise(0, int64(len(data)), mmap.AccessRandom)
	return s
}

// ID returns the handle id.
func (s *Session) ID() uint64 { return s.id }

// Location returns the location the session was opened from.
func (s *Session) Location() string { return s.location }

// Size returns the content length in bytes.
func (s *Session) Size() int64 { return int64(len(s.data)) }

// TotalLines completes the line index and returns the number of lines.
func (s *Session) TotalLines() (int, error) {
	if err := s.acquire(); err != nil {
		return 0, err
	}
	defer s.life.RUnlock()

	_, cursor, complete := s.idx.Progress()
	if complete {
		return s.idx.Complete(), nil
	}

	s.advise(cursor, s.Size()-cursor, mmap.AccessSequential)
	n := s.idx.Complete()
	s.advise(0, s.Size(), mmap.AccessRandom)
	return n, nil
}

// ReadLines returns lines start through end inclusive, zero-indexed. The
// range is clamped to the last line; a start past the end yields no lines.
// Each line excludes its terminator and is a view into the backing.
func (s *Session) ReadLines(start, end int) ([][]byte, error) {
	if start < 0 || end < 0 || start > end {
		return nil, ErrInvalidRange
	}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.life.RUnlock()

	if !s.idx.EnsureLine(start) {
		return [][]byte{}, nil
	}

	var lines [][]byte
	for n := start; n <= end; n++ {
		from, to, ok := s.idx.Span(n)
		if !ok {
			break
		}
		lines = append(lines, s.truncate(s.data[from:to]))
	}
	return lines, nil
}

// Close releases the backing. Subsequent operations fail with ErrClosed.
func (s *Session) Close() error {
	s.life.Lock()
	defer s.life.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.backing.Close()
}

func (s *Session) acquire() error {
	s.life.RLock()
	if s.closed {
		s.life.RUnlock()
		return ErrClosed
	}
	return nil
}

func (s *Session) truncate(line []byte) []byte {
	if s.opts.MaxLineBytes > 0 && len(line) > s.opts.MaxLineBytes {
		return line[:s.opts.MaxLineBytes]
	}
	return line
}

// advise is best effort; hints never fail an operation.
func (s *Session) advise(off, size int64, pattern mmap.AccessPattern) {
	a, ok := s.backing.(Adviser)
	if !ok || size <= 0 {
		return
	}
	_ = a.AdviseRange(off, size, pattern)
}
