package session

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/lfpreview/internal/mmap"
	"github.com/hupe1980/lfpreview/internal/search"
)

// Query configures a search.
type Query struct {
	// IgnoreCase folds ASCII letters.
	IgnoreCase bool
	// StartLine is the first line searched.
	StartLine int
	// MaxMatches caps the reported matches. 0 reports all.
	MaxMatches int
	// MaxSamples caps the distinct matching lines returned as samples.
	MaxSamples int
}

// Match is one occurrence of the pattern.
type Match struct {
	// Offset is the byte offset of the match from the start of the file.
	Offset int64
	// Line is the zero-indexed line containing the match.
	Line int
	// Column is the match position within its line in UTF-8 characters.
	Column int
	// Length is the match length in bytes.
	Length int
	// Chars is the match length in UTF-8 characters.
	Chars int
}

// Sample is a matching line's content.
type Sample struct {
	Line int
	Text []byte
}

// Result is the outcome of a search.
type Result struct {
	// Matches are the reported occurrences in ascending offset order.
	Matches []Match
	// Count is the total number of occurrences, including unreported ones.
	Count int64
	// Truncated reports whether Matches was capped by MaxMatches.
	Truncated bool
	// Samples holds the first distinct matching lines, drawn from every
	// occurrence whether or not it was reported.
	Samples []Sample
	// Lines holds the distinct lines of the reported matches.
	Lines *roaring64.Bitmap
	// Duration is the wall time of the search.
	Duration time.Duration
	// ScannedBytes is the number of bytes examined.
	ScannedBytes int64
	// ExtraAllocBytes is the scratch memory reserved for case folding.
	ExtraAllocBytes int64
}

// Search finds every occurrence of pattern at or after q.StartLine.
func (s *Session) Search(ctx context.Context, pattern []byte, q Query) (*Result, error) {
	if len(pattern) == 0 {
		return nil, search.ErrEmptyPattern
	}
	if q.StartLine < 0 {
		return nil, ErrInvalidRange
	}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.life.RUnlock()

	began := time.Now()
	res := &Result{Lines: roaring64.New()}

	from, ok := s.idx.Start(q.StartLine)
	if !ok {
		res.Duration = time.Since(began)
		return res, nil
	}

	s.advise(from, s.Size()-from, mmap.AccessSequential)
	scan, err := search.Scan(ctx, s.data, from, pattern, func(o *search.Options) {
		o.IgnoreCase = q.IgnoreCase
		o.Limit = q.MaxMatches
		o.Stride = s.opts.ScanStride
		o.Controller = s.opts.Controller
	})
	s.advise(from, s.Size()-from, mmap.AccessRandom)
	if err != nil {
		return nil, err
	}

	res.Count = scan.Count
	res.Truncated = scan.Truncated()
	res.ScannedBytes = scan.Scanned
	res.ExtraAllocBytes = scan.ExtraAlloc
	res.Matches = make([]Match, 0, len(scan.Offsets))

	chars := utf8.RuneCount(pattern)
	var cur columnCursor
	for _, off := range scan.Offsets {
		line, col := s.locate(&cur, off)
		res.Matches = append(res.Matches, Match{
			Offset: off,
			Line:   line,
			Column: col,
			Length: len(pattern),
			Chars:  chars,
		})

		if !res.Lines.CheckedAdd(uint64(line)) || len(res.Samples) >= q.MaxSamples {
			continue
		}
		if start, end, ok := s.idx.Span(line); ok {
			res.Samples = append(res.Samples, Sample{Line: line, Text: s.truncate(s.data[start:end])})
		}
	}

	if res.Truncated && len(res.Samples) < q.MaxSamples {
		s.sampleAfter(res, res.Matches[len(res.Matches)-1].Line, pattern, q)
	}

	res.Duration = time.Since(began)
	return res, nil
}

// sampleAfter adds samples from the lines after line, which hold only
// occurrences past the match cap.
func (s *Session) sampleAfter(res *Result, line int, pattern []byte, q Query) {
	for len(res.Samples) < q.MaxSamples {
		from, ok := s.idx.Start(line + 1)
		if !ok {
			return
		}
		off := search.Index(s.data, from, pattern, q.IgnoreCase)
		if off < 0 {
			return
		}
		line = s.idx.LineOf(off)
		if start, end, ok := s.idx.Span(line); ok {
			res.Samples = append(res.Samples, Sample{Line: line, Text: s.truncate(s.data[start:end])})
		}
	}
}

// columnCursor remembers the previous match so consecutive matches on one
// line count characters from there instead of from the line start.
type columnCursor struct {
	valid bool
	line  int
	off   int64
	col   int
}

// locate resolves the line and character column of off. Offsets arrive in
// ascending order.
func (s *Session) locate(cur *columnCursor, off int64) (line, col int) {
	line = s.idx.LineOf(off)
	if cur.valid && cur.line == line && utf8.RuneStart(s.data[cur.off]) {
		col = cur.col + utf8.RuneCount(s.data[cur.off:off])
	} else {
		start, _ := s.idx.Start(line)
		col = utf8.RuneCount(s.data[start:off])
	}
	*cur = columnCursor{valid: true, line: line, off: off, col: col}
	return line, col
}
