package lfpreview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/hupe1980/lfpreview/blobstore"
	"github.com/hupe1980/lfpreview/internal/mmap"
	"github.com/hupe1980/lfpreview/internal/session"
	"github.com/hupe1980/lfpreview/internal/spill"
)

// HandleID identifies an open file. Ids are unique per Engine, start at 1
// and are never reused.
type HandleID uint64

type (
	// Match is one occurrence of a search pattern.
	Match = session.Match
	// Sample is a matching line's content.
	Sample = session.Sample
	// SearchResult is the outcome of Engine.Search.
	SearchResult = session.Result
)

var (
	errEmptyLocation   = errors.New("empty location")
	errUnknownScheme   = errors.New("no blob store registered for scheme")
	errExtension       = errors.New("file extension not allowed")
	errNegativeOptions = errors.New("negative search limit")
)

// Engine owns a set of open file handles. It is safe for concurrent use.
// Two engines never share handles.
type Engine struct {
	opts     options
	registry *session.Registry
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	return &Engine{
		opts:     applyOptions(optFns),
		registry: session.NewRegistry(),
	}
}

// Open maps the file at location and returns its handle. The file is not
// scanned; line indexing happens on demand.
func (e *Engine) Open(ctx context.Context, location string) (HandleID, error) {
	start := time.Now()

	id, size, spilled, err := e.open(ctx, location)
	err = newOpError(OpOpenFile, id, location, err)

	e.opts.logger.LogOpen(ctx, location, id, size, spilled, err)
	e.opts.metricsCollector.RecordOpen(size, time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (e *Engine) open(ctx context.Context, location string) (HandleID, int64, bool, error) {
	if err := e.check(OpOpenFile); err != nil {
		return 0, 0, false, err
	}

	scheme, name, err := splitLocation(location)
	if err != nil {
		return 0, 0, false, err
	}
	if err := e.checkExtension(name); err != nil {
		return 0, 0, false, err
	}

	var backing session.Backing
	codec := spill.DetectCodec(name)
	if scheme == "" {
		backing, err = e.openLocal(ctx, name, codec)
	} else {
		backing, err = e.openBlob(ctx, scheme, name, codec)
	}
	if err != nil {
		return 0, 0, false, err
	}

	id := e.registry.NextID()
	s := session.New(id, location, backing, func(o *session.Options) {
		o.MaxLineBytes = e.opts.maxLineBytes
		o.IndexStride = e.opts.indexStride
		o.ScanStride = e.opts.searchStride
		o.Controller = e.opts.controller
	})
	e.registry.Insert(s)

	return HandleID(id), s.Size(), scheme != "" || codec != spill.CodecNone, nil
}

func (e *Engine) openLocal(ctx context.Context, name string, codec spill.Codec) (session.Backing, error) {
	if codec == spill.CodecNone {
		m, err := mmap.Open(name)
		if err != nil {
			return nil, err
		}
		return session.NewMappingBacking(m, nil), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sf, err := spill.FromReader(ctx, f, codec, e.spillOptions)
	if err != nil {
		return nil, err
	}
	return mapSpill(sf)
}

func (e *Engine) openBlob(ctx context.Context, scheme, name string, codec spill.Codec) (session.Backing, error) {
	store, ok := e.opts.stores[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidArgument, errUnknownScheme, scheme)
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	if m, ok := blob.(blobstore.Mappable); ok && codec == spill.CodecNone {
		data, err := m.Bytes()
		if err != nil {
			return nil, errors.Join(err, blob.Close())
		}
		return session.NewBytesBacking(data, blob), nil
	}

	sf, err := spill.FromBlob(ctx, blob, codec, e.spillOptions)
	if cerr := blob.Close(); err == nil && cerr != nil {
		if sf != nil {
			_ = sf.Remove()
		}
		return nil, cerr
	}
	if err != nil {
		return nil, err
	}
	return mapSpill(sf)
}

func (e *Engine) spillOptions(o *spill.Options) {
	o.Dir = e.opts.spillDir
	o.FS = e.opts.fs
	o.Controller = e.opts.controller
}

func mapSpill(sf *spill.File) (session.Backing, error) {
	m, err := mmap.Open(sf.Path())
	if err != nil {
		return nil, errors.Join(err, sf.Remove())
	}
	return session.NewMappingBacking(m, sf.Remove), nil
}

// splitLocation separates "scheme://name". Local paths return an empty scheme.
func splitLocation(location string) (scheme, name string, err error) {
	if location == "" {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidArgument, errEmptyLocation)
	}
	i := strings.Index(location, "://")
	if i <= 0 {
		return "", location, nil
	}
	scheme, name = strings.ToLower(location[:i]), location[i+3:]
	if scheme == "file" {
		scheme = ""
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidArgument, errEmptyLocation)
	}
	return scheme, name, nil
}

func (e *Engine) checkExtension(name string) error {
	if len(e.opts.allowedExt) == 0 {
		return nil
	}
	base := path.Base(strings.ReplaceAll(spill.StripCodecSuffix(name), "\\", "/"))
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))
	if _, ok := e.opts.allowedExt[ext]; !ok {
		return fmt.Errorf("%w: %w: %q", ErrInvalidArgument, errExtension, ext)
	}
	return nil
}

func (e *Engine) check(op Op) error {
	if e.opts.gate == nil {
		return nil
	}
	if err := e.opts.gate(op); err != nil {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return nil
}

func (e *Engine) session(op Op, id HandleID) (*session.Session, error) {
	if err := e.check(op); err != nil {
		return nil, err
	}
	return e.registry.Get(uint64(id))
}

// CloseHandle unmaps the file behind id and removes any spill file. The
// handle is invalid afterwards, even if releasing a resource failed.
func (e *Engine) CloseHandle(id HandleID) error {
	err := e.check(OpCloseFile)
	if err == nil {
		var s *session.Session
		if s, err = e.registry.Remove(uint64(id)); err == nil {
			err = s.Close()
		}
	}
	err = newOpError(OpCloseFile, id, "", err)

	e.opts.logger.LogClose(context.Background(), id, err)
	e.opts.metricsCollector.RecordClose(err)
	return err
}

// FileSize returns the size of the file in bytes.
func (e *Engine) FileSize(id HandleID) (int64, error) {
	s, err := e.session(OpGetFileSize, id)
	if err != nil {
		return 0, newOpError(OpGetFileSize, id, "", err)
	}
	return s.Size(), nil
}

// TotalLines returns the number of lines, completing the line index.
func (e *Engine) TotalLines(id HandleID) (int, error) {
	s, err := e.session(OpGetTotalLines, id)
	if err != nil {
		return 0, newOpError(OpGetTotalLines, id, "", err)
	}
	n, err := s.TotalLines()
	if err != nil {
		return 0, newOpError(OpGetTotalLines, id, s.Location(), err)
	}
	return n, nil
}

// ReadLines returns lines start through end inclusive, zero-indexed. end is
// clamped to the last line, and a start past the last line yields no lines.
// Lines exclude their '\n' terminator and alias the mapping; they stay valid
// until the handle is closed.
func (e *Engine) ReadLines(id HandleID, start, end int) ([][]byte, error) {
	began := time.Now()

	var lines [][]byte
	s, err := e.session(OpReadLines, id)
	location := ""
	if err == nil {
		location = s.Location()
		lines, err = s.ReadLines(start, end)
	}
	err = newOpError(OpReadLines, id, location, err)

	e.opts.logger.LogRead(context.Background(), id, start, end, len(lines), err)
	e.opts.metricsCollector.RecordRead(len(lines), time.Since(began), err)
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Search reports every occurrence of pattern, overlapping ones included, in
// ascending offset order. ctx bounds the wait for scan slots; a scan that
// has started runs to completion.
func (e *Engine) Search(ctx context.Context, id HandleID, pattern []byte, optFns ...SearchOption) (*SearchResult, error) {
	began := time.Now()
	opts := applySearchOptions(optFns)

	var res *SearchResult
	s, err := e.session(OpMmapSearch, id)
	location := ""
	if err == nil {
		location = s.Location()
		if opts.query.MaxMatches < 0 || opts.query.MaxSamples < 0 {
			err = fmt.Errorf("%w: %w", ErrInvalidArgument, errNegativeOptions)
		} else {
			res, err = s.Search(ctx, pattern, opts.query)
		}
	}
	err = newOpError(OpMmapSearch, id, location, err)

	e.opts.logger.LogSearch(ctx, id, len(pattern), res, err)
	if err != nil {
		e.opts.metricsCollector.RecordSearch(0, 0, time.Since(began), err)
		return nil, err
	}
	e.opts.metricsCollector.RecordSearch(res.ScannedBytes, res.Count, res.Duration, nil)
	return res, nil
}

// Handles returns the open handles in ascending order.
func (e *Engine) Handles() []HandleID {
	ids := e.registry.IDs()
	out := make([]HandleID, len(ids))
	for i, id := range ids {
		out[i] = HandleID(id)
	}
	return out
}

// Close closes every open handle. The engine remains usable.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	open := e.registry.Len()
	err := e.registry.CloseAll()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrIO, err)
	}
	e.opts.logger.LogShutdown(context.Background(), open, err)
	return err
}
