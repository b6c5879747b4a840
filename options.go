package lfpreview

import (
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/lfpreview/blobstore"
	"github.com/hupe1980/lfpreview/internal/fs"
	"github.com/hupe1980/lfpreview/internal/lineindex"
	"github.com/hupe1980/lfpreview/internal/search"
	"github.com/hupe1980/lfpreview/internal/session"
	"github.com/hupe1980/lfpreview/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	controller       *resource.Controller
	indexStride      int
	searchStride     int
	maxLineBytes     int
	allowedExt       map[string]struct{}
	stores           map[string]blobstore.BlobStore
	spillDir         string
	fs               fs.FileSystem
	gate             func(Op) error
}

// Option configures an Engine.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := lfpreview.NewJSONLogger(slog.LevelInfo)
//	eng := lfpreview.New(lfpreview.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &lfpreview.BasicMetricsCollector{}
//	eng := lfpreview.New(lfpreview.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController bounds search parallelism, case-folding scratch
// memory and spill throughput. Controllers may be shared between engines.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithStrideBytes sets the line index scan step. It is rounded up to a
// multiple of the page size.
func WithStrideBytes(n int) Option {
	return func(o *options) {
		if n <= 0 {
			return
		}
		page := os.Getpagesize()
		o.indexStride = (n + page - 1) / page * page
	}
}

// WithSearchStrideBytes sets the amount of input each parallel search
// worker scans.
func WithSearchStrideBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.searchStride = n
		}
	}
}

// WithMaxLineBytes caps the bytes returned per line by ReadLines and in
// search samples. 0 disables truncation.
func WithMaxLineBytes(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxLineBytes = n
		}
	}
}

// WithAllowedExtensions restricts Open to the given file extensions
// (without the dot, case-insensitive). Compression suffixes are ignored, so
// allowing "log" admits "app.log.gz". No extensions means any file.
func WithAllowedExtensions(exts ...string) Option {
	return func(o *options) {
		if len(exts) == 0 {
			o.allowedExt = nil
			return
		}
		o.allowedExt = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			o.allowedExt[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
	}
}

// WithBlobStore registers store for locations of the form "scheme://name".
func WithBlobStore(scheme string, store blobstore.BlobStore) Option {
	return func(o *options) {
		if o.stores == nil {
			o.stores = make(map[string]blobstore.BlobStore)
		}
		o.stores[strings.ToLower(scheme)] = store
	}
}

// WithSpillDir sets the directory for decoded or downloaded sources.
// Defaults to os.TempDir.
func WithSpillDir(dir string) Option {
	return func(o *options) {
		o.spillDir = dir
	}
}

// WithFileSystem replaces the file system used for spill files.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithGate installs a check run before every operation. A non-nil return
// fails the operation with ErrPermissionDenied.
func WithGate(gate func(Op) error) Option {
	return func(o *options) {
		o.gate = gate
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		indexStride:      lineindex.DefaultStride,
		searchStride:     search.DefaultStride,
		maxLineBytes:     session.DefaultMaxLineBytes,
		fs:               fs.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// DefaultMaxSamples is the number of sample lines a search returns.
const DefaultMaxSamples = 5

type searchOptions struct {
	query session.Query
}

// SearchOption configures a single search.
type SearchOption func(*searchOptions)

// IgnoreCase folds ASCII letters when matching.
func IgnoreCase() SearchOption {
	return func(o *searchOptions) {
		o.query.IgnoreCase = true
	}
}

// StartLine begins the search at line n (zero-indexed).
func StartLine(n int) SearchOption {
	return func(o *searchOptions) {
		o.query.StartLine = n
	}
}

// MaxMatches caps the reported matches. Count still totals every
// occurrence. 0 reports all.
func MaxMatches(n int) SearchOption {
	return func(o *searchOptions) {
		o.query.MaxMatches = n
	}
}

// MaxSamples sets how many distinct matching lines are returned as samples.
func MaxSamples(n int) SearchOption {
	return func(o *searchOptions) {
		o.query.MaxSamples = n
	}
}

func applySearchOptions(optFns []SearchOption) searchOptions {
	o := searchOptions{
		query: session.Query{MaxSamples: DefaultMaxSamples},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
