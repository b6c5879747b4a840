package spill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/lfpreview/blobstore"
	"github.com/hupe1980/lfpreview/internal/fs"
	"github.com/hupe1980/lfpreview/internal/pool"
	"github.com/hupe1980/lfpreview/resource"
)

// DefaultPattern is the temp file name pattern.
const DefaultPattern = "lfpreview-*.spill"

// Options configures materialization.
type Options struct {
	// Dir is the directory for spill files. Empty means os.TempDir.
	Dir string
	// FS creates and removes spill files. Nil means fs.Default.
	FS fs.FileSystem
	// Controller paces writes. Nil means unlimited.
	Controller *resource.Controller
	// Pattern is the temp file name pattern.
	Pattern string
}

// DefaultOptions contains the default options.
var DefaultOptions = Options{
	Pattern: DefaultPattern,
}

func resolve(optFns []func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.FS == nil {
		opts.FS = fs.Default
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	return opts
}

// File is a materialized spill file.
type File struct {
	path string
	size int64
	fs   fs.FileSystem
}

// Path returns the spill file path.
func (f *File) Path() string { return f.path }

// Size returns the number of decoded bytes written.
func (f *File) Size() int64 { return f.size }

// Remove deletes the spill file.
func (f *File) Remove() error {
	return f.fs.Remove(f.path)
}

// FromReader decodes r with codec and writes the result to a new spill file.
// On failure the partial file is removed.
func FromReader(ctx context.Context, r io.Reader, codec Codec, optFns ...func(o *Options)) (*File, error) {
	opts := resolve(optFns)

	dec, err := codec.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("spill: %s decoder: %w", codec, err)
	}
	defer dec.Close()

	return materialize(opts, func(f fs.File) (int64, error) {
		src := resource.NewRateLimitedReader(ctx, dec, opts.Controller)
		buf := pool.GetCopyBuffer()
		defer pool.PutCopyBuffer(buf)
		return io.CopyBuffer(writerOnly{f}, src, *buf)
	})
}

// FromBlob materializes blob into a new spill file. Uncompressed blobs that
// implement blobstore.Downloader are transferred with their own (possibly
// parallel) download path; everything else is streamed.
func FromBlob(ctx context.Context, blob blobstore.Blob, codec Codec, optFns ...func(o *Options)) (*File, error) {
	if d, ok := blob.(blobstore.Downloader); ok && codec == CodecNone {
		opts := resolve(optFns)
		return materialize(opts, func(f fs.File) (int64, error) {
			return d.Download(ctx, resource.NewRateLimitedWriterAt(ctx, f, opts.Controller))
		})
	}

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return FromReader(ctx, rc, codec, optFns...)
}

func materialize(opts Options, fill func(f fs.File) (int64, error)) (*File, error) {
	f, err := opts.FS.CreateTemp(opts.Dir, opts.Pattern)
	if err != nil {
		return nil, err
	}

	n, err := fill(f)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Join(err, ignoreNotExist(opts.FS.Remove(f.Name())))
	}

	return &File{path: f.Name(), size: n, fs: opts.FS}, nil
}

func ignoreNotExist(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// writerOnly hides ReadFrom so copies go through the rate-limited reader.
type writerOnly struct {
	io.Writer
}
