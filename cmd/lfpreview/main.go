// Command lfpreview prints line ranges, line counts and search results for
// large local or remote files.
//
//	lfpreview -lines 0:49 /var/log/syslog
//	lfpreview -search ERROR -i -max-matches 20 app.log.zst
//	lfpreview -count -json s3://my-bucket/logs/2024-06-01.log.gz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/lfpreview"
	"github.com/hupe1980/lfpreview/blobstore"
	minioblob "github.com/hupe1980/lfpreview/blobstore/minio"
	s3blob "github.com/hupe1980/lfpreview/blobstore/s3"
	"github.com/hupe1980/lfpreview/codec"
	"github.com/hupe1980/lfpreview/resource"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
	exitDenied   = 4
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type cliFlags struct {
	lines        string
	pattern      string
	ignoreCase   bool
	from         int
	maxMatches   int
	maxSamples   int
	count        bool
	json         bool
	logLevel     string
	s3Region     string
	minioAddr    string
	minioSecure  bool
	ioLimit      int64
	maxLineBytes int
	exts         string
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("lfpreview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.lines, "lines", "", "zero-indexed inclusive line range a:b (a: alone reads one page)")
	fs.StringVar(&f.pattern, "search", "", "literal byte pattern to search for")
	fs.BoolVar(&f.ignoreCase, "i", false, "fold ASCII case when searching")
	fs.IntVar(&f.from, "from", 0, "line to start searching from")
	fs.IntVar(&f.maxMatches, "max-matches", 1000, "maximum matches to report (0 for all)")
	fs.IntVar(&f.maxSamples, "samples", lfpreview.DefaultMaxSamples, "matching lines to print as samples")
	fs.BoolVar(&f.count, "count", false, "print only the line count, or the match count with -search")
	fs.BoolVar(&f.json, "json", false, "write a JSON report")
	fs.StringVar(&f.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringVar(&f.s3Region, "s3-region", "", "AWS region for s3:// locations")
	fs.StringVar(&f.minioAddr, "minio-endpoint", os.Getenv("MINIO_ENDPOINT"), "endpoint for minio:// locations")
	fs.BoolVar(&f.minioSecure, "minio-secure", true, "use TLS for minio:// locations")
	fs.Int64Var(&f.ioLimit, "io-limit", 0, "cap spill throughput in bytes per second (0 for unlimited)")
	fs.IntVar(&f.maxLineBytes, "max-line-bytes", 6<<20, "truncate printed lines to this many bytes")
	fs.StringVar(&f.exts, "ext", "", "comma-separated allowed extensions (empty allows any)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, locations, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if len(locations) != 1 {
		fmt.Fprintln(stderr, "usage: lfpreview [flags] <path | scheme://location>")
		return exitUsage
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		fmt.Fprintf(stderr, "invalid -log-level: %v\n", err)
		return exitUsage
	}
	logger := lfpreview.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := []lfpreview.Option{
		lfpreview.WithLogger(logger),
		lfpreview.WithMaxLineBytes(f.maxLineBytes),
		lfpreview.WithResourceController(resource.NewController(resource.Config{
			IOLimitBytesPerSec: f.ioLimit,
		})),
	}
	if f.exts != "" {
		opts = append(opts, lfpreview.WithAllowedExtensions(strings.Split(f.exts, ",")...))
	}
	storeOpts, err := remoteStores(ctx, locations[0], f)
	if err != nil {
		fmt.Fprintf(stderr, "remote store setup failed: %v\n", err)
		return exitFailure
	}
	opts = append(opts, storeOpts...)

	eng := lfpreview.New(opts...)
	defer eng.Close()

	rep, err := preview(ctx, eng, locations[0], f)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	if f.json {
		err = codec.Write(stdout, codec.Default, rep)
	} else {
		err = rep.writeText(stdout, f)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, lfpreview.ErrNotFound):
		return exitNotFound
	case errors.Is(err, lfpreview.ErrPermissionDenied):
		return exitDenied
	case errors.Is(err, lfpreview.ErrInvalidArgument):
		return exitUsage
	default:
		return exitFailure
	}
}

// remoteStores registers only the store the location needs, so local runs
// never load cloud credentials.
func remoteStores(ctx context.Context, location string, f *cliFlags) ([]lfpreview.Option, error) {
	switch {
	case strings.HasPrefix(location, "s3://"):
		var loadOpts []func(*config.LoadOptions) error
		if f.s3Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(f.s3Region))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, err
		}
		client := s3.NewFromConfig(cfg)
		return []lfpreview.Option{lfpreview.WithBlobStore("s3", &bucketRouter{
			store: func(bucket string) blobstore.BlobStore { return s3blob.NewStore(client, bucket, "") },
		})}, nil
	case strings.HasPrefix(location, "minio://"):
		if f.minioAddr == "" {
			return nil, errors.New("minio:// locations need -minio-endpoint or MINIO_ENDPOINT")
		}
		client, err := minio.New(f.minioAddr, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: f.minioSecure,
		})
		if err != nil {
			return nil, err
		}
		return []lfpreview.Option{lfpreview.WithBlobStore("minio", &bucketRouter{
			store: func(bucket string) blobstore.BlobStore { return minioblob.NewStore(client, bucket, "") },
		})}, nil
	}
	return nil, nil
}

// bucketRouter resolves "bucket/key" names against a per-bucket store.
type bucketRouter struct {
	store func(bucket string) blobstore.BlobStore
}

func (r *bucketRouter) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	bucket, key, ok := strings.Cut(name, "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: want bucket/key, got %q", lfpreview.ErrInvalidArgument, name)
	}
	return r.store(bucket).Open(ctx, key)
}

type matchReport struct {
	Offset int64 `json:"offset"`
	Line   int   `json:"line"`
	Column int   `json:"column"`
	Length int   `json:"length"`
	Chars  int   `json:"chars"`
}

type sampleReport struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

type searchReport struct {
	Pattern       string         `json:"pattern"`
	IgnoreCase    bool           `json:"ignore_case"`
	Count         int64          `json:"count"`
	Truncated     bool           `json:"truncated"`
	DistinctLines uint64         `json:"distinct_lines"`
	Matches       []matchReport  `json:"matches,omitempty"`
	Samples       []sampleReport `json:"samples,omitempty"`
	ScannedBytes  int64          `json:"scanned_bytes"`
	DurationMS    float64        `json:"duration_ms"`
}

type report struct {
	Location   string        `json:"location"`
	Size       int64         `json:"size"`
	TotalLines *int          `json:"total_lines,omitempty"`
	FirstLine  int           `json:"first_line"`
	Lines      []string      `json:"lines,omitempty"`
	Search     *searchReport `json:"search,omitempty"`
}

func preview(ctx context.Context, eng *lfpreview.Engine, location string, f *cliFlags) (*report, error) {
	id, err := eng.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer eng.CloseHandle(id)

	size, err := eng.FileSize(id)
	if err != nil {
		return nil, err
	}
	rep := &report{Location: location, Size: size}

	if f.pattern != "" {
		res, err := eng.Search(ctx, id, []byte(f.pattern),
			ignoreCase(f.ignoreCase),
			lfpreview.StartLine(f.from),
			lfpreview.MaxMatches(f.maxMatches),
			lfpreview.MaxSamples(f.maxSamples),
		)
		if err != nil {
			return nil, err
		}
		rep.Search = newSearchReport(f, res)
		return rep, nil
	}

	if f.lines != "" {
		start, end, err := parseRange(f.lines)
		if err != nil {
			return nil, fmt.Errorf("%w: -lines: %w", lfpreview.ErrInvalidArgument, err)
		}
		lines, err := eng.ReadLines(id, start, end)
		if err != nil {
			return nil, err
		}
		rep.FirstLine = start
		rep.Lines = make([]string, len(lines))
		for i, l := range lines {
			rep.Lines[i] = string(l)
		}
		if !f.count {
			return rep, nil
		}
	}

	total, err := eng.TotalLines(id)
	if err != nil {
		return nil, err
	}
	rep.TotalLines = &total
	return rep, nil
}

func ignoreCase(on bool) lfpreview.SearchOption {
	if on {
		return lfpreview.IgnoreCase()
	}
	return nil
}

func newSearchReport(f *cliFlags, res *lfpreview.SearchResult) *searchReport {
	sr := &searchReport{
		Pattern:       f.pattern,
		IgnoreCase:    f.ignoreCase,
		Count:         res.Count,
		Truncated:     res.Truncated,
		DistinctLines: res.Lines.GetCardinality(),
		ScannedBytes:  res.ScannedBytes,
		DurationMS:    float64(res.Duration) / float64(time.Millisecond),
	}
	if f.count {
		return sr
	}
	for _, m := range res.Matches {
		sr.Matches = append(sr.Matches, matchReport(m))
	}
	for _, s := range res.Samples {
		sr.Samples = append(sr.Samples, sampleReport{Line: s.Line, Text: string(s.Text)})
	}
	return sr
}

// parseRange accepts "a:b", "a:" (one hundred lines from a) and "a".
func parseRange(s string) (start, end int, err error) {
	lo, hi, hasColon := strings.Cut(s, ":")
	if start, err = strconv.Atoi(lo); err != nil {
		return 0, 0, err
	}
	switch {
	case !hasColon:
		return start, start, nil
	case hi == "":
		return start, start + 99, nil
	}
	if end, err = strconv.Atoi(hi); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func (r *report) writeText(w io.Writer, f *cliFlags) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	switch {
	case r.Search != nil && f.count:
		printf("%d\n", r.Search.Count)
	case r.Search != nil:
		for _, m := range r.Search.Matches {
			printf("%d:%d: offset %d\n", m.Line, m.Column, m.Offset)
		}
		for _, s := range r.Search.Samples {
			printf("%d| %s\n", s.Line, s.Text)
		}
		more := ""
		if r.Search.Truncated {
			more = " (truncated)"
		}
		printf("%d matches on %d lines%s\n", r.Search.Count, r.Search.DistinctLines, more)
	case r.Lines != nil && !f.count:
		for i, l := range r.Lines {
			printf("%d| %s\n", r.FirstLine+i, l)
		}
	case r.TotalLines != nil && f.count:
		printf("%d\n", *r.TotalLines)
	default:
		printf("%s: %d bytes, %d lines\n", r.Location, r.Size, *r.TotalLines)
	}
	return err
}
