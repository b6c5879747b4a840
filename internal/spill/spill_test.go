package spill

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/lfpreview/blobstore"
	"github.com/hupe1980/lfpreview/internal/fs"
	"github.com/hupe1980/lfpreview/resource"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compress(t *testing.T, codec Codec, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w io.WriteCloser
	switch codec {
	case CodecZstd:
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = enc
	case CodecGzip:
		w = gzip.NewWriter(&buf)
	case CodecLZ4:
		w = lz4.NewWriter(&buf)
	default:
		return data
	}
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func sample() []byte {
	var b bytes.Buffer
	for i := range 5000 {
		b.WriteString("line ")
		b.WriteByte(byte('a' + i%26))
		b.WriteString(" payload\n")
	}
	return b.Bytes()
}

func TestDetectCodec(t *testing.T) {
	tests := []struct {
		name     string
		codec    Codec
		stripped string
	}{
		{"app.log", CodecNone, "app.log"},
		{"app.log.zst", CodecZstd, "app.log"},
		{"app.log.GZ", CodecGzip, "app.log"},
		{"dir/app.txt.lz4", CodecLZ4, "dir/app.txt"},
		{"archive.tar", CodecNone, "archive.tar"},
		{"noext", CodecNone, "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.codec, DetectCodec(tt.name))
			assert.Equal(t, tt.stripped, StripCodecSuffix(tt.name))
		})
	}
}

func TestCodec_String(t *testing.T) {
	assert.Equal(t, "none", CodecNone.String())
	assert.Equal(t, "zstd", CodecZstd.String())
	assert.Equal(t, "gzip", CodecGzip.String())
	assert.Equal(t, "lz4", CodecLZ4.String())
	assert.Equal(t, "unknown", Codec(42).String())
}

func TestFromReader(t *testing.T) {
	data := sample()

	for _, codec := range []Codec{CodecNone, CodecZstd, CodecGzip, CodecLZ4} {
		t.Run(codec.String(), func(t *testing.T) {
			dir := t.TempDir()
			src := bytes.NewReader(compress(t, codec, data))

			f, err := FromReader(t.Context(), src, codec, func(o *Options) {
				o.Dir = dir
			})
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), f.Size())
			assert.Equal(t, dir, filepath.Dir(f.Path()))

			got, err := os.ReadFile(f.Path())
			require.NoError(t, err)
			assert.Equal(t, data, got)

			require.NoError(t, f.Remove())
			_, err = os.Stat(f.Path())
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestFromReader_CorruptInput(t *testing.T) {
	dir := t.TempDir()
	_, err := FromReader(t.Context(), bytes.NewReader([]byte("not gzip at all")), CodecGzip, func(o *Options) {
		o.Dir = dir
	})
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFromReader_WriteFailureRemovesPartial(t *testing.T) {
	dir := t.TempDir()
	ffs := fs.NewFaultyFS(nil)
	ffs.SetLimit(1024)

	_, err := FromReader(t.Context(), bytes.NewReader(sample()), CodecNone, func(o *Options) {
		o.Dir = dir
		o.FS = ffs
	})
	require.ErrorIs(t, err, fs.ErrInjected)

	require.Len(t, ffs.Removed(), 1)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFromReader_SyncFailure(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("spill", fs.Fault{FailAfterBytes: -1, FailOnSync: true})

	_, err := FromReader(t.Context(), bytes.NewReader([]byte("x\n")), CodecNone, func(o *Options) {
		o.Dir = t.TempDir()
		o.FS = ffs
	})
	assert.ErrorIs(t, err, fs.ErrInjected)
}

func TestFromReader_CanceledWithIOLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1024})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := FromReader(ctx, bytes.NewReader(sample()), CodecNone, func(o *Options) {
		o.Dir = t.TempDir()
		o.Controller = rc
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromBlob_Stream(t *testing.T) {
	data := sample()
	store := blobstore.NewMemoryStore()
	store.Put("logs/app.log.zst", compress(t, CodecZstd, data))

	blob, err := store.Open(t.Context(), "logs/app.log.zst")
	require.NoError(t, err)
	defer blob.Close()

	f, err := FromBlob(t.Context(), blob, DetectCodec("logs/app.log.zst"), func(o *Options) {
		o.Dir = t.TempDir()
	})
	require.NoError(t, err)
	defer f.Remove()

	got, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

type downloadBlob struct {
	blobstore.Blob
	data      []byte
	downloads int
}

func (b *downloadBlob) Download(_ context.Context, w io.WriterAt) (int64, error) {
	b.downloads++
	half := len(b.data) / 2
	// Write the tail first to exercise positional writes.
	if _, err := w.WriteAt(b.data[half:], int64(half)); err != nil {
		return 0, err
	}
	if _, err := w.WriteAt(b.data[:half], 0); err != nil {
		return 0, err
	}
	return int64(len(b.data)), nil
}

func TestFromBlob_Downloader(t *testing.T) {
	data := sample()
	store := blobstore.NewMemoryStore()
	store.Put("app.log", data)
	inner, err := store.Open(t.Context(), "app.log")
	require.NoError(t, err)

	blob := &downloadBlob{Blob: inner, data: data}
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})

	f, err := FromBlob(t.Context(), blob, CodecNone, func(o *Options) {
		o.Dir = t.TempDir()
		o.Controller = rc
	})
	require.NoError(t, err)
	defer f.Remove()

	assert.Equal(t, 1, blob.downloads)
	assert.Equal(t, int64(len(data)), f.Size())

	got, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFromBlob_CompressedSkipsDownloader(t *testing.T) {
	data := sample()
	store := blobstore.NewMemoryStore()
	store.Put("app.log.lz4", compress(t, CodecLZ4, data))
	inner, err := store.Open(t.Context(), "app.log.lz4")
	require.NoError(t, err)

	blob := &downloadBlob{Blob: inner, data: data}
	f, err := FromBlob(t.Context(), blob, CodecLZ4, func(o *Options) {
		o.Dir = t.TempDir()
	})
	require.NoError(t, err)
	defer f.Remove()

	assert.Zero(t, blob.downloads)
	assert.Equal(t, int64(len(data)), f.Size())
}
