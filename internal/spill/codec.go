package spill

import (
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression applied to a source.
type Codec uint8

const (
	// CodecNone indicates an uncompressed source.
	CodecNone Codec = iota
	// CodecZstd indicates a zstd stream (.zst).
	CodecZstd
	// CodecGzip indicates a gzip stream (.gz).
	CodecGzip
	// CodecLZ4 indicates an LZ4 frame stream (.lz4).
	CodecLZ4
)

var codecExt = map[string]Codec{
	".zst": CodecZstd,
	".gz":  CodecGzip,
	".lz4": CodecLZ4,
}

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecGzip:
		return "gzip"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// DetectCodec returns the codec implied by the name's extension.
func DetectCodec(name string) Codec {
	return codecExt[strings.ToLower(path.Ext(name))]
}

// StripCodecSuffix removes a compression extension, if any.
// "app.log.zst" becomes "app.log".
func StripCodecSuffix(name string) string {
	ext := path.Ext(name)
	if _, ok := codecExt[strings.ToLower(ext)]; ok {
		return name[:len(name)-len(ext)]
	}
	return name
}

// NewReader wraps r with the codec's decoder.
// Closing the returned reader releases decoder state but not r.
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}
