package parquet

import (
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
)

// Options configures the snapshot writer.
type Options struct {
	Compression CompressionType

	// RowGroupSize is the number of cells buffered before a row group is
	// flushed.
	RowGroupSize int

	// PageSize is the target page buffer size in bytes.
	PageSize int
}

// CompressionType is a snapshot codec.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

var codecs = [...]struct {
	name  string
	codec compress.Codec
}{
	CompressionNone:   {"none", &parquet.Uncompressed},
	CompressionSnappy: {"snappy", &parquet.Snappy},
	CompressionZstd:   {"zstd", &parquet.Zstd},
	CompressionLZ4:    {"lz4", &parquet.Lz4Raw},
	CompressionGzip:   {"gzip", &parquet.Gzip},
}

// DefaultOptions returns zstd snapshots with 64k-cell row groups and 1MB
// pages.
func DefaultOptions() Options {
	return Options{
		Compression:  CompressionZstd,
		RowGroupSize: 64 * 1024,
		PageSize:     1 << 20,
	}
}

// ParseCompressionType maps a codec name to its type. The empty string means
// none; unknown names fall back to zstd.
func ParseCompressionType(s string) CompressionType {
	if s == "" {
		return CompressionNone
	}
	for ct, c := range codecs {
		if c.name == s {
			return CompressionType(ct)
		}
	}
	return CompressionZstd
}

func (c CompressionType) String() string {
	if c < 0 || int(c) >= len(codecs) {
		return "none"
	}
	return codecs[c].name
}

func (c CompressionType) codec() compress.Codec {
	if c < 0 || int(c) >= len(codecs) {
		return &parquet.Uncompressed
	}
	return codecs[c].codec
}
