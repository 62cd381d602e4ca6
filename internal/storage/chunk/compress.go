package chunk

import (
	"errors"
	"fmt"
)

// ErrUnsupportedCompression is returned for any compression other than
// CompressionNone. Requests are never silently treated as uncompressed.
var ErrUnsupportedCompression = errors.New("chunk: unsupported compression")

// Compression identifies the algorithm applied to a payload. Values are
// stored in one byte of the file header and of each index entry.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

// String returns the configuration name of c.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Known reports whether c is a declared compression kind.
func (c Compression) Known() bool { return c <= CompressionZstd }

// ParseCompression parses a configuration name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// Compress applies c to data.
func Compress(c Compression, data []byte) ([]byte, error) {
	if c != CompressionNone {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, c)
	}
	return data, nil
}

// Decompress reverses Compress.
func Decompress(c Compression, data []byte) ([]byte, error) {
	if c != CompressionNone {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, c)
	}
	return data, nil
}
