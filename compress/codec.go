package compress

import (
	"bytes"
	"fmt"

	"github.com/arloliu/interlace/format"
)

// Compressor compresses a complete buffer.
//
// The returned slice is owned by the caller; the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm. It fails on
// corrupted input or input framed by another algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Implementations are safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes one compression, for logging.
type Stats struct {
	Algorithm      format.CompressionType
	Level          Level
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns compressed size / original size, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.Ratio()) * 100.0
}

// NewCodec returns the codec of compressionType at level.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - level: Compression level; every codec maps it to its own native setting
//
// Returns:
//   - Codec: Codec instance for the type and level
//   - error: Unsupported compression type or level
func NewCodec(compressionType format.CompressionType, level Level) (Codec, error) {
	if !level.valid() {
		return nil, fmt.Errorf("unsupported compression level: %s", level)
	}

	switch compressionType {
	case format.CompressionNone:
		return passthrough{}, nil
	case format.CompressionZstd:
		return zstdCodec{level: level}, nil
	case format.CompressionS2:
		return s2Codec{level: level}, nil
	case format.CompressionLZ4:
		return lz4Codec{level: level}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
	}
}

// GetCodec returns the codec of compressionType at LevelDefault.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	return NewCodec(compressionType, LevelDefault)
}

// Compress compresses data with compressionType at LevelDefault and reports
// the sizes.
func Compress(compressionType format.CompressionType, data []byte) ([]byte, Stats, error) {
	return CompressLevel(compressionType, LevelDefault, data)
}

// CompressLevel compresses data with compressionType at level.
//
// Parameters:
//   - compressionType: Type of compression
//   - level: Compression level
//   - data: Input data to compress
//
// Returns:
//   - []byte: Compressed data
//   - Stats: Sizes, type and level of the compression
//   - error: Unsupported type or level, or a codec error
func CompressLevel(compressionType format.CompressionType, level Level, data []byte) ([]byte, Stats, error) {
	codec, err := NewCodec(compressionType, level)
	if err != nil {
		return nil, Stats{}, err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s compression failed: %w", compressionType, err)
	}

	return out, Stats{
		Algorithm:      compressionType,
		Level:          level,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(out)),
	}, nil
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic   = []byte("\xff\x06\x00\x00S2sTwO")
	// snappy framing is accepted by the s2 reader too
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// Detect returns the algorithm whose stream magic number starts data, or
// format.CompressionNone for anything else.
func Detect(data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return format.CompressionLZ4
	case bytes.HasPrefix(data, s2Magic), bytes.HasPrefix(data, snappyMagic):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}

// Decompress decompresses data of a known algorithm. A zero
// compressionType detects the algorithm with Detect.
func Decompress(compressionType format.CompressionType, data []byte) ([]byte, error) {
	if compressionType == 0 {
		compressionType = Detect(data)
	}
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	out, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", compressionType, err)
	}

	return out, nil
}
