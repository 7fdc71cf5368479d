//go:build !gozstd || !cgo

package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/interlace/internal/pool"
)

var zstdLevels = [levelCount]zstd.EncoderLevel{
	LevelDefault: zstd.SpeedDefault,
	LevelFastest: zstd.SpeedFastest,
	LevelBest:    zstd.SpeedBestCompression,
}

// Encoders are pooled per level, decoders once; EncodeAll and DecodeAll run
// without allocations once warm.
var (
	zstdEncoderPools [levelCount]*pool.Pool[*zstd.Encoder]
	zstdDecoderPool  = pool.New(func() *zstd.Decoder {
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("zstd decoder: %v", err))
		}

		return decoder
	}, nil)
)

func init() {
	for i := range zstdEncoderPools {
		level := zstdLevels[i]
		zstdEncoderPools[i] = pool.New(func() *zstd.Encoder {
			encoder, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(level),
				zstd.WithEncoderCRC(true),
				zstd.WithEncoderConcurrency(1),
			)
			if err != nil {
				panic(fmt.Sprintf("zstd encoder at %s: %v", level, err))
			}

			return encoder
		}, nil)
	}
}

// zstdCodec writes checksummed Zstandard frames with klauspost/compress.
type zstdCodec struct {
	level Level
}

func (c zstdCodec) Compress(data []byte) ([]byte, error) {
	encoders := zstdEncoderPools[c.level]
	encoder := encoders.Get()
	defer encoders.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decodes one or more concatenated frames.
func (zstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder := zstdDecoderPool.Get()
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}

	return out, nil
}
