//go:build gozstd && cgo

package compress

import (
	"github.com/valyala/gozstd"
)

var zstdLevels = [levelCount]int{
	LevelDefault: 3,
	LevelFastest: 1,
	LevelBest:    12,
}

// zstdCodec writes Zstandard frames through the cgo binding.
type zstdCodec struct {
	level Level
}

func (c zstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, zstdLevels[c.level]), nil
}

// Decompress decodes one or more concatenated frames.
func (zstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
