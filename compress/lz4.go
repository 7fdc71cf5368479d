package compress

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/interlace/internal/pool"
)

var lz4Levels = [levelCount]lz4.CompressionLevel{
	LevelDefault: lz4.Level5,
	LevelFastest: lz4.Fast,
	LevelBest:    lz4.Level9,
}

// lz4WriterPools keeps one pool of frame writers per level. Reset rebinds a
// writer to a new buffer and keeps its level.
var lz4WriterPools [levelCount]*pool.Pool[*lz4.Writer]

func init() {
	for i := range lz4WriterPools {
		level := lz4Levels[i]
		lz4WriterPools[i] = pool.New(func() *lz4.Writer {
			w := lz4.NewWriter(nil)
			_ = w.Apply(lz4.CompressionLevelOption(level))

			return w
		}, nil)
	}
}

// lz4Codec writes the LZ4 frame format.
type lz4Codec struct {
	level Level
}

func (c lz4Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(lz4.CompressBlockBound(len(data)) + 32)

	writers := lz4WriterPools[c.level]
	w := writers.Get()
	defer writers.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (lz4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}
