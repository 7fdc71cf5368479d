package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/s2"
)

// s2Codec writes the framed S2 stream format.
type s2Codec struct {
	level Level
}

func (c s2Codec) writerOptions() []s2.WriterOption {
	opts := []s2.WriterOption{s2.WriterConcurrency(1)}
	if c.level == LevelBest {
		opts = append(opts, s2.WriterBestCompression())
	}

	return opts
}

func (c s2Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(s2.MaxEncodedLen(len(data)) + len(s2Magic))

	w := s2.NewWriter(&buf, c.writerOptions()...)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress reads S2 and Snappy framed streams alike.
func (s2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return io.ReadAll(s2.NewReader(bytes.NewReader(data)))
}
