// Package compress provides the codecs applied to encoded tabular text.
//
// The tabular codec renders a whole table into memory before writing it, so
// compression works on complete buffers. Every codec emits the framed
// stream format of its algorithm, which the matching command line tools
// (zstd, lz4, s2c) read and write:
//   - None: the text as is
//   - Zstd: best ratio, the usual choice for files at rest
//   - S2: fast, Snappy-compatible framing
//   - LZ4: fastest decompression
//
// Every codec takes a Level: LevelFastest, LevelDefault or LevelBest.
//
// Detect identifies the algorithm of a buffer from its magic number, which
// lets decoders accept compressed input without being told the format.
//
//	codec, _ := compress.NewCodec(format.CompressionZstd, compress.LevelBest)
//	packed, _ := codec.Compress(text)
//	text, _ = codec.Decompress(packed)
//
// The zstd codec uses klauspost/compress by default. Building with the
// gozstd tag switches it to the cgo binding of the reference library.
package compress
