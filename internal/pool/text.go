package pool

const (
	TextBufferDefaultSize  = 1024 * 16       // 16KiB
	TextBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is an append-only byte slice implementing io.Writer, the
// target the encoder renders a whole table into.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates an empty buffer with capacity size.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the buffered bytes.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of buffered bytes.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer but keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Write appends data. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteString appends s. It never fails.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// textPool drops buffers grown past TextBufferMaxThreshold so one huge table
// does not pin its memory.
var textPool = New(
	func() *ByteBuffer { return NewByteBuffer(TextBufferDefaultSize) },
	func(bb *ByteBuffer) bool {
		if bb == nil || cap(bb.B) > TextBufferMaxThreshold {
			return false
		}
		bb.Reset()

		return true
	},
)

// GetTextBuffer returns an empty buffer from the text pool.
func GetTextBuffer() *ByteBuffer {
	return textPool.Get()
}

// PutTextBuffer returns bb to the text pool.
func PutTextBuffer(bb *ByteBuffer) {
	textPool.Put(bb)
}
