package compress

import (
	"fmt"
	"strings"
)

// Level trades compression speed for ratio. Each codec maps it onto its own
// settings; codecs without such settings ignore it.
type Level uint8

const (
	LevelDefault Level = iota
	LevelFastest
	LevelBest

	levelCount = int(LevelBest) + 1
)

func (l Level) String() string {
	switch l {
	case LevelDefault:
		return "default"
	case LevelFastest:
		return "fastest"
	case LevelBest:
		return "best"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// ParseLevel converts a case-insensitive level name. The empty string is
// LevelDefault.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return LevelDefault, true
	case "fastest", "fast":
		return LevelFastest, true
	case "best":
		return LevelBest, true
	default:
		return 0, false
	}
}

func (l Level) valid() bool {
	return int(l) < levelCount
}

// passthrough is the codec of format.CompressionNone.
type passthrough struct{}

// Compress returns data itself, without copying.
func (passthrough) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data itself, without copying.
func (passthrough) Decompress(data []byte) ([]byte, error) { return data, nil }
