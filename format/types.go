package format

import "strings"

type (
	// Kind tags the element type of a value channel.
	Kind uint8

	CompressionType uint8
)

const (
	KindNumber  Kind = 0x1 // KindNumber represents float64 values.
	KindDate    Kind = 0x2 // KindDate represents calendar dates as time.Time.
	KindText    Kind = 0x3 // KindText represents free text.
	KindCoded   Kind = 0x4 // KindCoded represents coded factor values.
	KindLogical Kind = 0x5 // KindLogical represents booleans, typically comparison results.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindText:
		return "text"
	case KindCoded:
		return "coded"
	case KindLogical:
		return "logical"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether arithmetic and aggregation are defined for k.
func (k Kind) IsNumeric() bool {
	return k == KindNumber
}

// IsOrdered reports whether k supports less-than comparisons.
func (k Kind) IsOrdered() bool {
	return k == KindNumber || k == KindDate || k == KindText
}

// ParseKind converts a kind name as produced by Kind.String back to a Kind.
// The empty string yields 0, meaning "infer".
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, true
	case "number", "numeric", "double":
		return KindNumber, true
	case "date":
		return KindDate, true
	case "text", "string", "character":
		return KindText, true
	case "coded", "factor":
		return KindCoded, true
	case "logical", "bool", "boolean":
		return KindLogical, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression converts a case-insensitive compression name to a CompressionType.
// The empty string yields CompressionNone.
func ParseCompression(s string) (CompressionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, true
	case "zstd", "zst":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
