package coded

import (
	"errors"

	"github.com/arloliu/interlace/errs"
)

// Value is one coded factor instance. The zero Value does not belong to any
// Codes map and only appears as a placeholder in absent vector slots.
type Value struct {
	pair Pair
}

// Code returns the integer code.
func (v Value) Code() int64 {
	return v.pair.Code
}

// Label returns the display label.
func (v Value) Label() string {
	return v.pair.Label
}

// String returns the label.
func (v Value) String() string {
	return v.pair.Label
}

// Equal compares two values by label.
func (v Value) Equal(other Value) bool {
	return v.pair.Label == other.pair.Label
}

// EqualLabel reports whether v displays as label.
func (v Value) EqualLabel(label string) bool {
	return v.pair.Label == label
}

// EqualCode reports whether v has the raw code.
func (v Value) EqualCode(code int64) bool {
	return v.pair.Code == code
}

// FromCodes decodes raw codes. An unknown code fails with an
// UnknownLevelError naming column.
func FromCodes(c *Codes, raw []int64, column string) ([]Value, error) {
	out := make([]Value, len(raw))
	for i, code := range raw {
		v, err := c.Decode(code)
		if err != nil {
			return nil, WithColumn(err, column)
		}
		out[i] = v
	}

	return out, nil
}

// FromLabels looks up labels. An unknown label fails with an
// UnknownLevelError naming column.
func FromLabels(c *Codes, labels []string, column string) ([]Value, error) {
	out := make([]Value, len(labels))
	for i, label := range labels {
		v, err := c.Lookup(label)
		if err != nil {
			return nil, WithColumn(err, column)
		}
		out[i] = v
	}

	return out, nil
}

// AsCodes projects values to their integer codes, dropping the labels.
func AsCodes(values []Value) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = v.Code()
	}

	return out
}

// WithColumn attaches column context to an error returned by Decode or Lookup.
func WithColumn(err error, column string) error {
	var ule *errs.UnknownLevelError
	if errors.As(err, &ule) {
		return errs.NewUnknownLevelError(column, ule.Value)
	}

	return err
}
