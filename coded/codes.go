// Package coded implements the coded factor: a categorical value stored as
// an integer code and displayed, compared and serialized by its label.
//
// A Codes map is an injective set of label ↔ code pairs fixed for a column:
//
//	codes, err := coded.NewCodes(coded.Pair{Label: "f", Code: 1}, coded.Pair{Label: "m", Code: 2})
//	values, err := coded.FromLabels(codes, []string{"f", "m"}, "sex")
//	coded.AsCodes(values) // [1 2]
//
// Codes and the missing-reason registry of an interlaced vector are
// separate: a label of a Codes map is never a missing reason.
package coded

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/internal/hash"
)

// Pair is one label ↔ code mapping.
type Pair struct {
	Label string
	Code  int64
}

// Codes is an immutable injective mapping between labels and integer codes,
// kept in declaration order.
type Codes struct {
	pairs   []Pair
	byLabel map[string]int
	byCode  map[int64]int
	fp      uint64
}

// NewCodes builds a code map. It fails with errs.ErrInvalidCodes when pairs
// is empty, a label is empty, or a label or code appears twice.
func NewCodes(pairs ...Pair) (*Codes, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no pairs", errs.ErrInvalidCodes)
	}

	c := &Codes{
		pairs:   make([]Pair, 0, len(pairs)),
		byLabel: make(map[string]int, len(pairs)),
		byCode:  make(map[int64]int, len(pairs)),
	}
	for _, p := range pairs {
		if p.Label == "" {
			return nil, fmt.Errorf("%w: empty label for code %d", errs.ErrInvalidCodes, p.Code)
		}
		if _, dup := c.byLabel[p.Label]; dup {
			return nil, fmt.Errorf("%w: label %q mapped twice", errs.ErrInvalidCodes, p.Label)
		}
		if _, dup := c.byCode[p.Code]; dup {
			return nil, fmt.Errorf("%w: code %d mapped twice", errs.ErrInvalidCodes, p.Code)
		}
		c.byLabel[p.Label] = len(c.pairs)
		c.byCode[p.Code] = len(c.pairs)
		c.pairs = append(c.pairs, p)
	}
	c.fp = fingerprint(c.pairs)

	return c, nil
}

// MustCodes is like NewCodes but panics on error. It is meant for static
// declarations in tests and examples.
func MustCodes(pairs ...Pair) *Codes {
	c, err := NewCodes(pairs...)
	if err != nil {
		panic(err)
	}

	return c
}

// Len returns the number of pairs.
func (c *Codes) Len() int {
	return len(c.pairs)
}

// Pairs returns the pairs in declaration order.
func (c *Codes) Pairs() []Pair {
	return append([]Pair(nil), c.pairs...)
}

// Labels returns the labels in declaration order.
func (c *Codes) Labels() []string {
	out := make([]string, len(c.pairs))
	for i, p := range c.pairs {
		out[i] = p.Label
	}

	return out
}

// HasCode reports whether code is mapped.
func (c *Codes) HasCode(code int64) bool {
	_, ok := c.byCode[code]
	return ok
}

// HasLabel reports whether label is mapped.
func (c *Codes) HasLabel(label string) bool {
	_, ok := c.byLabel[label]
	return ok
}

// Decode returns the value for code, or an UnknownLevelError.
func (c *Codes) Decode(code int64) (Value, error) {
	i, ok := c.byCode[code]
	if !ok {
		return Value{}, errs.NewUnknownLevelError("", strconv.FormatInt(code, 10))
	}

	return Value{pair: c.pairs[i]}, nil
}

// Lookup returns the value for label, or an UnknownLevelError.
func (c *Codes) Lookup(label string) (Value, error) {
	i, ok := c.byLabel[label]
	if !ok {
		return Value{}, errs.NewUnknownLevelError("", label)
	}

	return Value{pair: c.pairs[i]}, nil
}

// Fingerprint returns an xxHash64 of the pairs in order, computed once at
// construction.
func (c *Codes) Fingerprint() uint64 {
	return c.fp
}

func fingerprint(pairs []Pair) uint64 {
	fp := hash.NewFingerprint()
	for _, p := range pairs {
		fp.String(p.Label).Int(p.Code).Sep()
	}

	return fp.Sum64()
}

// Equal reports whether c and other hold the same pairs in the same order.
// Differing fingerprints reject early; equal ones are confirmed pair by pair.
func (c *Codes) Equal(other *Codes) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c == other {
		return true
	}
	if c.fp != other.fp {
		return false
	}

	return slices.Equal(c.pairs, other.pairs)
}
