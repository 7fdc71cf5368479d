package interlaced

import (
	"math"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
)

// NewCoded creates a builder for a coded factor column over codes.
func NewCoded(name string, codes *coded.Codes, capacity int) *Builder[coded.Value] {
	return NewBuilder[coded.Value](name, capacity).WithCodes(codes)
}

// CodedFromCodes builds a coded factor vector with no missing entries from raw codes.
func CodedFromCodes(name string, codes *coded.Codes, raw []int64) (*Vector[coded.Value], error) {
	values, err := coded.FromCodes(codes, raw, name)
	if err != nil {
		return nil, err
	}

	return codedFromValues(name, codes, values)
}

// CodedFromLabels builds a coded factor vector with no missing entries from labels.
func CodedFromLabels(name string, codes *coded.Codes, labels []string) (*Vector[coded.Value], error) {
	values, err := coded.FromLabels(codes, labels, name)
	if err != nil {
		return nil, err
	}

	return codedFromValues(name, codes, values)
}

func codedFromValues(name string, codes *coded.Codes, values []coded.Value) (*Vector[coded.Value], error) {
	b := NewCoded(name, codes, len(values))
	for _, v := range values {
		b.Append(v)
	}

	return b.Build()
}

// AsCodes narrows a coded factor vector to a numeric vector of its codes.
// The reason channel is kept as is; the code map is dropped.
func AsCodes(v *Vector[coded.Value]) *Vector[float64] {
	out := &Vector[float64]{
		name:     v.name,
		values:   make([]float64, len(v.values)),
		reasons:  append(v.reasons[:0:0], v.reasons...),
		absent:   v.absent.Clone(),
		registry: v.registry.Clone(),
	}
	for i, val := range v.values {
		if !v.IsMissing(i) {
			out.values[i] = float64(val.Code())
		}
	}

	return out
}

// Promote interprets the present values of a numeric vector as codes of
// codes. Non-integral values fail with a ParseError and unknown codes with an
// UnknownLevelError. The reason channel is kept as is.
func Promote(v *Vector[float64], codes *coded.Codes) (*Vector[coded.Value], error) {
	out := &Vector[coded.Value]{
		name:     v.name,
		values:   make([]coded.Value, len(v.values)),
		reasons:  append(v.reasons[:0:0], v.reasons...),
		absent:   v.absent.Clone(),
		registry: v.registry.Clone(),
		codes:    codes,
	}
	for i, f := range v.values {
		if v.IsMissing(i) {
			continue
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, errs.NewParseError(v.name, i+1, FormatNumber(f), format.KindCoded, nil)
		}
		cv, err := codes.Decode(int64(f))
		if err != nil {
			return nil, coded.WithColumn(err, v.name)
		}
		out.values[i] = cv
	}

	return out, nil
}
