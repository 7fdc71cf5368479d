// Package ops dispatches arithmetic, aggregation and comparison over
// interlaced vectors, plain values and scalars.
//
// Every *interlaced.Vector[T] is an Operand. Dispatch is a type switch on the
// operand: numeric vectors, Scalar and Plain take part in arithmetic and
// aggregation; every other kind fails with an OperationNotSupportedError.
// Missing entries never reach an operator. An absent operand entry yields a
// reason-less absent result entry, and aggregation yields an absent result
// unless SkipAbsent is given.
//
//	sq, err := ops.Pow(height, ops.Scalar(2))
//	bmi, err := ops.Div(weight, sq)
//	mean, err := ops.Mean(bmi, ops.SkipAbsent())
package ops

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/interlaced"
)

// Operand is anything an operator accepts.
type Operand interface {
	Len() int
	Kind() format.Kind
}

// Scalar is a single number broadcast against vectors of any length.
type Scalar float64

// Len returns 1.
func (Scalar) Len() int { return 1 }

// Kind returns format.KindNumber.
func (Scalar) Kind() format.Kind { return format.KindNumber }

// Plain is an ordinary numeric slice with no missing entries.
type Plain []float64

// Len returns the number of values.
func (p Plain) Len() int { return len(p) }

// Kind returns format.KindNumber.
func (Plain) Kind() format.Kind { return format.KindNumber }

var (
	_ Operand = Scalar(0)
	_ Operand = Plain(nil)
	_ Operand = (*interlaced.Vector[float64])(nil)
)

// numeric is the read view every numeric operand is reduced to.
type numeric struct {
	name   string
	values []float64
	absent *roaring.Bitmap
}

func (n numeric) len() int {
	return len(n.values)
}

// at returns entry i, broadcasting length-1 operands.
func (n numeric) at(i int) (float64, bool) {
	if len(n.values) == 1 {
		i = 0
	}
	if n.absent.Contains(uint32(i)) { //nolint:gosec
		return 0, false
	}

	return n.values[i], true
}

// numericOf resolves x for the operation named op.
func numericOf(op string, x Operand) (numeric, error) {
	switch v := x.(type) {
	case Scalar:
		return numeric{values: []float64{float64(v)}, absent: roaring.New()}, nil
	case Plain:
		return numeric{values: v, absent: roaring.New()}, nil
	case *interlaced.Vector[float64]:
		values := make([]float64, v.Len())
		for i, f := range v.Present() {
			values[i] = f
		}

		return numeric{name: v.Name(), values: values, absent: v.Absent()}, nil
	case interlaced.Column:
		return numeric{}, errs.NewOperationNotSupportedError(op, v.Name(), v.Kind())
	default:
		return numeric{}, errs.NewOperationNotSupportedError(op, "", x.Kind())
	}
}
