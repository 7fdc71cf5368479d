package ops

import (
	"cmp"
	"fmt"
	"math"
	"time"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/reason"
)

// Mask is the boolean result of a predicate, one entry per row.
type Mask []bool

// And returns m && o elementwise.
func (m Mask) And(o Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && i < len(o) && o[i]
	}

	return out
}

// Or returns m || o elementwise.
func (m Mask) Or(o Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] || (i < len(o) && o[i])
	}

	return out
}

// Not returns !m.
func (m Mask) Not() Mask {
	out := make(Mask, len(m))
	for i, b := range m {
		out[i] = !b
	}

	return out
}

// Count returns the number of true entries.
func (m Mask) Count() int {
	n := 0
	for _, b := range m {
		if b {
			n++
		}
	}

	return n
}

// Indices returns the positions of true entries.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i, b := range m {
		if b {
			out = append(out, i)
		}
	}

	return out
}

// IsMissing is true for every absent entry, whether or not it has a reason.
func IsMissing(col interlaced.Column) Mask {
	out := make(Mask, col.Len())
	it := col.Absent().Iterator()
	for it.HasNext() {
		out[it.Next()] = true
	}

	return out
}

// IsPresent is the complement of IsMissing.
func IsPresent(col interlaced.Column) Mask {
	return IsMissing(col).Not()
}

// cmpOp is a comparison operator.
type cmpOp uint8

const (
	cmpEq cmpOp = iota + 1
	cmpNe
	cmpLt
	cmpLe
	cmpGt
	cmpGe
)

func (o cmpOp) String() string {
	return [...]string{"", "==", "!=", "<", "<=", ">", ">="}[o]
}

func (o cmpOp) ordered() bool {
	return o != cmpEq && o != cmpNe
}

func (o cmpOp) test(c int) bool {
	switch o {
	case cmpEq:
		return c == 0
	case cmpNe:
		return c != 0
	case cmpLt:
		return c < 0
	case cmpLe:
		return c <= 0
	case cmpGt:
		return c > 0
	case cmpGe:
		return c >= 0
	default:
		return false
	}
}

// Eq compares every entry of col with x.
//
// x may be a reason.Marker, which tests the reason channel, or a value of
// the column's type. Numeric columns also accept Go integers, and coded
// columns accept a coded.Value, a label string or an integer code. Absent
// entries are never equal to a concrete value.
func Eq(col interlaced.Column, x any) (Mask, error) { return compare(cmpEq, col, x) }

// Ne is the negation of Eq for present entries, so a present NaN is unequal
// to every number. Absent entries are false against concrete values and true
// against a marker they do not match.
func Ne(col interlaced.Column, x any) (Mask, error) { return compare(cmpNe, col, x) }

// Lt compares ordered columns: numbers, dates and text.
func Lt(col interlaced.Column, x any) (Mask, error) { return compare(cmpLt, col, x) }

// Le compares ordered columns: numbers, dates and text.
func Le(col interlaced.Column, x any) (Mask, error) { return compare(cmpLe, col, x) }

// Gt compares ordered columns: numbers, dates and text.
func Gt(col interlaced.Column, x any) (Mask, error) { return compare(cmpGt, col, x) }

// Ge compares ordered columns: numbers, dates and text.
func Ge(col interlaced.Column, x any) (Mask, error) { return compare(cmpGe, col, x) }

func compare(op cmpOp, col interlaced.Column, x any) (Mask, error) {
	if m, ok := x.(reason.Marker); ok {
		return compareMarker(op, col, m)
	}
	if op.ordered() && !col.Kind().IsOrdered() {
		return nil, errs.NewOperationNotSupportedError("comparison "+op.String(), col.Name(), col.Kind())
	}

	switch v := col.(type) {
	case *interlaced.Vector[float64]:
		f, ok := asFloat(x)
		if !ok {
			return nil, mismatch(col, x)
		}

		return compareWith(op, v, f, compareFloat), nil
	case *interlaced.Vector[string]:
		s, ok := x.(string)
		if !ok {
			return nil, mismatch(col, x)
		}

		return compareWith(op, v, s, cmp.Compare[string]), nil
	case *interlaced.Vector[time.Time]:
		t, ok := x.(time.Time)
		if !ok {
			return nil, mismatch(col, x)
		}

		return compareWith(op, v, t, time.Time.Compare), nil
	case *interlaced.Vector[bool]:
		b, ok := x.(bool)
		if !ok {
			return nil, mismatch(col, x)
		}

		return compareWith(op, v, b, compareBool), nil
	case *interlaced.Vector[coded.Value]:
		cv, err := codedOperand(v, x)
		if err != nil {
			return nil, err
		}

		return compareWith(op, v, cv, compareCoded), nil
	default:
		return nil, errs.NewOperationNotSupportedError("comparison", col.Name(), col.Kind())
	}
}

func compareMarker(op cmpOp, col interlaced.Column, m reason.Marker) (Mask, error) {
	if op != cmpEq && op != cmpNe {
		return nil, errs.NewTypeError(col.Name(), -1, fmt.Sprintf("cannot order against %s", m))
	}

	out := make(Mask, col.Len())
	for i := range out {
		out[i] = col.Match(i, m) == (op == cmpEq)
	}

	return out, nil
}

// compareWith evaluates op for present entries. NaN is unequal to
// everything and fails every other operator.
func compareWith[T interlaced.Element](op cmpOp, v *interlaced.Vector[T], x T, cmpFn func(a, b T) int) Mask {
	out := make(Mask, v.Len())
	for i, val := range v.Present() {
		c := cmpFn(val, x)
		if c == incomparable {
			out[i] = op == cmpNe
			continue
		}
		out[i] = op.test(c)
	}

	return out
}

// incomparable is returned by compareFloat when either side is NaN.
const incomparable = math.MinInt

func compareFloat(a, b float64) int {
	if math.IsNaN(a) || math.IsNaN(b) {
		return incomparable
	}

	return cmp.Compare(a, b)
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}

	return 1
}

// compareCoded tests equality by label.
func compareCoded(a, b coded.Value) int {
	if a.Equal(b) {
		return 0
	}

	return 1
}

func asFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case Scalar:
		return float64(n), true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// codedOperand resolves x against the column's code map.
func codedOperand(v *interlaced.Vector[coded.Value], x any) (coded.Value, error) {
	codes := v.Codes()
	var (
		cv  coded.Value
		err error
	)
	switch k := x.(type) {
	case coded.Value:
		cv, err = codes.Lookup(k.Label())
	case string:
		cv, err = codes.Lookup(k)
	case int:
		cv, err = codes.Decode(int64(k))
	case int64:
		cv, err = codes.Decode(k)
	default:
		return coded.Value{}, mismatch(v, x)
	}
	if err != nil {
		return coded.Value{}, coded.WithColumn(err, v.Name())
	}

	return cv, nil
}

func mismatch(col interlaced.Column, x any) error {
	return errs.NewTypeError(col.Name(), -1, fmt.Sprintf("cannot compare %s column with %T", col.Kind(), x))
}
