package ops

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/interlaced"
)

// Op is a binary arithmetic operator.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpPow
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "subtract"
	case OpMul:
		return "multiply"
	case OpDiv:
		return "divide"
	case OpPow:
		return "power"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

func (o Op) apply(a, b float64) float64 {
	switch o {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpPow:
		return math.Pow(a, b)
	default:
		return math.NaN()
	}
}

// Add returns a + b elementwise.
func Add(a, b Operand) (*interlaced.Vector[float64], error) { return Arith(OpAdd, a, b) }

// Sub returns a - b elementwise.
func Sub(a, b Operand) (*interlaced.Vector[float64], error) { return Arith(OpSub, a, b) }

// Mul returns a * b elementwise.
func Mul(a, b Operand) (*interlaced.Vector[float64], error) { return Arith(OpMul, a, b) }

// Div returns a / b elementwise. Division by zero follows IEEE 754.
func Div(a, b Operand) (*interlaced.Vector[float64], error) { return Arith(OpDiv, a, b) }

// Pow returns a ** b elementwise.
func Pow(a, b Operand) (*interlaced.Vector[float64], error) { return Arith(OpPow, a, b) }

// Arith applies op elementwise. Operands must both be numeric and have equal
// lengths, or one of them length 1. A result entry is absent, without a
// reason, when either input entry is absent. The result takes the name of
// the first named operand.
func Arith(op Op, a, b Operand) (*interlaced.Vector[float64], error) {
	x, err := numericOf(op.String(), a)
	if err != nil {
		return nil, err
	}
	y, err := numericOf(op.String(), b)
	if err != nil {
		return nil, err
	}

	n, err := broadcastLen(x, y)
	if err != nil {
		return nil, err
	}

	absent := roaring.Or(spread(x.absent, x.len(), n), spread(y.absent, y.len(), n))

	name := x.name
	if name == "" {
		name = y.name
	}
	bld := interlaced.NewBuilder[float64](name, n)
	for i := range n {
		if absent.Contains(uint32(i)) { //nolint:gosec
			bld.AppendNA()
			continue
		}
		av, _ := x.at(i)
		bv, _ := y.at(i)
		bld.Append(op.apply(av, bv))
	}

	return bld.Build()
}

// Apply applies f to every present entry of x: ops.Apply(v, math.Log).
func Apply(x Operand, f func(float64) float64) (*interlaced.Vector[float64], error) {
	v, err := numericOf("apply", x)
	if err != nil {
		return nil, err
	}

	bld := interlaced.NewBuilder[float64](v.name, v.len())
	for i := range v.len() {
		if f64, ok := v.at(i); ok {
			bld.Append(f(f64))
		} else {
			bld.AppendNA()
		}
	}

	return bld.Build()
}

func broadcastLen(x, y numeric) (int, error) {
	switch {
	case x.len() == y.len():
		return x.len(), nil
	case x.len() == 1:
		return y.len(), nil
	case y.len() == 1:
		return x.len(), nil
	default:
		return 0, fmt.Errorf("%w: %d and %d", errs.ErrLengthMismatch, x.len(), y.len())
	}
}

// spread widens the absent set of a length-1 operand to n entries.
func spread(absent *roaring.Bitmap, length, n int) *roaring.Bitmap {
	if length != 1 || n == 1 {
		return absent
	}
	out := roaring.New()
	if absent.Contains(0) {
		out.AddRange(0, uint64(n)) //nolint:gosec
	}

	return out
}
