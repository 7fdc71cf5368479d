package ops

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/reason"
)

func TestIsMissing(t *testing.T) {
	v := withSkipped()

	require.Equal(t, Mask{false, true, false}, IsMissing(v))
	require.Equal(t, Mask{true, false, true}, IsPresent(v))
}

func TestEq_Marker(t *testing.T) {
	b := interlaced.NewBuilder[float64]("x", 4)
	b.Append(1)
	require.NoError(t, b.AppendMarker(reason.Missing(reason.Label("skipped"), reason.Code(-99))))
	b.AppendMissing(reason.Label("refused"))
	b.AppendNA()
	v, err := b.Build()
	require.NoError(t, err)

	m, err := Eq(v, reason.Missing(reason.Label("skipped")))
	require.NoError(t, err)
	require.Equal(t, Mask{false, true, false, false}, m)

	m, err = Eq(v, reason.Missing(reason.Code(-99)))
	require.NoError(t, err)
	require.Equal(t, Mask{false, true, false, false}, m)

	m, err = Eq(v, reason.Missing())
	require.NoError(t, err)
	require.Equal(t, Mask{false, true, true, true}, m)

	m, err = Ne(v, reason.Missing(reason.Label("refused")))
	require.NoError(t, err)
	require.Equal(t, Mask{true, true, false, true}, m)

	_, err = Lt(v, reason.Missing())
	require.ErrorIs(t, err, errs.ErrType)
}

func TestCompare_AbsentNeverEqual(t *testing.T) {
	v := withSkipped()

	m, err := Eq(v, 1)
	require.NoError(t, err)
	require.Equal(t, Mask{true, false, false}, m)

	m, err = Ne(v, 1)
	require.NoError(t, err)
	require.Equal(t, Mask{false, false, true}, m)

	m, err = Ge(v, 0.0)
	require.NoError(t, err)
	require.Equal(t, Mask{true, false, true}, m)

	m, err = Lt(v, Scalar(3))
	require.NoError(t, err)
	require.Equal(t, Mask{true, false, false}, m)
}

func TestCompare_Kinds(t *testing.T) {
	txt := interlaced.Texts("t", interlaced.Present("b"), interlaced.Present("a"))
	m, err := Gt(txt, "a")
	require.NoError(t, err)
	require.Equal(t, Mask{true, false}, m)

	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := interlaced.Dates("d", interlaced.Present(d1), interlaced.Present(d1.AddDate(0, 1, 0)))
	m, err = Le(dates, d1)
	require.NoError(t, err)
	require.Equal(t, Mask{true, false}, m)

	flags := interlaced.Logicals("f", interlaced.Present(true), interlaced.Present(false))
	m, err = Eq(flags, true)
	require.NoError(t, err)
	require.Equal(t, Mask{true, false}, m)

	_, err = Lt(flags, true)
	require.ErrorIs(t, err, errs.ErrOperationNotSupported)

	_, err = Eq(txt, 1)
	require.ErrorIs(t, err, errs.ErrType)
}

func TestCompare_NaN(t *testing.T) {
	v := interlaced.Numbers("x",
		interlaced.Present(math.NaN()),
		interlaced.Present(1.0),
		interlaced.NA[float64](),
	)

	eq, err := Eq(v, 1.0)
	require.NoError(t, err)
	require.Equal(t, Mask{false, true, false}, eq)

	ne, err := Ne(v, 1.0)
	require.NoError(t, err)
	require.Equal(t, Mask{true, false, false}, ne)

	ne, err = Ne(v, math.NaN())
	require.NoError(t, err)
	require.Equal(t, Mask{true, true, false}, ne)

	lt, err := Lt(v, 2.0)
	require.NoError(t, err)
	require.Equal(t, Mask{false, true, false}, lt)
}

func TestCompare_Coded(t *testing.T) {
	codes := coded.MustCodes(coded.Pair{Label: "yes", Code: 1}, coded.Pair{Label: "no", Code: 2})
	bld := interlaced.NewCoded("q", codes, 3)
	yes, err := codes.Lookup("yes")
	require.NoError(t, err)
	no, err := codes.Lookup("no")
	require.NoError(t, err)
	bld.Append(yes).Append(no).AppendMissing(reason.Code(-99))
	q, err := bld.Build()
	require.NoError(t, err)

	byLabel, err := Eq(q, "yes")
	require.NoError(t, err)
	require.Equal(t, Mask{true, false, false}, byLabel)

	byCode, err := Eq(q, int64(1))
	require.NoError(t, err)
	require.Equal(t, byLabel, byCode)

	byValue, err := Ne(q, yes)
	require.NoError(t, err)
	require.Equal(t, Mask{false, true, false}, byValue)

	_, err = Eq(q, "maybe")
	require.ErrorIs(t, err, errs.ErrUnknownLevel)

	_, err = Gt(q, "yes")
	require.ErrorIs(t, err, errs.ErrOperationNotSupported)
}

func TestMask_Ops(t *testing.T) {
	a := Mask{true, true, false}
	b := Mask{true, false, false}

	require.Equal(t, Mask{true, false, false}, a.And(b))
	require.Equal(t, Mask{true, true, false}, a.Or(b))
	require.Equal(t, Mask{false, false, true}, a.Not())
	require.Equal(t, 2, a.Count())
	require.Equal(t, []int{0, 1}, a.Indices())
}
