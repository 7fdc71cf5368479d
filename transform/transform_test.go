package transform

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/reason"
	"github.com/arloliu/interlace/table"
)

var yesNo = coded.MustCodes(coded.Pair{Label: "yes", Code: 1}, coded.Pair{Label: "no", Code: 2})

func surveyTable(t *testing.T) *table.Table {
	t.Helper()

	b := interlaced.NewCoded("q1", yesNo, 3)
	yes, err := yesNo.Lookup("yes")
	require.NoError(t, err)
	b.Append(yes).AppendMissing(reason.Code(-99)).Append(yes)
	q1, err := b.Build()
	require.NoError(t, err)

	q2, err := interlaced.CodedFromCodes("q2", yesNo, []int64{2, 2, 1})
	require.NoError(t, err)

	name := interlaced.Texts("name",
		interlaced.Present("ann"),
		interlaced.Absent[string](reason.Label("refused")),
		interlaced.Present("cy"),
	)
	age := interlaced.Numbers("age", interlaced.Present(30.0), interlaced.Present(40.0), interlaced.NA[float64]())

	return table.MustNew(name, q1, age, q2)
}

func TestMapValues_PassesAbsentThrough(t *testing.T) {
	v := interlaced.Texts("name", interlaced.Present("ann"), interlaced.Absent[string](reason.Label("refused")))

	out, err := MapValues(v, func(s string) (string, error) { return strings.ToUpper(s), nil })
	require.NoError(t, err)

	got, err := out.Value(0)
	require.NoError(t, err)
	require.Equal(t, "ANN", got)
	require.True(t, out.Match(1, reason.Missing(reason.Label("refused"))))
	require.Equal(t, v.NALevels(), out.NALevels())
}

func TestMapValues_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := MapValues(interlaced.Floats("x", 1), func(float64) (float64, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
}

func TestConvert(t *testing.T) {
	v := interlaced.Numbers("age", interlaced.Present(17.0), interlaced.Absent[float64](reason.Code(-99)))

	adult, err := Convert(v, func(f float64) (bool, error) { return f >= 18, nil })
	require.NoError(t, err)
	require.Equal(t, format.KindLogical, adult.Kind())
	got, err := adult.Value(0)
	require.NoError(t, err)
	require.False(t, got)
	require.True(t, adult.Match(1, reason.Missing(reason.Code(-99))))
}

func TestMapReasons(t *testing.T) {
	b := interlaced.NewBuilder[float64]("x", 3)
	b.AppendMissing(reason.Code(-99)).AppendMissing(reason.Code(-98)).Append(5)
	v, err := b.Build()
	require.NoError(t, err)

	out := MapReasons(v, Relabel(map[reason.Key]reason.Key{
		reason.Code(-99): reason.Label("skipped"),
	}))
	require.Equal(t, []reason.Key{reason.Label("skipped"), reason.Code(-98)}, out.NALevels())
	require.True(t, out.Match(0, reason.Missing(reason.Label("skipped"))))
	require.False(t, out.IsMissing(2))

	all := MapReasons(v, Collapse(reason.Label("nonresponse")))
	require.Equal(t, []reason.Key{reason.Label("nonresponse")}, all.NALevels())
	require.Equal(t, v.Absent().ToArray(), all.Absent().ToArray())
}

func TestAcross_CollapseCodedPreservesOrder(t *testing.T) {
	tbl := surveyTable(t)

	out, err := Across(context.Background(), tbl, table.IsCoded, CollapseCoded, WithConcurrency(1))
	require.NoError(t, err)

	require.Equal(t, tbl.Names(), out.Names())
	require.Equal(t, format.KindText, out.ColumnAt(0).Kind())
	require.Equal(t, format.KindNumber, out.ColumnAt(1).Kind())
	require.Equal(t, format.KindNumber, out.ColumnAt(3).Kind())

	q1 := out.ColumnAt(1).(*interlaced.Vector[float64])
	got, err := q1.Value(0)
	require.NoError(t, err)
	require.Equal(t, 1.0, got)
	require.True(t, q1.Match(1, reason.Missing(reason.Code(-99))))
}

func TestAcross_OnlySelectedColumnsRun(t *testing.T) {
	tbl := surveyTable(t)

	var calls atomic.Int32
	fn := func(_ context.Context, col interlaced.Column) (interlaced.Column, error) {
		calls.Add(1)
		return col, nil
	}

	_, err := Across(context.Background(), tbl, table.HasMissing, fn, WithConcurrency(0))
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestAcross_ReasonsFunc(t *testing.T) {
	tbl := surveyTable(t)

	out, err := Across(context.Background(), tbl, table.AnyColumn, ReasonsFunc(Collapse(reason.Label("nr"))))
	require.NoError(t, err)

	name, err := out.Column("name")
	require.NoError(t, err)
	require.True(t, name.Match(1, reason.Missing(reason.Label("nr"))))

	age, err := out.Column("age")
	require.NoError(t, err)
	_, ok := age.Reason(2)
	require.False(t, ok)
}

func TestAcross_ValuesFuncWrongKind(t *testing.T) {
	tbl := surveyTable(t)

	upper := ValuesFunc(func(s string) (string, error) { return strings.ToUpper(s), nil })

	out, err := Across(context.Background(), tbl, table.IsKind(format.KindText), upper)
	require.NoError(t, err)
	s, ok := out.ColumnAt(0).Format(0)
	require.True(t, ok)
	require.Equal(t, "ANN", s)

	_, err = Across(context.Background(), tbl, table.Named("age"), upper)
	require.ErrorIs(t, err, errs.ErrOperationNotSupported)
	require.Contains(t, err.Error(), `column "age"`)
}

func TestAcross_RejectsAbsentChanges(t *testing.T) {
	tbl := surveyTable(t)

	fill := func(_ context.Context, col interlaced.Column) (interlaced.Column, error) {
		return interlaced.Floats(col.Name(), 0, 0, 0), nil
	}

	_, err := Across(context.Background(), tbl, table.Named("age"), fill)
	require.ErrorIs(t, err, errs.ErrAbsentChanged)
}

func TestAcross_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Across(ctx, surveyTable(t), table.AnyColumn, CollapseCoded)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAcross_NilLogger(t *testing.T) {
	_, err := Across(context.Background(), surveyTable(t), table.AnyColumn, CollapseCoded, WithLogger(nil))
	require.Error(t, err)
}

func TestPromoteCoded(t *testing.T) {
	tbl := table.MustNew(interlaced.Numbers("q", interlaced.Present(1.0), interlaced.Absent[float64](reason.Code(-99))))

	out, err := Across(context.Background(), tbl, table.AnyColumn, PromoteCoded(yesNo))
	require.NoError(t, err)
	require.Equal(t, format.KindCoded, out.ColumnAt(0).Kind())

	_, err = Across(context.Background(), surveyTable(t), table.Named("name"), PromoteCoded(yesNo))
	require.ErrorIs(t, err, errs.ErrOperationNotSupported)
}
