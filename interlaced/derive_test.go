package interlaced

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
)

func TestVector_ReplaceKeepsKind(t *testing.T) {
	v := Floats("score", 1, 2, 3)

	out, err := v.Replace(1, reason.Missing(reason.Label("refused")))
	require.NoError(t, err)

	require.Equal(t, format.KindNumber, out.Kind())
	require.True(t, out.IsMissing(1))
	require.True(t, out.Match(1, reason.Missing(reason.Label("refused"))))
	require.Equal(t, []reason.Key{reason.Label("refused")}, out.NALevels())

	// the source vector is untouched
	require.False(t, v.IsMissing(1))
	require.Empty(t, v.NALevels())

	_, err = v.Replace(3, reason.Missing())
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestVector_ReplaceWithAnyIsPlainNA(t *testing.T) {
	out, err := Floats("x", 1).Replace(0, reason.Missing())
	require.NoError(t, err)

	require.True(t, out.IsMissing(0))
	_, ok := out.Reason(0)
	require.False(t, ok)
}

func TestVector_ReplaceWhere(t *testing.T) {
	v := Floats("x", -99, 5, -99)

	out, err := v.ReplaceWhere([]bool{true, false, true}, reason.Missing(reason.Code(-99)))
	require.NoError(t, err)
	require.Equal(t, 2, out.MissingCount())
	require.True(t, out.Match(2, reason.Missing(reason.Code(-99))))

	_, err = v.ReplaceWhere([]bool{true}, reason.Missing())
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestVector_Set(t *testing.T) {
	v := sampleAges(t)

	out, err := v.Set(1, 50)
	require.NoError(t, err)
	require.False(t, out.IsMissing(1))
	got, err := out.Value(1)
	require.NoError(t, err)
	require.Equal(t, 50.0, got)

	// the reason stays registered
	require.Equal(t, v.NALevels(), out.NALevels())
	require.True(t, v.IsMissing(1))
}

func TestVector_SetCodedRejectsForeignValue(t *testing.T) {
	codes := coded.MustCodes(coded.Pair{Label: "yes", Code: 1})
	v, err := CodedFromCodes("q", codes, []int64{1})
	require.NoError(t, err)

	foreign, err := coded.MustCodes(coded.Pair{Label: "no", Code: 2}).Decode(2)
	require.NoError(t, err)

	_, err = v.Set(0, foreign)
	require.ErrorIs(t, err, errs.ErrUnknownLevel)
}

func TestVector_SubsetAndFilter(t *testing.T) {
	v := sampleAges(t)

	sub, err := v.Subset([]int{3, 0, 3})
	require.NoError(t, err)
	require.Equal(t, 3, sub.Len())
	require.True(t, sub.Match(0, reason.Missing(reason.Label("refused"))))
	require.False(t, sub.IsMissing(1))
	require.True(t, sub.Match(2, reason.Missing(reason.Label("refused"))))
	require.Equal(t, v.NALevels(), sub.NALevels())

	_, err = v.Subset([]int{-1})
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	f, err := v.Filter([]bool{true, true, false, false, true})
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())
	require.Equal(t, 1, f.MissingCount())
	require.True(t, f.Match(1, reason.Missing(reason.Code(-99))))

	_, err = v.Filter([]bool{true})
	require.ErrorIs(t, err, errs.ErrLengthMismatch)

	col, err := v.Take([]int{4})
	require.NoError(t, err)
	require.Equal(t, 1, col.Len())
}

func TestVector_ConcatMergesRegistries(t *testing.T) {
	a := NewBuilder[float64]("x", 2)
	a.AppendMissing(reason.Label("refused"))
	a.Append(1)
	left, err := a.Build()
	require.NoError(t, err)

	b := NewBuilder[float64]("x", 2)
	b.AppendMissing(reason.Label("skipped"))
	b.AppendMissing(reason.Label("refused"))
	right, err := b.Build()
	require.NoError(t, err)

	out, err := left.Concat(right)
	require.NoError(t, err)

	require.Equal(t, 4, out.Len())
	require.Equal(t, []reason.Key{reason.Label("refused"), reason.Label("skipped")}, out.NALevels())
	require.True(t, out.Match(2, reason.Missing(reason.Label("skipped"))))
	require.True(t, out.Match(3, reason.Missing(reason.Label("refused"))))
	require.Equal(t, out.Ordinal(0), out.Ordinal(3))
}

func TestVector_ConcatCodedNeedsEqualCodes(t *testing.T) {
	c1 := coded.MustCodes(coded.Pair{Label: "yes", Code: 1})
	c2 := coded.MustCodes(coded.Pair{Label: "yes", Code: 9})

	a, err := CodedFromCodes("q", c1, []int64{1})
	require.NoError(t, err)
	b, err := CodedFromCodes("q", c2, []int64{9})
	require.NoError(t, err)

	_, err = a.Concat(b)
	require.ErrorIs(t, err, errs.ErrInvalidCodes)

	same, err := a.Concat(a)
	require.NoError(t, err)
	require.Equal(t, 2, same.Len())
}

func TestVector_WithReasons(t *testing.T) {
	v := sampleAges(t)

	// collapse every reason onto one label
	out := v.WithReasons(func(reason.Key) reason.Key { return reason.Label("nonresponse") })
	require.Equal(t, []reason.Key{reason.Label("nonresponse")}, out.NALevels())
	require.True(t, out.Match(1, reason.Missing(reason.Label("nonresponse"))))
	require.True(t, out.Match(3, reason.Missing(reason.Label("nonresponse"))))
	require.Equal(t, v.Absent().ToArray(), out.Absent().ToArray())

	got, err := out.Value(4)
	require.NoError(t, err)
	require.Equal(t, 41.5, got)

	// identity keeps aliases
	same := v.WithReasons(func(k reason.Key) reason.Key { return k })
	require.True(t, same.Match(1, reason.Missing(reason.Code(-99))))

	// zero key drops the reason but not the absence
	dropped := v.WithReasons(func(k reason.Key) reason.Key {
		if k == reason.Label("refused") {
			return reason.Key{}
		}
		return k
	})
	require.True(t, dropped.IsMissing(3))
	_, ok := dropped.Reason(3)
	require.False(t, ok)
	require.Equal(t, []reason.Key{reason.Label("skipped")}, dropped.NALevels())

	require.Equal(t, format.KindNumber, v.MapReasons(func(k reason.Key) reason.Key { return k }).Kind())
}

func TestMap(t *testing.T) {
	v := Texts("name", Present("ann"), Absent[string](reason.Label("refused")))

	up, err := Map(v, func(s string) (string, error) { return strings.ToUpper(s), nil })
	require.NoError(t, err)
	got, err := up.Value(0)
	require.NoError(t, err)
	require.Equal(t, "ANN", got)
	require.True(t, up.Match(1, reason.Missing(reason.Label("refused"))))

	n, err := Map(v, func(s string) (float64, error) { return float64(len(s)), nil })
	require.NoError(t, err)
	require.Equal(t, format.KindNumber, n.Kind())

	_, err = Map(v, func(string) (coded.Value, error) { return coded.Value{}, nil })
	require.ErrorIs(t, err, errs.ErrOperationNotSupported)
}

func TestCoded_NarrowAndPromote(t *testing.T) {
	codes := coded.MustCodes(coded.Pair{Label: "yes", Code: 1}, coded.Pair{Label: "no", Code: 2})

	b := NewCoded("q", codes, 3)
	yes, err := codes.Lookup("yes")
	require.NoError(t, err)
	b.Append(yes)
	b.AppendMissing(reason.Code(-99))
	no, err := codes.Decode(2)
	require.NoError(t, err)
	b.Append(no)
	v, err := b.Build()
	require.NoError(t, err)

	n := AsCodes(v)
	require.Equal(t, format.KindNumber, n.Kind())
	require.Nil(t, n.Codes())
	got, err := n.Value(2)
	require.NoError(t, err)
	require.Equal(t, 2.0, got)
	require.True(t, n.Match(1, reason.Missing(reason.Code(-99))))

	back, err := Promote(n, codes)
	require.NoError(t, err)
	cv, err := back.Value(0)
	require.NoError(t, err)
	require.Equal(t, "yes", cv.Label())
	require.True(t, back.Match(1, reason.Missing(reason.Code(-99))))

	_, err = Promote(Floats("q", 1.5), codes)
	require.ErrorIs(t, err, errs.ErrParse)

	_, err = Promote(Floats("q", 7), codes)
	require.ErrorIs(t, err, errs.ErrUnknownLevel)
}

func TestCodedFromLabels(t *testing.T) {
	codes := coded.MustCodes(coded.Pair{Label: "f", Code: 1}, coded.Pair{Label: "m", Code: 2})

	v, err := CodedFromLabels("sex", codes, []string{"m", "f"})
	require.NoError(t, err)
	s, ok := v.Format(0)
	require.True(t, ok)
	require.Equal(t, "m", s)

	_, err = CodedFromLabels("sex", codes, []string{"x"})
	require.ErrorIs(t, err, errs.ErrUnknownLevel)
}
