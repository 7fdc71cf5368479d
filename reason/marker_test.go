package reason

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarker_Matches(t *testing.T) {
	r := New()
	skipped, err := r.Alias(Label("skipped"), Code(-99))
	require.NoError(t, err)
	refused := r.Register(Label("refused"))

	require.True(t, Missing(Label("skipped")).Matches(r, skipped, true))
	require.True(t, Missing(Code(-99)).Matches(r, skipped, true))
	require.False(t, Missing(Label("skipped")).Matches(r, refused, true))

	// unspecified reason matches every missing entry
	require.True(t, Missing().Matches(r, refused, true))
	require.True(t, Missing().Matches(r, None, true))
	require.False(t, Missing().Matches(r, None, false))

	// a named reason never matches a reason-less entry
	require.False(t, Missing(Label("skipped")).Matches(r, None, true))

	// unknown forms never match
	require.False(t, Missing(Label("other")).Matches(r, skipped, true))
}

func TestMarker_Resolve(t *testing.T) {
	r := New()
	o := r.Register(Label("refused"))

	got, ok := Missing(Code(1), Label("refused")).Resolve(r)
	require.True(t, ok)
	require.Equal(t, o, got)

	_, ok = Missing(Code(1)).Resolve(r)
	require.False(t, ok)
}

func TestMarker_String(t *testing.T) {
	require.Equal(t, "missing()", Missing().String())
	require.Equal(t, `missing("skipped", -99)`, Missing(Label("skipped"), Code(-99)).String())
	require.True(t, Missing().Any())
	require.Len(t, Missing(Code(1)).Forms(), 1)
}
