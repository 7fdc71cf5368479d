package interlace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/compress"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/reason"
	"github.com/arloliu/interlace/tabular"
)

const survey = `id,age,q1
1,34,1
2,-99,2
3,NA,-99
4,41.5,1
`

var yesNo = coded.MustCodes(coded.Pair{Label: "yes", Code: 1}, coded.Pair{Label: "no", Code: 2})

func surveyTokens() *reason.TokenSet {
	return reason.DefaultTokens().Labelled("skipped", "-99")
}

func writeSurvey(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(survey), 0o600))

	return path
}

func TestCompressionFromPath(t *testing.T) {
	require.Equal(t, format.CompressionZstd, CompressionFromPath("a.csv.zst"))
	require.Equal(t, format.CompressionZstd, CompressionFromPath("a.csv.ZSTD"))
	require.Equal(t, format.CompressionS2, CompressionFromPath("a.s2"))
	require.Equal(t, format.CompressionLZ4, CompressionFromPath("a.lz4"))
	require.Equal(t, format.CompressionNone, CompressionFromPath("a.csv"))
	require.Equal(t, format.CompressionNone, CompressionFromPath("a"))
}

func TestReadWriteFile(t *testing.T) {
	path := writeSurvey(t)

	tbl, err := ReadFile(path, tabular.WithTokens(surveyTokens()), tabular.WithColumn("q1", interlaced.Coded(yesNo)))
	require.NoError(t, err)
	require.Equal(t, 4, tbl.NumRows())

	out := filepath.Join(t.TempDir(), "survey.csv.lz4")
	require.NoError(t, WriteFile(out, tbl, tabular.WithReasonTokens(surveyTokens())))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, compress.Detect(raw))

	back, err := ReadFile(out, tabular.WithTokens(surveyTokens()), tabular.WithColumn("q1", interlaced.Coded(yesNo)))
	require.NoError(t, err)
	q1, err := back.Column("q1")
	require.NoError(t, err)
	require.True(t, q1.Match(2, reason.Missing(reason.Label("skipped"))))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestWriteFile_OptionOverridesExtension(t *testing.T) {
	tbl, err := ReadFile(writeSurvey(t))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "survey.zst")
	require.NoError(t, WriteFile(out, tbl, tabular.WithEncodeCompression(format.CompressionNone)))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "id,age,q1\n"))
}

func TestSidecarRoundTrip(t *testing.T) {
	tbl, err := ReadFile(writeSurvey(t),
		tabular.WithTokens(surveyTokens()),
		tabular.WithColumn("q1", interlaced.Coded(yesNo)),
	)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "survey.csv.zst")
	require.NoError(t, WriteWithSidecar(out, tbl, surveyTokens()))
	require.FileExists(t, SidecarPath(out))

	back, err := ReadWithSidecar(out)
	require.NoError(t, err)
	require.Equal(t, tbl.Names(), back.Names())

	for j, col := range tbl.Columns() {
		got := back.ColumnAt(j)
		require.Equal(t, col.Kind(), got.Kind(), col.Name())
		for i := range col.Len() {
			wantKey, wantOK := col.Reason(i)
			gotKey, gotOK := got.Reason(i)
			require.Equal(t, col.IsMissing(i), got.IsMissing(i), "%s[%d]", col.Name(), i)
			require.Equal(t, wantOK, gotOK, "%s[%d]", col.Name(), i)
			require.Equal(t, wantKey, gotKey, "%s[%d]", col.Name(), i)
		}
	}
}

func TestReadWithSchema_MissingSchema(t *testing.T) {
	_, err := ReadWithSchema(writeSurvey(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
