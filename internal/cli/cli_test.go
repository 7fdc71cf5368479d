package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/interlace/compress"
	"github.com/arloliu/interlace/format"
)

const survey = `id,age,q1,comment
1,34,1,fine
2,-99,2,NA
3,NA,-99,REFUSED
4,41.5,1,ok
`

const surveySchema = `missing:
  tokens: [REFUSED]
  labels:
    - {label: skipped, token: "-99"}
columns:
  - name: q1
    kind: coded
    codes:
      - {label: "yes", code: 1}
      - {label: "no", code: 2}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return out.String(), logs.String(), err
}

// row returns the fields of the output line whose first field is first.
func row(out, first string) []string {
	for line := range strings.Lines(out) {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == first {
			return fields
		}
	}

	return nil
}

func TestInspect(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)

	out, logs, err := execute(t, "inspect", path, "--label", "skipped=-99", "--token", "REFUSED")
	require.NoError(t, err)
	require.Contains(t, out, "4 rows, 4 columns")
	require.Equal(t, []string{"age", "number", "2", "2", "skipped,REFUSED"}, row(out, "age"))
	require.Equal(t, []string{"q1", "number", "3", "1", "skipped,REFUSED"}, row(out, "q1"))
	require.Equal(t, []string{"comment", "text", "2", "2", "skipped,REFUSED"}, row(out, "comment"))
	require.Contains(t, logs, "Decoded 4 rows")
}

func TestInspect_Schema(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)
	schemaPath := writeFile(t, "survey.yaml", surveySchema)

	out, _, err := execute(t, "inspect", path, "--schema", schemaPath)
	require.NoError(t, err)
	require.Equal(t, []string{"q1", "coded", "3", "1", "skipped,REFUSED"}, row(out, "q1"))
}

func TestInspect_Errors(t *testing.T) {
	_, _, err := execute(t, "inspect", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	path := writeFile(t, "survey.csv", survey)
	_, _, err = execute(t, "inspect", path, "--label", "skipped")
	require.ErrorContains(t, err, "label=token")

	_, _, err = execute(t, "inspect", path, "--schema", "a.yaml", "--sidecar")
	require.ErrorContains(t, err, "mutually exclusive")

	_, _, err = execute(t, "inspect")
	require.Error(t, err)
}

func TestVerboseLogsLibrary(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)

	_, logs, err := execute(t, "inspect", path, "--verbose")
	require.NoError(t, err)
	require.Contains(t, logs, "column decoded")
	require.Contains(t, logs, "table decoded")
}

func TestConvert_SidecarRoundTrip(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)
	schemaPath := writeFile(t, "survey.yaml", surveySchema)
	dst := filepath.Join(t.TempDir(), "survey.csv.zst")

	out, _, err := execute(t, "convert", path, dst, "--schema", schemaPath, "--sidecar-out")
	require.NoError(t, err)
	require.Contains(t, out, "compression: Zstd")
	require.FileExists(t, dst+".schema.yaml")

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, compress.Detect(raw))

	out, _, err = execute(t, "inspect", dst, "--sidecar")
	require.NoError(t, err)
	require.Equal(t, []string{"q1", "coded", "3", "1", "skipped,REFUSED"}, row(out, "q1"))
	require.Equal(t, []string{"comment", "text", "2", "2", "skipped,REFUSED"}, row(out, "comment"))
}

func TestConvert_CompressionFlag(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)
	dst := filepath.Join(t.TempDir(), "survey.out")

	_, _, err := execute(t, "convert", path, dst, "--compression", "s2", "--level", "best")
	require.NoError(t, err)
	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, format.CompressionS2, compress.Detect(raw))

	_, _, err = execute(t, "convert", path, dst, "--compression", "brotli")
	require.ErrorContains(t, err, "brotli")

	_, _, err = execute(t, "convert", path, dst, "--level", "ultra")
	require.ErrorContains(t, err, "ultra")
}

func TestConvert_Collapse(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)
	dst := filepath.Join(t.TempDir(), "clean.csv")

	_, _, err := execute(t, "convert", path, dst,
		"--label", "skipped=-99", "--token", "REFUSED",
		"--collapse", "gone", "--sidecar-out",
	)
	require.NoError(t, err)

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Contains(t, string(raw), "2,gone,2,NA\n")
	require.Contains(t, string(raw), "3,NA,gone,gone\n")

	out, _, err := execute(t, "summarize", dst, "--sidecar", "--column", "comment")
	require.NoError(t, err)
	require.Equal(t, []string{"gone", "1"}, row(out, "gone"))
	require.Equal(t, []string{noReason, "1"}, row(out, noReason))
}

func TestSummarize_Numeric(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)

	out, _, err := execute(t, "summarize", path, "--column", "age", "--label", "skipped=-99", "--skip-absent")
	require.NoError(t, err)
	require.Contains(t, out, "age (number): 2 present, 2 missing")
	require.Equal(t, []string{"sum", "75.5"}, row(out, "sum"))
	require.Equal(t, []string{"mean", "37.75"}, row(out, "mean"))
	require.Equal(t, []string{"min", "34"}, row(out, "min"))
	require.Equal(t, []string{"max", "41.5"}, row(out, "max"))
	require.Equal(t, []string{"skipped", "1"}, row(out, "skipped"))
	require.Equal(t, []string{noReason, "1"}, row(out, noReason))

	out, _, err = execute(t, "summarize", path, "--column", "age", "--label", "skipped=-99", "--stat", "mean,median")
	require.NoError(t, err)
	require.Equal(t, []string{"mean", noValue}, row(out, "mean"))
	require.Equal(t, []string{"median", noValue}, row(out, "median"))
	require.Nil(t, row(out, "sum"))
}

func TestSummarize_Coded(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)
	schemaPath := writeFile(t, "survey.yaml", surveySchema)

	out, _, err := execute(t, "summarize", path, "--column", "q1", "--schema", schemaPath)
	require.NoError(t, err)
	require.Equal(t, []string{"yes", "2"}, row(out, "yes"))
	require.Equal(t, []string{"no", "1"}, row(out, "no"))
	require.Equal(t, []string{"skipped", "1"}, row(out, "skipped"))
}

func TestSummarize_Errors(t *testing.T) {
	path := writeFile(t, "survey.csv", survey)

	_, _, err := execute(t, "summarize", path)
	require.Error(t, err)

	_, _, err = execute(t, "summarize", path, "--column", "nope")
	require.Error(t, err)

	_, _, err = execute(t, "summarize", path, "--column", "age", "--stat", "mode")
	require.ErrorContains(t, err, "mode")
}

func TestSetVersion(t *testing.T) {
	SetVersion("v1.0.0", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "", "") })

	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	require.Contains(t, out, "interlace v1.0.0")
	require.Contains(t, out, "commit: abc123")
}
