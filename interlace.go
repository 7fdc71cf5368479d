// Package interlace stores survey data in which a value can be missing for a
// recorded reason.
//
// An interlaced vector carries two channels: the values, and for each
// absent entry either a reason (a label such as "refused", a code such as
// -99, or both) or nothing at all. Arithmetic and aggregation see only the
// values channel and treat every absent entry as missing; code that cares
// why a value is missing asks the reasons channel.
//
// # Core Features
//
//   - Typed vectors of numbers, dates, text, logicals and coded factors
//   - Missing reasons registered per vector, with label and code forms
//   - Arithmetic, comparison and aggregation over the values channel
//   - Channel transforms run concurrently across table columns
//   - Delimited text codec with declarative missing tokens
//   - Optional compression (Zstd, S2, LZ4)
//   - YAML and TOML schemas, and sidecars that round-trip reasons
//
// # Basic Usage
//
// Reading a survey export:
//
//	tokens := reason.DefaultTokens().Labelled("skipped", "-99").Bare("REFUSED")
//	tbl, _ := interlace.ReadFile("survey.csv",
//	    tabular.WithTokens(tokens),
//	    tabular.WithColumn("q1", interlaced.Coded(yesNo)),
//	)
//
//	age, _ := tbl.Column("age")
//	mean, _ := ops.Mean(age, ops.SkipAbsent())
//
// Writing it back with a sidecar schema so the reasons survive:
//
//	_ = interlace.WriteWithSidecar("survey.csv.zst", tbl, tokens)
//	back, _ := interlace.ReadWithSidecar("survey.csv.zst")
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the interlaced,
// tabular and schema packages. For fine-grained control use those packages
// directly.
package interlace

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
	"github.com/arloliu/interlace/schema"
	"github.com/arloliu/interlace/table"
	"github.com/arloliu/interlace/tabular"
)

// SidecarSuffix is appended to a data file's path to name its sidecar schema.
const SidecarSuffix = ".schema.yaml"

var compressionExts = map[string]format.CompressionType{
	".zst":  format.CompressionZstd,
	".zstd": format.CompressionZstd,
	".s2":   format.CompressionS2,
	".lz4":  format.CompressionLZ4,
}

// CompressionFromPath returns the compression implied by the extension of
// path, CompressionNone when it names none.
func CompressionFromPath(path string) format.CompressionType {
	if ct, ok := compressionExts[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}

	return format.CompressionNone
}

// SidecarPath returns the path of the sidecar schema of the data file at path.
func SidecarPath(path string) string {
	return path + SidecarSuffix
}

// ReadFile decodes the table stored at path. Compression is detected from
// the file contents.
func ReadFile(path string, opts ...tabular.DecodeOption) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	return tabular.Decode(f, opts...)
}

// WriteFile encodes tbl to path, compressed as the extension of path
// implies. Options given later override the implied compression.
//
// The file is written only after the table has been fully encoded.
func WriteFile(path string, tbl *table.Table, opts ...tabular.EncodeOption) error {
	all := append([]tabular.EncodeOption{tabular.WithEncodeCompression(CompressionFromPath(path))}, opts...)

	var buf bytes.Buffer
	if err := tabular.Encode(&buf, tbl, all...); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644) //nolint:gosec
}

// ReadWithSchema decodes the table at path as described by the schema file
// at schemaPath.
func ReadWithSchema(path, schemaPath string) (*table.Table, error) {
	s, err := schema.Load(schemaPath)
	if err != nil {
		return nil, err
	}
	opts, err := s.DecodeOptions()
	if err != nil {
		return nil, err
	}

	return ReadFile(path, opts...)
}

// WriteWithSidecar encodes tbl to path and describes it in a sidecar schema
// at SidecarPath(path). Reasons are written through tokens, nil meaning
// reason.DefaultTokens, and every reason without a token is written as its
// own canonical form.
func WriteWithSidecar(path string, tbl *table.Table, tokens *reason.TokenSet) error {
	s := schema.FromTable(tbl, tokens)
	if ct := CompressionFromPath(path); ct != format.CompressionNone {
		s.Compression = strings.ToLower(ct.String())
	}

	opts, err := s.EncodeOptions()
	if err != nil {
		return err
	}
	if err := WriteFile(path, tbl, opts...); err != nil {
		return err
	}

	return s.Save(SidecarPath(path))
}

// ReadWithSidecar decodes the table at path with the sidecar schema written
// next to it by WriteWithSidecar.
func ReadWithSidecar(path string) (*table.Table, error) {
	return ReadWithSchema(path, SidecarPath(path))
}
