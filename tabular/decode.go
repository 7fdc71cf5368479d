// Package tabular reads and writes tables of interlaced vectors as delimited
// text with a header row.
//
// Missing reasons travel out of band: a reason.TokenSet says which raw
// tokens mean a missing entry and which reason each one stands for. Decode
// resolves tokens into reasons; Encode writes reasons back through the same
// kind of set. Only the fact that an entry is missing is guaranteed to
// survive a round trip. Reasons survive when Decode and Encode are given
// symmetric token sets.
//
//	tokens := reason.DefaultTokens().Labelled("skipped", "-99").Bare("REFUSED")
//	tbl, err := tabular.Decode(r,
//	    tabular.WithTokens(tokens),
//	    tabular.WithColumn("q1", interlaced.Coded(yesNo)),
//	)
//	err = tabular.Encode(w, tbl, tabular.WithReasonTokens(tokens))
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/arloliu/interlace/compress"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/internal/names"
	"github.com/arloliu/interlace/internal/options"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/table"
)

// Decode reads a whole table from r.
//
// The first record is the header. Blank header names become X<position> and
// repeated names fail with errs.ErrDuplicateColumn. Every later record must
// have as many fields as the header, otherwise Decode fails with an
// errs.RowShapeError. Undeclared columns are inferred as number, then date,
// then text.
//
// Decode is atomic: on any error no table is returned.
//
// Parameters:
//   - r: Delimited text, optionally compressed (detected from the frame magic)
//   - opts: Decoding options (tokens, column declarations, delimiter, ...)
//
// Returns:
//   - *table.Table: One interlaced column per header field, in header order
//   - error: errs.RowShapeError, errs.ParseError, errs.UnknownLevelError or an option error
func Decode(r io.Reader, opts ...DecodeOption) (*table.Table, error) {
	cfg := newDecodeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if cfg.compression == 0 {
		cfg.compression = compress.Detect(data)
	}
	data, err = compress.Decompress(cfg.compression, data)
	if err != nil {
		return nil, err
	}

	header, fields, err := readRecords(data, cfg)
	if err != nil {
		return nil, err
	}

	for name := range cfg.decls {
		if !slices.Contains(header, name) {
			return nil, fmt.Errorf("%w: declared column %q is not in the header", errs.ErrColumnNotFound, name)
		}
	}

	cols := make([]interlaced.Column, len(header))
	for j, name := range header {
		decl := cfg.decls[name]
		if decl.Layout == "" {
			decl.Layout = cfg.dateLayout
		}
		col, err := interlaced.Parse(name, fields[j], decl, cfg.tokens)
		if err != nil {
			return nil, err
		}
		cols[j] = col
		cfg.logger.Debug("column decoded",
			"column", name,
			"kind", col.Kind().String(),
			"missing", col.MissingCount(),
			"na_levels", len(col.NALevels()),
		)
	}

	tbl, err := table.New(cols...)
	if err != nil {
		return nil, err
	}
	cfg.logger.Info("table decoded",
		"rows", tbl.NumRows(),
		"columns", tbl.NumCols(),
		"compression", cfg.compression.String(),
		"declared", slices.Sorted(maps.Keys(cfg.decls)),
	)

	return tbl, nil
}

// readRecords splits data into a header and one field slice per column.
func readRecords(data []byte, cfg *decodeConfig) ([]string, [][]string, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = cfg.delimiter
	cr.Comment = cfg.comment
	cr.FieldsPerRecord = -1

	raw, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: no header row", errs.ErrRowShape)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	tracker := names.NewTracker()
	header := make([]string, len(raw))
	for i, f := range raw {
		name, err := tracker.TrackHeader(f)
		if err != nil {
			return nil, nil, err
		}
		header[i] = name
	}

	fields := make([][]string, len(header))
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("data row %d: %w", row, err)
		}
		if len(rec) != len(header) {
			return nil, nil, &errs.RowShapeError{Row: row, Want: len(header), Got: len(rec)}
		}
		for j, f := range rec {
			fields[j] = append(fields[j], f)
		}
	}

	return header, fields, nil
}
