package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/compress"
	"github.com/arloliu/interlace/internal/options"
	"github.com/arloliu/interlace/internal/pool"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/table"
)

// Encode writes tbl to w as delimited text with a header row.
//
// Numbers are written with the fewest digits that parse back to the same
// float64, so a table without missing entries decodes to identical values.
// Coded factor values are written as codes unless WithCodedLabels is given.
// Absent entries are written as the token declared for their reason by
// WithReasonTokens, or as the missing token.
//
// The output is rendered and compressed in memory and handed to w in a
// single Write, so w never sees a partial table from a failed encode.
//
// Parameters:
//   - w: Destination of the rendered table
//   - tbl: Table to encode
//   - opts: Encoding options (missing token, reason tokens, compression, ...)
//
// Returns:
//   - error: Option, rendering, compression or write error
func Encode(w io.Writer, tbl *table.Table, opts ...EncodeOption) error {
	cfg := newEncodeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	buf := pool.GetTextBuffer()
	defer pool.PutTextBuffer(buf)

	cw := csv.NewWriter(buf)
	cw.Comma = cfg.delimiter

	if err := cw.Write(tbl.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cols := tbl.Columns()
	record := make([]string, len(cols))
	for i := range tbl.NumRows() {
		for j, col := range cols {
			record[j] = cfg.field(col, i)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	out, stats, err := compress.CompressLevel(cfg.compression, cfg.level, buf.Bytes())
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	cfg.logger.Info("table encoded",
		"rows", tbl.NumRows(),
		"columns", tbl.NumCols(),
		"compression", stats.Algorithm.String(),
		"level", stats.Level.String(),
		"bytes", stats.CompressedSize,
		"ratio", stats.Ratio(),
	)

	return nil
}

// field renders entry i of col.
func (c *encodeConfig) field(col interlaced.Column, i int) string {
	if col.IsMissing(i) {
		if c.reasonTokens != nil {
			if tok, ok := c.reasonTokens.TokenFor(col.ReasonForms(i)); ok {
				return tok
			}
		}

		return c.missingToken
	}

	v, _ := col.Interface(i)
	if cv, ok := v.(coded.Value); ok && !c.codedLabels {
		return strconv.FormatInt(cv.Code(), 10)
	}

	return interlaced.FormatElement(v, c.dateLayout)
}
