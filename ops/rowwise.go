package ops

import (
	"fmt"

	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/internal/options"
	"github.com/arloliu/interlace/interlaced"
)

// RowReduce computes stat across cols for every row, returning one entry per
// row named name. Columns must be numeric and of equal length. Absent entries
// follow the same rule as Aggregate.
func RowReduce(name string, stat Stat, cols []interlaced.Column, opts ...AggOption) (*interlaced.Vector[float64], error) {
	cfg := &aggConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return interlaced.NewBuilder[float64](name, 0).Build()
	}

	views := make([]numeric, len(cols))
	for i, col := range cols {
		v, err := numericOf("row "+stat.String(), col)
		if err != nil {
			return nil, err
		}
		if i > 0 && v.len() != views[0].len() {
			return nil, fmt.Errorf("%w: column %q has %d rows, %q has %d",
				errs.ErrLengthMismatch, cols[i].Name(), v.len(), cols[0].Name(), views[0].len())
		}
		views[i] = v
	}

	rows := views[0].len()
	bld := interlaced.NewBuilder[float64](name, rows)
	row := make([]float64, 0, len(views))
	for r := range rows {
		row = row[:0]
		absent := false
		for _, v := range views {
			f, ok := v.at(r)
			if !ok {
				absent = true
				continue
			}
			row = append(row, f)
		}
		if absent && !cfg.skipAbsent {
			bld.AppendNA()
			continue
		}
		s, err := reduce(stat, row)
		if err != nil {
			return nil, err
		}
		bld.AppendSlot(s)
	}

	return bld.Build()
}

// RowMeans averages cols row by row.
func RowMeans(name string, cols []interlaced.Column, opts ...AggOption) (*interlaced.Vector[float64], error) {
	return RowReduce(name, StatMean, cols, opts...)
}

// RowSums adds cols row by row.
func RowSums(name string, cols []interlaced.Column, opts ...AggOption) (*interlaced.Vector[float64], error) {
	return RowReduce(name, StatSum, cols, opts...)
}
