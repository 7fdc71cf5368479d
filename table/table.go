// Package table holds an ordered set of equally long, uniquely named columns.
//
// A Table is the unit the tabular codec reads and writes and the scope of the
// batched transform operators. Like vectors, tables are immutable: With and
// Filter return new tables sharing the unchanged columns.
package table

import (
	"fmt"

	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/internal/names"
	"github.com/arloliu/interlace/interlaced"
)

// Table is an ordered collection of named columns of equal length.
type Table struct {
	cols  []interlaced.Column
	index map[string]int
	rows  int
}

// New creates a table from cols. Column names must be unique and every
// column must have the same length.
func New(cols ...interlaced.Column) (*Table, error) {
	tracker := names.NewTracker()
	t := &Table{
		cols:  make([]interlaced.Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, col := range cols {
		if err := tracker.Track(col.Name()); err != nil {
			return nil, err
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d",
				errs.ErrLengthMismatch, col.Name(), col.Len(), t.rows)
		}
		t.index[col.Name()] = i
		t.cols = append(t.cols, col)
	}

	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(cols ...interlaced.Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}

	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.rows
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, col := range t.cols {
		out[i] = col.Name()
	}

	return out
}

// Column returns the column named name.
func (t *Table) Column(name string) (interlaced.Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, name)
	}

	return t.cols[i], nil
}

// ColumnAt returns the i-th column.
func (t *Table) ColumnAt(i int) interlaced.Column {
	return t.cols[i]
}

// Columns returns the columns in order.
func (t *Table) Columns() []interlaced.Column {
	return append([]interlaced.Column(nil), t.cols...)
}

// With returns a table where col replaces the column of the same name, or is
// appended if no such column exists.
func (t *Table) With(col interlaced.Column) (*Table, error) {
	cols := t.Columns()
	if i, ok := t.index[col.Name()]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}

	return New(cols...)
}

// Without returns a table lacking the named columns. Unknown names fail.
func (t *Table) Without(columns ...string) (*Table, error) {
	drop := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		if _, ok := t.index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, name)
		}
		drop[name] = struct{}{}
	}

	cols := make([]interlaced.Column, 0, len(t.cols))
	for _, col := range t.cols {
		if _, ok := drop[col.Name()]; !ok {
			cols = append(cols, col)
		}
	}

	return New(cols...)
}

// Filter keeps the rows where mask is true, in every column.
func (t *Table) Filter(mask []bool) (*Table, error) {
	if len(mask) != t.rows {
		return nil, fmt.Errorf("%w: mask of %d for table of %d rows", errs.ErrLengthMismatch, len(mask), t.rows)
	}

	idx := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			idx = append(idx, i)
		}
	}

	return t.Take(idx)
}

// Take returns the rows at idx, in order, from every column.
func (t *Table) Take(idx []int) (*Table, error) {
	cols := make([]interlaced.Column, len(t.cols))
	for i, col := range t.cols {
		c, err := col.Take(idx)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name(), err)
		}
		cols[i] = c
	}

	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = len(idx)

	return out, nil
}

// Select returns the columns matching pred, in table order.
func (t *Table) Select(pred Predicate) []interlaced.Column {
	var out []interlaced.Column
	for _, col := range t.cols {
		if pred(col) {
			out = append(out, col)
		}
	}

	return out
}
