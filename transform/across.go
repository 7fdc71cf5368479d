package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/errs"
	"github.com/arloliu/interlace/internal/options"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/reason"
	"github.com/arloliu/interlace/table"
)

// ColumnFunc transforms one column.
type ColumnFunc func(ctx context.Context, col interlaced.Column) (interlaced.Column, error)

type acrossConfig struct {
	concurrency int
	logger      *slog.Logger
}

// AcrossOption configures Across.
type AcrossOption = options.Option[*acrossConfig]

// WithConcurrency bounds the number of columns transformed at once.
// n <= 0 means one goroutine per selected column.
func WithConcurrency(n int) AcrossOption {
	return options.NoError(func(c *acrossConfig) {
		c.concurrency = n
	})
}

// WithLogger sets the logger for per-column debug records.
func WithLogger(l *slog.Logger) AcrossOption {
	return options.New(func(c *acrossConfig) error {
		if l == nil {
			return errors.New("nil logger")
		}
		c.logger = l

		return nil
	})
}

// Across applies fn to every column of tbl matching pred and returns a new
// table with the results in place. Column order is preserved.
//
// Columns run concurrently, bounded by WithConcurrency. The first error
// cancels the remaining columns and is returned with the column name. A
// result with a different length or a different absent set fails with
// errs.ErrAbsentChanged.
func Across(ctx context.Context, tbl *table.Table, pred table.Predicate, fn ColumnFunc, opts ...AcrossOption) (*table.Table, error) {
	cfg := &acrossConfig{
		concurrency: 4,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	cols := tbl.Columns()
	out := make([]interlaced.Column, len(cols))
	copy(out, cols)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.concurrency > 0 {
		g.SetLimit(cfg.concurrency)
	}

	selected := 0
	for i, col := range cols {
		if !pred(col) {
			continue
		}
		selected++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := fn(gctx, col)
			if err != nil {
				return fmt.Errorf("column %q: %w", col.Name(), err)
			}
			if err := checkAbsent(col, res); err != nil {
				return err
			}
			out[i] = res
			cfg.logger.Debug("column transformed", "column", col.Name(), "kind", res.Kind().String())

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	cfg.logger.Debug("across done", "selected", selected, "columns", len(cols))

	return table.New(out...)
}

func checkAbsent(before, after interlaced.Column) error {
	if after.Len() != before.Len() || !after.Absent().Equals(before.Absent()) {
		return fmt.Errorf("%w: column %q", errs.ErrAbsentChanged, before.Name())
	}

	return nil
}

// ValuesFunc adapts a value mapping of T to a ColumnFunc. Columns of another
// element type fail with an OperationNotSupportedError.
func ValuesFunc[T interlaced.Element](f func(T) (T, error)) ColumnFunc {
	return func(_ context.Context, col interlaced.Column) (interlaced.Column, error) {
		v, ok := col.(*interlaced.Vector[T])
		if !ok {
			return nil, errs.NewOperationNotSupportedError(
				"map "+interlaced.KindOf[T]().String()+" values", col.Name(), col.Kind())
		}

		out, err := MapValues(v, f)
		if err != nil {
			return nil, err
		}

		return out, nil
	}
}

// ReasonsFunc adapts a reason mapping to a ColumnFunc.
func ReasonsFunc(f func(reason.Key) reason.Key) ColumnFunc {
	return func(_ context.Context, col interlaced.Column) (interlaced.Column, error) {
		return MapReasons(col, f), nil
	}
}

// CollapseCoded narrows coded factor columns to numeric columns of their
// codes and leaves every other column as is.
func CollapseCoded(_ context.Context, col interlaced.Column) (interlaced.Column, error) {
	v, ok := col.(*interlaced.Vector[coded.Value])
	if !ok {
		return col, nil
	}

	return interlaced.AsCodes(v), nil
}

// PromoteCoded turns numeric columns into coded factor columns over codes.
// Other kinds fail with an OperationNotSupportedError.
func PromoteCoded(codes *coded.Codes) ColumnFunc {
	return func(_ context.Context, col interlaced.Column) (interlaced.Column, error) {
		v, ok := col.(*interlaced.Vector[float64])
		if !ok {
			return nil, errs.NewOperationNotSupportedError("promote to coded", col.Name(), col.Kind())
		}

		out, err := interlaced.Promote(v, codes)
		if err != nil {
			return nil, err
		}

		return out, nil
	}
}
