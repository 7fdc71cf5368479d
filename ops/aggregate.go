package ops

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/interlace/internal/options"
	"github.com/arloliu/interlace/interlaced"
)

// Stat is a summary statistic.
type Stat uint8

const (
	StatSum Stat = iota + 1
	StatMean
	StatVar
	StatSD
	StatMin
	StatMax
	StatMedian
)

func (s Stat) String() string {
	switch s {
	case StatSum:
		return "sum"
	case StatMean:
		return "mean"
	case StatVar:
		return "var"
	case StatSD:
		return "sd"
	case StatMin:
		return "min"
	case StatMax:
		return "max"
	case StatMedian:
		return "median"
	default:
		return fmt.Sprintf("Stat(%d)", uint8(s))
	}
}

// ParseStat resolves a statistic by name.
func ParseStat(name string) (Stat, bool) {
	for s := StatSum; s <= StatMedian; s++ {
		if s.String() == name {
			return s, true
		}
	}

	return 0, false
}

type aggConfig struct {
	skipAbsent bool
}

// AggOption configures an aggregation.
type AggOption = options.Option[*aggConfig]

// SkipAbsent drops absent entries instead of propagating them.
func SkipAbsent() AggOption {
	return options.NoError(func(c *aggConfig) {
		c.skipAbsent = true
	})
}

// Propagate makes any absent entry yield an absent result. This is the default.
func Propagate() AggOption {
	return options.NoError(func(c *aggConfig) {
		c.skipAbsent = false
	})
}

// Sum adds the entries of x.
func Sum(x Operand, opts ...AggOption) (interlaced.Slot[float64], error) {
	return Aggregate(StatSum, x, opts...)
}

// Mean averages the entries of x.
func Mean(x Operand, opts ...AggOption) (interlaced.Slot[float64], error) {
	return Aggregate(StatMean, x, opts...)
}

// Var is the sample variance of x.
func Var(x Operand, opts ...AggOption) (interlaced.Slot[float64], error) {
	return Aggregate(StatVar, x, opts...)
}

// SD is the sample standard deviation of x.
func SD(x Operand, opts ...AggOption) (interlaced.Slot[float64], error) {
	return Aggregate(StatSD, x, opts...)
}

// Min returns the smallest entry of x.
func Min(x Operand, opts ...AggOption) (interlaced.Slot[float64], error) {
	return Aggregate(StatMin, x, opts...)
}

// Max returns the largest entry of x.
func Max(x Operand, opts ...AggOption) (interlaced.Slot[float64], error) {
	return Aggregate(StatMax, x, opts...)
}

// Median returns the middle entry of x, averaging the two middle entries of
// an even count.
func Median(x Operand, opts ...AggOption) (interlaced.Slot[float64], error) {
	return Aggregate(StatMedian, x, opts...)
}

// Aggregate computes stat over x.
//
// By default any absent entry makes the result absent. With SkipAbsent,
// absent entries are dropped first. The sum of no entries is 0; every other
// statistic of too few entries (none, or one for Var and SD) is absent.
// Absent results never carry a reason.
func Aggregate(stat Stat, x Operand, opts ...AggOption) (interlaced.Slot[float64], error) {
	cfg := &aggConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return interlaced.NA[float64](), err
	}

	v, err := numericOf(stat.String(), x)
	if err != nil {
		return interlaced.NA[float64](), err
	}

	values := make([]float64, 0, v.len())
	for i := range v.len() {
		f, ok := v.at(i)
		if !ok {
			if !cfg.skipAbsent {
				return interlaced.NA[float64](), nil
			}
			continue
		}
		values = append(values, f)
	}

	return reduce(stat, values)
}

// Count returns the number of present entries of x, for any kind.
func Count(x Operand) int {
	if col, ok := x.(interlaced.Column); ok {
		return col.Len() - col.MissingCount()
	}

	return x.Len()
}

func reduce(stat Stat, values []float64) (interlaced.Slot[float64], error) {
	n := len(values)
	switch stat {
	case StatSum:
		return interlaced.Present(sum(values)), nil
	case StatMean:
		if n == 0 {
			return interlaced.NA[float64](), nil
		}

		return interlaced.Present(sum(values) / float64(n)), nil
	case StatVar, StatSD:
		if n < 2 {
			return interlaced.NA[float64](), nil
		}
		mean := sum(values) / float64(n)
		var ss float64
		for _, f := range values {
			ss += (f - mean) * (f - mean)
		}
		variance := ss / float64(n-1)
		if stat == StatSD {
			return interlaced.Present(math.Sqrt(variance)), nil
		}

		return interlaced.Present(variance), nil
	case StatMin:
		if n == 0 {
			return interlaced.NA[float64](), nil
		}

		return interlaced.Present(slices.Min(values)), nil
	case StatMax:
		if n == 0 {
			return interlaced.NA[float64](), nil
		}

		return interlaced.Present(slices.Max(values)), nil
	case StatMedian:
		if n == 0 {
			return interlaced.NA[float64](), nil
		}
		sorted := slices.Clone(values)
		slices.Sort(sorted)
		if n%2 == 1 {
			return interlaced.Present(sorted[n/2]), nil
		}

		return interlaced.Present((sorted[n/2-1] + sorted[n/2]) / 2), nil
	default:
		return interlaced.NA[float64](), fmt.Errorf("unknown statistic %s", stat)
	}
}

// sum uses Kahan compensation.
func sum(values []float64) float64 {
	var s, c float64
	for _, f := range values {
		y := f - c
		t := s + y
		c = (t - s) - y
		s = t
	}

	return s
}
