package cli

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/ops"
	"github.com/arloliu/interlace/reason"
)

const noReason = "(none)"

var allStats = []string{"sum", "mean", "sd", "min", "median", "max"}

func (c *CLI) summarizeCommand() *cobra.Command {
	var (
		in         inputFlags
		column     string
		stats      []string
		skipAbsent bool
	)

	cmd := &cobra.Command{
		Use:   "summarize FILE",
		Short: "Summarize one column, with missing entries broken down by reason",
		Long: `Summarize prints statistics of a numeric column, or value frequencies of
any other column, followed by the number of missing entries per reason.

Statistics are missing when the column has missing entries, unless
--skip-absent is given.`,
		Example: `  interlace summarize survey.csv --column age --label skipped=-99 --skip-absent
  interlace summarize survey.csv --column q1 --schema survey.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var aggs []ops.Stat
			for _, name := range stats {
				s, ok := ops.ParseStat(name)
				if !ok {
					return fmt.Errorf("unknown statistic %q", name)
				}
				aggs = append(aggs, s)
			}

			tbl, _, err := in.readTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			col, err := tbl.Column(column)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			missing := col.MissingCount()
			printTitle(w, "%s (%s): %d present, %d missing", col.Name(), col.Kind(), col.Len()-missing, missing)

			if col.Kind().IsNumeric() {
				var opts []ops.AggOption
				if skipAbsent {
					opts = append(opts, ops.SkipAbsent())
				}
				if err := printStats(w, col, aggs, opts); err != nil {
					return err
				}
			} else {
				printFrequencies(w, col)
			}

			if missing > 0 {
				printReasons(w, col)
			}

			return nil
		},
	}

	in.register(cmd)
	flags := cmd.Flags()
	flags.StringVar(&column, "column", "", "column to summarize")
	flags.StringSliceVar(&stats, "stat", allStats, "statistics to compute: sum, mean, var, sd, min, max, median")
	flags.BoolVar(&skipAbsent, "skip-absent", false, "drop missing entries instead of propagating them")
	_ = cmd.MarkFlagRequired("column")

	return cmd
}

func printStats(w io.Writer, col interlaced.Column, stats []ops.Stat, opts []ops.AggOption) error {
	g := newGrid([]string{"stat", "value"}, StyleDim, StyleNumber)
	for _, s := range stats {
		v, err := ops.Aggregate(s, col, opts...)
		if err != nil {
			return err
		}
		g.add(s.String(), slotText(v))
	}
	g.render(w)

	return nil
}

func slotText(s interlaced.Slot[float64]) string {
	if v, ok := s.Value(); ok {
		return interlaced.FormatNumber(v)
	}

	return noValue
}

type count struct {
	name string
	n    int
}

// sortedCounts orders counts by decreasing n, then by name.
func sortedCounts(m map[string]int) []count {
	out := make([]count, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		out = append(out, count{name: name, n: m[name]})
	}
	slices.SortStableFunc(out, func(a, b count) int {
		return cmp.Compare(b.n, a.n)
	})

	return out
}

func printFrequencies(w io.Writer, col interlaced.Column) {
	freq := make(map[string]int)
	for i := range col.Len() {
		if s, ok := col.Format(i); ok {
			freq[s]++
		}
	}

	g := newGrid([]string{"value", "n"}, StyleValue, StyleNumber)
	for _, c := range sortedCounts(freq) {
		g.add(c.name, strconv.Itoa(c.n))
	}
	g.render(w)
}

// printReasons counts missing entries per reason, in registration order.
func printReasons(w io.Writer, col interlaced.Column) {
	byReason := make(map[reason.Key]int)
	plain := 0
	for i := range col.Len() {
		if !col.IsMissing(i) {
			continue
		}
		k, ok := col.Reason(i)
		if !ok {
			plain++
			continue
		}
		byReason[k]++
	}

	g := newGrid([]string{"reason", "n"}, StyleMissing, StyleNumber)
	for _, k := range col.NALevels() {
		if n := byReason[k]; n > 0 {
			g.add(k.String(), strconv.Itoa(n))
		}
	}
	if plain > 0 {
		g.add(noReason, strconv.Itoa(plain))
	}
	g.render(w)
}
