package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/interlace/reason"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "List columns with their kind, missing count and reasons",
		Long: `Inspect decodes FILE and prints one line per column: its kind, how many
entries are present and missing, and the missing reasons in order of
registration.`,
		Example: `  interlace inspect survey.csv --label skipped=-99 --token REFUSED
  interlace inspect survey.csv.zst --sidecar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, _, err := in.readTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printTitle(w, "%s: %d rows, %d columns", args[0], tbl.NumRows(), tbl.NumCols())

			g := newGrid(
				[]string{"column", "kind", "present", "missing", "na_levels"},
				StyleValue, StyleDim, StyleNumber, StyleMissing, StyleMissing,
			)
			for _, col := range tbl.Columns() {
				missing := col.MissingCount()
				g.add(
					col.Name(),
					col.Kind().String(),
					strconv.Itoa(col.Len()-missing),
					strconv.Itoa(missing),
					joinLevels(col.NALevels()),
				)
			}
			g.render(w)

			return nil
		},
	}
	in.register(cmd)

	return cmd
}

func joinLevels(levels []reason.Key) string {
	if len(levels) == 0 {
		return noValue
	}
	parts := make([]string, len(levels))
	for i, k := range levels {
		parts[i] = k.String()
	}

	return strings.Join(parts, ",")
}
