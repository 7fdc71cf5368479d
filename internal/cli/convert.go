package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/interlace"
	"github.com/arloliu/interlace/compress"
	"github.com/arloliu/interlace/format"
	"github.com/arloliu/interlace/reason"
	"github.com/arloliu/interlace/schema"
	"github.com/arloliu/interlace/table"
	"github.com/arloliu/interlace/tabular"
	"github.com/arloliu/interlace/transform"
)

type convertFlags struct {
	compression  string
	level        string
	sidecar      bool
	codedLabels  bool
	missingToken string
	collapse     string
	columns      []string
	concurrency  int
}

func (c *CLI) convertCommand() *cobra.Command {
	var (
		in  inputFlags
		out convertFlags
	)

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Re-encode a table, optionally compressed, with a sidecar schema",
		Long: `Convert decodes IN and writes it to OUT. Missing reasons are written with
the tokens they were read with. The output is compressed as the extension of
OUT implies (.zst, .s2, .lz4) unless --compression is given.

With --sidecar-out a schema recording every column's kind, code map and
missing reasons is written next to OUT, so that reading OUT with --sidecar
restores the reasons.`,
		Example: `  interlace convert survey.csv survey.csv.zst --label skipped=-99 --sidecar-out
  interlace convert survey.csv clean.csv --collapse missing --columns age,q1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			tbl, s, err := in.readTable(ctx, args[0])
			if err != nil {
				return err
			}

			if out.collapse != "" {
				var pred table.Predicate = table.AnyColumn
				if len(out.columns) > 0 {
					pred = table.Named(out.columns...)
				}
				tbl, err = transform.Across(ctx, tbl, pred,
					transform.ReasonsFunc(transform.Collapse(reason.Label(out.collapse))),
					transform.WithConcurrency(out.concurrency),
					transform.WithLogger(slogger(logger)),
				)
				if err != nil {
					return err
				}
				logger.Debug("collapsed reasons", "into", out.collapse)
			}

			ct := interlace.CompressionFromPath(args[1])
			if out.compression != "" {
				var ok bool
				if ct, ok = format.ParseCompression(out.compression); !ok {
					return fmt.Errorf("unknown compression %q", out.compression)
				}
			}

			level, ok := compress.ParseLevel(out.level)
			if !ok {
				return fmt.Errorf("unknown compression level %q", out.level)
			}

			opts, sideSchema, err := out.encodeOptions(tbl, s, ct)
			if err != nil {
				return err
			}
			opts = append(opts, tabular.WithEncodeLevel(level))
			opts = append(opts, tabular.WithEncodeLogger(slogger(logger)))

			prog := newProgress(logger)
			if err := interlace.WriteFile(args[1], tbl, opts...); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Encoded %d rows to %s", tbl.NumRows(), args[1]))

			w := cmd.OutOrStdout()
			printSuccess(w, "%s %s %s", args[0], iconArrow, args[1])
			printDetail(w, "compression: %s", ct)
			if sideSchema != nil {
				path := interlace.SidecarPath(args[1])
				if err := sideSchema.Save(path); err != nil {
					return err
				}
				printDetail(w, "sidecar: %s", path)
			}

			return nil
		},
	}

	in.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&out.compression, "compression", "c", "", "output compression: none, zstd, s2 or lz4")
	flags.StringVar(&out.level, "level", "", "compression level: fastest, default or best")
	flags.BoolVar(&out.sidecar, "sidecar-out", false, "write a sidecar schema next to OUT")
	flags.BoolVar(&out.codedLabels, "coded-labels", false, "write coded values as labels instead of codes")
	flags.StringVar(&out.missingToken, "missing-token", "", "token for missing entries whose reason has none")
	flags.StringVar(&out.collapse, "collapse", "", "fold every missing reason into this label")
	flags.StringSliceVar(&out.columns, "columns", nil, "columns --collapse applies to (default all)")
	flags.IntVar(&out.concurrency, "concurrency", 4, "columns transformed at once")

	return cmd
}

// encodeOptions builds the output options. With --sidecar-out the options
// come from the sidecar schema describing tbl, which is returned for saving.
func (f *convertFlags) encodeOptions(tbl *table.Table, in *schema.Schema, ct format.CompressionType) ([]tabular.EncodeOption, *schema.Schema, error) {
	s := in
	if f.sidecar {
		tokens, err := in.TokenSet()
		if err != nil {
			return nil, nil, err
		}
		s = schema.FromTable(tbl, tokens)
		s.Delimiter = in.Delimiter
		s.DateLayout = in.DateLayout
		s.Compression = strings.ToLower(ct.String())
	}
	if f.missingToken != "" {
		s.MissingToken = f.missingToken
		if f.sidecar && !slices.Contains(s.Missing.NA, f.missingToken) {
			s.Missing.NA = append(s.Missing.NA, f.missingToken)
		}
	}

	opts, err := s.EncodeOptions()
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, tabular.WithEncodeCompression(ct))
	if f.codedLabels {
		opts = append(opts, tabular.WithCodedLabels())
	}
	if !f.sidecar {
		return opts, nil, nil
	}

	return opts, s, nil
}
