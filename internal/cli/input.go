package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/interlace"
	"github.com/arloliu/interlace/schema"
	"github.com/arloliu/interlace/table"
	"github.com/arloliu/interlace/tabular"
)

// inputFlags are the decode flags shared by every command reading a table.
type inputFlags struct {
	schema  string
	sidecar bool
	na      []string
	tokens  []string
	labels  []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.schema, "schema", "s", "", "schema file (YAML or TOML) describing the input")
	flags.BoolVar(&f.sidecar, "sidecar", false, "read the schema written next to the input by convert --sidecar")
	flags.StringSliceVar(&f.na, "na", nil, "extra plain NA tokens")
	flags.StringSliceVar(&f.tokens, "token", nil, "missing tokens that are their own reason, e.g. REFUSED or -98")
	flags.StringSliceVar(&f.labels, "label", nil, "labelled missing tokens as label=token, e.g. skipped=-99")
}

// load resolves the schema for path from the flags. Token flags extend the
// schema's missing section.
func (f *inputFlags) load(path string) (*schema.Schema, error) {
	s := &schema.Schema{}
	switch {
	case f.schema != "" && f.sidecar:
		return nil, errors.New("--schema and --sidecar are mutually exclusive")
	case f.schema != "":
		loaded, err := schema.Load(f.schema)
		if err != nil {
			return nil, err
		}
		s = loaded
	case f.sidecar:
		loaded, err := schema.Load(interlace.SidecarPath(path))
		if err != nil {
			return nil, err
		}
		s = loaded
	}

	if len(f.na) > 0 {
		if s.Missing.NA == nil {
			s.Missing.NA = []string{"", "NA"}
		}
		s.Missing.NA = append(s.Missing.NA, f.na...)
	}
	s.Missing.Tokens = append(s.Missing.Tokens, f.tokens...)
	for _, pair := range f.labels {
		label, token, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("--label %q: want label=token", pair)
		}
		s.Missing.Labels = append(s.Missing.Labels, schema.Label{Label: label, Token: token})
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// readTable decodes path as described by the flags and returns the table
// with its schema.
func (f *inputFlags) readTable(ctx context.Context, path string) (*table.Table, *schema.Schema, error) {
	logger := loggerFromContext(ctx)

	s, err := f.load(path)
	if err != nil {
		return nil, nil, err
	}
	opts, err := s.DecodeOptions()
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, tabular.WithLogger(slogger(logger)))

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	prog := newProgress(logger)
	tbl, err := tabular.Decode(file, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Decoded %d rows × %d columns from %s", tbl.NumRows(), tbl.NumCols(), path))

	return tbl, s, nil
}
