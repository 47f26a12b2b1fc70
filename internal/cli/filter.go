package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/record"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	outputFlags
	matchFlags
	Invert bool
	Limit  int
	And    []string
	Or     []string
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <expr> [files...]",
		Short: "Write records matching an expression",
		Long: `Write every record that matches the record matcher expression.

Example:
  pica filter "003@.0 == '123456789X'" dump.dat.gz
  pica filter -i "002@.0 =^ 'tp'" --limit 10 dump.dat
  pica filter "012A?" --and "013A?" --invert dump.dat`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args[0], args[1:], cmd)
		},
	}

	opts.outputFlags.register(cmd)
	opts.matchFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.Invert, "invert", false, "write records that do not match")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "stop after this many records (0 means no limit)")
	cmd.Flags().StringArrayVar(&opts.And, "and", nil, "additional expression that must also match (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Or, "or", nil, "alternative expression (repeatable)")

	return cmd
}

// compileFilter parses expr and combines it with the --and and --or
// expressions: (expr && and...) || or...
func compileFilter(expr string, and, or []string) (*matcher.RecordMatcher, error) {
	src := expr
	if len(and) > 0 || len(or) > 0 {
		src = "(" + expr + ")"
		for _, a := range and {
			src += " && (" + a + ")"
		}
		for _, o := range or {
			src += " || (" + o + ")"
		}
	}
	m, err := matcher.ParseRecordMatcher(src)
	if err != nil {
		return nil, compileError(err)
	}
	return m, nil
}

func runFilter(opts *FilterOptions, expr string, args []string, cmd *cobra.Command) error {
	cfg := opts.config()

	m, err := compileFilter(expr, opts.And, opts.Or)
	if err != nil {
		return err
	}
	mopts, err := opts.options(cmd, cfg)
	if err != nil {
		return err
	}

	w, err := opts.recordWriter(cmd, cfg)
	if err != nil {
		return err
	}

	written := 0
	invalid, err := readRecords(cmd.Context(), inputPaths(args), opts.skipInvalid(cfg), func(r *record.Record) error {
		if m.Matches(r, &mopts) == opts.Invert {
			return nil
		}
		if err := w.Write(r); err != nil {
			return err
		}
		written++
		if opts.Limit > 0 && written >= opts.Limit {
			return errStop
		}
		return nil
	})
	if closeErr := w.Close(); err == nil && closeErr != nil {
		err = WrapExitError(ExitCommandError, "failed to write output", closeErr)
	}
	slog.Debug("filter finished", "expr", m.String(), "written", written, "invalid", invalid)
	return err
}
