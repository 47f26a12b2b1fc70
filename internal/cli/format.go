package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/format"
	"github.com/roach88/pica/internal/record"
)

// FormatOptions holds flags for the format command.
type FormatOptions struct {
	*RootOptions
	outputFlags
	matchFlags
	Where        string
	KeepOverread bool
	Translit     string
	Limit        int
}

// NewFormatCommand creates the format command.
func NewFormatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "format <format> [files...]",
		Short: "Render fields with a format expression",
		Long: `Render every field selected by the format expression as one line.

Example:
  pica format "028A{ a <$> ', ' d }" dump.dat
  pica format --where "002@.0 =^ 'Tp'" "028A{ (?u a) <*> ', ' d }" dump.dat`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	opts.matchFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Where, "where", "", "only consider records matching this expression")
	cmd.Flags().BoolVar(&opts.KeepOverread, "keep-overread", false, "keep the '@' sort marker in values")
	cmd.Flags().StringVar(&opts.Translit, "translit", "", "normalize values (nfc|nfd|nfkc|nfkd)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "stop after this many lines (0 means no limit)")

	return cmd
}

func runFormat(opts *FormatOptions, expr string, args []string, cmd *cobra.Command) error {
	cfg := opts.config()

	f, err := format.Parse(expr)
	if err != nil {
		return compileError(err)
	}
	where, err := compileWhere(opts.Where)
	if err != nil {
		return err
	}
	mopts, err := opts.options(cmd, cfg)
	if err != nil {
		return err
	}
	translit, err := transliterator(opts.Translit)
	if err != nil {
		return err
	}
	fopts := &format.Options{
		Options:           mopts,
		StripOverreadChar: cfg.Format.StripOverreadChar && !opts.KeepOverread,
	}

	out, closeOut, err := opts.textWriter(cmd)
	if err != nil {
		return err
	}

	lines := 0
	invalid, err := readRecords(cmd.Context(), inputPaths(args), opts.skipInvalid(cfg), func(r *record.Record) error {
		if where != nil && !where.Matches(r, &mopts) {
			return nil
		}
		for _, s := range f.Eval(r, fopts) {
			if _, err := fmt.Fprintln(out, translit(s)); err != nil {
				return err
			}
			lines++
			if opts.Limit > 0 && lines >= opts.Limit {
				return errStop
			}
		}
		return nil
	})
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	slog.Debug("format finished", "format", f.String(), "lines", lines, "invalid", invalid)
	return err
}
