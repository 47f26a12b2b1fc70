package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/record"
)

// PrintOptions holds flags for the print command.
type PrintOptions struct {
	*RootOptions
	outputFlags
	SkipInvalid bool
	Limit       int
	Translit    string
}

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "print [files...]",
		Short: "Print records in human readable form",
		Long: `Print records one field per line, subfields introduced by '$'.
Records are separated by an empty line.

Example:
  pica print --limit 1 dump.dat.gz`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVarP(&opts.SkipInvalid, "skip-invalid", "s", false, "skip lines that are not valid records")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "stop after this many records (0 means no limit)")
	cmd.Flags().StringVar(&opts.Translit, "translit", "", "normalize values (nfc|nfd|nfkc|nfkd)")

	return cmd
}

func runPrint(opts *PrintOptions, args []string, cmd *cobra.Command) error {
	translit, err := transliterator(opts.Translit)
	if err != nil {
		return err
	}
	out, closeOut, err := opts.textWriter(cmd)
	if err != nil {
		return err
	}

	printed := 0
	_, err = readRecords(cmd.Context(), inputPaths(args), opts.SkipInvalid || opts.config().Global.SkipInvalid, func(r *record.Record) error {
		if _, err := fmt.Fprintln(out, translit(r.Display())); err != nil {
			return err
		}
		printed++
		if opts.Limit > 0 && printed >= opts.Limit {
			return errStop
		}
		return nil
	})
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	return err
}
