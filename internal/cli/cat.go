package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/record"
)

// CatOptions holds flags for the cat command.
type CatOptions struct {
	*RootOptions
	outputFlags
	SkipInvalid bool
	Unique      bool
}

// NewCatCommand creates the cat command.
func NewCatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cat [files...]",
		Short: "Concatenate records",
		Long: `Concatenate records from multiple files into one stream.

Example:
  pica cat a.dat b.dat.gz -o all.dat
  pica cat --unique --skip-invalid dump.dat.gz`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(opts, args, cmd)
		},
	}

	opts.outputFlags.register(cmd)
	cmd.Flags().BoolVarP(&opts.SkipInvalid, "skip-invalid", "s", false, "skip lines that are not valid records")
	cmd.Flags().BoolVarP(&opts.Unique, "unique", "u", false, "write only the first record of each PPN")

	return cmd
}

func runCat(opts *CatOptions, args []string, cmd *cobra.Command) error {
	cfg := opts.config()

	w, err := opts.recordWriter(cmd, cfg)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{})
	written := 0
	invalid, err := readRecords(cmd.Context(), inputPaths(args), opts.SkipInvalid || cfg.Global.SkipInvalid, func(r *record.Record) error {
		if opts.Unique {
			if ppn, ok := r.PPN(); ok {
				if _, dup := seen[ppn]; dup {
					return nil
				}
				seen[ppn] = struct{}{}
			}
		}
		written++
		return w.Write(r)
	})
	if closeErr := w.Close(); err == nil && closeErr != nil {
		err = WrapExitError(ExitCommandError, "failed to write output", closeErr)
	}
	slog.Debug("cat finished", "written", written, "invalid", invalid)
	return err
}
