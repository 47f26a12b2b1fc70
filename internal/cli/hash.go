package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/record"
)

// HashOptions holds flags for the hash command.
type HashOptions struct {
	*RootOptions
	outputFlags
	SkipInvalid bool
	TSV         bool
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hash [files...]",
		Short: "Print the SHA-256 digest of each record",
		Long: `Print the PPN and the hex encoded SHA-256 digest of each record's
serialized form. Records without a PPN get an empty first column.

Example:
  pica hash dump.dat.gz
  pica hash --tsv -o hashes.tsv dump.dat`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVarP(&opts.SkipInvalid, "skip-invalid", "s", false, "skip lines that are not valid records")
	cmd.Flags().BoolVar(&opts.TSV, "tsv", false, "write tab separated values")

	return cmd
}

func runHash(opts *HashOptions, args []string, cmd *cobra.Command) error {
	out, closeOut, err := opts.textWriter(cmd)
	if err != nil {
		return err
	}
	rw := newRowWriter(out, opts.Format, opts.TSV)

	if opts.Format != "json" {
		if err := rw.Write([]string{"ppn", "hash"}); err != nil {
			closeOut()
			return err
		}
	}
	_, err = readRecords(cmd.Context(), inputPaths(args), opts.SkipInvalid || opts.config().Global.SkipInvalid, func(r *record.Record) error {
		ppn, _ := r.PPN()
		return rw.Write([]string{ppn, r.Hash()})
	})
	if flushErr := rw.Flush(); err == nil {
		err = flushErr
	}
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	return err
}
