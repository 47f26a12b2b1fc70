package cli

import (
	"bytes"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/record"
)

// InvalidOptions holds flags for the invalid command.
type InvalidOptions struct {
	*RootOptions
	outputFlags
}

// NewInvalidCommand creates the invalid command.
func NewInvalidCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvalidOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invalid [files...]",
		Short: "Write lines that are not valid records",
		Long: `Write every input line that fails to parse, unchanged.

Example:
  pica invalid dump.dat.gz -o broken.dat`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvalid(opts, args, cmd)
		},
	}

	opts.outputFlags.register(cmd)

	return cmd
}

func runInvalid(opts *InvalidOptions, args []string, cmd *cobra.Command) error {
	w, err := opts.recordWriter(cmd, opts.config())
	if err != nil {
		return err
	}

	found := 0
	err = readRecordsWith(cmd.Context(), inputPaths(args), func(*record.Record) error {
		return nil
	}, func(path string, perr *record.ParseError) error {
		found++
		slog.Debug("invalid record", "path", path, "line", perr.Line, "reason", perr.Reason)
		line := perr.Data
		if !bytes.HasSuffix(line, []byte{'\n'}) {
			line = append(line, '\n')
		}
		return w.WriteRaw(line)
	})
	if closeErr := w.Close(); err == nil && closeErr != nil {
		err = WrapExitError(ExitCommandError, "failed to write output", closeErr)
	}
	slog.Debug("invalid finished", "lines", found)
	return err
}
