package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/pica/internal/config"
	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/record"
)

// errStop ends a record loop early without reporting an error.
var errStop = errors.New("stop")

// inputPaths returns the input files named on the command line, or stdin.
func inputPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// readRecords calls fn for every record of every path in order.
//
// An invalid line aborts with ExitCommandError unless skipInvalid is set,
// in which case it is logged and counted. fn may return errStop to end
// the loop early.
func readRecords(ctx context.Context, paths []string, skipInvalid bool, fn func(*record.Record) error) (invalid int, err error) {
	err = readRecordsWith(ctx, paths, fn, func(path string, perr *record.ParseError) error {
		if !skipInvalid {
			return WrapExitError(ExitCommandError, fmt.Sprintf("%s: invalid record on line %d", path, perr.Line), perr)
		}
		invalid++
		slog.Debug("skipping invalid record", "path", path, "line", perr.Line, "reason", perr.Reason)
		return nil
	})
	return invalid, err
}

// readRecordsWith is readRecords with a custom handler for invalid lines.
func readRecordsWith(ctx context.Context, paths []string, fn func(*record.Record) error, onInvalid func(string, *record.ParseError) error) error {
	for _, path := range paths {
		err := readFile(ctx, path, fn, onInvalid)
		if errors.Is(err, errStop) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func readFile(ctx context.Context, path string, fn func(*record.Record) error, onInvalid func(string, *record.ParseError) error) error {
	rd, err := record.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer func() {
		if closeErr := rd.Close(); closeErr != nil {
			slog.Warn("error closing input", "path", path, "error", closeErr)
		}
	}()

	slog.Debug("reading records", "path", path)
	return record.ForEach(rd, func(r *record.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(r)
	}, func(perr *record.ParseError) error {
		return onInvalid(path, perr)
	})
}

// outputFlags holds flags shared by commands that write records or lines.
type outputFlags struct {
	Output string
	Gzip   bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&o.Gzip, "gzip", false, "gzip compress the output")
}

// recordWriter opens the record output. Stdout is flushed but never
// closed.
func (o *outputFlags) recordWriter(cmd *cobra.Command, cfg *config.Config) (*record.Writer, error) {
	compress := o.Gzip || cfg.Global.Gzip
	if o.Output == "" || o.Output == "-" {
		return record.NewWriter(struct{ io.Writer }{cmd.OutOrStdout()}, compress), nil
	}
	w, err := record.Create(o.Output, compress)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create output", err)
	}
	return w, nil
}

// textWriter opens a plain text output. The returned close function must
// be called when done.
func (o *outputFlags) textWriter(cmd *cobra.Command) (io.Writer, func() error, error) {
	if o.Output == "" || o.Output == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(o.Output)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to create output", err)
	}
	return f, f.Close, nil
}

// matchFlags holds flags shared by commands that evaluate expressions.
type matchFlags struct {
	SkipInvalid     bool
	CaseIgnore      bool
	StrsimThreshold float64
}

func (m *matchFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&m.SkipInvalid, "skip-invalid", "s", false, "skip lines that are not valid records")
	cmd.Flags().BoolVarP(&m.CaseIgnore, "ignore-case", "i", false, "compare strings case insensitively")
	cmd.Flags().Float64Var(&m.StrsimThreshold, "strsim-threshold", matcher.DefaultStrsimThreshold, "minimum similarity for =* in [0, 1]")
}

// skipInvalid merges the flag with the config file.
func (m *matchFlags) skipInvalid(cfg *config.Config) bool {
	return m.SkipInvalid || cfg.Global.SkipInvalid
}

// options merges the flags with the config file. Flags win.
func (m *matchFlags) options(cmd *cobra.Command, cfg *config.Config) (matcher.Options, error) {
	opts := matcher.Options{
		CaseIgnore:      m.CaseIgnore || cfg.Global.CaseIgnore,
		StrsimThreshold: cfg.Global.StrsimThreshold,
	}
	if cmd.Flags().Changed("strsim-threshold") {
		if m.StrsimThreshold < 0 || m.StrsimThreshold > 1 {
			return opts, NewExitError(ExitCommandError,
				fmt.Sprintf("invalid --strsim-threshold %v: must be in [0, 1]", m.StrsimThreshold))
		}
		opts.StrsimThreshold = m.StrsimThreshold
	}
	return opts, nil
}

// compileError wraps an expression compile failure.
func compileError(err error) error {
	return WrapExitError(ExitCommandError, "invalid expression", err)
}

// transliterator returns the Unicode normalization selected by --translit.
func transliterator(form string) (func(string) string, error) {
	switch form {
	case "":
		return func(s string) string { return s }, nil
	case "nfc":
		return norm.NFC.String, nil
	case "nfd":
		return norm.NFD.String, nil
	case "nfkc":
		return norm.NFKC.String, nil
	case "nfkd":
		return norm.NFKD.String, nil
	}
	return nil, NewExitError(ExitCommandError,
		fmt.Sprintf("invalid --translit %q: must be one of nfc, nfd, nfkc, nfkd", form))
}
