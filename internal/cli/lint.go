package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/lint"
	"github.com/roach88/pica/internal/record"
	"github.com/roach88/pica/internal/store"
)

// LintOptions holds flags for the lint command.
type LintOptions struct {
	*RootOptions
	outputFlags
	SkipInvalid bool
	Rules       string
	Database    string
	Driver      string
	Strict      bool
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lint --rules <rules.cue> [file]",
		Short: "Check records against lint rules",
		Long: `Run the rules of a CUE rule file over the input and write one CSV
row per finding (JSON lines with --format json).

With --db the findings are also stored in a report database that
"pica report" can query later.

Exit codes:
  0 - Rules ran (findings do not fail the command unless --strict)
  1 - Findings reported and --strict set
  2 - Command error (invalid rules, unreadable input, etc.)

Example:
  pica lint --rules rules.cue dump.dat.gz
  pica lint --rules rules.cue --db lint.db --strict dump.dat`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runLint(opts, path, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write findings to file instead of stdout")
	cmd.Flags().BoolVarP(&opts.SkipInvalid, "skip-invalid", "s", false, "skip lines that are not valid records")
	cmd.Flags().StringVar(&opts.Rules, "rules", "", "CUE rule file (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "report database DSN (default from config)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "report database driver: sqlite3, sqlite or pgx (default from config)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit with code 1 if any finding is reported")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

// lintSource opens path once per lint pass. Stdin is buffered on first
// use since it cannot be read twice.
func lintSource(stdin io.Reader, path string) lint.Source {
	if path != "-" {
		return func() (*record.Reader, error) {
			return record.Open(path)
		}
	}
	var data []byte
	var loaded bool
	return func() (*record.Reader, error) {
		if !loaded {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			data, loaded = b, true
		}
		return record.NewReader(bytes.NewReader(data))
	}
}

func runLint(opts *LintOptions, path string, cmd *cobra.Command) error {
	cfg := opts.config()
	ctx := cmd.Context()

	rules, err := lint.LoadRules(opts.Rules)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load rules", err)
	}
	slog.Debug("rules loaded", "file", opts.Rules, "rules", len(rules))

	out, closeOut, err := opts.textWriter(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeOut(); closeErr != nil {
			slog.Error("error closing output", "error", closeErr)
		}
	}()

	var csvSink *lint.CSVSink
	sinks := lint.MultiSink{}
	if opts.Format == "json" {
		sinks = append(sinks, lint.NewJSONSink(out))
	} else {
		csvSink = lint.NewCSVSink(out)
		sinks = append(sinks, csvSink)
	}

	run, closeStore, err := openRun(ctx, opts, cfg.Lint.Driver, cfg.Lint.DSN)
	if err != nil {
		return err
	}
	defer closeStore()
	if run != nil {
		sinks = append(sinks, run)
	}

	runner := &lint.Runner{Rules: rules, SkipInvalid: opts.SkipInvalid || cfg.Global.SkipInvalid}
	summary, err := runner.Run(ctx, lintSource(cmd.InOrStdin(), path), sinks)
	if csvSink != nil {
		if flushErr := csvSink.Flush(); err == nil {
			err = flushErr
		}
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "lint failed", err)
	}

	runID := ""
	if run != nil {
		if err := run.Finish(ctx, summary); err != nil {
			return WrapExitError(ExitCommandError, "failed to store lint run", err)
		}
		runID = run.ID
	}
	slog.Info("lint finished",
		"records", summary.Records,
		"invalid", summary.Invalid,
		"errors", summary.Findings[lint.LevelError],
		"warnings", summary.Findings[lint.LevelWarning],
		"run", runID)

	if opts.Strict && summary.Total() > 0 {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d finding(s)", summary.Total()), lint.ErrFindings)
	}
	return nil
}

// openRun starts a stored run when a DSN is configured. The returned
// close function is always safe to call.
func openRun(ctx context.Context, opts *LintOptions, defDriver, defDSN string) (*store.Run, func(), error) {
	noop := func() {}

	dsn := opts.Database
	if dsn == "" {
		dsn = defDSN
	}
	if dsn == "" {
		return nil, noop, nil
	}
	driver := opts.Driver
	if driver == "" {
		driver = defDriver
	}

	st, err := store.Open(driver, dsn)
	if err != nil {
		return nil, noop, WrapExitError(ExitCommandError, "failed to open report database", err)
	}
	closeStore := func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}

	run, err := st.BeginRun(ctx, opts.Rules)
	if err != nil {
		closeStore()
		return nil, noop, WrapExitError(ExitCommandError, "failed to start lint run", err)
	}
	slog.Debug("lint run started", "run", run.ID, "driver", st.Driver())
	return run, closeStore, nil
}
