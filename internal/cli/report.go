package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/lint"
	"github.com/roach88/pica/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	Driver   string
	Summary  bool
}

// RunReport is the JSON payload for a single run.
type RunReport struct {
	Run      store.RunInfo  `json:"run"`
	ByRule   map[string]int `json:"by_rule"`
	Findings []lint.Finding `json:"findings,omitempty"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Query stored lint runs",
		Long: `Without arguments, list all runs stored in the report database.
With a run ID, print that run's findings.

Example:
  pica report --db lint.db
  pica report --db lint.db 0190f4c2-... --summary`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "report database DSN (default from config)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "report database driver: sqlite3, sqlite or pgx (default from config)")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "print only the number of findings per rule")

	return cmd
}

func runReport(opts *ReportOptions, args []string, cmd *cobra.Command) error {
	cfg := opts.config()
	ctx := cmd.Context()

	dsn, driver := opts.Database, opts.Driver
	if dsn == "" {
		dsn = cfg.Lint.DSN
	}
	if driver == "" {
		driver = cfg.Lint.Driver
	}
	if dsn == "" {
		return NewExitError(ExitCommandError, "no report database: set --db or lint.dsn in the config file")
	}

	st, err := store.Open(driver, dsn)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open report database", err)
	}
	defer st.Close()

	runs, err := st.Runs(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	w := cmd.OutOrStdout()
	formatter := &OutputFormatter{Format: opts.Format, Writer: w}

	if len(args) == 0 {
		if opts.Format == "json" {
			return formatter.Success(runs)
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tRULES\tSTARTED\tRECORDS\tINVALID\tFINDINGS")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n", r.ID, r.Rules, r.StartedAt, r.Records, r.Invalid, r.Findings)
		}
		return tw.Flush()
	}

	var info *store.RunInfo
	for i := range runs {
		if runs[i].ID == args[0] {
			info = &runs[i]
			break
		}
	}
	if info == nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", args[0]))
	}

	byRule, err := st.CountByRule(ctx, info.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count findings", err)
	}

	var findings []lint.Finding
	if !opts.Summary {
		findings, err = st.Findings(ctx, info.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read findings", err)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(RunReport{Run: *info, ByRule: byRule, Findings: findings})
	}

	if opts.Summary {
		rules := make([]string, 0, len(byRule))
		for rule := range byRule {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RULE\tFINDINGS")
		for _, rule := range rules {
			fmt.Fprintf(tw, "%s\t%d\n", rule, byRule[rule])
		}
		return tw.Flush()
	}

	sink := lint.NewCSVSink(w)
	for _, f := range findings {
		if err := sink.Emit(ctx, f); err != nil {
			return err
		}
	}
	return sink.Flush()
}
