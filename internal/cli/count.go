package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/pica/internal/record"
)

// CountOptions holds flags for the count command.
type CountOptions struct {
	*RootOptions
	SkipInvalid bool
	Records     bool
	Fields      bool
	Subfields   bool
	Jobs        int
}

// CountResult holds the totals over all inputs.
type CountResult struct {
	Records   int `json:"records"`
	Fields    int `json:"fields"`
	Subfields int `json:"subfields"`
	Invalid   int `json:"invalid"`
}

func (c *CountResult) add(o CountResult) {
	c.Records += o.Records
	c.Fields += o.Fields
	c.Subfields += o.Subfields
	c.Invalid += o.Invalid
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count [files...]",
		Short: "Count records, fields and subfields",
		Long: `Count records, fields and subfields. Files are counted concurrently.

Without a selection flag every total is printed. With exactly one of
--records, --fields or --subfields only that number is printed.

Example:
  pica count dump.dat.gz
  pica count --records -s a.dat b.dat`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.SkipInvalid, "skip-invalid", "s", false, "skip lines that are not valid records")
	cmd.Flags().BoolVar(&opts.Records, "records", false, "print only the number of records")
	cmd.Flags().BoolVar(&opts.Fields, "fields", false, "print only the number of fields")
	cmd.Flags().BoolVar(&opts.Subfields, "subfields", false, "print only the number of subfields")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 4, "number of files counted in parallel")
	cmd.MarkFlagsMutuallyExclusive("records", "fields", "subfields")

	return cmd
}

func runCount(opts *CountOptions, args []string, cmd *cobra.Command) error {
	skip := opts.SkipInvalid || opts.config().Global.SkipInvalid
	paths := inputPaths(args)

	total, err := countAll(cmd.Context(), paths, skip, opts.Jobs)
	if err != nil {
		return err
	}
	slog.Debug("count finished", "files", len(paths), "records", total.Records)

	w := cmd.OutOrStdout()
	switch {
	case opts.Records:
		return printCount(opts, w, total.Records)
	case opts.Fields:
		return printCount(opts, w, total.Fields)
	case opts.Subfields:
		return printCount(opts, w, total.Subfields)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: w}
	if opts.Format == "json" {
		return formatter.Success(total)
	}
	fmt.Fprintf(w, "records:   %s\n", humanize.Comma(int64(total.Records)))
	fmt.Fprintf(w, "fields:    %s\n", humanize.Comma(int64(total.Fields)))
	fmt.Fprintf(w, "subfields: %s\n", humanize.Comma(int64(total.Subfields)))
	if total.Invalid > 0 {
		fmt.Fprintf(w, "invalid:   %s\n", humanize.Comma(int64(total.Invalid)))
	}
	return nil
}

func printCount(opts *CountOptions, w io.Writer, n int) error {
	if opts.Format == "json" {
		return (&OutputFormatter{Format: "json", Writer: w}).Success(n)
	}
	_, err := fmt.Fprintln(w, n)
	return err
}

// countAll counts every path in its own goroutine, at most jobs at once.
// Results are summed after all goroutines finish so the totals do not
// depend on scheduling.
func countAll(ctx context.Context, paths []string, skipInvalid bool, jobs int) (CountResult, error) {
	results := make([]CountResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			var c CountResult
			invalid, err := readRecords(ctx, []string{path}, skipInvalid, func(r *record.Record) error {
				c.Records++
				for _, f := range r.Fields() {
					c.Fields++
					c.Subfields += len(f.Subfields())
				}
				return nil
			})
			c.Invalid = invalid
			results[i] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return CountResult{}, err
	}

	var total CountResult
	for _, c := range results {
		total.add(c)
	}
	return total, nil
}
