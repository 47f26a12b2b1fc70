package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/path"
	"github.com/roach88/pica/internal/record"
)

// SelectOptions holds flags for the select command.
type SelectOptions struct {
	*RootOptions
	outputFlags
	matchFlags
	Where          string
	Separator      string
	Squash         bool
	Merge          bool
	NoEmptyColumns bool
	Unique         bool
	Header         string
	TSV            bool
	Translit       string
	Limit          int
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "select <query> [files...]",
		Short: "Select subfield values as CSV",
		Long: `Evaluate a query against every record and write one CSV row per
result row. Rows whose columns are all empty are dropped.

Example:
  pica select "003@.0, 012A{a, b | a == 'x'}" dump.dat
  pica select --squash --separator "; " "003@.0, 044H.a" dump.dat
  pica select --tsv -H "ppn,title" "003@.0, 021A.a" dump.dat`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	opts.matchFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Where, "where", "", "only consider records matching this expression")
	cmd.Flags().StringVar(&opts.Separator, "separator", "", "separator for --squash and --merge (default from config, \"|\")")
	cmd.Flags().BoolVar(&opts.Squash, "squash", false, "join repeated values of a column into one value")
	cmd.Flags().BoolVar(&opts.Merge, "merge", false, "join the values of each column into one row per record")
	cmd.Flags().BoolVar(&opts.NoEmptyColumns, "no-empty-columns", false, "drop rows with any empty column")
	cmd.Flags().BoolVarP(&opts.Unique, "unique", "u", false, "drop duplicate rows")
	cmd.Flags().StringVarP(&opts.Header, "header", "H", "", "comma separated column names written as first row")
	cmd.Flags().BoolVar(&opts.TSV, "tsv", false, "write tab separated values")
	cmd.Flags().StringVar(&opts.Translit, "translit", "", "normalize values (nfc|nfd|nfkc|nfkd)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "stop after this many rows (0 means no limit)")

	return cmd
}

// rowWriter writes rows as CSV, TSV or JSON arrays.
type rowWriter struct {
	csv *csv.Writer
	enc *json.Encoder
}

func newRowWriter(w io.Writer, format string, tsv bool) *rowWriter {
	if format == "json" {
		return &rowWriter{enc: json.NewEncoder(w)}
	}
	cw := csv.NewWriter(w)
	if tsv {
		cw.Comma = '\t'
	}
	return &rowWriter{csv: cw}
}

func (rw *rowWriter) Write(row []string) error {
	if rw.enc != nil {
		return rw.enc.Encode(row)
	}
	return rw.csv.Write(row)
}

func (rw *rowWriter) Flush() error {
	if rw.csv == nil {
		return nil
	}
	rw.csv.Flush()
	return rw.csv.Error()
}

// parseHeader splits a --header value and checks it against the query
// width.
func parseHeader(header string, width int) ([]string, error) {
	if header == "" {
		return nil, nil
	}
	cols := strings.Split(header, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	if len(cols) != width {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("header has %d columns, query has %d", len(cols), width))
	}
	return cols, nil
}

// compileWhere parses the optional --where expression.
func compileWhere(expr string) (*matcher.RecordMatcher, error) {
	if expr == "" {
		return nil, nil
	}
	m, err := matcher.ParseRecordMatcher(expr)
	if err != nil {
		return nil, compileError(err)
	}
	return m, nil
}

func keepRow(row []string, noEmptyColumns bool) bool {
	empty := 0
	for _, v := range row {
		if v == "" {
			empty++
		}
	}
	if empty == len(row) {
		return false
	}
	return !noEmptyColumns || empty == 0
}

func runSelect(opts *SelectOptions, query string, args []string, cmd *cobra.Command) error {
	cfg := opts.config()

	q, err := path.ParseQuery(query)
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
	header, err := parseHeader(opts.Header, q.Width())
	if err != nil {
		return err
	}

	popts := &path.Options{
		Options:   mopts,
		Separator: cfg.Select.Separator,
		Squash:    opts.Squash || cfg.Select.Squash,
		Merge:     opts.Merge || cfg.Select.Merge,
	}
	if opts.Separator != "" {
		popts.Separator = opts.Separator
	}

	out, closeOut, err := opts.textWriter(cmd)
	if err != nil {
		return err
	}
	rw := newRowWriter(out, opts.Format, opts.TSV)
	if header != nil {
		if err := rw.Write(header); err != nil {
			closeOut()
			return err
		}
	}

	seen := make(map[string]struct{})
	written := 0
	invalid, err := readRecords(cmd.Context(), inputPaths(args), opts.skipInvalid(cfg), func(r *record.Record) error {
		if where != nil && !where.Matches(r, &mopts) {
			return nil
		}
		for _, row := range q.Eval(r, popts) {
			if !keepRow(row, opts.NoEmptyColumns) {
				continue
			}
			for i := range row {
				row[i] = translit(row[i])
			}
			if opts.Unique {
				key := strings.Join(row, "\x1f")
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			if err := rw.Write(row); err != nil {
				return err
			}
			written++
			if opts.Limit > 0 && written >= opts.Limit {
				return errStop
			}
		}
		return nil
	})
	if flushErr := rw.Flush(); err == nil {
		err = flushErr
	}
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	slog.Debug("select finished", "query", q.String(), "rows", written, "invalid", invalid)
	return err
}
