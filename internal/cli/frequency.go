package cli

import (
	"log/slog"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/pica/internal/path"
	"github.com/roach88/pica/internal/record"
)

// FrequencyOptions holds flags for the frequency command.
type FrequencyOptions struct {
	*RootOptions
	outputFlags
	matchFlags
	Where     string
	Limit     int
	Threshold int
	Reverse   bool
	Header    string
	TSV       bool
	Translit  string
}

// Frequency is one value and the number of records containing it.
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// NewFrequencyCommand creates the frequency command.
func NewFrequencyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FrequencyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "frequency <path> [files...]",
		Short: "Count how many records contain each value",
		Long: `Count the values of a path. A value is counted at most once per
record. Output is sorted by descending count, ties by value.

Example:
  pica frequency "002@.0" dump.dat
  pica frequency --limit 10 --threshold 5 "044H/*.a" dump.dat`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrequency(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	opts.matchFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Where, "where", "", "only consider records matching this expression")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "write at most this many values (0 means no limit)")
	cmd.Flags().IntVarP(&opts.Threshold, "threshold", "t", 0, "ignore values counted fewer times")
	cmd.Flags().BoolVarP(&opts.Reverse, "reverse", "r", false, "sort by ascending count")
	cmd.Flags().StringVarP(&opts.Header, "header", "H", "", "comma separated column names written as first row")
	cmd.Flags().BoolVar(&opts.TSV, "tsv", false, "write tab separated values")
	cmd.Flags().StringVar(&opts.Translit, "translit", "", "normalize values (nfc|nfd|nfkc|nfkd)")

	return cmd
}

// sortFrequencies orders by count (descending unless reverse), then by
// value.
func sortFrequencies(freqs []Frequency, reverse bool) {
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Count != freqs[j].Count {
			if reverse {
				return freqs[i].Count < freqs[j].Count
			}
			return freqs[i].Count > freqs[j].Count
		}
		return freqs[i].Value < freqs[j].Value
	})
}

func runFrequency(opts *FrequencyOptions, expr string, args []string, cmd *cobra.Command) error {
	cfg := opts.config()

	p, err := path.ParsePath(expr)
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
	header, err := parseHeader(opts.Header, 2)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	invalid, err := readRecords(cmd.Context(), inputPaths(args), opts.skipInvalid(cfg), func(r *record.Record) error {
		if where != nil && !where.Matches(r, &mopts) {
			return nil
		}
		seen := make(map[string]struct{})
		for _, v := range p.Values(r, &mopts) {
			v = translit(v)
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			counts[v]++
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Debug("frequency counted", "path", p.String(), "values", len(counts), "invalid", invalid)

	freqs := make([]Frequency, 0, len(counts))
	for v, n := range counts {
		if n < opts.Threshold {
			continue
		}
		freqs = append(freqs, Frequency{Value: v, Count: n})
	}
	sortFrequencies(freqs, opts.Reverse)
	if opts.Limit > 0 && len(freqs) > opts.Limit {
		freqs = freqs[:opts.Limit]
	}

	out, closeOut, err := opts.textWriter(cmd)
	if err != nil {
		return err
	}
	if opts.Format == "json" {
		err = (&OutputFormatter{Format: "json", Writer: out}).Success(freqs)
	} else {
		err = writeFrequencies(newRowWriter(out, "text", opts.TSV), header, freqs)
	}
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	return err
}

func writeFrequencies(rw *rowWriter, header []string, freqs []Frequency) error {
	if header != nil {
		if err := rw.Write(header); err != nil {
			return err
		}
	}
	for _, f := range freqs {
		if err := rw.Write([]string{f.Value, strconv.Itoa(f.Count)}); err != nil {
			return err
		}
	}
	return rw.Flush()
}
