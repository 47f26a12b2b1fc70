package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/pica/internal/format"
	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/path"
	"github.com/roach88/pica/internal/record"
	"github.com/roach88/pica/internal/testutil"
)

// evaluator renders one record to output lines.
type evaluator func(r *record.Record) []string

// Run executes a scenario and checks its expectations.
//
// Errors in the scenario itself, such as unparsable records, are
// returned. Failed expectations are reported in Result.Errors.
func Run(s *Scenario) (*Result, error) {
	records := make([]*record.Record, 0, len(s.Records))
	for i, src := range s.Records {
		r, err := testutil.ParseDisplay(src)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}

	result := NewResult()

	eval, err := compile(s)
	if s.Error != "" {
		assertCompileError(s.Error, err, result)
		return result, nil
	}
	if err != nil {
		result.AddError(fmt.Sprintf("compile %s %q: %v", s.Kind, s.Expr, err))
		return result, nil
	}

	for _, r := range records {
		result.Output = append(result.Output, eval(r)...)
	}

	if s.Expect != nil {
		for _, e := range assertOutput(s.Expect, result.Output) {
			result.AddError(e.Error())
		}
	}

	return result, nil
}

func compile(s *Scenario) (evaluator, error) {
	switch s.Kind {
	case KindFilter:
		m, err := matcher.ParseRecordMatcher(s.Expr)
		if err != nil {
			return nil, err
		}
		opts := s.Options.matcherOptions()
		return func(r *record.Record) []string {
			return []string{strconv.FormatBool(m.Matches(r, &opts))}
		}, nil

	case KindQuery:
		q, err := path.ParseQuery(s.Expr)
		if err != nil {
			return nil, err
		}
		opts := s.Options.pathOptions()
		return func(r *record.Record) []string {
			rows := q.Eval(r, opts)
			lines := make([]string, len(rows))
			for i, row := range rows {
				lines[i] = strings.Join(row, "\t")
			}
			return lines
		}, nil

	case KindFormat:
		f, err := format.Parse(s.Expr)
		if err != nil {
			return nil, err
		}
		opts := s.Options.formatOptions()
		return func(r *record.Record) []string {
			return f.Eval(r, opts)
		}, nil
	}

	return nil, fmt.Errorf("unknown kind %q", s.Kind)
}
