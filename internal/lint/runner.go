package lint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/pica/internal/record"
)

// Source opens the input. The runner opens it once per pass.
type Source func() (*record.Reader, error)

// Sink receives findings.
type Sink interface {
	Emit(ctx context.Context, f Finding) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f Finding) error

func (fn SinkFunc) Emit(ctx context.Context, f Finding) error {
	return fn(ctx, f)
}

// MultiSink emits every finding to each of its sinks in order.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, f Finding) error {
	for _, s := range m {
		if err := s.Emit(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Summary counts the work of one run.
type Summary struct {
	Records  int
	Invalid  int
	Findings map[Level]int
}

// Total returns the number of findings of all levels.
func (s Summary) Total() int {
	n := 0
	for _, c := range s.Findings {
		n += c
	}
	return n
}

// Runner executes rules over a record source.
type Runner struct {
	Rules []Rule

	// SkipInvalid skips lines that fail to parse instead of aborting.
	SkipInvalid bool
}

// Run executes the preprocess pass (only if a rule needs it), the check
// pass and the finish step, emitting findings to sink.
func (r *Runner) Run(ctx context.Context, open Source, sink Sink) (Summary, error) {
	summary := Summary{Findings: make(map[Level]int)}
	emit := func(f Finding) error {
		summary.Findings[f.Level]++
		return sink.Emit(ctx, f)
	}

	var pre []Check
	for _, rule := range r.Rules {
		if rule.Check.NeedsPreprocess() {
			pre = append(pre, rule.Check)
		}
	}

	if len(pre) > 0 {
		slog.Debug("lint preprocess pass", "rules", len(pre))
		err := r.pass(ctx, open, nil, func(rec *record.Record) error {
			for _, c := range pre {
				c.Preprocess(rec)
			}
			return nil
		})
		if err != nil {
			return summary, fmt.Errorf("preprocess: %w", err)
		}
	}

	err := r.pass(ctx, open, &summary, func(rec *record.Record) error {
		summary.Records++
		ppn, _ := rec.PPN()
		for _, rule := range r.Rules {
			bad, msg := rule.Check.Check(rec)
			if !bad {
				continue
			}
			if err := emit(Finding{PPN: ppn, RuleID: rule.ID, Level: rule.Level, Message: msg}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("check: %w", err)
	}

	for _, rule := range r.Rules {
		if bad, msg := rule.Check.Finish(); bad {
			if err := emit(Finding{RuleID: rule.ID, Level: rule.Level, Message: msg}); err != nil {
				return summary, fmt.Errorf("finish: %w", err)
			}
		}
	}
	return summary, nil
}

func (r *Runner) pass(ctx context.Context, open Source, summary *Summary, fn func(*record.Record) error) error {
	rd, err := open()
	if err != nil {
		return err
	}
	defer rd.Close()

	return record.ForEach(rd, func(rec *record.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(rec)
	}, func(perr *record.ParseError) error {
		if !r.SkipInvalid {
			return perr
		}
		if summary != nil {
			summary.Invalid++
		}
		slog.Debug("skipping invalid record", "line", perr.Line, "reason", perr.Reason)
		return nil
	})
}

// ErrFindings is returned by callers that treat any finding as failure.
var ErrFindings = errors.New("lint findings reported")
