package lint

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/path"
)

//go:embed schema.cue
var ruleSchema string

// RuleError reports an invalid rule file or rule.
type RuleError struct {
	Rule    string
	Message string
	Pos     token.Pos
}

func (e *RuleError) Error() string {
	msg := e.Message
	if e.Rule != "" {
		msg = fmt.Sprintf("rule %q: %s", e.Rule, e.Message)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

// IsRuleError returns true if err is (or wraps) a *RuleError.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

type ruleSpec struct {
	Description     string    `json:"description"`
	Level           string    `json:"level"`
	CaseIgnore      bool      `json:"case_ignore"`
	StrsimThreshold float64   `json:"strsim_threshold"`
	Check           checkSpec `json:"check"`
}

type checkSpec struct {
	Type      string `json:"type"`
	Filter    string `json:"filter"`
	Invert    bool   `json:"invert"`
	Query     string `json:"query"`
	Threshold int    `json:"threshold"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Condition string `json:"condition"`
	Path      string `json:"path"`
}

// LoadRules reads and compiles a CUE rule file.
func LoadRules(filename string) ([]Rule, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(filename, src)
}

// ParseRules compiles CUE rule source. The source is unified with the
// rule schema, so defaults are filled in and unknown fields rejected.
// Rules are returned sorted by ID.
func ParseRules(filename string, src []byte) ([]Rule, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(ruleSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile rule schema: %w", err)
	}

	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := v.LookupPath(cue.ParsePath("rules")).Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []Rule
	for iter.Next() {
		id := iter.Label()
		var spec ruleSpec
		if err := iter.Value().Decode(&spec); err != nil {
			return nil, formatCUEError(err)
		}

		rule, err := buildRule(id, spec)
		if err != nil {
			return nil, &RuleError{
				Rule:    id,
				Message: err.Error(),
				Pos:     iter.Value().LookupPath(cue.ParsePath("check")).Pos(),
			}
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return nil, &RuleError{Message: "no rules defined", Pos: file.Pos()}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, nil
}

func buildRule(id string, spec ruleSpec) (Rule, error) {
	level, err := ParseLevel(spec.Level)
	if err != nil {
		return Rule{}, err
	}
	opts := &matcher.Options{CaseIgnore: spec.CaseIgnore, StrsimThreshold: spec.StrsimThreshold}

	var check Check
	switch c := spec.Check; c.Type {
	case "filter":
		m, err := matcher.ParseRecordMatcher(c.Filter)
		if err != nil {
			return Rule{}, err
		}
		check = &Filter{Matcher: m, Invert: c.Invert, Options: opts}

	case "unique":
		q, err := path.ParseQuery(c.Query)
		if err != nil {
			return Rule{}, err
		}
		check = &Unique{
			Query:     q,
			Threshold: c.Threshold,
			Options:   &path.Options{Options: *opts, Separator: path.DefaultSeparator},
		}

	case "link":
		source, err := path.ParsePath(c.Source)
		if err != nil {
			return Rule{}, err
		}
		target, err := path.ParsePath(c.Target)
		if err != nil {
			return Rule{}, err
		}
		link := &Link{Source: source, Target: target, Options: opts}
		if c.Condition != "" {
			if link.Condition, err = matcher.ParseRecordMatcher(c.Condition); err != nil {
				return Rule{}, err
			}
		}
		check = link

	case "iso639":
		p, err := path.ParsePath(c.Path)
		if err != nil {
			return Rule{}, err
		}
		check = &ISO639{Path: p, Options: opts}

	default:
		return Rule{}, fmt.Errorf("unknown check type %q", c.Type)
	}

	return Rule{ID: id, Description: spec.Description, Level: level, Check: check}, nil
}

// formatCUEError keeps the first CUE error with its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	rerr := &RuleError{Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		rerr.Pos = positions[0]
	}
	return rerr
}
