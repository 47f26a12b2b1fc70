package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/pica/internal/record"
)

// SubfieldMatcher is a predicate over the subfields of one field.
//
// This is a sealed interface; the implementations are the *Matcher types
// of this file.
type SubfieldMatcher interface {
	// MatchesSubfields evaluates the matcher. It never fails.
	MatchesSubfields(subfields []record.Subfield, opts *Options) bool

	// String returns the canonical expression text.
	String() string

	subfieldMatcher()
}

// ParseSubfieldMatcher compiles a subfield matcher expression.
func ParseSubfieldMatcher(s string) (SubfieldMatcher, error) {
	p := NewParser(s, "subfield matcher")
	m, err := p.ParseSubfieldMatcher()
	if err != nil {
		return nil, err
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return m, nil
}

// ExistsMatcher is true if a subfield with one of the codes exists.
type ExistsMatcher struct {
	Codes CodeSet
}

func (*ExistsMatcher) subfieldMatcher() {}

func (m *ExistsMatcher) MatchesSubfields(subfields []record.Subfield, _ *Options) bool {
	for _, sf := range subfields {
		if m.Codes.Contains(sf.Code()) {
			return true
		}
	}
	return false
}

func (m *ExistsMatcher) String() string {
	return m.Codes.String() + "?"
}

// RelationMatcher compares subfield values with one literal or a set of
// literals. Against a set, a positive operator is satisfied if any literal
// satisfies it; a negated operator is satisfied if no literal satisfies
// its positive form.
type RelationMatcher struct {
	Quantifier Quantifier
	Codes      CodeSet
	Op         RelationalOp
	Values     []string

	folded []string
	isSet  bool
}

// NewRelationMatcher builds a relation matcher; op must be a string
// operator.
func NewRelationMatcher(q Quantifier, codes CodeSet, op RelationalOp, values ...string) *RelationMatcher {
	m := &RelationMatcher{Quantifier: q, Codes: codes, Op: op, Values: values, isSet: len(values) != 1}
	m.folded = make([]string, len(values))
	for i, v := range values {
		m.folded[i] = lower(v)
	}
	return m
}

func (*RelationMatcher) subfieldMatcher() {}

func (m *RelationMatcher) MatchesSubfields(subfields []record.Subfield, opts *Options) bool {
	opts = orDefault(opts)
	return quantify(m.Quantifier, m.Codes, subfields, func(v string) bool {
		return m.test(v, opts)
	})
}

func (m *RelationMatcher) test(value string, opts *Options) bool {
	if opts.CaseIgnore {
		value = lower(value)
	}
	op := m.Op.positive()
	hit := false
	for i, lit := range m.Values {
		if opts.CaseIgnore {
			if i < len(m.folded) {
				lit = m.folded[i]
			} else {
				lit = lower(lit)
			}
		}
		if op.compareString(value, lit, opts.StrsimThreshold) {
			hit = true
			break
		}
	}
	if m.Op.isNegated() {
		return !hit
	}
	return hit
}

func (m *RelationMatcher) String() string {
	var b strings.Builder
	if m.Quantifier == All {
		b.WriteString("ALL ")
	}
	b.WriteString(m.Codes.String())
	b.WriteByte(' ')
	b.WriteString(m.Op.String())
	b.WriteByte(' ')
	writeValues(&b, m.Values, m.isSet)
	return b.String()
}

// RegexMatcher matches subfield values against regular expressions. A
// value matches if any of the expressions matches it; Invert negates
// that per value.
type RegexMatcher struct {
	Quantifier Quantifier
	Codes      CodeSet
	Patterns   []string
	Invert     bool

	res    []*regexp.Regexp
	folded []*regexp.Regexp
}

// NewRegexMatcher compiles the patterns in both case sensitive and case
// insensitive form.
func NewRegexMatcher(q Quantifier, codes CodeSet, invert bool, patterns ...string) (*RegexMatcher, error) {
	m := &RegexMatcher{Quantifier: q, Codes: codes, Patterns: patterns, Invert: invert}
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("invalid regular expression %q: %w", pat, err)
		}
		m.res = append(m.res, re)
		m.folded = append(m.folded, regexp.MustCompile("(?i)"+pat))
	}
	return m, nil
}

func (*RegexMatcher) subfieldMatcher() {}

func (m *RegexMatcher) MatchesSubfields(subfields []record.Subfield, opts *Options) bool {
	opts = orDefault(opts)
	res := m.res
	if opts.CaseIgnore {
		res = m.folded
	}
	return quantify(m.Quantifier, m.Codes, subfields, func(v string) bool {
		hit := false
		for _, re := range res {
			if re.MatchString(v) {
				hit = true
				break
			}
		}
		return hit != m.Invert
	})
}

func (m *RegexMatcher) String() string {
	var b strings.Builder
	if m.Quantifier == All {
		b.WriteString("ALL ")
	}
	b.WriteString(m.Codes.String())
	if m.Invert {
		b.WriteString(" !~ ")
	} else {
		b.WriteString(" =~ ")
	}
	writeValues(&b, m.Patterns, len(m.Patterns) != 1)
	return b.String()
}

// CardinalityMatcher compares the number of subfields carrying one of
// the codes with Count.
type CardinalityMatcher struct {
	Codes CodeSet
	Op    RelationalOp
	Count int
}

func (*CardinalityMatcher) subfieldMatcher() {}

func (m *CardinalityMatcher) MatchesSubfields(subfields []record.Subfield, _ *Options) bool {
	n := 0
	for _, sf := range subfields {
		if m.Codes.Contains(sf.Code()) {
			n++
		}
	}
	return m.Op.compareInt(n, m.Count)
}

func (m *CardinalityMatcher) String() string {
	return fmt.Sprintf("#%s %s %d", m.Codes, m.Op, m.Count)
}

// NotMatcher negates its inner matcher.
type NotMatcher struct {
	Inner SubfieldMatcher
}

func (*NotMatcher) subfieldMatcher() {}

func (m *NotMatcher) MatchesSubfields(subfields []record.Subfield, opts *Options) bool {
	return !m.Inner.MatchesSubfields(subfields, opts)
}

func (m *NotMatcher) String() string {
	return "!" + m.Inner.String()
}

// GroupMatcher is a parenthesized matcher.
type GroupMatcher struct {
	Inner SubfieldMatcher
}

func (*GroupMatcher) subfieldMatcher() {}

func (m *GroupMatcher) MatchesSubfields(subfields []record.Subfield, opts *Options) bool {
	return m.Inner.MatchesSubfields(subfields, opts)
}

func (m *GroupMatcher) String() string {
	return "(" + m.Inner.String() + ")"
}

// CompositeMatcher joins two matchers with a boolean operator. && and ||
// short-circuit.
type CompositeMatcher struct {
	Lhs SubfieldMatcher
	Op  BooleanOp
	Rhs SubfieldMatcher
}

func (*CompositeMatcher) subfieldMatcher() {}

func (m *CompositeMatcher) MatchesSubfields(subfields []record.Subfield, opts *Options) bool {
	return m.Op.eval(m.Lhs.MatchesSubfields(subfields, opts), func() bool {
		return m.Rhs.MatchesSubfields(subfields, opts)
	})
}

func (m *CompositeMatcher) String() string {
	return m.Lhs.String() + " " + m.Op.String() + " " + m.Rhs.String()
}

// quantify applies pred to the values of the subfields selected by codes.
func quantify(q Quantifier, codes CodeSet, subfields []record.Subfield, pred func(string) bool) bool {
	if q == Any {
		for _, sf := range subfields {
			if codes.Contains(sf.Code()) && pred(sf.Value()) {
				return true
			}
		}
		return false
	}

	for _, code := range codes.Codes() {
		found := false
		for _, sf := range subfields {
			if sf.Code() == code && pred(sf.Value()) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return codes.Len() > 0
}

func writeValues(b *strings.Builder, values []string, set bool) {
	if !set && len(values) == 1 {
		b.WriteString(quoteString(values[0]))
		return
	}
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteString(v))
	}
	b.WriteByte(']')
}

func quoteString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}
