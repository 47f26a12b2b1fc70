package matcher

import (
	"strings"

	"github.com/roach88/pica/internal/record"
)

// FieldMatcher matches one field by tag, occurrence and, optionally, its
// subfields. Without a subfield matcher it is an existence check.
type FieldMatcher struct {
	Tag        TagMatcher
	Occurrence OccurrenceMatcher
	Subfields  SubfieldMatcher

	singleton bool
}

// ParseFieldMatcher compiles a field matcher like "012A?",
// "012A/*.a == 'x'" or "012A{a? && b?}".
func ParseFieldMatcher(s string) (*FieldMatcher, error) {
	p := NewParser(s, "field matcher")
	m, err := p.ParseFieldMatcher()
	if err != nil {
		return nil, err
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return m, nil
}

// Matches reports whether f satisfies the matcher.
func (m *FieldMatcher) Matches(f *record.Field, opts *Options) bool {
	if !m.Tag.Matches(f.Tag()) || !m.Occurrence.MatchesField(f) {
		return false
	}
	if m.Subfields == nil {
		return true
	}
	return m.Subfields.MatchesSubfields(f.Subfields(), opts)
}

// MatchesAny reports whether at least one field of r satisfies the
// matcher.
func (m *FieldMatcher) MatchesAny(r *record.Record, opts *Options) bool {
	fields := r.Fields()
	for i := range fields {
		if m.Matches(&fields[i], opts) {
			return true
		}
	}
	return false
}

func (m *FieldMatcher) String() string {
	var b strings.Builder
	b.WriteString(m.Tag.String())
	b.WriteString(m.Occurrence.String())
	switch {
	case m.Subfields == nil:
		b.WriteByte('?')
	case m.singleton:
		b.WriteByte('.')
		b.WriteString(m.Subfields.String())
	default:
		b.WriteByte('{')
		b.WriteString(m.Subfields.String())
		b.WriteByte('}')
	}
	return b.String()
}

// ParseFieldMatcher parses tag, occurrence and one of '?', '.' followed
// by a singleton subfield matcher, or a braced subfield matcher.
func (p *Parser) ParseFieldMatcher() (*FieldMatcher, error) {
	tag, err := p.ParseTagMatcher()
	if err != nil {
		return nil, err
	}
	occ, err := p.ParseOccurrenceMatcher()
	if err != nil {
		return nil, err
	}
	m := &FieldMatcher{Tag: tag, Occurrence: occ}

	if p.Consume("?") {
		return m, nil
	}
	if p.Consume(".") {
		sub, err := p.ParseSubfieldSingleton()
		if err != nil {
			return nil, err
		}
		m.Subfields = sub
		m.singleton = true
		return m, nil
	}

	p.SkipSpace()
	if p.Consume("{") {
		sub, err := p.ParseSubfieldMatcher()
		if err != nil {
			return nil, err
		}
		p.SkipSpace()
		if err := p.Expect("}"); err != nil {
			return nil, err
		}
		m.Subfields = sub
		return m, nil
	}
	return nil, p.Errorf("expected '?', '.' or '{' after tag")
}
