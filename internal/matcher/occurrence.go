package matcher

import "github.com/roach88/pica/internal/record"

type occurrenceKind int

const (
	occurrenceNone occurrenceKind = iota
	occurrenceAny
	occurrenceExact
	occurrenceRange
)

// OccurrenceMatcher matches a field's occurrence.
//
// The zero value is the "none" matcher: it accepts fields without an
// occurrence and fields with the explicit occurrence "00".
type OccurrenceMatcher struct {
	kind     occurrenceKind
	min, max string
}

// AnyOccurrence accepts every field, with or without occurrence.
func AnyOccurrence() OccurrenceMatcher {
	return OccurrenceMatcher{kind: occurrenceAny}
}

// ParseOccurrenceMatcher compiles an occurrence matcher like "/01",
// "/01-03" or "/*". The empty string yields the none matcher.
func ParseOccurrenceMatcher(s string) (OccurrenceMatcher, error) {
	p := NewParser(s, "occurrence matcher")
	m, err := p.ParseOccurrenceMatcher()
	if err != nil {
		return OccurrenceMatcher{}, err
	}
	if err := p.Finish(); err != nil {
		return OccurrenceMatcher{}, err
	}
	return m, nil
}

// Matches reports whether a field with the given occurrence is accepted;
// ok is false if the field has no occurrence.
func (m OccurrenceMatcher) Matches(occ record.Occurrence, ok bool) bool {
	switch m.kind {
	case occurrenceAny:
		return true
	case occurrenceNone:
		return !ok || occ.String() == "00"
	case occurrenceExact:
		return ok && occ.String() == m.min
	case occurrenceRange:
		s := occ.String()
		return ok && len(s) == len(m.min) && s >= m.min && s <= m.max
	}
	return false
}

// MatchesField is a shorthand for Matches(f.Occurrence()).
func (m OccurrenceMatcher) MatchesField(f *record.Field) bool {
	return m.Matches(f.Occurrence())
}

func (m OccurrenceMatcher) String() string {
	switch m.kind {
	case occurrenceAny:
		return "/*"
	case occurrenceExact:
		return "/" + m.min
	case occurrenceRange:
		return "/" + m.min + "-" + m.max
	}
	return ""
}

// ParseOccurrenceMatcher parses an optional occurrence suffix. Without a
// leading '/' nothing is consumed and the none matcher is returned.
func (p *Parser) ParseOccurrenceMatcher() (OccurrenceMatcher, error) {
	if !p.Consume("/") {
		return OccurrenceMatcher{}, nil
	}
	if p.Consume("*") {
		return AnyOccurrence(), nil
	}

	min, err := p.parseOccurrenceDigits()
	if err != nil {
		return OccurrenceMatcher{}, err
	}
	if !p.Consume("-") {
		if min == "00" {
			return OccurrenceMatcher{}, nil
		}
		return OccurrenceMatcher{kind: occurrenceExact, min: min}, nil
	}

	start := p.pos
	max, err := p.parseOccurrenceDigits()
	if err != nil {
		return OccurrenceMatcher{}, err
	}
	if len(min) != len(max) {
		return OccurrenceMatcher{}, p.ErrorAt(start, "occurrence range bounds must have equal length")
	}
	if min >= max {
		return OccurrenceMatcher{}, p.ErrorAt(start, "occurrence range must be ascending")
	}
	return OccurrenceMatcher{kind: occurrenceRange, min: min, max: max}, nil
}

func (p *Parser) parseOccurrenceDigits() (string, error) {
	start := p.pos
	for !p.EOF() && isDigit(p.src[p.pos]) {
		p.pos++
	}
	s := p.src[start:p.pos]
	if !record.IsValidOccurrence(s) {
		p.pos = start
		return "", p.Errorf("invalid occurrence")
	}
	return s, nil
}
