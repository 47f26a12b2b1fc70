package format

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/record"
)

// Fragment is a node of a format expression.
//
// This is a sealed interface; the implementations are *Value, *Group and
// *List.
type Fragment interface {
	// eval renders the fragment for one field; ok is false if the
	// fragment produced nothing.
	eval(f *record.Field, opts *Options) (string, bool)
	String() string
}

// Value renders the first subfield whose code is in Codes, surrounded by
// Prefix and Suffix. A missing or empty value renders nothing, including
// the prefix and suffix.
type Value struct {
	Codes  matcher.CodeSet
	Prefix string
	Suffix string
}

func (v *Value) eval(f *record.Field, opts *Options) (string, bool) {
	for _, sf := range f.Subfields() {
		if !v.Codes.Contains(sf.Code()) {
			continue
		}
		value := sf.Value()
		if opts.StripOverreadChar {
			value = strings.Replace(value, "@", "", 1)
		}
		if value == "" {
			return "", false
		}
		return v.Prefix + value + v.Suffix, true
	}
	return "", false
}

func (v *Value) String() string {
	var b strings.Builder
	if v.Prefix != "" {
		b.WriteString(quote(v.Prefix))
		b.WriteByte(' ')
	}
	b.WriteString(v.Codes.String())
	if v.Suffix != "" {
		b.WriteByte(' ')
		b.WriteString(quote(v.Suffix))
	}
	return b.String()
}

// Modifier transforms the assembled string of a group.
type Modifier byte

const (
	Upper    Modifier = 'u'
	Lower    Modifier = 'l'
	RemoveWS Modifier = 'w'
	TrimWS   Modifier = 't'
)

func (m Modifier) apply(s string) string {
	switch m {
	case Upper:
		return cases.Upper(language.Und).String(s)
	case Lower:
		return cases.Lower(language.Und).String(s)
	case RemoveWS:
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	case TrimWS:
		return strings.TrimSpace(s)
	}
	return s
}

func (m Modifier) String() string {
	return "?" + string(m)
}

func isModifier(c byte) bool {
	switch Modifier(c) {
	case Upper, Lower, RemoveWS, TrimWS:
		return true
	}
	return false
}

// Group is a parenthesized fragment with optional modifiers, applied in
// order to the group's output.
type Group struct {
	Modifiers []Modifier
	Inner     Fragment
}

func (g *Group) eval(f *record.Field, opts *Options) (string, bool) {
	s, ok := g.Inner.eval(f, opts)
	if !ok {
		return "", false
	}
	for _, m := range g.Modifiers {
		s = m.apply(s)
	}
	return s, true
}

func (g *Group) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, m := range g.Modifiers {
		b.WriteString(m.String())
		b.WriteByte(' ')
	}
	b.WriteString(g.Inner.String())
	b.WriteByte(')')
	return b.String()
}

// ListOp selects how a List sequences its items.
type ListOp int

const (
	// AndThen concatenates items up to the first one that renders
	// nothing.
	AndThen ListOp = iota
	// Cons concatenates every item that renders something.
	Cons
)

func (op ListOp) String() string {
	if op == AndThen {
		return "<$>"
	}
	return "<*>"
}

// List is a sequence of at least two fragments.
type List struct {
	Op    ListOp
	Items []Fragment
}

func (l *List) eval(f *record.Field, opts *Options) (string, bool) {
	var b strings.Builder
	for _, item := range l.Items {
		s, ok := item.eval(f, opts)
		if !ok {
			if l.Op == AndThen {
				break
			}
			continue
		}
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " "+l.Op.String()+" ")
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`)
	return "'" + r.Replace(s) + "'"
}
