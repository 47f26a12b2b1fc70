package testutil

import (
	"fmt"
	"strings"

	"github.com/roach88/pica/internal/record"
)

// ParseDisplay builds a record from its human readable form, one field
// per line:
//
//	003@ $0123456789
//	012A/01 $aabc$bdef
//
// "$$" inside a value denotes a literal '$'. Blank lines are ignored.
// Every component is validated, so the result round-trips through the
// binary codec.
func ParseDisplay(s string) (*record.Record, error) {
	var fields []record.Field
	for n, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		f, err := parseDisplayField(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		fields = append(fields, f)
	}
	rec := record.New(fields...)
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// MustRecord is like ParseDisplay but panics on error.
func MustRecord(s string) *record.Record {
	rec, err := ParseDisplay(s)
	if err != nil {
		panic(err)
	}
	return rec
}

// MustField builds a single field from its human readable form.
func MustField(s string) *record.Field {
	f, err := parseDisplayField(strings.TrimSpace(s))
	if err != nil {
		panic(err)
	}
	return &f
}

func parseDisplayField(line string) (record.Field, error) {
	head, rest, _ := strings.Cut(line, " ")

	tagStr, occStr, hasOcc := strings.Cut(head, "/")
	tag, err := record.NewTag(tagStr)
	if err != nil {
		return record.Field{}, err
	}
	var occ *record.Occurrence
	if hasOcc {
		o, err := record.NewOccurrence(occStr)
		if err != nil {
			return record.Field{}, err
		}
		occ = &o
	}

	var subfields []record.Subfield
	for i := 0; i < len(rest); {
		if rest[i] != '$' || i+1 >= len(rest) {
			return record.Field{}, fmt.Errorf("expected '$' followed by a code at %q", rest[i:])
		}
		code := rest[i+1]
		i += 2

		var value strings.Builder
		for i < len(rest) {
			if rest[i] == '$' {
				if i+1 < len(rest) && rest[i+1] == '$' {
					value.WriteByte('$')
					i += 2
					continue
				}
				break
			}
			value.WriteByte(rest[i])
			i++
		}

		sf, err := record.NewSubfield(code, value.String())
		if err != nil {
			return record.Field{}, err
		}
		subfields = append(subfields, sf)
	}
	return record.NewField(tag, occ, subfields...), nil
}
