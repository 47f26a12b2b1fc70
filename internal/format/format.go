package format

import (
	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/record"
)

// Format is a compiled format expression.
type Format struct {
	Tag        matcher.TagMatcher
	Occurrence matcher.OccurrenceMatcher
	Filter     matcher.SubfieldMatcher
	Root       Fragment

	src string
}

// Parse compiles a format expression.
func Parse(s string) (*Format, error) {
	p := matcher.NewParser(s, "format")
	f, err := parseFormat(p)
	if err != nil {
		return nil, err
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	f.src = s
	return f, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Format {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Format) String() string {
	return f.src
}

// Selects reports whether fld is rendered by the format.
func (f *Format) Selects(fld *record.Field, opts *matcher.Options) bool {
	if !f.Tag.Matches(fld.Tag()) || !f.Occurrence.MatchesField(fld) {
		return false
	}
	return f.Filter == nil || f.Filter.MatchesSubfields(fld.Subfields(), opts)
}

// EvalField renders one field. ok is false if the field is not selected
// or the format produced nothing for it.
func (f *Format) EvalField(fld *record.Field, opts *Options) (string, bool) {
	opts = orDefault(opts)
	if !f.Selects(fld, &opts.Options) {
		return "", false
	}
	return f.Root.eval(fld, opts)
}

// Eval renders every selected field of r, in field order. Fields that
// produce nothing are omitted.
func (f *Format) Eval(r *record.Record, opts *Options) []string {
	opts = orDefault(opts)

	var out []string
	fields := r.Fields()
	for i := range fields {
		if s, ok := f.EvalField(&fields[i], opts); ok {
			out = append(out, s)
		}
	}
	return out
}
