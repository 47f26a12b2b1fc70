package path

import (
	"log/slog"
	"strings"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/record"
)

// Path selects subfield values from the fields of a record.
type Path struct {
	Tag        matcher.TagMatcher
	Occurrence matcher.OccurrenceMatcher
	Codes      []matcher.CodeSet
	Filter     matcher.SubfieldMatcher

	src string
}

// ParsePath compiles a path expression like "003@.0" or
// "012A/*{(a, b) | c?}".
func ParsePath(s string) (*Path, error) {
	p := matcher.NewParser(s, "path")
	path, err := parsePath(p)
	if err != nil {
		return nil, err
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return path, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) *Path {
	path, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return path
}

func parsePath(p *matcher.Parser) (*Path, error) {
	p.SkipSpace()
	start := p.Pos()

	tag, err := p.ParseTagMatcher()
	if err != nil {
		return nil, err
	}
	occ, err := p.ParseOccurrenceMatcher()
	if err != nil {
		return nil, err
	}
	path := &Path{Tag: tag, Occurrence: occ}

	if p.Consume(".") {
		codes, err := p.ParseCodes()
		if err != nil {
			return nil, err
		}
		path.Codes = []matcher.CodeSet{codes}
		path.src = p.Source()[start:p.Pos()]
		return path, nil
	}

	p.SkipSpace()
	if err := p.Expect("{"); err != nil {
		return nil, err
	}
	p.SkipSpace()
	paren := p.Consume("(")
	for {
		p.SkipSpace()
		codes, err := p.ParseCodes()
		if err != nil {
			return nil, err
		}
		path.Codes = append(path.Codes, codes)
		p.SkipSpace()
		if !p.Consume(",") {
			break
		}
	}
	if paren {
		if err := p.Expect(")"); err != nil {
			return nil, err
		}
		p.SkipSpace()
	}
	if p.Consume("|") {
		filter, err := p.ParseSubfieldMatcher()
		if err != nil {
			return nil, err
		}
		path.Filter = filter
		p.SkipSpace()
	}
	if err := p.Expect("}"); err != nil {
		return nil, err
	}

	path.src = p.Source()[start:p.Pos()]
	return path, nil
}

// String returns the source expression.
func (p *Path) String() string {
	return p.src
}

// Width returns the number of columns the path produces.
func (p *Path) Width() int {
	return len(p.Codes)
}

// Fields returns the fields of r selected by tag, occurrence and filter.
func (p *Path) Fields(r *record.Record, opts *matcher.Options) []*record.Field {
	var out []*record.Field
	fields := r.Fields()
	for i := range fields {
		f := &fields[i]
		if !p.Tag.Matches(f.Tag()) || !p.Occurrence.MatchesField(f) {
			continue
		}
		if p.Filter != nil && !p.Filter.MatchesSubfields(f.Subfields(), opts) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Values returns every value the path reads from r, in field order,
// without squashing or cross products.
func (p *Path) Values(r *record.Record, opts *matcher.Options) []string {
	var out []string
	for _, f := range p.Fields(r, opts) {
		for _, codes := range p.Codes {
			out = append(out, groupValues(f, codes)...)
		}
	}
	return out
}

// Eval returns the rows produced by the path. Every row has Width()
// columns. A record without matching values yields one row of empty
// strings.
func (p *Path) Eval(r *record.Record, opts *Options) [][]string {
	opts = orDefault(opts)

	var rows [][]string
	for _, f := range p.Fields(r, &opts.Options) {
		columns := make([][]string, len(p.Codes))
		for i, codes := range p.Codes {
			values := groupValues(f, codes)
			switch {
			case len(values) == 0:
				values = []string{""}
			case opts.Squash && len(values) > 1:
				values = []string{squash(values, opts.Separator)}
			}
			columns[i] = values
		}
		rows = append(rows, product(columns)...)
	}

	if len(rows) == 0 {
		rows = [][]string{make([]string, len(p.Codes))}
	}
	return rows
}

// Columns returns, per code group, the values read from all matching
// fields in field order. With Squash the values of one group within one
// field are joined first.
func (p *Path) Columns(r *record.Record, opts *Options) [][]string {
	opts = orDefault(opts)

	columns := make([][]string, len(p.Codes))
	for _, f := range p.Fields(r, &opts.Options) {
		for i, codes := range p.Codes {
			values := groupValues(f, codes)
			if opts.Squash && len(values) > 1 {
				values = []string{squash(values, opts.Separator)}
			}
			columns[i] = append(columns[i], values...)
		}
	}
	return columns
}

func groupValues(f *record.Field, codes matcher.CodeSet) []string {
	var out []string
	for _, sf := range f.Subfields() {
		if codes.Contains(sf.Code()) {
			out = append(out, sf.Value())
		}
	}
	return out
}

func squash(values []string, sep string) string {
	for _, v := range values {
		if sep != "" && strings.Contains(v, sep) {
			slog.Debug("squashed value contains separator", "value", v, "separator", sep)
			break
		}
	}
	return strings.Join(values, sep)
}

// product returns the cartesian product of the columns, varying the last
// column fastest.
func product(columns [][]string) [][]string {
	rows := [][]string{{}}
	for _, col := range columns {
		next := make([][]string, 0, len(rows)*len(col))
		for _, row := range rows {
			for _, v := range col {
				r := make([]string, len(row), len(row)+1)
				copy(r, row)
				next = append(next, append(r, v))
			}
		}
		rows = next
	}
	return rows
}
