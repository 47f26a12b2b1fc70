package path

import (
	"strings"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/record"
)

// Fragment is one top-level element of a query: a *Path or a Literal.
type Fragment interface {
	eval(r *record.Record, opts *Options) [][]string
	columns(r *record.Record, opts *Options) [][]string
	width() int
	String() string
}

// Literal is a constant column.
type Literal string

func (l Literal) eval(*record.Record, *Options) [][]string {
	return [][]string{{string(l)}}
}

func (l Literal) columns(*record.Record, *Options) [][]string {
	return [][]string{{string(l)}}
}

func (Literal) width() int { return 1 }

func (l Literal) String() string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(string(l)) + "'"
}

func (p *Path) eval(r *record.Record, opts *Options) [][]string {
	return p.Eval(r, opts)
}

func (p *Path) columns(r *record.Record, opts *Options) [][]string {
	return p.Columns(r, opts)
}

func (p *Path) width() int { return p.Width() }

// Query is an ordered list of fragments.
type Query struct {
	Fragments []Fragment
}

// ParseQuery compiles a comma separated list of paths and quoted
// literals, e.g. "003@.0, 'x', 012A{a, b}".
func ParseQuery(s string) (*Query, error) {
	p := matcher.NewParser(s, "query")
	q := &Query{}
	for {
		p.SkipSpace()
		switch p.Peek() {
		case '\'', '"':
			lit, err := p.ParseString()
			if err != nil {
				return nil, err
			}
			q.Fragments = append(q.Fragments, Literal(lit))
		default:
			path, err := parsePath(p)
			if err != nil {
				return nil, err
			}
			q.Fragments = append(q.Fragments, path)
		}
		p.SkipSpace()
		if !p.Consume(",") {
			break
		}
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return q, nil
}

// MustParseQuery is like ParseQuery but panics on error.
func MustParseQuery(s string) *Query {
	q, err := ParseQuery(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Width returns the number of columns of every row.
func (q *Query) Width() int {
	n := 0
	for _, f := range q.Fragments {
		n += f.width()
	}
	return n
}

func (q *Query) String() string {
	parts := make([]string, len(q.Fragments))
	for i, f := range q.Fragments {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

// Eval evaluates the query against r. The result is the cross product
// of the fragments' rows; with Merge it is a single row in which every
// column joins the values read for that column, without cross products.
// Rows of empty strings are kept.
func (q *Query) Eval(r *record.Record, opts *Options) [][]string {
	opts = orDefault(opts)
	if opts.Merge {
		return [][]string{q.merged(r, opts)}
	}

	rows := [][]string{{}}
	for _, frag := range q.Fragments {
		fragRows := frag.eval(r, opts)

		next := make([][]string, 0, len(rows)*len(fragRows))
		for _, row := range rows {
			for _, fr := range fragRows {
				joined := make([]string, 0, len(row)+len(fr))
				joined = append(joined, row...)
				next = append(next, append(joined, fr...))
			}
		}
		rows = next
	}
	return rows
}

func (q *Query) merged(r *record.Record, opts *Options) []string {
	row := make([]string, 0, q.Width())
	for _, frag := range q.Fragments {
		for _, values := range frag.columns(r, opts) {
			row = append(row, strings.Join(values, opts.Separator))
		}
	}
	return row
}
