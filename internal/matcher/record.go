package matcher

import (
	"fmt"

	"github.com/roach88/pica/internal/record"
)

// RecordMatcher is a compiled record predicate.
type RecordMatcher struct {
	root RecordNode
	src  string
}

// RecordNode is a node of a record matcher expression.
//
// This is a sealed interface.
type RecordNode interface {
	matchesRecord(r *record.Record, opts *Options) bool
	String() string
}

// FieldNode is true if at least one field satisfies Field.
type FieldNode struct {
	Field *FieldMatcher
}

func (n *FieldNode) matchesRecord(r *record.Record, opts *Options) bool {
	return n.Field.MatchesAny(r, opts)
}

func (n *FieldNode) String() string {
	return n.Field.String()
}

// FieldCardinalityNode compares the number of fields matching tag,
// occurrence and the optional subfield matcher with Count.
type FieldCardinalityNode struct {
	Tag        TagMatcher
	Occurrence OccurrenceMatcher
	Subfields  SubfieldMatcher
	Op         RelationalOp
	Count      int
}

func (n *FieldCardinalityNode) matchesRecord(r *record.Record, opts *Options) bool {
	fm := FieldMatcher{Tag: n.Tag, Occurrence: n.Occurrence, Subfields: n.Subfields}
	count := 0
	fields := r.Fields()
	for i := range fields {
		if fm.Matches(&fields[i], opts) {
			count++
		}
	}
	return n.Op.compareInt(count, n.Count)
}

func (n *FieldCardinalityNode) String() string {
	sub := ""
	if n.Subfields != nil {
		sub = "{" + n.Subfields.String() + "}"
	}
	return fmt.Sprintf("#%s%s%s %s %d", n.Tag, n.Occurrence, sub, n.Op, n.Count)
}

// NotNode negates its inner node.
type NotNode struct {
	Inner RecordNode
}

func (n *NotNode) matchesRecord(r *record.Record, opts *Options) bool {
	return !n.Inner.matchesRecord(r, opts)
}

func (n *NotNode) String() string {
	return "!" + n.Inner.String()
}

// GroupNode is a parenthesized node.
type GroupNode struct {
	Inner RecordNode
}

func (n *GroupNode) matchesRecord(r *record.Record, opts *Options) bool {
	return n.Inner.matchesRecord(r, opts)
}

func (n *GroupNode) String() string {
	return "(" + n.Inner.String() + ")"
}

// CompositeNode joins two nodes with a boolean operator.
type CompositeNode struct {
	Lhs RecordNode
	Op  BooleanOp
	Rhs RecordNode
}

func (n *CompositeNode) matchesRecord(r *record.Record, opts *Options) bool {
	return n.Op.eval(n.Lhs.matchesRecord(r, opts), func() bool {
		return n.Rhs.matchesRecord(r, opts)
	})
}

func (n *CompositeNode) String() string {
	return n.Lhs.String() + " " + n.Op.String() + " " + n.Rhs.String()
}

// NewRecordMatcher wraps a single field matcher.
func NewRecordMatcher(fm *FieldMatcher) *RecordMatcher {
	return &RecordMatcher{root: &FieldNode{Field: fm}, src: fm.String()}
}

// ParseRecordMatcher compiles a record matcher expression.
func ParseRecordMatcher(s string) (*RecordMatcher, error) {
	p := NewParser(s, "record matcher")
	root, err := p.parseRecordOr()
	if err != nil {
		return nil, err
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return &RecordMatcher{root: root, src: s}, nil
}

// MustParseRecordMatcher is like ParseRecordMatcher but panics on error.
func MustParseRecordMatcher(s string) *RecordMatcher {
	m, err := ParseRecordMatcher(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches evaluates the matcher against r. A nil opts means
// DefaultOptions.
func (m *RecordMatcher) Matches(r *record.Record, opts *Options) bool {
	return m.root.matchesRecord(r, orDefault(opts))
}

// Root returns the root node of the expression tree.
func (m *RecordMatcher) Root() RecordNode {
	return m.root
}

// String returns the source expression.
func (m *RecordMatcher) String() string {
	return m.src
}

func (p *Parser) parseRecordOr() (RecordNode, error) {
	lhs, err := p.parseRecordXor()
	if err != nil {
		return nil, err
	}
	for {
		p.SkipSpace()
		if !p.Consume("||") {
			return lhs, nil
		}
		rhs, err := p.parseRecordXor()
		if err != nil {
			return nil, err
		}
		lhs = &CompositeNode{Lhs: lhs, Op: Or, Rhs: rhs}
	}
}

func (p *Parser) parseRecordXor() (RecordNode, error) {
	lhs, err := p.parseRecordAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.SkipSpace()
		if !p.Consume("^") {
			return lhs, nil
		}
		rhs, err := p.parseRecordAnd()
		if err != nil {
			return nil, err
		}
		lhs = &CompositeNode{Lhs: lhs, Op: Xor, Rhs: rhs}
	}
}

func (p *Parser) parseRecordAnd() (RecordNode, error) {
	lhs, err := p.parseRecordUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.SkipSpace()
		if !p.Consume("&&") {
			return lhs, nil
		}
		rhs, err := p.parseRecordUnary()
		if err != nil {
			return nil, err
		}
		lhs = &CompositeNode{Lhs: lhs, Op: And, Rhs: rhs}
	}
}

func (p *Parser) parseRecordUnary() (RecordNode, error) {
	p.SkipSpace()
	if p.Consume("!") {
		inner, err := p.parseRecordUnary()
		if err != nil {
			return nil, err
		}
		return &NotNode{Inner: inner}, nil
	}
	return p.parseRecordPrimary()
}

func (p *Parser) parseRecordPrimary() (RecordNode, error) {
	p.SkipSpace()
	switch p.Peek() {
	case '(':
		p.pos++
		inner, err := p.parseRecordOr()
		if err != nil {
			return nil, err
		}
		p.SkipSpace()
		if err := p.Expect(")"); err != nil {
			return nil, err
		}
		return &GroupNode{Inner: inner}, nil
	case '#':
		return p.parseFieldCardinality()
	}

	fm, err := p.ParseFieldMatcher()
	if err != nil {
		return nil, err
	}
	return &FieldNode{Field: fm}, nil
}

func (p *Parser) parseFieldCardinality() (RecordNode, error) {
	if err := p.Expect("#"); err != nil {
		return nil, err
	}
	p.SkipSpace()
	tag, err := p.ParseTagMatcher()
	if err != nil {
		return nil, err
	}
	occ, err := p.ParseOccurrenceMatcher()
	if err != nil {
		return nil, err
	}
	n := &FieldCardinalityNode{Tag: tag, Occurrence: occ}

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
		n.Subfields = sub
	}

	p.SkipSpace()
	if n.Op, err = p.parseCardinalityOp(); err != nil {
		return nil, err
	}
	p.SkipSpace()
	if n.Count, err = p.ParseInt(); err != nil {
		return nil, err
	}
	return n, nil
}
