package matcher

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RelationalOp compares a subfield value (or a count) with a literal.
type RelationalOp int

const (
	OpEq            RelationalOp = iota // ==
	OpNe                                // !=
	OpStartsWith                        // =^
	OpStartsNotWith                     // !^
	OpEndsWith                          // =$
	OpEndsNotWith                       // !$
	OpSimilar                           // =*
	OpContains                          // =?
	OpGt                                // >
	OpGe                                // >=
	OpLt                                // <
	OpLe                                // <=
)

// relationalTokens is ordered so that longer tokens are tried first.
var relationalTokens = []struct {
	tok string
	op  RelationalOp
}{
	{"==", OpEq},
	{"!=", OpNe},
	{"=^", OpStartsWith},
	{"!^", OpStartsNotWith},
	{"=$", OpEndsWith},
	{"!$", OpEndsNotWith},
	{"=*", OpSimilar},
	{"=?", OpContains},
	{">=", OpGe},
	{">", OpGt},
	{"<=", OpLe},
	{"<", OpLt},
}

func (op RelationalOp) String() string {
	for _, t := range relationalTokens {
		if t.op == op {
			return t.tok
		}
	}
	return "?"
}

// IsStringOp reports whether op may compare string values.
func (op RelationalOp) IsStringOp() bool {
	return op <= OpContains
}

// IsCardinalityOp reports whether op may compare counts.
func (op RelationalOp) IsCardinalityOp() bool {
	return op == OpEq || op == OpNe || op >= OpGt
}

// isNegated reports whether op is the negation of another operator.
func (op RelationalOp) isNegated() bool {
	return op == OpNe || op == OpStartsNotWith || op == OpEndsNotWith
}

// positive returns the non-negated form of op.
func (op RelationalOp) positive() RelationalOp {
	switch op {
	case OpNe:
		return OpEq
	case OpStartsNotWith:
		return OpStartsWith
	case OpEndsNotWith:
		return OpEndsWith
	}
	return op
}

// compareInt applies a cardinality operator.
func (op RelationalOp) compareInt(lhs, rhs int) bool {
	switch op {
	case OpEq:
		return lhs == rhs
	case OpNe:
		return lhs != rhs
	case OpGt:
		return lhs > rhs
	case OpGe:
		return lhs >= rhs
	case OpLt:
		return lhs < rhs
	case OpLe:
		return lhs <= rhs
	}
	return false
}

// compareString applies a positive string operator. Both operands are
// already case-normalized by the caller.
func (op RelationalOp) compareString(value, literal string, threshold float64) bool {
	switch op {
	case OpEq:
		return value == literal
	case OpStartsWith:
		return strings.HasPrefix(value, literal)
	case OpEndsWith:
		return strings.HasSuffix(value, literal)
	case OpContains:
		return strings.Contains(value, literal)
	case OpSimilar:
		return similarity(value, literal) >= threshold
	}
	return false
}

// parseRelationalOp consumes a relational operator token.
func (p *Parser) parseRelationalOp() (RelationalOp, bool) {
	for _, t := range relationalTokens {
		if p.Consume(t.tok) {
			return t.op, true
		}
	}
	return 0, false
}

// parseCardinalityOp consumes a comparison operator valid for counts.
func (p *Parser) parseCardinalityOp() (RelationalOp, error) {
	start := p.pos
	op, ok := p.parseRelationalOp()
	if !ok || !op.IsCardinalityOp() {
		p.pos = start
		return 0, p.Errorf("expected comparison operator (==, !=, >, >=, <, <=)")
	}
	return op, nil
}

// BooleanOp connects two matchers.
type BooleanOp int

const (
	And BooleanOp = iota // &&
	Xor                  // ^
	Or                   // ||
)

func (op BooleanOp) String() string {
	switch op {
	case And:
		return "&&"
	case Xor:
		return "^"
	case Or:
		return "||"
	}
	return "?"
}

func (op BooleanOp) eval(lhs bool, rhs func() bool) bool {
	switch op {
	case And:
		return lhs && rhs()
	case Or:
		return lhs || rhs()
	case Xor:
		return lhs != rhs()
	}
	return false
}

// Quantifier selects existential or universal evaluation of a relation
// over a set of subfield codes.
type Quantifier int

const (
	// Any is satisfied by one subfield of the set.
	Any Quantifier = iota
	// All needs, for every code of the set, one satisfying subfield.
	All
)

func (q Quantifier) String() string {
	if q == All {
		return "ALL"
	}
	return "ANY"
}

// lower folds s for case insensitive comparison. ASCII input takes the
// fast path; other input goes through a Unicode aware caser, which is
// created per call since a Caser must not be shared between goroutines.
func lower(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return cases.Lower(language.Und).String(s)
		}
	}
	return strings.ToLower(s)
}
