// Package matcher compiles and evaluates the PICA+ matcher language.
//
// Expressions are compiled once into an immutable AST and then evaluated
// against many records. Compiled matchers hold no mutable state and may be
// shared between goroutines without locking.
//
// # Grammar
//
// Tags and occurrences:
//
//	012A        exact tag
//	0[12].A     pattern; '.' is any legal byte, [..] a list or range
//	/01 /01-03  exact occurrence, occurrence range
//	/*          any occurrence, including none
//	/00, none   no occurrence (or the explicit occurrence 00)
//
// Subfield matchers:
//
//	a?                       existence
//	a == 'x'                 relation (== != =^ !^ =$ !$ =* =?)
//	[ab] == ['x', 'y']       relation against a set of values
//	a in ['x', 'y']          same as == with a set; "not in" negates
//	a =~ '^\d+$'             regular expression (!~ negates)
//	a =~ ['^x', '^y']        regular expression set
//	ALL a =^ 'x'             quantifier (ANY is the default)
//	#a >= 2                  cardinality
//	!(...), &&, ^, ||        boolean algebra, highest to lowest precedence
//
// Record matchers combine field matchers with the same boolean algebra:
//
//	003@?                    field existence
//	012A.a == 'x'            single subfield matcher
//	012A/*{a? && b == 'y'}   subfield matcher expression
//	#012A{a?} > 2            number of matching fields
//
// A field matcher leaf is true if at least one field of the record
// satisfies it.
package matcher
