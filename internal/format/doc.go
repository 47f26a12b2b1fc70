// Package format implements the format language, a small template
// language that renders the subfields of matching fields into strings.
//
//	028A{ a <$> ', ' d <$> ' ' c }
//	021A{ (?u a) ' : ' h | a? }
//
// A value fragment reads the first subfield carrying one of its codes
// and may be wrapped in literal prefix and suffix strings. Fragments are
// sequenced with <$> (stop at the first missing value, keep what was
// produced so far) or with <*> and plain juxtaposition (skip missing
// values). A parenthesized group may start with modifiers:
//
//	?u  upper case
//	?l  lower case
//	?w  remove all whitespace
//	?t  trim leading and trailing whitespace
package format
