// Package path implements the path and query languages used to extract
// subfield values from records.
//
// A path selects fields by tag and occurrence and reads one or more
// groups of subfield codes from them:
//
//	003@.0
//	012A/*{a, b | c == 'x'}
//	045E{(E, H)}
//
// A query is a comma separated list of paths and quoted literals. It
// evaluates to a table: one column per fragment, one row per combination
// of extracted values.
package path
