// Package harness runs conformance scenarios against the expression
// languages.
//
// A scenario pairs a handful of records with one expression and the
// output that expression must produce. Scenarios live in YAML files so
// that new cases can be added without touching Go code.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	kind: query            # filter | query | format
//	expr: "003@.0, 012A.a"
//	options:
//	  squash: true
//	  separator: "|"
//	records:
//	  - |
//	    003@ $0123
//	    012A $as$az
//	expect:
//	  - "123\ts|z"
//
// Records use the display form understood by testutil.ParseDisplay.
//
// # Output
//
// Every kind renders to lines:
//
//   - filter: "true" or "false" per record
//   - query: one line per row, columns joined by a tab
//   - format: one line per formatted field
//
// A scenario either lists the expected lines, names a substring of the
// expected compile error, or sets golden: true to compare against
// testdata/golden/{name}.golden.
package harness
