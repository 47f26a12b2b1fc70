// Package lint runs rule based checks over record streams.
//
// Rules are declared in CUE files:
//
//	rules: "R001": {
//		description: "title is missing"
//		level:       "error"
//		check: {type: "filter", filter: "!021A?"}
//	}
//
// Four check types exist: filter, unique, link and iso639. Link checks
// need to see every record before they can judge one, so the Runner
// reads its input in two passes whenever such a rule is loaded:
//
//  1. Preprocess every record with every rule.
//  2. Check every record with every rule.
//  3. Finish every rule.
package lint
