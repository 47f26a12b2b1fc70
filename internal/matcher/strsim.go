package matcher

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// similarity returns the normalized Levenshtein similarity of a and b in
// [0, 1], where 1 means equal.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
