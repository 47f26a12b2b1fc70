package lint

import (
	"strings"

	"github.com/roach88/pica/internal/path"
	"github.com/roach88/pica/internal/record"
)

// DefaultUniqueThreshold is the number of equal rows that make a
// duplicate.
const DefaultUniqueThreshold = 2

// Unique reports records in which a query yields the same row at least
// Threshold times. The values of a row are joined with "-"; each
// duplicated row is named once. Rows of empty strings are ignored.
type Unique struct {
	noPreprocess

	Query     *path.Query
	Threshold int
	Options   *path.Options
}

func (c *Unique) Check(r *record.Record) (bool, string) {
	threshold := c.Threshold
	if threshold < 1 {
		threshold = DefaultUniqueThreshold
	}

	counts := make(map[string]int)
	var dups []string
	for _, row := range c.Query.Eval(r, c.Options) {
		if isEmptyRow(row) {
			continue
		}
		key := strings.Join(row, "-")
		counts[key]++
		if counts[key] == threshold {
			dups = append(dups, key)
		}
	}
	if len(dups) == 0 {
		return false, ""
	}
	return true, strings.Join(dups, ", ")
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
