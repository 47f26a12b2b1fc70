package lint

import (
	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/record"
)

// Filter reports every record matched by a record matcher, or with
// Invert every record not matched.
type Filter struct {
	noPreprocess

	Matcher *matcher.RecordMatcher
	Invert  bool
	Options *matcher.Options
}

func (c *Filter) Check(r *record.Record) (bool, string) {
	return c.Matcher.Matches(r, c.Options) != c.Invert, ""
}
