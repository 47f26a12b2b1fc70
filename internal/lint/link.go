package lint

import (
	"sort"
	"strings"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/path"
	"github.com/roach88/pica/internal/record"
)

// Link checks references between records. Preprocess collects the
// values of Source from every record; Check reports records whose
// Target values are not among them. With a Condition only matching
// records are checked.
type Link struct {
	Source    *path.Path
	Target    *path.Path
	Condition *matcher.RecordMatcher
	Options   *matcher.Options

	seen map[string]struct{}
}

func (c *Link) NeedsPreprocess() bool { return true }

func (c *Link) Preprocess(r *record.Record) {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	for _, v := range c.Source.Values(r, c.Options) {
		c.seen[v] = struct{}{}
	}
}

func (c *Link) Check(r *record.Record) (bool, string) {
	if c.Condition != nil && !c.Condition.Matches(r, c.Options) {
		return false, ""
	}

	missing := make(map[string]struct{})
	for _, v := range c.Target.Values(r, c.Options) {
		if v == "" {
			continue
		}
		if _, ok := c.seen[v]; !ok {
			missing[v] = struct{}{}
		}
	}
	if len(missing) == 0 {
		return false, ""
	}

	values := make([]string, 0, len(missing))
	for v := range missing {
		values = append(values, v)
	}
	sort.Strings(values)
	return true, "unresolved: " + strings.Join(values, ", ")
}

func (c *Link) Finish() (bool, string) {
	c.seen = nil
	return false, ""
}
