package path

import "github.com/roach88/pica/internal/matcher"

// DefaultSeparator joins squashed and merged values.
const DefaultSeparator = "|"

// Options control query evaluation.
type Options struct {
	matcher.Options

	// Separator joins repeated values of one group (Squash) or the rows
	// of one column (Merge).
	Separator string

	// Squash joins the repeated values of a code group into one value
	// instead of producing one row per value.
	Squash bool

	// Merge collapses every column into a single value, so the query
	// yields exactly one row.
	Merge bool
}

// DefaultOptions returns case sensitive matching, the default similarity
// threshold and the "|" separator, without squashing or merging.
func DefaultOptions() *Options {
	return &Options{Options: *matcher.DefaultOptions(), Separator: DefaultSeparator}
}

func orDefault(opts *Options) *Options {
	if opts == nil {
		return DefaultOptions()
	}
	return opts
}
