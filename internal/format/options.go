package format

import "github.com/roach88/pica/internal/matcher"

// Options control format evaluation.
type Options struct {
	matcher.Options

	// StripOverreadChar removes the first '@' of a value. The marker
	// flags the start of the sort form in titles and names.
	StripOverreadChar bool
}

// DefaultOptions strips the overread character and matches case
// sensitively.
func DefaultOptions() *Options {
	return &Options{Options: *matcher.DefaultOptions(), StripOverreadChar: true}
}

func orDefault(opts *Options) *Options {
	if opts == nil {
		return DefaultOptions()
	}
	return opts
}
