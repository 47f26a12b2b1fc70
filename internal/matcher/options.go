package matcher

// DefaultStrsimThreshold is the minimum similarity score for the =*
// operator unless configured otherwise.
const DefaultStrsimThreshold = 0.8

// Options control how string relations are evaluated.
//
// The zero value has a StrsimThreshold of 0, under which every =*
// relation holds. Start from DefaultOptions unless that is intended.
type Options struct {
	// CaseIgnore lower-cases both operands before comparing.
	CaseIgnore bool

	// StrsimThreshold is the minimum similarity in [0, 1] for =*.
	StrsimThreshold float64
}

// DefaultOptions returns case sensitive matching with the default
// similarity threshold.
func DefaultOptions() *Options {
	return &Options{StrsimThreshold: DefaultStrsimThreshold}
}

func orDefault(opts *Options) *Options {
	if opts == nil {
		return DefaultOptions()
	}
	return opts
}
