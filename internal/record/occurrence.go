package record

import "fmt"

// Occurrence distinguishes repeated fields with the same tag, e.g. the
// "01" in "047A/01". An occurrence has two or three digits.
type Occurrence struct {
	s string
}

// NewOccurrence validates s and returns the corresponding Occurrence.
func NewOccurrence(s string) (Occurrence, error) {
	if !IsValidOccurrence(s) {
		return Occurrence{}, fmt.Errorf("invalid occurrence %q", s)
	}
	return Occurrence{s: s}, nil
}

// MustOccurrence is like NewOccurrence but panics on invalid input.
func MustOccurrence(s string) Occurrence {
	o, err := NewOccurrence(s)
	if err != nil {
		panic(err)
	}
	return o
}

// OccurrenceUnchecked builds an Occurrence without validating s.
func OccurrenceUnchecked(s string) Occurrence {
	return Occurrence{s: s}
}

// IsValidOccurrence reports whether s is two or three ASCII digits.
func IsValidOccurrence(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func (o Occurrence) String() string {
	return o.s
}
