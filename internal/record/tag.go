package record

import "fmt"

// Level is the record level encoded in the first byte of a tag.
type Level int

const (
	// LevelMain covers title data (tags 0xxx).
	LevelMain Level = iota
	// LevelLocal covers local holdings data (tags 1xxx).
	LevelLocal
	// LevelCopy covers copy data (tags 2xxx).
	LevelCopy
)

func (l Level) String() string {
	switch l {
	case LevelMain:
		return "main"
	case LevelLocal:
		return "local"
	case LevelCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Tag identifies the kind of a field, e.g. "003@" or "021A".
//
// The zero Tag is invalid; use NewTag or TagUnchecked.
type Tag struct {
	b [4]byte
}

// NewTag validates s and returns the corresponding Tag.
func NewTag(s string) (Tag, error) {
	if !IsValidTag(s) {
		return Tag{}, fmt.Errorf("invalid tag %q", s)
	}
	return TagUnchecked(s), nil
}

// MustTag is like NewTag but panics on invalid input. Intended for
// constants and tests.
func MustTag(s string) Tag {
	t, err := NewTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TagUnchecked builds a Tag without validating s. s must be exactly four
// bytes long.
func TagUnchecked(s string) Tag {
	var t Tag
	copy(t.b[:], s)
	return t
}

// IsValidTag reports whether s is a valid tag.
func IsValidTag(s string) bool {
	if len(s) != 4 {
		return false
	}
	return isTagByte(0, s[0]) && isTagByte(1, s[1]) && isTagByte(2, s[2]) && isTagByte(3, s[3])
}

// isTagByte reports whether c is legal at tag position pos.
func isTagByte(pos int, c byte) bool {
	switch pos {
	case 0:
		return c >= '0' && c <= '2'
	case 1, 2:
		return isDigit(c)
	case 3:
		return (c >= 'A' && c <= 'Z') || c == '@'
	}
	return false
}

// IsTagByte reports whether c is legal at tag position pos (0..3).
// Tag matchers use it to validate their character classes.
func IsTagByte(pos int, c byte) bool {
	return isTagByte(pos, c)
}

// At returns the byte at position i (0..3).
func (t Tag) At(i int) byte {
	return t.b[i]
}

// Level returns the record level of the tag.
func (t Tag) Level() Level {
	switch t.b[0] {
	case '0':
		return LevelMain
	case '1':
		return LevelLocal
	default:
		return LevelCopy
	}
}

func (t Tag) String() string {
	return string(t.b[:])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
