package matcher

import (
	"strings"

	"github.com/roach88/pica/internal/record"
)

// CodeSet is a set of subfield codes, e.g. "a", "[abc]", "[a-f]" or "*".
type CodeSet struct {
	bits  [2]uint64
	codes []record.SubfieldCode
}

// NewCodeSet returns a set containing the given codes.
func NewCodeSet(codes ...record.SubfieldCode) CodeSet {
	var s CodeSet
	for _, c := range codes {
		s.add(c)
	}
	return s
}

func (s *CodeSet) add(c record.SubfieldCode) {
	if c >= 128 || s.Contains(c) {
		return
	}
	s.bits[c/64] |= 1 << (c % 64)

	i := len(s.codes)
	for i > 0 && s.codes[i-1] > c {
		i--
	}
	s.codes = append(s.codes, 0)
	copy(s.codes[i+1:], s.codes[i:])
	s.codes[i] = c
}

// Contains reports whether c is in the set.
func (s CodeSet) Contains(c record.SubfieldCode) bool {
	if c >= 128 {
		return false
	}
	return s.bits[c/64]&(1<<(c%64)) != 0
}

// Codes returns the members in ascending order.
func (s CodeSet) Codes() []record.SubfieldCode {
	return s.codes
}

// Len returns the number of codes in the set.
func (s CodeSet) Len() int {
	return len(s.codes)
}

func (s CodeSet) String() string {
	if len(s.codes) == 1 {
		return s.codes[0].String()
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, c := range s.codes {
		b.WriteByte(byte(c))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseCodes parses a subfield code set: a single code, a bracketed list
// of codes and ranges, or '*' for every code.
func (p *Parser) ParseCodes() (CodeSet, error) {
	var s CodeSet
	start := p.pos

	switch c := p.Peek(); {
	case c == '*':
		p.pos++
		for c := byte(0); c < 128; c++ {
			if record.IsValidSubfieldCode(c) {
				s.add(record.SubfieldCode(c))
			}
		}
		return s, nil

	case c == '[':
		p.pos++
		for !p.Consume("]") {
			lo := p.Peek()
			if !record.IsValidSubfieldCode(lo) {
				return s, p.Errorf("invalid subfield code")
			}
			p.pos++
			if p.Peek() == '-' && p.PeekAt(1) != ']' {
				p.pos++
				hi := p.Peek()
				if !record.IsValidSubfieldCode(hi) || hi <= lo {
					return s, p.Errorf("invalid subfield code range")
				}
				p.pos++
				for c := lo; c <= hi; c++ {
					if record.IsValidSubfieldCode(c) {
						s.add(record.SubfieldCode(c))
					}
				}
				continue
			}
			s.add(record.SubfieldCode(lo))
		}
		if s.Len() == 0 {
			return s, p.ErrorAt(start, "empty subfield code list")
		}
		return s, nil

	case record.IsValidSubfieldCode(c):
		p.pos++
		s.add(record.SubfieldCode(c))
		return s, nil
	}

	return s, p.Errorf("expected subfield code")
}
