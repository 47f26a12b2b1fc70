package matcher

import "github.com/roach88/pica/internal/record"

type byteClass [4]uint64

func (c *byteClass) add(b byte) {
	c[b/64] |= 1 << (b % 64)
}

func (c *byteClass) has(b byte) bool {
	return c[b/64]&(1<<(b%64)) != 0
}

// TagMatcher matches a field's tag, either exactly or against a pattern
// with one byte class per position.
type TagMatcher struct {
	simple  bool
	tag     record.Tag
	classes [4]byteClass
	src     string
}

// NewTagMatcher returns a matcher for exactly the given tag.
func NewTagMatcher(tag record.Tag) TagMatcher {
	return TagMatcher{simple: true, tag: tag, src: tag.String()}
}

// ParseTagMatcher compiles a tag matcher like "012A" or "0[12].@".
func ParseTagMatcher(s string) (TagMatcher, error) {
	p := NewParser(s, "tag matcher")
	m, err := p.ParseTagMatcher()
	if err != nil {
		return TagMatcher{}, err
	}
	if err := p.Finish(); err != nil {
		return TagMatcher{}, err
	}
	return m, nil
}

// IsSimple reports whether the matcher accepts exactly one tag.
func (m TagMatcher) IsSimple() bool {
	return m.simple
}

// Matches reports whether tag is accepted.
func (m TagMatcher) Matches(tag record.Tag) bool {
	if m.simple {
		return m.tag == tag
	}
	for i := 0; i < 4; i++ {
		if !m.classes[i].has(tag.At(i)) {
			return false
		}
	}
	return true
}

func (m TagMatcher) String() string {
	return m.src
}

// ParseTagMatcher parses four tag positions. Each position is a literal
// byte, '.' for every legal byte at that position, or a bracketed list of
// bytes and ranges.
func (p *Parser) ParseTagMatcher() (TagMatcher, error) {
	var m TagMatcher
	start := p.pos
	simple := true
	var literal [4]byte

	for i := 0; i < 4; i++ {
		c := p.Peek()
		switch {
		case c == '.':
			p.pos++
			simple = false
			for b := 0; b < 256; b++ {
				if record.IsTagByte(i, byte(b)) {
					m.classes[i].add(byte(b))
				}
			}

		case c == '[':
			p.pos++
			simple = false
			n := 0
			for !p.Consume("]") {
				lo := p.Peek()
				if !record.IsTagByte(i, lo) {
					return m, p.Errorf("invalid tag character")
				}
				p.pos++
				hi := lo
				if p.Peek() == '-' {
					p.pos++
					hi = p.Peek()
					if !record.IsTagByte(i, hi) || hi <= lo {
						return m, p.Errorf("invalid tag character range")
					}
					p.pos++
				}
				for b := int(lo); b <= int(hi); b++ {
					if record.IsTagByte(i, byte(b)) {
						m.classes[i].add(byte(b))
						n++
					}
				}
			}
			if n == 0 {
				return m, p.Errorf("empty tag character class")
			}

		case c != 0 && record.IsTagByte(i, c):
			p.pos++
			literal[i] = c
			m.classes[i].add(c)

		default:
			return m, p.Errorf("invalid tag")
		}
	}

	m.src = p.src[start:p.pos]
	if simple {
		m.simple = true
		m.tag = record.TagUnchecked(string(literal[:]))
	}
	return m, nil
}
