package matcher

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parser is a cursor over expression text. The matcher, path and format
// grammars share it so that their embedded sub-expressions (tags,
// occurrences, subfield codes and subfield matchers) are parsed by the
// same code.
type Parser struct {
	src  string
	pos  int
	kind string
}

// NewParser returns a Parser over src. kind names the expression family
// in error messages.
func NewParser(src, kind string) *Parser {
	return &Parser{src: src, kind: kind}
}

// Pos returns the current byte offset.
func (p *Parser) Pos() int {
	return p.pos
}

// Reset moves the cursor back to pos; used for backtracking.
func (p *Parser) Reset(pos int) {
	p.pos = pos
}

// Source returns the complete input.
func (p *Parser) Source() string {
	return p.src
}

// EOF reports whether the input is exhausted.
func (p *Parser) EOF() bool {
	return p.pos >= len(p.src)
}

// Peek returns the current byte, or 0 at the end of input.
func (p *Parser) Peek() byte {
	return p.PeekAt(0)
}

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (p *Parser) PeekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

// HasPrefix reports whether the remaining input starts with s.
func (p *Parser) HasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

// Consume advances past s if the remaining input starts with it.
func (p *Parser) Consume(s string) bool {
	if p.HasPrefix(s) {
		p.pos += len(s)
		return true
	}
	return false
}

// Expect consumes s or fails.
func (p *Parser) Expect(s string) error {
	if !p.Consume(s) {
		return p.Errorf("expected %q", s)
	}
	return nil
}

// ConsumeKeyword consumes the word kw if it is not directly followed by
// an alphanumeric character.
func (p *Parser) ConsumeKeyword(kw string) bool {
	if !p.HasPrefix(kw) {
		return false
	}
	if next := p.PeekAt(len(kw)); isAlnum(next) {
		return false
	}
	p.pos += len(kw)
	return true
}

// SkipSpace skips ASCII whitespace.
func (p *Parser) SkipSpace() {
	for !p.EOF() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// Errorf builds a CompileError at the current position.
func (p *Parser) Errorf(format string, args ...any) *CompileError {
	return p.ErrorAt(p.pos, format, args...)
}

// ErrorAt builds a CompileError at the given offset.
func (p *Parser) ErrorAt(pos int, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:   p.kind,
		Input:  p.src,
		Offset: pos,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Finish fails unless only whitespace remains.
func (p *Parser) Finish() error {
	p.SkipSpace()
	if !p.EOF() {
		return p.Errorf("unexpected input")
	}
	return nil
}

// ParseString parses a single or double quoted string literal. The
// escapes \\ \' \" \n \t \r and \u{XXXX} are recognized.
func (p *Parser) ParseString() (string, error) {
	quote := p.Peek()
	if quote != '\'' && quote != '"' {
		return "", p.Errorf("expected string literal")
	}
	start := p.pos
	p.pos++

	var b strings.Builder
	for {
		if p.EOF() {
			return "", p.ErrorAt(start, "unterminated string literal")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			p.pos++
			if err := p.parseEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *Parser) parseEscape(b *strings.Builder) error {
	if p.EOF() {
		return p.Errorf("unterminated escape sequence")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\\', '\'', '"', '/':
		b.WriteByte(c)
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'u':
		if !p.Consume("{") {
			return p.Errorf("expected '{' in unicode escape")
		}
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 1 || end > 6 {
			return p.Errorf("invalid unicode escape")
		}
		n, err := strconv.ParseUint(p.src[p.pos:p.pos+end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return p.Errorf("invalid unicode escape")
		}
		b.WriteRune(rune(n))
		p.pos += end + 1
	default:
		return p.ErrorAt(p.pos-2, "unknown escape sequence \\%c", c)
	}
	return nil
}

// ParseStringList parses '[' string (',' string)* ']'.
func (p *Parser) ParseStringList() ([]string, error) {
	if err := p.Expect("["); err != nil {
		return nil, err
	}
	var values []string
	for {
		p.SkipSpace()
		v, err := p.ParseString()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		p.SkipSpace()
		if p.Consume(",") {
			continue
		}
		if err := p.Expect("]"); err != nil {
			return nil, err
		}
		return values, nil
	}
}

// ParseInt parses a non-negative decimal integer.
func (p *Parser) ParseInt() (int, error) {
	start := p.pos
	for !p.EOF() && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return 0, p.Errorf("expected integer")
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, p.ErrorAt(start, "invalid integer")
	}
	return n, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
